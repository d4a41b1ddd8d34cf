// Package pricing считает финансовую сводку корзины: строки, скидку, налог и итог.
package pricing

import (
	"math"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

const (
	// DiscountThreshold — подытог, строго выше которого применяется скидка.
	DiscountThreshold int64 = 100000
	// DiscountPercent — размер скидки в процентах.
	DiscountPercent int64 = 5
	// TaxPerMille — налог в промилле (12.5%) от подытога после скидки.
	TaxPerMille int64 = 125

	// MaxSubtotal — наибольший подытог, для которого скидка и налог считаются без переполнения.
	MaxSubtotal = (math.MaxInt64 - 500) / 1000
)

// FailureRecorder считает расчёты, упавшие на отсутствующем товаре или переполнении.
type FailureRecorder interface {
	RecordPricingFailure()
}

// ComputeBreakdown рассчитывает сводку по корзине. Функция чистая: одинаковые
// корзина и каталог всегда дают одинаковый результат.
// Если товар позиции не найден, возвращается *domain.MissingProductError,
// если строка или подытог больше MaxSubtotal, возвращается *domain.AmountOverflowError.
func ComputeBreakdown(cart domain.Cart, lookup domain.CatalogLookup) (domain.PricingBreakdown, error) {
	lines := make([]domain.PricingLine, 0, len(cart))

	var subtotal int64
	for _, entry := range cart {
		product, ok := lookup.Lookup(entry.ProductID)
		if !ok {
			return domain.PricingBreakdown{}, &domain.MissingProductError{ProductID: entry.ProductID}
		}

		qty := int64(entry.Quantity)
		if qty > 0 && product.Price > MaxSubtotal/qty {
			return domain.PricingBreakdown{}, &domain.AmountOverflowError{ProductID: entry.ProductID, Quantity: entry.Quantity}
		}
		lineTotal := product.Price * qty
		if subtotal > MaxSubtotal-lineTotal {
			return domain.PricingBreakdown{}, &domain.AmountOverflowError{ProductID: entry.ProductID, Quantity: entry.Quantity}
		}
		subtotal += lineTotal
		lines = append(lines, domain.PricingLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  entry.Quantity,
			LineTotal: lineTotal,
		})
	}

	discount := Discount(subtotal)
	tax := Tax(subtotal - discount)

	return domain.PricingBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
		Lines:    lines,
	}, nil
}

// Discount возвращает 5% от подытога (округление половины вверх),
// если подытог строго больше порога, иначе 0.
func Discount(subtotal int64) int64 {
	if subtotal <= DiscountThreshold {
		return 0
	}
	return roundDiv(subtotal*DiscountPercent, 100)
}

// Tax возвращает 12.5% от суммы с округлением половины вверх.
func Tax(amount int64) int64 {
	return roundDiv(amount*TaxPerMille, 1000)
}

// roundDiv делит неотрицательное число с округлением половины вверх.
func roundDiv(value, divisor int64) int64 {
	return (value + divisor/2) / divisor
}

// Engine связывает расчёт с конкретным каталогом.
type Engine struct {
	lookup   domain.CatalogLookup
	failures FailureRecorder
}

// NewEngine создаёт Engine. failures может быть nil.
func NewEngine(lookup domain.CatalogLookup, failures FailureRecorder) *Engine {
	return &Engine{lookup: lookup, failures: failures}
}

// Compute рассчитывает сводку по корзине через каталог Engine.
func (e *Engine) Compute(cart domain.Cart) (domain.PricingBreakdown, error) {
	breakdown, err := ComputeBreakdown(cart, e.lookup)
	if err != nil && e.failures != nil {
		e.failures.RecordPricingFailure()
	}
	return breakdown, err
}

// Lookup отдаёт товар из каталога Engine.
func (e *Engine) Lookup(id int) (domain.Product, bool) {
	return e.lookup.Lookup(id)
}
