package catalog

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

const (
	minPrice   = 3500
	priceRange = 30000
)

// PriceFunc назначает цену товару при сборке каталога.
type PriceFunc func() int64

// RandomPrices возвращает генератор цен 3500..33499 с детерминированным seed.
func RandomPrices(seed uint64) PriceFunc {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() int64 {
		return minPrice + rng.Int64N(priceRange)
	}
}

// FixedPrice назначает всем товарам одну цену (для тестов и демо).
func FixedPrice(price int64) PriceFunc {
	return func() int64 { return price }
}

// Catalog — статический набор товаров, собранный один раз при старте.
// После Build не меняется, поэтому безопасен для конкурентного чтения.
type Catalog struct {
	taxonomy Taxonomy
	years    []int
	products []domain.Product
	byID     map[int]int
}

// Build перемножает таксономию на годы и присваивает ID начиная с 1.
func Build(taxonomy Taxonomy, years []int, prices PriceFunc) *Catalog {
	if prices == nil {
		prices = RandomPrices(1)
	}

	c := &Catalog{
		taxonomy: taxonomy,
		years:    append([]int(nil), years...),
		byID:     make(map[int]int),
	}

	id := 1
	for _, brand := range taxonomy {
		for _, model := range brand.Models {
			for _, part := range model.Parts {
				for _, year := range years {
					c.byID[id] = len(c.products)
					c.products = append(c.products, domain.Product{
						ID:    id,
						Brand: brand.Name,
						Model: model.Name,
						Part:  part,
						Year:  year,
						Name:  domain.ProductName(brand.Name, model.Name, part, year),
						Price: prices(),
						Image: ImageFor(part),
					})
					id++
				}
			}
		}
	}

	return c
}

// NewDefault собирает каталог магазина с заданным seed цен.
func NewDefault(seed uint64) *Catalog {
	return Build(DefaultTaxonomy(), DefaultYears(), RandomPrices(seed))
}

// Lookup возвращает товар по ID.
func (c *Catalog) Lookup(id int) (domain.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[idx], true
}

// Get возвращает товар или ErrProductNotFound.
func (c *Catalog) Get(id int) (domain.Product, error) {
	p, ok := c.Lookup(id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// Len возвращает количество товаров.
func (c *Catalog) Len() int {
	return len(c.products)
}

// List возвращает копию всех товаров в порядке ID.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Filter — условия витрины; пустые поля не ограничивают выборку.
type Filter struct {
	Brand string
	Model string
	Part  string
	// Year — строка, как значение из выпадающего списка; "" означает любой год.
	Year  string
	Query string
}

// Filter возвращает товары, подходящие под все заданные условия.
// Query ищется без учёта регистра в названии, марке, модели и запчасти.
func (c *Catalog) Filter(f Filter) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0)
	for _, p := range c.products {
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if f.Model != "" && p.Model != f.Model {
			continue
		}
		if f.Part != "" && p.Part != f.Part {
			continue
		}
		if f.Year != "" && strconv.Itoa(p.Year) != f.Year {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p domain.Product, query string) bool {
	for _, field := range []string{p.Name, p.Brand, p.Model, p.Part} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Brands возвращает марки в порядке таксономии.
func (c *Catalog) Brands() []string {
	out := make([]string, 0, len(c.taxonomy))
	for _, b := range c.taxonomy {
		out = append(out, b.Name)
	}
	return out
}

// Models возвращает модели марки; для пустой или неизвестной марки список пуст.
func (c *Catalog) Models(brand string) []string {
	out := make([]string, 0)
	for _, b := range c.taxonomy {
		if b.Name != brand {
			continue
		}
		for _, m := range b.Models {
			out = append(out, m.Name)
		}
	}
	return out
}

// Parts возвращает запчасти модели; требует и марку, и модель.
func (c *Catalog) Parts(brand, model string) []string {
	out := make([]string, 0)
	if brand == "" || model == "" {
		return out
	}
	for _, b := range c.taxonomy {
		if b.Name != brand {
			continue
		}
		for _, m := range b.Models {
			if m.Name == model {
				out = append(out, m.Parts...)
			}
		}
	}
	return out
}

// Years возвращает доступные модельные годы.
func (c *Catalog) Years() []int {
	return append([]int(nil), c.years...)
}

var _ domain.CatalogLookup = (*Catalog)(nil)
