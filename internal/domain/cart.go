package domain

// CartEntry — позиция корзины: ссылка на товар и количество (>= 1).
type CartEntry struct {
	ProductID int
	Quantity  int
}

// Cart — упорядоченный список позиций в порядке первого добавления.
// На один ProductID приходится не более одной позиции.
type Cart []CartEntry

// Find возвращает индекс позиции товара или -1.
func (c Cart) Find(productID int) int {
	for i, entry := range c {
		if entry.ProductID == productID {
			return i
		}
	}
	return -1
}

// Count возвращает суммарное количество единиц в корзине.
func (c Cart) Count() int {
	var count int
	for _, entry := range c {
		count += entry.Quantity
	}
	return count
}

// Clone возвращает независимую копию корзины.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// PricingLine — расчёт одной позиции корзины.
type PricingLine struct {
	ProductID int
	Name      string
	UnitPrice int64
	Quantity  int
	LineTotal int64
}

// PricingBreakdown — производная финансовая сводка по корзине, не сохраняется.
type PricingBreakdown struct {
	Subtotal int64
	Discount int64
	Tax      int64
	Total    int64
	Lines    []PricingLine
}
