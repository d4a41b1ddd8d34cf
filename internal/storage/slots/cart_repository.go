package slots

import "github.com/vladislavdragonenkov/partshop/internal/domain"

type cartRecord struct {
	ID  int `json:"id"`
	Qty int `json:"qty"`
}

type cartRepository struct {
	store domain.SlotStore
}

// NewCartRepository возвращает репозиторий корзины поверх слота cps_cart_v1.
func NewCartRepository(store domain.SlotStore) domain.CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Load() (domain.Cart, error) {
	var records []cartRecord
	if _, err := load(r.store, KeyCart, &records); err != nil {
		return nil, err
	}

	cart := make(domain.Cart, 0, len(records))
	for _, rec := range records {
		cart = append(cart, domain.CartEntry{ProductID: rec.ID, Quantity: rec.Qty})
	}
	return cart, nil
}

func (r *cartRepository) Save(cart domain.Cart) error {
	records := make([]cartRecord, 0, len(cart))
	for _, entry := range cart {
		records = append(records, cartRecord{ID: entry.ProductID, Qty: entry.Quantity})
	}
	return save(r.store, KeyCart, records)
}

var _ domain.CartRepository = (*cartRepository)(nil)
