package slots

import (
	"time"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

type orderItemRecord struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

type orderRecord struct {
	ID       string            `json:"id"`
	Date     time.Time         `json:"date"`
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	Phone    string            `json:"phone"`
	Items    []orderItemRecord `json:"items"`
	Subtotal int64             `json:"subtotal"`
	Discount int64             `json:"discount"`
	Tax      int64             `json:"tax"`
	Total    int64             `json:"total"`
}

type orderRepository struct {
	store domain.SlotStore
}

// NewOrderRepository возвращает репозиторий единственного слота lastOrder.
func NewOrderRepository(store domain.SlotStore) domain.OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) LoadLast() (domain.Order, bool, error) {
	var rec orderRecord
	found, err := load(r.store, KeyLastOrder, &rec)
	if err != nil || !found {
		return domain.Order{}, false, err
	}

	order := domain.Order{
		ID:              rec.ID,
		Date:            rec.Date,
		ShippingName:    rec.Name,
		ShippingAddress: rec.Address,
		ShippingPhone:   rec.Phone,
		Items:           make([]domain.OrderItem, 0, len(rec.Items)),
		Subtotal:        rec.Subtotal,
		Discount:        rec.Discount,
		Tax:             rec.Tax,
		Total:           rec.Total,
	}
	for _, item := range rec.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Qty,
		})
	}
	return order, true, nil
}

func (r *orderRepository) SaveLast(order domain.Order) error {
	rec := orderRecord{
		ID:       order.ID,
		Date:     order.Date.UTC(),
		Name:     order.ShippingName,
		Address:  order.ShippingAddress,
		Phone:    order.ShippingPhone,
		Items:    make([]orderItemRecord, 0, len(order.Items)),
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Tax:      order.Tax,
		Total:    order.Total,
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ID:    item.ProductID,
			Name:  item.Name,
			Price: item.UnitPrice,
			Qty:   item.Quantity,
		})
	}
	return save(r.store, KeyLastOrder, rec)
}

func (r *orderRepository) DeleteLast() error {
	return remove(r.store, KeyLastOrder)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
