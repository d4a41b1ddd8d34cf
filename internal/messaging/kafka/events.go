package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeOrderConfirmed EventType = "order.confirmed"
)

// Topics для Kafka
const (
	TopicOrderEvents = "partshop.order.events"
)

// HeaderEventType дублирует тип события в заголовке сообщения.
const HeaderEventType = "x-event-type"


// OrderEventItem — позиция заказа внутри события.
type OrderEventItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"qty"`
}

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventID   string           `json:"event_id"`
	EventType EventType        `json:"event_type"`
	OrderID   string           `json:"order_id"`
	Customer  string           `json:"customer"`
	Items     []OrderEventItem `json:"items"`
	Subtotal  int64            `json:"subtotal"`
	Discount  int64            `json:"discount"`
	Tax       int64            `json:"tax"`
	Total     int64            `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewOrderConfirmedEvent собирает событие order.confirmed из подтверждённого заказа.
func NewOrderConfirmedEvent(order domain.Order) *OrderEvent {
	items := make([]OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderEventItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return &OrderEvent{
		EventID:   uuid.NewString(),
		EventType: EventTypeOrderConfirmed,
		OrderID:   order.ID,
		Customer:  order.ShippingName,
		Items:     items,
		Subtotal:  order.Subtotal,
		Discount:  order.Discount,
		Tax:       order.Tax,
		Total:     order.Total,
		Timestamp: order.Date.UTC(),
	}
}
