// Package invoice читает и печатает последний оформленный заказ.
package invoice

import (
	"fmt"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// Reader отдаёт последний подтверждённый заказ.
type Reader struct {
	orders domain.OrderRepository
}

// NewReader создаёт Reader.
func NewReader(orders domain.OrderRepository) *Reader {
	return &Reader{orders: orders}
}

// GetLast возвращает (order, true, nil), если заказ есть, и (zero, false, nil), если нет.
func (r *Reader) GetLast() (domain.Order, bool, error) {
	order, found, err := r.orders.LoadLast()
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("load last order: %w", err)
	}
	return order, found, nil
}
