package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrOrderItemsRequired — в заказе нет ни одной позиции.
	ErrOrderItemsRequired = errors.New("order must contain at least one item")
	// ErrOrderItemQtyInvalid — количество позиции <= 0.
	ErrOrderItemQtyInvalid = errors.New("order item qty must be greater than zero")
	// ErrOrderSubtotalMismatch — subtotal не совпадает с суммой позиций.
	ErrOrderSubtotalMismatch = errors.New("order subtotal does not match items sum")
	// ErrOrderTotalMismatch — total != subtotal - discount + tax.
	ErrOrderTotalMismatch = errors.New("order total does not match subtotal - discount + tax")
)

// ShippingInfo — структурированные данные доставки из формы оформления.
type ShippingInfo struct {
	Name    string
	Address string
	Phone   string
}

// Normalize обрезает пробелы по краям всех полей.
func (s ShippingInfo) Normalize() ShippingInfo {
	return ShippingInfo{
		Name:    strings.TrimSpace(s.Name),
		Address: strings.TrimSpace(s.Address),
		Phone:   strings.TrimSpace(s.Phone),
	}
}

// Validate проверяет, что все три поля непусты после обрезки пробелов.
func (s ShippingInfo) Validate() error {
	n := s.Normalize()
	if n.Name == "" || n.Address == "" || n.Phone == "" {
		return ErrIncompleteShipping
	}
	return nil
}

// OrderItem — позиция заказа, скопированная по значению в момент подтверждения.
type OrderItem struct {
	ProductID int
	Name      string
	UnitPrice int64
	Quantity  int
}

// LineTotal возвращает стоимость позиции.
func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Order — неизменяемый снимок оформленного заказа для счёта.
type Order struct {
	ID              string
	Date            time.Time
	ShippingName    string
	ShippingAddress string
	ShippingPhone   string
	Items           []OrderItem
	Subtotal        int64
	Discount        int64
	Tax             int64
	Total           int64
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if len(o.Items) == 0 {
		errs = append(errs, ErrOrderItemsRequired)
	}

	var calc int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrOrderItemQtyInvalid)
		}
		calc += item.LineTotal()
	}
	if calc != o.Subtotal {
		errs = append(errs, ErrOrderSubtotalMismatch)
	}
	if o.Total != o.Subtotal-o.Discount+o.Tax {
		errs = append(errs, ErrOrderTotalMismatch)
	}

	return errs
}
