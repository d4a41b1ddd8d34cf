// Package checkout превращает корзину в подтверждённый заказ.
package checkout

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
	"github.com/vladislavdragonenkov/partshop/internal/metrics"
	"github.com/vladislavdragonenkov/partshop/internal/service/cart"
)

// OrderIDPrefix — префикс номера счёта.
const OrderIDPrefix = "INV"

// Pricer считает сводку по корзине.
type Pricer interface {
	Compute(cart domain.Cart) (domain.PricingBreakdown, error)
}

// Metrics — метрики оформления заказа (реализуется metrics.ShopMetrics).
type Metrics interface {
	RecordCheckoutConfirmed(total int64, duration time.Duration)
	RecordCheckoutRejected(reason string)
	RecordEventPublished(ok bool)
}

// Recorder подтверждает заказ: сохраняет его как последний и очищает корзину.
type Recorder struct {
	cart      *cart.Store
	orders    domain.OrderRepository
	pricer    Pricer
	now       func() time.Time
	publisher domain.OrderEventPublisher
	metrics   Metrics
	logger    *log.Entry
}

// Option настраивает Recorder.
type Option func(*Recorder)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithPublisher включает публикацию order.confirmed.
func WithPublisher(publisher domain.OrderEventPublisher) Option {
	return func(r *Recorder) {
		r.publisher = publisher
	}
}

// WithMetrics подключает метрики.
func WithMetrics(m Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder создаёт Recorder.
func NewRecorder(cartStore *cart.Store, orders domain.OrderRepository, pricer Pricer, options ...Option) *Recorder {
	r := &Recorder{
		cart:   cartStore,
		orders: orders,
		pricer: pricer,
		now:    time.Now,
	}
	for _, option := range options {
		option(r)
	}
	if r.logger == nil {
		r.logger = log.WithField("component", "checkout")
	}
	return r
}

// Confirm оформляет заказ по текущей корзине.
//
// Порядок проверок: пустая корзина (domain.ErrEmptyCart), затем данные доставки
// (domain.ErrIncompleteShipping). Заказ сохраняется до очистки корзины; если очистка
// не удалась, прежний последний заказ восстанавливается. При ошибке состояние не меняется.
func (r *Recorder) Confirm(shipping domain.ShippingInfo) (domain.Order, error) {
	started := time.Now()

	var (
		order       domain.Order
		previous    domain.Order
		hadPrevious bool
		stored      bool
	)

	err := r.cart.Drain(func(snapshot domain.Cart) error {
		if len(snapshot) == 0 {
			return domain.ErrEmptyCart
		}
		if err := shipping.Validate(); err != nil {
			return err
		}

		breakdown, err := r.pricer.Compute(snapshot)
		if err != nil {
			return fmt.Errorf("compute breakdown: %w", err)
		}

		order = buildOrder(shipping.Normalize(), breakdown, r.now())

		previous, hadPrevious, err = r.orders.LoadLast()
		switch {
		case errors.Is(err, domain.ErrSlotCorrupt):
			// испорченный слот будет перезаписан; при откате он удаляется
			r.logger.WithError(err).Warn("last order slot is corrupt, overwriting")
			hadPrevious = false
		case err != nil:
			return fmt.Errorf("load last order: %w", err)
		}
		if err := r.orders.SaveLast(order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		stored = true
		return nil
	})
	if err != nil {
		if stored {
			r.restore(previous, hadPrevious)
		}
		r.reject(err)
		return domain.Order{}, err
	}

	if r.metrics != nil {
		r.metrics.RecordCheckoutConfirmed(order.Total, time.Since(started))
	}
	r.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.Total,
	}).Info("order confirmed")

	r.publish(order)
	return order, nil
}

// buildOrder копирует имена и цены позиций по значению.
func buildOrder(shipping domain.ShippingInfo, breakdown domain.PricingBreakdown, now time.Time) domain.Order {
	items := make([]domain.OrderItem, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	return domain.Order{
		ID:              OrderIDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		Date:            now,
		ShippingName:    shipping.Name,
		ShippingAddress: shipping.Address,
		ShippingPhone:   shipping.Phone,
		Items:           items,
		Subtotal:        breakdown.Subtotal,
		Discount:        breakdown.Discount,
		Tax:             breakdown.Tax,
		Total:           breakdown.Total,
	}
}

// restore возвращает слот последнего заказа в состояние до Confirm.
func (r *Recorder) restore(previous domain.Order, hadPrevious bool) {
	var err error
	if hadPrevious {
		err = r.orders.SaveLast(previous)
	} else {
		err = r.orders.DeleteLast()
	}
	if err != nil {
		r.logger.WithError(err).Error("failed to restore last order after cart clear failure")
		return
	}
	r.logger.Warn("cart clear failed, last order restored")
}

func (r *Recorder) reject(err error) {
	reason := metrics.RejectStorage
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		reason = metrics.RejectEmptyCart
	case errors.Is(err, domain.ErrIncompleteShipping):
		reason = metrics.RejectIncompleteShipping
	case errors.Is(err, domain.ErrMissingProduct):
		reason = metrics.RejectMissingProduct
	case errors.Is(err, domain.ErrAmountOverflow):
		reason = metrics.RejectAmountOverflow
	}

	if r.metrics != nil {
		r.metrics.RecordCheckoutRejected(reason)
	}

	entry := r.logger.WithError(err).WithField("reason", reason)
	if domain.IsUserRecoverable(err) {
		entry.Info("checkout rejected")
		return
	}
	entry.Error("checkout failed")
}

// publish отправляет событие после фиксации; ошибка только логируется.
func (r *Recorder) publish(order domain.Order) {
	if r.publisher == nil {
		return
	}

	err := r.publisher.PublishOrderConfirmed(order)
	if r.metrics != nil {
		r.metrics.RecordEventPublished(err == nil)
	}
	if err != nil {
		r.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
	}
}
