package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// Операции корзины для логов и метрик.
const (
	OpAdd         = "add"
	OpSetQuantity = "set_qty"
	OpRemove      = "remove"
	OpClear       = "clear"
)

// MaxQuantity — предел количества одной позиции; большие значения урезаются до него.
const MaxQuantity = 9999

// SizeObserver получает суммарное количество единиц после каждой мутации.
type SizeObserver func(count int)

// OperationRecorder считает мутации корзины (реализуется metrics.ShopMetrics).
type OperationRecorder interface {
	RecordCartOperation(op string)
}

// Store — единственный владелец корзины. Каждая мутация синхронно сохраняется
// до возврата, затем наблюдатели получают новый размер.
// mu сериализует мутации и оформление заказа для единственной неявной сессии.
type Store struct {
	mu        sync.Mutex
	repo      domain.CartRepository
	observers []SizeObserver
	recorder  OperationRecorder
	logger    *log.Entry
}

// Option настраивает Store.
type Option func(*Store)

// WithObserver добавляет наблюдателя размера корзины.
func WithObserver(observer SizeObserver) Option {
	return func(s *Store) {
		if observer != nil {
			s.observers = append(s.observers, observer)
		}
	}
}

// WithRecorder подключает счётчик операций.
func WithRecorder(recorder OperationRecorder) Option {
	return func(s *Store) {
		s.recorder = recorder
	}
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore создаёт Store поверх репозитория корзины.
func NewStore(repo domain.CartRepository, options ...Option) *Store {
	s := &Store{repo: repo}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "cart")
	}
	return s
}

// Add увеличивает количество товара на 1 или добавляет позицию с количеством 1.
// Существование товара здесь не проверяется.
func (s *Store) Add(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	if idx := cart.Find(productID); idx >= 0 {
		cart[idx].Quantity = clampQuantity(cart[idx].Quantity + 1)
	} else {
		cart = append(cart, domain.CartEntry{ProductID: productID, Quantity: 1})
	}

	return s.commit(OpAdd, productID, cart)
}

// SetQuantity выставляет количество позиции. Значения < 1 приводятся к 1,
// значения больше MaxQuantity урезаются до MaxQuantity.
// Если позиции нет, ничего не делает и ничего не сохраняет.
func (s *Store) SetQuantity(productID, quantity int) error {
	quantity = clampQuantity(quantity)

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	idx := cart.Find(productID)
	if idx < 0 {
		return nil
	}
	cart[idx].Quantity = quantity

	return s.commit(OpSetQuantity, productID, cart)
}

// ParseQuantity разбирает значение поля количества.
// Нечисловой ввод и значения < 1 превращаются в 1, слишком большие в MaxQuantity.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	qty, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return MaxQuantity
	}
	if err != nil {
		return 1
	}
	return clampQuantity(qty)
}

func clampQuantity(qty int) int {
	switch {
	case qty < 1:
		return 1
	case qty > MaxQuantity:
		return MaxQuantity
	default:
		return qty
	}
}

// Remove удаляет позицию товара, если она есть.
func (s *Store) Remove(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	idx := cart.Find(productID)
	if idx < 0 {
		return nil
	}
	cart = append(cart[:idx], cart[idx+1:]...)

	return s.commit(OpRemove, productID, cart)
}

// Clear заменяет корзину пустой.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(OpClear, 0, domain.Cart{})
}

// Get возвращает снимок корзины; изменения снимка не влияют на корзину.
func (s *Store) Get() (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart.Clone(), nil
}

// Count возвращает суммарное количество единиц (для бейджа).
func (s *Store) Count() (int, error) {
	cart, err := s.Get()
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// Drain под блокировкой корзины передаёт снимок в fn и очищает корзину,
// только если fn завершилась без ошибки. Используется как "commit" оформления заказа.
func (s *Store) Drain(fn func(snapshot domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if err := fn(cart.Clone()); err != nil {
		return err
	}

	return s.commit(OpClear, 0, domain.Cart{})
}

// commit сохраняет корзину и уведомляет наблюдателей. Вызывается под s.mu.
func (s *Store) commit(op string, productID int, cart domain.Cart) error {
	if err := s.repo.Save(cart); err != nil {
		s.logger.WithError(err).WithField("op", op).Error("failed to persist cart")
		return fmt.Errorf("save cart: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordCartOperation(op)
	}

	count := cart.Count()
	s.logger.WithFields(log.Fields{
		"op":         op,
		"product_id": productID,
		"entries":    len(cart),
		"count":      count,
	}).Debug("cart updated")

	for _, observer := range s.observers {
		observer(count)
	}
	return nil
}
