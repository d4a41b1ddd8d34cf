package kafka

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// ErrCircuitOpen возвращается, пока брокер считается недоступным.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// RetryConfig задаёт повторы публикации с экспоненциальной задержкой.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig держит суммарную задержку в пределах долей секунды:
// публикация идёт в запросе оформления заказа.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      400 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

// CircuitState — состояние предохранителя.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker размыкается после maxFailures подряд и пропускает пробный
// вызов через resetTimeout.
type CircuitBreaker struct {
	mu           sync.Mutex
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time

	failures    int
	lastFailure time.Time
	state       CircuitState
	logger      *log.Entry
}

// NewCircuitBreaker создаёт предохранитель в замкнутом состоянии.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, logger *log.Entry) *CircuitBreaker {
	if logger == nil {
		logger = log.WithField("component", "circuit-breaker")
	}
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
		state:        CircuitClosed,
		logger:       logger,
	}
}

// State возвращает текущее состояние.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute вызывает fn, если предохранитель не разомкнут.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.now().Sub(cb.lastFailure) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
		cb.logger.Info("circuit breaker half-open")
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			if cb.state != CircuitOpen {
				cb.logger.WithField("failures", cb.failures).Warn("circuit breaker opened")
			}
			cb.state = CircuitOpen
		}
		return err
	}

	if cb.state == CircuitHalfOpen {
		cb.logger.Info("circuit breaker closed")
	}
	cb.failures = 0
	cb.state = CircuitClosed
	return nil
}

// ResilientPublisher публикует order.confirmed с повторами за предохранителем.
type ResilientPublisher struct {
	next    domain.OrderEventPublisher
	retry   RetryConfig
	breaker *CircuitBreaker
	sleep   func(time.Duration)
	logger  *log.Entry
}

// NewResilientPublisher оборачивает publisher. breaker может быть nil.
func NewResilientPublisher(next domain.OrderEventPublisher, retry RetryConfig, breaker *CircuitBreaker, logger *log.Entry) *ResilientPublisher {
	if logger == nil {
		logger = log.WithField("component", "order-publisher")
	}
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &ResilientPublisher{
		next:    next,
		retry:   retry,
		breaker: breaker,
		sleep:   time.Sleep,
		logger:  logger,
	}
}

// PublishOrderConfirmed реализует domain.OrderEventPublisher.
func (p *ResilientPublisher) PublishOrderConfirmed(order domain.Order) error {
	call := func() error { return p.next.PublishOrderConfirmed(order) }
	if p.breaker != nil {
		inner := call
		call = func() error { return p.breaker.Execute(inner) }
	}

	delay := p.retry.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= p.retry.MaxAttempts; attempt++ {
		lastErr = call()
		if lastErr == nil {
			if attempt > 1 {
				p.logger.WithFields(log.Fields{"order_id": order.ID, "attempt": attempt}).Info("order event published after retry")
			}
			return nil
		}
		if errors.Is(lastErr, ErrCircuitOpen) {
			return lastErr
		}
		if attempt < p.retry.MaxAttempts {
			p.logger.WithError(lastErr).WithFields(log.Fields{
				"order_id": order.ID,
				"attempt":  attempt,
				"delay":    delay,
			}).Warn("order event publish failed, retrying")
			p.sleep(delay)
			delay = time.Duration(float64(delay) * p.retry.BackoffFactor)
			if delay > p.retry.MaxDelay {
				delay = p.retry.MaxDelay
			}
		}
	}
	return fmt.Errorf("publish order %s after %d attempts: %w", order.ID, p.retry.MaxAttempts, lastErr)
}
