package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

type flakyPublisher struct {
	failures int
	calls    int
}

func (f *flakyPublisher) PublishOrderConfirmed(domain.Order) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	return nil
}

func newTestResilientPublisher(next domain.OrderEventPublisher, breaker *CircuitBreaker) (*ResilientPublisher, *[]time.Duration) {
	var delays []time.Duration
	p := NewResilientPublisher(next, RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      15 * time.Millisecond,
		BackoffFactor: 2,
	}, breaker, nil)
	p.sleep = func(d time.Duration) { delays = append(delays, d) }
	return p, &delays
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts != 3 || cfg.InitialDelay <= 0 || cfg.MaxDelay < cfg.InitialDelay || cfg.BackoffFactor <= 1 {
		t.Fatalf("unexpected default retry config: %+v", cfg)
	}
}

func TestResilientPublisher_Retries(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		wantErr    bool
		wantCalls  int
		wantDelays []time.Duration
	}{
		{name: "first attempt", failures: 0, wantCalls: 1},
		{name: "succeeds after retry", failures: 2, wantCalls: 3, wantDelays: []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}},
		{name: "gives up", failures: 5, wantErr: true, wantCalls: 3, wantDelays: []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &flakyPublisher{failures: tt.failures}
			p, delays := newTestResilientPublisher(next, nil)

			err := p.PublishOrderConfirmed(domain.Order{ID: "INV1"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if next.calls != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, next.calls)
			}
			if len(*delays) != len(tt.wantDelays) {
				t.Fatalf("expected delays %v, got %v", tt.wantDelays, *delays)
			}
			for i, d := range tt.wantDelays {
				if (*delays)[i] != d {
					t.Fatalf("expected delays %v, got %v", tt.wantDelays, *delays)
				}
			}
		})
	}
}

func TestResilientPublisher_OpenCircuitFailsFast(t *testing.T) {
	next := &flakyPublisher{failures: 100}
	breaker := NewCircuitBreaker(2, time.Minute, nil)
	p, delays := newTestResilientPublisher(next, breaker)

	if err := p.PublishOrderConfirmed(domain.Order{ID: "INV1"}); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit to open during retries, got %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected 2 calls before opening, got %d", next.calls)
	}

	*delays = nil
	if err := p.PublishOrderConfirmed(domain.Order{ID: "INV2"}); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected fast failure, got %v", err)
	}
	if next.calls != 2 || len(*delays) != 0 {
		t.Fatalf("open circuit must not call through or sleep: calls=%d delays=%v", next.calls, *delays)
	}
}

func TestCircuitBreaker_HalfOpenTransitions(t *testing.T) {
	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, time.Second, nil)
	cb.now = func() time.Time { return now }

	fail := func() error { return errors.New("boom") }
	ok := func() error { return nil }

	if err := cb.Execute(fail); err == nil || cb.State() != CircuitOpen {
		t.Fatalf("expected open after failure, state=%s err=%v", cb.State(), err)
	}
	if err := cb.Execute(ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit to reject, got %v", err)
	}

	now = now.Add(2 * time.Second)
	if err := cb.Execute(fail); err == nil || cb.State() != CircuitOpen {
		t.Fatalf("failed probe must reopen, state=%s", cb.State())
	}

	now = now.Add(2 * time.Second)
	if err := cb.Execute(ok); err != nil || cb.State() != CircuitClosed {
		t.Fatalf("successful probe must close, state=%s err=%v", cb.State(), err)
	}
	if CircuitHalfOpen.String() != "half-open" {
		t.Fatalf("unexpected state name %q", CircuitHalfOpen.String())
	}
}
