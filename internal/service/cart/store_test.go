package cart_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
	"github.com/vladislavdragonenkov/partshop/internal/service/cart"
	"github.com/vladislavdragonenkov/partshop/internal/storage/memory"
	"github.com/vladislavdragonenkov/partshop/internal/storage/slots"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

type recorder struct {
	ops []string
}

func (r *recorder) RecordCartOperation(op string) { r.ops = append(r.ops, op) }

// failingRepo сохраняет ошибку на запись после первых okWrites удачных.
type failingRepo struct {
	cart     domain.Cart
	okWrites int
	writes   int
}

var errWrite = errors.New("disk full")

func (r *failingRepo) Load() (domain.Cart, error) { return r.cart.Clone(), nil }
func (r *failingRepo) Save(c domain.Cart) error {
	r.writes++
	if r.writes > r.okWrites {
		return errWrite
	}
	r.cart = c.Clone()
	return nil
}

func newStore(t *testing.T, options ...cart.Option) (*cart.Store, domain.CartRepository) {
	t.Helper()
	repo := slots.NewCartRepository(memory.NewSlotStore())
	options = append(options, cart.WithLogger(loggerForTests()))
	return cart.NewStore(repo, options...), repo
}

func mustGet(t *testing.T, s *cart.Store) domain.Cart {
	t.Helper()
	c, err := s.Get()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	return c
}

func TestAdd_TwiceIncrementsQuantity(t *testing.T) {
	s, _ := newStore(t)

	for i := 0; i < 2; i++ {
		if err := s.Add(7); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	c := mustGet(t, s)
	if len(c) != 1 {
		t.Fatalf("expected one entry, got %d", len(c))
	}
	if c[0] != (domain.CartEntry{ProductID: 7, Quantity: 2}) {
		t.Fatalf("unexpected entry %+v", c[0])
	}
}

func TestAdd_PreservesInsertionOrderAndPersists(t *testing.T) {
	s, repo := newStore(t)

	for _, id := range []int{5, 2, 5, 9} {
		if err := s.Add(id); err != nil {
			t.Fatalf("add %d failed: %v", id, err)
		}
	}

	persisted, err := repo.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := domain.Cart{{ProductID: 5, Quantity: 2}, {ProductID: 2, Quantity: 1}, {ProductID: 9, Quantity: 1}}
	if len(persisted) != len(want) {
		t.Fatalf("expected %v, got %v", want, persisted)
	}
	for i := range want {
		if persisted[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], persisted[i])
		}
	}
}

func TestAdd_UnknownProductAccepted(t *testing.T) {
	s, _ := newStore(t)

	if err := s.Add(999999); err != nil {
		t.Fatalf("unknown product must be accepted by the cart layer: %v", err)
	}
	if c := mustGet(t, s); len(c) != 1 {
		t.Fatalf("expected one entry, got %v", c)
	}
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  int
		want int
	}{
		{name: "positive", qty: 4, want: 4},
		{name: "zero normalises to one", qty: 0, want: 1},
		{name: "negative normalises to one", qty: -3, want: 1},
		{name: "at limit", qty: cart.MaxQuantity, want: cart.MaxQuantity},
		{name: "above limit clamps", qty: math.MaxInt, want: cart.MaxQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t)
			_ = s.Add(7)
			_ = s.Add(7)

			if err := s.SetQuantity(7, tt.qty); err != nil {
				t.Fatalf("set quantity failed: %v", err)
			}
			if got := mustGet(t, s)[0].Quantity; got != tt.want {
				t.Fatalf("expected quantity %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSetQuantity_MissingEntryIsNoop(t *testing.T) {
	rec := &recorder{}
	s, _ := newStore(t, cart.WithRecorder(rec))
	_ = s.Add(1)

	if err := s.SetQuantity(2, 5); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}

	c := mustGet(t, s)
	if len(c) != 1 || c[0].ProductID != 1 || c[0].Quantity != 1 {
		t.Fatalf("cart changed on no-op: %v", c)
	}
	if len(rec.ops) != 1 {
		t.Fatalf("no-op must not be recorded, got ops %v", rec.ops)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "3", want: 3},
		{raw: " 12 ", want: 12},
		{raw: "0", want: 1},
		{raw: "-3", want: 1},
		{raw: "abc", want: 1},
		{raw: "", want: 1},
		{raw: "2.5", want: 1},
		{raw: "9999", want: cart.MaxQuantity},
		{raw: "300000000000000", want: cart.MaxQuantity},
		{raw: "99999999999999999999999", want: cart.MaxQuantity},
		{raw: "-99999999999999999999999", want: 1},
	}

	for _, tt := range tests {
		if got := cart.ParseQuantity(tt.raw); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestAdd_StopsAtMaxQuantity(t *testing.T) {
	s, _ := newStore(t)
	_ = s.Add(3)
	if err := s.SetQuantity(3, cart.MaxQuantity); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}

	if err := s.Add(3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := mustGet(t, s)[0].Quantity; got != cart.MaxQuantity {
		t.Fatalf("expected quantity %d, got %d", cart.MaxQuantity, got)
	}
}

func TestRemove(t *testing.T) {
	s, _ := newStore(t)
	_ = s.Add(1)
	_ = s.Add(2)
	_ = s.Add(3)

	if err := s.Remove(2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := s.Remove(42); err != nil {
		t.Fatalf("removing missing entry must be a no-op: %v", err)
	}

	c := mustGet(t, s)
	if len(c) != 2 || c[0].ProductID != 1 || c[1].ProductID != 3 {
		t.Fatalf("unexpected cart after remove: %v", c)
	}
}

func TestClearAndCount(t *testing.T) {
	s, _ := newStore(t)
	_ = s.Add(1)
	_ = s.Add(1)
	_ = s.Add(2)

	count, err := s.Count()
	if err != nil || count != 3 {
		t.Fatalf("expected count 3, got %d err=%v", count, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if c := mustGet(t, s); len(c) != 0 {
		t.Fatalf("expected empty cart, got %v", c)
	}
}

func TestGet_ReturnsSnapshot(t *testing.T) {
	s, _ := newStore(t)
	_ = s.Add(1)

	snapshot := mustGet(t, s)
	snapshot[0].Quantity = 100

	if got := mustGet(t, s)[0].Quantity; got != 1 {
		t.Fatalf("snapshot mutation leaked into cart: %d", got)
	}
}

func TestObserversAndRecorder(t *testing.T) {
	rec := &recorder{}
	var sizes []int
	s, _ := newStore(t,
		cart.WithRecorder(rec),
		cart.WithObserver(func(count int) { sizes = append(sizes, count) }),
	)

	_ = s.Add(1)
	_ = s.Add(1)
	_ = s.SetQuantity(1, 5)
	_ = s.Remove(1)
	_ = s.Clear()

	wantSizes := []int{1, 2, 5, 0, 0}
	if len(sizes) != len(wantSizes) {
		t.Fatalf("expected sizes %v, got %v", wantSizes, sizes)
	}
	for i := range wantSizes {
		if sizes[i] != wantSizes[i] {
			t.Fatalf("expected sizes %v, got %v", wantSizes, sizes)
		}
	}

	wantOps := []string{cart.OpAdd, cart.OpAdd, cart.OpSetQuantity, cart.OpRemove, cart.OpClear}
	for i := range wantOps {
		if rec.ops[i] != wantOps[i] {
			t.Fatalf("expected ops %v, got %v", wantOps, rec.ops)
		}
	}
}

func TestDrain(t *testing.T) {
	s, _ := newStore(t)
	_ = s.Add(4)

	var seen domain.Cart
	err := s.Drain(func(snapshot domain.Cart) error {
		seen = snapshot
		return nil
	})
	if err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if len(seen) != 1 || seen[0].ProductID != 4 {
		t.Fatalf("unexpected snapshot %v", seen)
	}
	if c := mustGet(t, s); len(c) != 0 {
		t.Fatalf("cart must be cleared after successful drain, got %v", c)
	}
}

func TestDrain_FailureKeepsCart(t *testing.T) {
	s, _ := newStore(t)
	_ = s.Add(4)

	boom := errors.New("boom")
	if err := s.Drain(func(domain.Cart) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if c := mustGet(t, s); len(c) != 1 {
		t.Fatalf("cart must survive failed drain, got %v", c)
	}
}

func TestAdd_SaveErrorDoesNotNotify(t *testing.T) {
	notified := false
	repo := &failingRepo{}
	s := cart.NewStore(repo,
		cart.WithLogger(loggerForTests()),
		cart.WithObserver(func(int) { notified = true }),
	)

	if err := s.Add(1); !errors.Is(err, errWrite) {
		t.Fatalf("expected save error, got %v", err)
	}
	if notified {
		t.Fatal("observers must not be notified when persisting fails")
	}
}
