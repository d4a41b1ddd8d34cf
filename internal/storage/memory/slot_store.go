package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// slotStoreInMemory — простая in-memory реализация SlotStore.
type slotStoreInMemory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSlotStore возвращает in-memory хранилище слотов для локальной разработки и тестов.
func NewSlotStore() domain.SlotStore {
	return &slotStoreInMemory{
		slots: make(map[string][]byte),
	}
}

// Get возвращает копию значения слота или ErrSlotNotFound.
func (s *slotStoreInMemory) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, domain.ErrSlotKeyRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return cloneBytes(value), nil
}

// Set перезаписывает слот.
func (s *slotStoreInMemory) Set(key string, value []byte) error {
	if key == "" {
		return domain.ErrSlotKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	s.slots[key] = cloneBytes(value)
	return nil
}

// Delete удаляет слот, если он есть.
func (s *slotStoreInMemory) Delete(key string) error {
	if key == "" {
		return domain.ErrSlotKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

// Ping всегда успешен: памяти недоступной не бывает.
func (s *slotStoreInMemory) Ping() error {
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ domain.SlotStore = (*slotStoreInMemory)(nil)
