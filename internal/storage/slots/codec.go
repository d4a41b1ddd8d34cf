package slots

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

// load читает слот и декодирует его в dst. Возвращает false, если слота нет.
func load(store domain.SlotStore, key string, dst interface{}) (bool, error) {
	raw, err := store.Get(key)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read slot %s: %w", key, err)
	}
	// localStorage хранит "null" для отсутствующего значения.
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode slot %s: %w: %w", key, domain.ErrSlotCorrupt, err)
	}
	return true, nil
}

func save(store domain.SlotStore, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := store.Set(key, raw); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

func remove(store domain.SlotStore, key string) error {
	if err := store.Delete(key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}
