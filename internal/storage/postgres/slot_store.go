package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

type slotStore struct {
	store *Store
}

// NewSlotStore создаёт PostgreSQL-реализацию SlotStore поверх таблицы shop_slots.
func NewSlotStore(store *Store) domain.SlotStore {
	return &slotStore{store: store}
}

func (s *slotStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, domain.ErrSlotKeyRequired
	}

	ctx, cancel := s.store.withTimeout(context.Background())
	defer cancel()

	var value []byte
	err := s.store.db.QueryRowContext(ctx, `
		SELECT value
		FROM shop_slots
		WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("select slot %q: %w", key, err)
	}
	return value, nil
}

// Set выполняет upsert и увеличивает ревизию слота.
func (s *slotStore) Set(key string, value []byte) error {
	if key == "" {
		return domain.ErrSlotKeyRequired
	}
	if value == nil {
		value = []byte{}
	}

	ctx, cancel := s.store.withTimeout(context.Background())
	defer cancel()

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO shop_slots (key, value, updated_at, revision)
		VALUES ($1, $2, NOW(), 1)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at,
		    revision = shop_slots.revision + 1
	`, key, value)
	if err != nil {
		if isUndefinedTable(err) {
			return fmt.Errorf("upsert slot %q: schema is not migrated: %w", key, err)
		}
		return fmt.Errorf("upsert slot %q: %w", key, err)
	}
	return nil
}

func (s *slotStore) Delete(key string) error {
	if key == "" {
		return domain.ErrSlotKeyRequired
	}

	ctx, cancel := s.store.withTimeout(context.Background())
	defer cancel()

	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM shop_slots WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

func (s *slotStore) Ping() error {
	return s.store.Ping(context.Background())
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

var _ domain.SlotStore = (*slotStore)(nil)
