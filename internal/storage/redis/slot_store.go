package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/partshop/internal/domain"
)

const (
	opTimeout     = 3 * time.Second
	defaultPrefix = "partshop:slot:"
)

// SlotStore хранит слоты как обычные строки Redis под общим префиксом.
type SlotStore struct {
	client *goredis.Client
	prefix string
}

// Open разбирает redis URL, создаёт клиента и проверяет соединение.
func Open(ctx context.Context, redisURL, prefix string) (*SlotStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewSlotStore(client, prefix), nil
}

// NewSlotStore оборачивает готовый клиент; пустой prefix заменяется значением по умолчанию.
func NewSlotStore(client *goredis.Client, prefix string) *SlotStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SlotStore{client: client, prefix: prefix}
}

func (s *SlotStore) key(name string) string {
	return s.prefix + name
}

func (s *SlotStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, domain.ErrSlotKeyRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("redis get slot %q: %w", key, err)
	}
	return value, nil
}

func (s *SlotStore) Set(key string, value []byte) error {
	if key == "" {
		return domain.ErrSlotKeyRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Слоты бессрочные, как localStorage.
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set slot %q: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Delete(key string) error {
	if key == "" {
		return domain.ErrSlotKeyRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete slot %q: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Close закрывает клиента Redis.
func (s *SlotStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

var _ domain.SlotStore = (*SlotStore)(nil)
