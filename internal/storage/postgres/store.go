package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrSchemaNotMigrated возвращается EnsureSchema, если таблицы слотов ещё нет.
var ErrSchemaNotMigrated = errors.New("shop_slots table is missing: run cmd/migrate up or enable SHOP_POSTGRES_AUTO_MIGRATE")

const (
	defaultOpTimeout       = 5 * time.Second
	defaultMaxConns        = 4
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Store держит пул подключений к базе магазина. Состояние магазина умещается
// в четыре слота, поэтому пул маленький.
type Store struct {
	db        *sql.DB
	opTimeout time.Duration
}

type options struct {
	maxConns  int
	opTimeout time.Duration
}

// Option настраивает Open.
type Option func(*options)

// WithMaxConns задаёт размер пула.
func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithOpTimeout задаёт таймаут одной операции со слотом и ping.
func WithOpTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.opTimeout = d
		}
	}
}

// Open открывает подключение через pgx stdlib-драйвер и проверяет доступность базы.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	o := options{maxConns: defaultMaxConns, opTimeout: defaultOpTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(o.maxConns)
	db.SetMaxIdleConns(o.maxConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	s := &Store{db: db, opTimeout: o.opTimeout}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return s, nil
}

// DB возвращает raw SQL DB для миграций и тестов.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.opTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errNotInitialized
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

// EnsureSchema проверяет, что таблица слотов уже создана миграциями.
// Схему не меняет: для этого есть MigrateUp и cmd/migrate.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errNotInitialized
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT to_regclass('shop_slots') IS NOT NULL`).Scan(&exists); err != nil {
		return fmt.Errorf("check shop_slots: %w", err)
	}
	if !exists {
		return ErrSchemaNotMigrated
	}
	return nil
}

// SlotRevision возвращает число записей слота; 0 означает, что слота нет.
func (s *Store) SlotRevision(ctx context.Context, key string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errNotInitialized
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var revision int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM shop_slots WHERE key = $1`, key).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select slot revision: %w", err)
	}
	return revision, nil
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
