package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/partshop/internal/messaging/kafka"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// Config описывает настройки запуска приложения.
type Config struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	StorageDriver       string `yaml:"storage_driver"`
	PostgresDSN         string `yaml:"postgres_dsn"`
	PostgresAutoMigrate bool   `yaml:"postgres_auto_migrate"`
	RedisURL            string `yaml:"redis_url"`
	RedisPrefix         string `yaml:"redis_prefix"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	// CatalogSeed фиксирует цены каталога между перезапусками.
	CatalogSeed uint64 `yaml:"catalog_seed"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfig возвращает базовые адреса для gRPC и HTTP-метрик и in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		RedisPrefix:         "partshop:slot:",
		KafkaTopic:          kafka.TopicOrderEvents,
		CatalogSeed:         2012,
		LogLevel:            "info",
	}
}

// LookupFunc — источник переменных окружения (os.LookupEnv, в тестах map).
type LookupFunc func(key string) (string, bool)

// LoadConfig собирает конфигурацию: значения по умолчанию, затем YAML-файл из
// SHOP_CONFIG_FILE (если задан), затем переменные окружения.
func LoadConfig(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := DefaultConfig()
	if path, ok := lookup("SHOP_CONFIG_FILE"); ok && strings.TrimSpace(path) != "" {
		if err := loadConfigFile(strings.TrimSpace(path), &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("SHOP_GRPC_ADDR", &cfg.GRPCAddr)
	str("SHOP_METRICS_ADDR", &cfg.MetricsAddr)
	str("SHOP_STORAGE_DRIVER", &cfg.StorageDriver)
	str("SHOP_POSTGRES_DSN", &cfg.PostgresDSN)
	str("SHOP_REDIS_URL", &cfg.RedisURL)
	str("SHOP_REDIS_PREFIX", &cfg.RedisPrefix)
	str("SHOP_KAFKA_TOPIC", &cfg.KafkaTopic)
	str("SHOP_LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup("SHOP_POSTGRES_AUTO_MIGRATE"); ok && strings.TrimSpace(v) != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SHOP_POSTGRES_AUTO_MIGRATE: %w", err)
		}
		cfg.PostgresAutoMigrate = parsed
	}
	if v, ok := lookup("SHOP_CATALOG_SEED"); ok && strings.TrimSpace(v) != "" {
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("SHOP_CATALOG_SEED: %w", err)
		}
		cfg.CatalogSeed = parsed
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && strings.TrimSpace(v) != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	return nil
}

// splitBrokers разбирает список брокеров через запятую, отбрасывая пустые элементы.
func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Validate проверяет согласованность настроек хранилища и уровня логирования.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres storage requires SHOP_POSTGRES_DSN")
		}
	case StorageDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis storage requires SHOP_REDIS_URL")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}

	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	return nil
}
