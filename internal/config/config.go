package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Environment   string
	LogLevel      string // пусто - уровень по умолчанию для окружения
	DBDSN         string
	Store         string
	HTTPAddr      string
	MigrationsDir string
	AutoMigrate   bool
	TelegramToken string
	QueryTimeout  time.Duration
	Tracing       TracingConfig
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string // host:port, например jaeger:4317
	SampleRatio float64
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv собирает конфиг из переменных окружения через lookup
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		Environment:   get("ENV", "development"),
		LogLevel:      strings.ToLower(get("LOG_LEVEL", "")),
		DBDSN:         get("DB_DSN", ""),
		Store:         strings.ToLower(get("STORE", StorePostgres)),
		HTTPAddr:      get("HTTP_ADDR", ":8080"),
		MigrationsDir: get("MIGRATIONS_DIR", "migrations"),
		TelegramToken: get("TELEGRAM_TOKEN", ""),
		Tracing: TracingConfig{
			Endpoint: get("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
	}

	var err error
	if cfg.AutoMigrate, err = strconv.ParseBool(get("AUTO_MIGRATE", "true")); err != nil {
		return nil, fmt.Errorf("AUTO_MIGRATE: %w", err)
	}
	if cfg.QueryTimeout, err = time.ParseDuration(get("QUERY_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("QUERY_TIMEOUT: %w", err)
	}
	if cfg.Tracing.Enabled, err = strconv.ParseBool(get("OTEL_ENABLED", "false")); err != nil {
		return nil, fmt.Errorf("OTEL_ENABLED: %w", err)
	}
	if cfg.Tracing.SampleRatio, err = strconv.ParseFloat(get("OTEL_SAMPLING_RATIO", "1"), 64); err != nil {
		return nil, fmt.Errorf("OTEL_SAMPLING_RATIO: %w", err)
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return nil, fmt.Errorf("OTEL_SAMPLING_RATIO must be between 0 and 1, got %v", cfg.Tracing.SampleRatio)
	}

	// Проверяем обязательные поля
	switch cfg.Store {
	case StorePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}

	return cfg, nil
}
