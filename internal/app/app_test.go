package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/config"
)

func TestMemoryAppStopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Environment:  "test",
		Store:        config.StoreMemory,
		HTTPAddr:     "127.0.0.1:0",
		QueryTimeout: time.Second,
	}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestPostgresAppFailsWithoutDatabase(t *testing.T) {
	cfg := &config.Config{
		Environment: "test",
		Store:       config.StorePostgres,
		DBDSN:       "postgres://nobody@127.0.0.1:1/none?connect_timeout=1",
		HTTPAddr:    "127.0.0.1:0",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := New(ctx, cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = NewLogger("development", "loud")
	assert.Error(t, err)
}
