package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/groupone/webshop/internal/config"
	"github.com/groupone/webshop/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP:    config.HTTPConfig{Addr: "127.0.0.1:0"},
		Metrics: config.MetricsConfig{Addr: "127.0.0.1:0"},
		Outbox: config.OutboxConfig{
			PollInterval: 100 * time.Millisecond,
			BatchSize:    8,
			MaxAttempts:  3,
		},
	}
}

func TestNewDependenciesMemory(t *testing.T) {
	deps, err := NewDependencies(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	require.NotNil(t, deps.Products)
	require.NotNil(t, deps.Customers)
	require.NotNil(t, deps.Orders)
	require.NotNil(t, deps.Placer)
	require.NotNil(t, deps.Outbox)
	require.NotNil(t, deps.Reset)
	require.Nil(t, deps.Store)
}

func TestMemoryResetWipesRepositories(t *testing.T) {
	deps, err := NewDependencies(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	require.NoError(t, deps.Products.Add(domain.NewProduct(1, domain.ProductParams{
		Title:    "widget",
		Quantity: 3,
	})))
	require.NoError(t, deps.Customers.Add(domain.Customer{Username: "alice"}))

	require.NoError(t, deps.Reset(context.Background()))

	id, err := deps.Products.HighestID()
	require.NoError(t, err)
	require.Zero(t, id)

	_, err = deps.Customers.Get("alice")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, testConfig())
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
