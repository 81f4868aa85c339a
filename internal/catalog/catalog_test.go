package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techshop/storefront/internal/domain"
	"github.com/techshop/storefront/internal/events"
)

type fetcherMock struct {
	products []domain.Product
	err      error
	calls    int
}

func (f *fetcherMock) FetchCatalog(context.Context) ([]domain.Product, error) {
	f.calls++
	return f.products, f.err
}

func TestLoad_Success(t *testing.T) {
	want := SampleProducts()[:2]
	cache := NewCache(&fetcherMock{products: want}, events.NewBus())

	got := cache.Load(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, want, got)
	assert.Equal(t, want, cache.Products())
}

func TestLoad_FetchFailureServesFallback(t *testing.T) {
	cache := NewCache(&fetcherMock{err: errors.New("connection refused")}, events.NewBus())

	got := cache.Load(context.Background())

	require.Len(t, got, 6)
	assert.Equal(t, SampleProducts(), got)
}

func TestLoad_PublishesProductsUpdated(t *testing.T) {
	bus := events.NewBus()
	published := 0
	bus.Subscribe(events.TopicProductsUpdated, func(payload any) {
		published++
		assert.Len(t, payload.([]domain.Product), 6)
	})

	cache := NewCache(&fetcherMock{err: errors.New("boom")}, bus)
	cache.Load(context.Background())

	assert.Equal(t, 1, published)
}

func TestLoad_SingleAttemptPerCall(t *testing.T) {
	fetcher := &fetcherMock{err: errors.New("boom")}
	cache := NewCache(fetcher, events.NewBus())

	cache.Load(context.Background())
	cache.Load(context.Background())

	assert.Equal(t, 2, fetcher.calls)
}

func TestFind(t *testing.T) {
	cache := NewCache(&fetcherMock{products: SampleProducts()}, events.NewBus())
	cache.Load(context.Background())

	p, ok := cache.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Smartphone", p.Name)
	assert.Equal(t, "599.99", p.Price.String())

	_, ok = cache.Find(42)
	assert.False(t, ok)
}
