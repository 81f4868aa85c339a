package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, "storefront.db", cfg.DBPath)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://api.internal:9090")
	t.Setenv("STOREFRONT_STORE", "redis")
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "http://api.internal:9090", cfg.APIURL)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoad_BadTimeoutFallsBack(t *testing.T) {
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
