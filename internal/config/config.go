package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the composition-root view of the environment. Every field has a
// local-development default so a bare `go run` works against a devserver on
// localhost.
type Config struct {
	APIURL         string
	DBPath         string
	StoreBackend   string
	RedisAddr      string
	RedisPassword  string
	MigrationsPath string
	RequestTimeout time.Duration
	HTTPPort       string
}

// Load reads the environment, after letting a .env file override it for
// local development. A missing .env is normal.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	return Config{
		APIURL:         getEnv("STOREFRONT_API_URL", "http://localhost:8080"),
		DBPath:         getEnv("STOREFRONT_DB_PATH", "storefront.db"),
		StoreBackend:   getEnv("STOREFRONT_STORE", "sqlite"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		MigrationsPath: getEnv("STOREFRONT_MIGRATIONS_PATH", "migrations"),
		RequestTimeout: getDuration("STOREFRONT_REQUEST_TIMEOUT", 30*time.Second),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
