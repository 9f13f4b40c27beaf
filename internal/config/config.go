package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog source kinds.
const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogDB       = "db"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration
	StoreID         string
	LogLevel        string
	CORSOrigins     []string
	Catalog         CatalogConfig
}

type CatalogConfig struct {
	Source    string
	File      string
	RedisAddr string
	CacheTTL  time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return load(viper.New())
}

func load(v *viper.Viper) Config {
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("STORE_ID", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CATALOG_SOURCE", CatalogEmbedded)
	v.SetDefault("CATALOG_FILE", "catalog.json")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CATALOG_CACHE_TTL_SECONDS", 900)

	return Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		DBConnString:    v.GetString("DB_DSN"),
		ShutdownTimeout: seconds(v, "SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		StoreID:         strings.TrimSpace(v.GetString("STORE_ID")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		CORSOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Catalog: CatalogConfig{
			Source:    strings.ToLower(strings.TrimSpace(v.GetString("CATALOG_SOURCE"))),
			File:      v.GetString("CATALOG_FILE"),
			RedisAddr: v.GetString("REDIS_ADDR"),
			CacheTTL:  seconds(v, "CATALOG_CACHE_TTL_SECONDS", 15*time.Minute),
		},
	}
}

func seconds(v *viper.Viper, key string, def time.Duration) time.Duration {
	n := v.GetInt(key)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
