package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_DSN", "SHUTDOWN_TIMEOUT_SECONDS", "STORE_ID", "LOG_LEVEL",
		"CORS_ALLOWED_ORIGINS", "CATALOG_SOURCE", "CATALOG_FILE", "REDIS_ADDR", "CATALOG_CACHE_TTL_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBConnString != "" {
		t.Fatalf("expected db disabled by default, got %q", cfg.DBConnString)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown, got %s", cfg.ShutdownTimeout)
	}
	if cfg.Catalog.Source != CatalogEmbedded {
		t.Fatalf("expected embedded catalog, got %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.CacheTTL != 15*time.Minute {
		t.Fatalf("expected 15m cache ttl, got %s", cfg.Catalog.CacheTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors, got %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DSN", "postgres://pos@localhost/pos")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("STORE_ID", "  store-7 ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CATALOG_SOURCE", "DB")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "60")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" || cfg.DBConnString != "postgres://pos@localhost/pos" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected 3s shutdown, got %s", cfg.ShutdownTimeout)
	}
	if cfg.StoreID != "store-7" {
		t.Fatalf("expected trimmed store id, got %q", cfg.StoreID)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.Catalog.Source != CatalogDB || cfg.Catalog.RedisAddr != "localhost:6379" || cfg.Catalog.CacheTTL != time.Minute {
		t.Fatalf("unexpected catalog config %+v", cfg.Catalog)
	}
}

func TestFromEnvIgnoresBadDurations(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")
	if got := FromEnv().ShutdownTimeout; got != 10*time.Second {
		t.Fatalf("expected default on bad value, got %s", got)
	}
}
