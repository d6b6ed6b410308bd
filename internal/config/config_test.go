package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_STORE_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_STORE_DRIVER")
	}
}

func TestLoad_MemoryStoreSeedsByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_STORE_DRIVER", StoreMemory)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SeedDemoData {
		t.Fatalf("expected SeedDemoData=true for memory store")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_GatehouseCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GATEHOUSE_TIMEOUT", "5s")
	t.Setenv("GATEHOUSE_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("GATEHOUSE_CIRCUIT_OPEN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GatehouseTimeout != 5*time.Second {
		t.Fatalf("unexpected GatehouseTimeout: %s", cfg.GatehouseTimeout)
	}
	if cfg.GatehouseCircuitFailureCount != 7 {
		t.Fatalf("unexpected GatehouseCircuitFailureCount: %d", cfg.GatehouseCircuitFailureCount)
	}
	if cfg.GatehouseCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected GatehouseCircuitOpenTimeout: %s", cfg.GatehouseCircuitOpenTimeout)
	}
}

func TestLoad_AuditWorkersValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("AUDIT_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when AUDIT_WORKERS < 1")
	}
}

func TestLoad_CacheTTLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "-1s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CACHE_TTL <= 0")
	}
}
