package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("VORTEX_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_StorageEnvOverrides(t *testing.T) {
	t.Setenv("VORTEX_STORAGE_ADDRESS", "ws://surreal:8000")
	t.Setenv("VORTEX_STORAGE_NAMESPACE", "testns")
	t.Setenv("VORTEX_STORAGE_DATABASE", "testdb")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Address != "ws://surreal:8000" {
		t.Errorf("Storage.Address = %q, want %q", cfg.Storage.Address, "ws://surreal:8000")
	}
	if cfg.Storage.Namespace != "testns" {
		t.Errorf("Storage.Namespace = %q, want %q", cfg.Storage.Namespace, "testns")
	}
	if cfg.Storage.Database != "testdb" {
		t.Errorf("Storage.Database = %q, want %q", cfg.Storage.Database, "testdb")
	}
}

func TestConfig_AuthEnvOverrides(t *testing.T) {
	t.Setenv("VORTEX_AUTH_JWT_SECRET", "secret-from-env")
	t.Setenv("VORTEX_AUTH_TOKEN_EXPIRY", "1h")
	t.Setenv("VORTEX_AUTH_ADMIN_EMAIL", "root@vortex.local")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Auth.JWTSecret != "secret-from-env" {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "secret-from-env")
	}
	if cfg.Auth.GetTokenExpiry() != time.Hour {
		t.Errorf("Auth.GetTokenExpiry() = %v, want 1h", cfg.Auth.GetTokenExpiry())
	}
	if cfg.Auth.AdminEmail != "root@vortex.local" {
		t.Errorf("Auth.AdminEmail = %q, want %q", cfg.Auth.AdminEmail, "root@vortex.local")
	}
}

func TestMarketConfig_RefreshIntervalDefault(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Market.GetRefreshInterval() != 60*time.Second {
		t.Errorf("GetRefreshInterval() = %v, want 60s", cfg.Market.GetRefreshInterval())
	}
}

func TestMarketConfig_RefreshIntervalInvalidFallsBack(t *testing.T) {
	cfg := &MarketConfig{RefreshInterval: "not-a-duration"}
	if cfg.GetRefreshInterval() != 60*time.Second {
		t.Errorf("GetRefreshInterval() = %v, want 60s (fallback for invalid)", cfg.GetRefreshInterval())
	}
}

func TestMarketConfig_RefreshIntervalConfigured(t *testing.T) {
	cfg := &MarketConfig{RefreshInterval: "5s"}
	if cfg.GetRefreshInterval() != 5*time.Second {
		t.Errorf("GetRefreshInterval() = %v, want 5s", cfg.GetRefreshInterval())
	}
}

func TestCoinGeckoConfig_TimeoutInvalidFallsBack(t *testing.T) {
	cfg := &CoinGeckoConfig{Timeout: "bogus"}
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s (fallback for invalid)", cfg.GetTimeout())
	}
}

func TestLoadConfig_FileMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vortex.toml")
	content := `
environment = "production"

[server]
port = 9999

[market]
refresh_interval = "30s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "production")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Market.GetRefreshInterval() != 30*time.Second {
		t.Errorf("GetRefreshInterval() = %v, want 30s", cfg.Market.GetRefreshInterval())
	}
	// Defaults survive the merge for untouched sections
	if cfg.Clients.CoinGecko.PerPage != 30 {
		t.Errorf("CoinGecko.PerPage = %d, want 30", cfg.Clients.CoinGecko.PerPage)
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/vortex.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Environment: "Production"}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for 'Production'")
	}
	cfg.Environment = "development"
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for 'development'")
	}
}
