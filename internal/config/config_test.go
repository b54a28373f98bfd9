package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARISAN_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
	}
	if cfg.Finance.MainGroupName != "Arisan Keluarga" {
		t.Errorf("Finance.MainGroupName = %q", cfg.Finance.MainGroupName)
	}
	amount, err := cfg.Finance.MainAmount()
	if err != nil {
		t.Fatalf("MainAmount failed: %v", err)
	}
	if amount.IntPart() != 50000 {
		t.Errorf("MainAmount = %s, want 50000", amount)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arisan.toml")
	content := `
[server]
port = 9090

[database]
path = "/tmp/from-file.db"

[finance]
default_main_amount = "90000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("ARISAN_CONFIG", path)
	t.Setenv("ARISAN_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("ARISAN_AUTH_TOKEN_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 from file", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Errorf("Auth.TokenTTL = %v, want 90m", cfg.Auth.TokenTTL)
	}
	amount, _ := cfg.Finance.MainAmount()
	if amount.IntPart() != 90000 {
		t.Errorf("MainAmount = %s, want 90000", amount)
	}
}

func TestLoadRejectsBadAmount(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARISAN_CONFIG", "")
	t.Setenv("ARISAN_FINANCE_DEFAULT_MAIN_AMOUNT", "-5")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative default amount")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("ARISAN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
