package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Node.ConfirmTimeout != 2*time.Minute {
		t.Errorf("expected default confirm timeout, got %v", cfg.Node.ConfirmTimeout)
	}
	if cfg.Prices.PollInterval != 15*time.Second {
		t.Errorf("expected default poll interval, got %v", cfg.Prices.PollInterval)
	}
	if cfg.Prices.IndexBaseURL == "" {
		t.Error("expected default price index base URL")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TOKENCTL_NODE_URL", "http://localhost:8545")
	path := writeConfig(t, "node:\n  endpoint: ${TOKENCTL_NODE_URL}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Node.Endpoint != "http://localhost:8545" {
		t.Errorf("env expansion failed, got %q", cfg.Node.Endpoint)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRegistry_DefaultAndOverride(t *testing.T) {
	cfg := &AppConfig{}
	reg := cfg.Registry()
	if len(reg) == 0 || reg[0].Symbol != "MXT" {
		t.Fatal("expected built-in registry when config declares no tokens")
	}

	path := writeConfig(t, `
tokens:
  - symbol: TST
    name: Test Token
    contract_address: "0x0000000000000000000000000000000000000001"
    decimals: 6
`)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	reg = loaded.Registry()
	if len(reg) != 1 {
		t.Fatalf("expected config registry to replace defaults, got %d entries", len(reg))
	}
	if reg[0].Symbol != "TST" || reg[0].Decimals != 6 {
		t.Errorf("unexpected descriptor: %+v", reg[0])
	}
}
