package control

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/tokenctl/internal/core/config"
)

func memoryConfig() *config.AppConfig {
	return &config.AppConfig{
		Server: config.ServerConfig{Port: 0},
		Node: config.NodeConfig{
			RequestTimeout:      time.Second,
			ConfirmTimeout:      time.Second,
			ConfirmPollInterval: 100 * time.Millisecond,
		},
		Prices: config.PriceConfig{
			IndexBaseURL: "http://localhost:1",
			PollInterval: time.Hour,
		},
	}
}

func TestController_MemoryWiring(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, memoryConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if c.hist == nil || c.sessions == nil || c.prices == nil || c.server == nil {
		t.Fatal("controller left components unwired")
	}
	if c.caller != nil {
		t.Error("no endpoint configured, transport should be absent")
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestController_RegistryDefaults(t *testing.T) {
	c, err := New(context.Background(), memoryConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Stop(context.Background())

	registry := c.sessions.Registry()
	if len(registry) != 3 || registry[0].Symbol != "MXT" {
		t.Errorf("expected built-in registry with MXT first, got %+v", registry)
	}
}
