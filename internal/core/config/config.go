package config

import (
	"time"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/infra/storage/postgres"
	redisstore "github.com/vietddude/tokenctl/internal/infra/storage/redisstore"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig             `yaml:"server"`
	Node     NodeConfig               `yaml:"node"`
	Prices   PriceConfig              `yaml:"prices"`
	Tokens   []domain.TokenDescriptor `yaml:"tokens"`
	Oracles  map[uint64]string        `yaml:"oracles"` // chain id -> feed address
	Logging  LoggingConfig            `yaml:"logging"`
	Redis    redisstore.Config        `yaml:"redis"`
	Database postgres.Config          `yaml:"database"`
}

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// NodeConfig holds the wallet/node JSON-RPC endpoint settings. The endpoint
// doubles as the injected wallet provider: account listing and transaction
// signing both go through it. An empty endpoint means no provider is present.
type NodeConfig struct {
	Endpoint            string        `yaml:"endpoint"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	ConfirmTimeout      time.Duration `yaml:"confirm_timeout"`
	ConfirmPollInterval time.Duration `yaml:"confirm_poll_interval"`
}

// PriceConfig holds price synchronization settings.
type PriceConfig struct {
	IndexBaseURL string        `yaml:"index_base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Registry returns the token registry in selection order. Tokens from the
// config file replace the built-in registry entirely when present.
func (c *AppConfig) Registry() []domain.TokenDescriptor {
	if len(c.Tokens) == 0 {
		return domain.DefaultTokens()
	}
	reg := make([]domain.TokenDescriptor, len(c.Tokens))
	copy(reg, c.Tokens)
	return reg
}
