package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	TokenStoreSQLite = "sqlite"
	TokenStoreMemory = "memory"
)

// Config holds runtime settings for the MuniCollect CLI. An empty
// EstimatorURL disables cost estimates; a zero UnreadPollInterval disables
// the unread notification poller.
type Config struct {
	APIBaseURL         string
	RequestTimeout     time.Duration
	Retries            int
	RetryDelay         time.Duration
	TokenStore         string
	TokenDBPath        string
	EstimatorURL       string
	LogLevel           string
	UnreadPollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.RequestTimeout = 30 * time.Second
	c.Retries = 3
	c.RetryDelay = time.Second
	c.TokenStore = TokenStoreSQLite
	c.TokenDBPath = defaultTokenDBPath()
	c.EstimatorURL = ""
	c.LogLevel = "warn"
	c.UnreadPollInterval = 30 * time.Second
}

func defaultTokenDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "municollect-tokens.db"
	}
	return filepath.Join(dir, "municollect", "tokens.db")
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	switch c.TokenStore {
	case TokenStoreSQLite:
		if c.TokenDBPath == "" {
			return fmt.Errorf("token db path is empty")
		}
	case TokenStoreMemory:
	default:
		return fmt.Errorf("unknown token store %q", c.TokenStore)
	}
	return nil
}

// LoadConfig applies defaults, the config file, the environment and then
// flags from args (without the program name), and validates the result.
func LoadConfig(args []string) (*Config, error) {
	lookup, err := envLookup(".env")
	if err != nil {
		return nil, err
	}
	return load(args, lookup)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
