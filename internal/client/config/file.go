package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/municollect/internal/flagx"
	"github.com/dmitrijs2005/municollect/internal/timex"
)

// FileConfig is a DTO used exclusively for file unmarshalling. Absent keys
// leave the current value alone.
type FileConfig struct {
	APIBaseURL         *string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout     *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	Retries            *int            `json:"retries" yaml:"retries"`
	RetryDelay         *timex.Duration `json:"retry_delay" yaml:"retry_delay"`
	TokenStore         *string         `json:"token_store" yaml:"token_store"`
	TokenDBPath        *string         `json:"token_db_path" yaml:"token_db_path"`
	EstimatorURL       *string         `json:"estimator_url" yaml:"estimator_url"`
	LogLevel           *string         `json:"log_level" yaml:"log_level"`
	UnreadPollInterval *timex.Duration `json:"unread_poll_interval" yaml:"unread_poll_interval"`
}

// parseFile overlays cfg with the file named by -c/-config, if any. YAML is
// chosen by a .yaml or .yml extension, JSON otherwise.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fc)
	default:
		err = json.Unmarshal(raw, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.TokenStore, fc.TokenStore)
	setString(&cfg.TokenDBPath, fc.TokenDBPath)
	setString(&cfg.EstimatorURL, fc.EstimatorURL)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RetryDelay != nil {
		cfg.RetryDelay = fc.RetryDelay.Duration
	}
	if fc.UnreadPollInterval != nil {
		cfg.UnreadPollInterval = fc.UnreadPollInterval.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
