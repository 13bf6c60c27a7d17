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

// FileConfig is the on-disk shape. Absent keys leave the current value alone.
type FileConfig struct {
	Addr            *string         `json:"addr" yaml:"addr"`
	SecretKey       *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenTTL  *timex.Duration `json:"access_token_ttl" yaml:"access_token_ttl"`
	RefreshTokenTTL *timex.Duration `json:"refresh_token_ttl" yaml:"refresh_token_ttl"`
	QRCodeTTL       *timex.Duration `json:"qr_code_ttl" yaml:"qr_code_ttl"`
	Seed            *bool           `json:"seed" yaml:"seed"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
}

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
	if fc.Addr != nil {
		cfg.Addr = *fc.Addr
	}
	if fc.SecretKey != nil {
		cfg.SecretKey = *fc.SecretKey
	}
	if fc.AccessTokenTTL != nil {
		cfg.AccessTokenTTL = fc.AccessTokenTTL.Duration
	}
	if fc.RefreshTokenTTL != nil {
		cfg.RefreshTokenTTL = fc.RefreshTokenTTL.Duration
	}
	if fc.QRCodeTTL != nil {
		cfg.QRCodeTTL = fc.QRCodeTTL.Duration
	}
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}
