// Package config loads settings for the MuniCollect contract double.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   listen address (":8080")
//	-s string   JWT HMAC secret
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-q int      QR code validity, minutes
//	-seed       load demo municipalities and accounts
//	-l string   log level
package config

import "time"

type Config struct {
	Addr            string
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	QRCodeTTL       time.Duration
	Seed            bool
	LogLevel        string
}

// LoadDefaults populates c with development defaults. The secret is not fit
// for anything but local use.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "municollect-dev-secret"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.QRCodeTTL = 15 * time.Minute
	c.Seed = true
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the config file, then flags from args
// (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
