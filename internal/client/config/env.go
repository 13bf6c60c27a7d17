package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "MUNICOLLECT_"

// envLookup resolves variables from the process environment first and the
// dotenv file second. A missing dotenv file is not an error.
func envLookup(dotenv string) (func(string) (string, bool), error) {
	vars, err := godotenv.Read(dotenv)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", dotenv, err)
		}
		vars = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return v, ok && v != ""
	}

	if v, ok := get("API_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := get("TOKEN_STORE"); ok {
		cfg.TokenStore = v
	}
	if v, ok := get("TOKEN_DB"); ok {
		cfg.TokenDBPath = v
	}
	if v, ok := get("ESTIMATOR_URL"); ok {
		cfg.EstimatorURL = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRETRIES: %w", envPrefix, err)
		}
		cfg.Retries = n
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"RETRY_DELAY", &cfg.RetryDelay},
		{"UNREAD_POLL_INTERVAL", &cfg.UnreadPollInterval},
	}
	for _, d := range durations {
		v, ok := get(d.name)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}
