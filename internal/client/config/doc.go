// Package config loads runtime configuration for the MuniCollect terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via flags: -c or -config.
//  3. Environment variables (MUNICOLLECT_*), with a .env file in the working
//     directory loaded if present. Real environment values win over .env.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-r int      retries per request
//	-s string   token store: "sqlite" or "memory"
//	-l string   log level
//
// Environment
//
//	MUNICOLLECT_API_URL                 MUNICOLLECT_TOKEN_STORE
//	MUNICOLLECT_REQUEST_TIMEOUT         MUNICOLLECT_TOKEN_DB
//	MUNICOLLECT_RETRIES                 MUNICOLLECT_ESTIMATOR_URL
//	MUNICOLLECT_RETRY_DELAY             MUNICOLLECT_LOG_LEVEL
//	MUNICOLLECT_UNREAD_POLL_INTERVAL
//
// Durations in files and the environment are strings like "3s". Files may
// also give integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.municollect.example",
//	  "request_timeout": "10s",
//	  "token_store": "memory"
//	}
package config
