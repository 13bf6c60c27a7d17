package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/municollect/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// args are filtered with flagx.FilterArgs so flags owned by other
// components do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-r", "-s", "-l"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.Retries, "r", cfg.Retries, "retries per request")
	fs.StringVar(&cfg.TokenStore, "s", cfg.TokenStore, "token store: sqlite or memory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
