package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/municollect/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-r", "-q", "-seed", "-l"})

	fs := flag.NewFlagSet("mockapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT secret key")
	access := fs.Int("t", int(cfg.AccessTokenTTL.Minutes()), "access token validity (minutes)")
	refresh := fs.Int("r", int(cfg.RefreshTokenTTL.Minutes()), "refresh token validity (minutes)")
	qr := fs.Int("q", int(cfg.QRCodeTTL.Minutes()), "QR code validity (minutes)")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "load demo data")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// minute flags only override when given, so finer file values survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenTTL = time.Duration(*access) * time.Minute
		case "r":
			cfg.RefreshTokenTTL = time.Duration(*refresh) * time.Minute
		case "q":
			cfg.QRCodeTTL = time.Duration(*qr) * time.Minute
		}
	})
	return nil
}
