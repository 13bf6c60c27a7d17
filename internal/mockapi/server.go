package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/municollect/internal/cryptox"
	"github.com/dmitrijs2005/municollect/internal/logging"
	"github.com/dmitrijs2005/municollect/internal/mockapi/config"
	"github.com/dmitrijs2005/municollect/internal/mockapi/store"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	svc    *Service
	router http.Handler
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	log := logger.With("module", "mockapi")

	svc := NewService(store.New(), c, WithLogger(log), WithBcryptCost(cryptox.MinCost))
	if c.Seed {
		if err := svc.Seed(context.Background()); err != nil {
			return nil, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(svc, log, reg)
	if err != nil {
		return nil, fmt.Errorf("router init error: %w", err)
	}

	return &App{config: c, logger: log, svc: svc, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	listen, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, listen, app.router, app.logger)
}

// Serve runs handler on l and shuts it down gracefully once ctx is done.
func Serve(ctx context.Context, l net.Listener, handler http.Handler, logger logging.Logger) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
