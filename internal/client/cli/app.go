package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/config"
	"github.com/dmitrijs2005/municollect/internal/client/errhandler"
	"github.com/dmitrijs2005/municollect/internal/client/estimate"
	"github.com/dmitrijs2005/municollect/internal/client/metrics"
	"github.com/dmitrijs2005/municollect/internal/client/services"
	"github.com/dmitrijs2005/municollect/internal/client/session"
	"github.com/dmitrijs2005/municollect/internal/client/tokens"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
	"github.com/dmitrijs2005/municollect/internal/filex"
	"github.com/dmitrijs2005/municollect/internal/logging"
)

type App struct {
	config    *config.Config
	log       logging.Logger
	api       *services.Services
	session   *session.Session
	errors    *errhandler.Handler
	estimator estimate.Estimator
	pricing   estimate.Pricing
	registry  *prometheus.Registry
	term      *terminal
	reader    *bufio.Reader
	out       io.Writer
	status    atomic.Value // prompt status, kept current by the session
	closers   []func() error
}

// NewApp wires the client from c, reading from stdin and writing to stdout.
func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, c.LogLevel)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openTokenStore(context.Background(), c)
	if err != nil {
		return nil, err
	}

	app, err := newApp(c, store, os.Stdin, os.Stdout, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	app.closers = append(app.closers, closeStore)
	return app, nil
}

func openTokenStore(ctx context.Context, c *config.Config) (tokens.Store, func() error, error) {
	if c.TokenStore == config.TokenStoreMemory {
		return tokens.NewMemoryStore(), func() error { return nil }, nil
	}

	if _, err := filex.EnsureParentDir(c.TokenDBPath); err != nil {
		return nil, nil, fmt.Errorf("token db directory: %w", err)
	}
	db, err := tokens.OpenSQLite(ctx, c.TokenDBPath)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

func newApp(c *config.Config, store tokens.Store, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewRegistered(reg)
	if err != nil {
		return nil, err
	}

	tm := tokens.NewManager(store, tokens.WithLogger(log))
	client := apiclient.New(c.APIBaseURL, tm,
		apiclient.WithLogger(log),
		apiclient.WithMetrics(m),
		apiclient.WithTimeout(c.RequestTimeout),
		apiclient.WithRetries(c.Retries),
		apiclient.WithRetryDelay(c.RetryDelay),
	)
	api := services.New(client, log)

	term := newTerminal(out)
	app := &App{
		config:   c,
		log:      log,
		api:      api,
		session:  session.New(api.Auth, api.User, term, term, session.WithLogger(log)),
		errors:   errhandler.New(log, term, term, client),
		pricing:  estimate.DefaultPricing(),
		registry: reg,
		term:     term,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	if c.EstimatorURL != "" {
		app.estimator = estimate.NewHTTPEstimator(c.EstimatorURL, estimate.WithLogger(log))
	}

	app.status.Store(statusLine(app.session.Snapshot()))
	unsubscribe := app.session.Subscribe(func(s session.Snapshot) {
		app.status.Store(statusLine(s))
	})
	app.closers = append(app.closers, func() error { unsubscribe(); return nil })
	return app, nil
}

// Run restores the session, starts the unread poller and serves the REPL
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to MuniCollect CLI (type 'help' for commands)")
	a.session.Init(ctx)
	if !a.isLoggedIn() {
		a.term.Navigate(ui.PathLogin)
	}

	if a.config.UnreadPollInterval > 0 {
		go a.StartUnreadWatcher(ctx, a.config.UnreadPollInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	return a.status.Load().(string)
}

// statusLine renders the prompt status: the signed-in user and role.
func statusLine(s session.Snapshot) string {
	switch {
	case s.IsLoading:
		return "(...)"
	case s.User == nil:
		return "(anonymous)"
	}
	return fmt.Sprintf("(%s %s)", s.User.FirstName, strings.ReplaceAll(string(s.User.Role), "_", " "))
}

func (a *App) printf(format string, args ...any) {
	a.term.mu.Lock()
	defer a.term.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// fail reports err through the error handler. An authentication failure
// clears the tokens there, so the session is re-checked to follow suit.
func (a *App) fail(ctx context.Context, err error, where string) error {
	a.errors.Handle(ctx, err, "cli."+where)
	if apierror.IsAuth(err) {
		a.session.Init(ctx)
	}
	return err
}

// StartUnreadWatcher polls the unread notification count while signed in
// and announces increases.
func (a *App) StartUnreadWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := -1
	for {
		select {
		case <-ticker.C:
			if !a.isLoggedIn() {
				last = -1
				continue
			}
			last = a.checkUnread(ctx, last)

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkUnread(ctx context.Context, last int) int {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	n, err := a.api.Notification.GetUnreadCount(ctx)
	if err != nil {
		a.log.Debug(ctx, "unread poll failed", "error", err)
		return last
	}
	if n > last && n > 0 && last >= 0 {
		a.term.Notify(unreadNotice(n))
	}
	return n
}
