// Package errhandler turns errors into user feedback: a log record, a
// notice, and for authentication failures a sign-out plus redirect to the
// login page.
package errhandler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
	"github.com/dmitrijs2005/municollect/internal/logging"
)

// TokenClearer forgets the stored credentials.
type TokenClearer interface {
	ClearTokens(ctx context.Context) error
}

type Config struct {
	ShowToast      bool
	LogError       bool
	RedirectOnAuth bool
	// CustomHandler, when set, replaces the redirect and notice steps.
	CustomHandler func(ctx context.Context, err error)
}

func DefaultConfig() Config {
	return Config{ShowToast: true, LogError: true, RedirectOnAuth: true}
}

type Handler struct {
	log    logging.Logger
	note   ui.Notifier
	nav    ui.Navigator
	tokens TokenClearer
	now    func() time.Time

	mu  sync.RWMutex
	cfg Config
}

type Option func(*Handler)

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func WithConfig(cfg Config) Option {
	return func(h *Handler) { h.cfg = cfg }
}

func New(log logging.Logger, note ui.Notifier, nav ui.Navigator, tokens TokenClearer, opts ...Option) *Handler {
	if log == nil {
		log = logging.Nop{}
	}
	h := &Handler{
		log:    log,
		note:   note,
		nav:    nav,
		tokens: tokens,
		now:    time.Now,
		cfg:    DefaultConfig(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Configure edits the configuration in place.
func (h *Handler) Configure(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.cfg)
}

func (h *Handler) Config() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Handle reports v, which may be an error, a string or anything else.
// where names the call site and goes into the log record.
func (h *Handler) Handle(ctx context.Context, v any, where string) {
	err := normalize(v)
	cfg := h.Config()

	if cfg.LogError {
		h.logError(ctx, err, where)
	}

	if cfg.CustomHandler != nil {
		cfg.CustomHandler(ctx, err)
		return
	}

	if cfg.RedirectOnAuth && apierror.IsAuth(err) {
		h.handleAuth(ctx)
		return
	}

	if cfg.ShowToast && h.note != nil {
		h.note.Notify(ui.Notice{Level: ui.LevelError, Title: "Error", Description: Message(err)})
	}
}

func (h *Handler) handleAuth(ctx context.Context) {
	if h.tokens != nil {
		if err := h.tokens.ClearTokens(ctx); err != nil {
			h.log.Error(ctx, "clear tokens failed", "error", err)
		}
	}
	if h.nav != nil && h.nav.CurrentPath() != ui.PathLogin {
		h.nav.Navigate(ui.PathLogin)
	}
}

func (h *Handler) logError(ctx context.Context, err error, where string) {
	args := []any{
		"message", err.Error(),
		"type", fmt.Sprintf("%T", err),
		"context", where,
		"timestamp", h.now().UTC().Format(time.RFC3339Nano),
	}
	if apiErr, ok := apierror.AsAPI(err); ok {
		args = append(args, "status", apiErr.Status, "code", string(apiErr.Code))
		if len(apiErr.Details) > 0 {
			args = append(args, "details", apiErr.Details)
		}
	}
	h.log.Error(ctx, "error handled", args...)
}

func normalize(v any) error {
	switch e := v.(type) {
	case error:
		if e != nil && !isNilPointer(e) {
			return e
		}
	case string:
		return errors.New(e)
	}
	return errors.New(unexpectedMessage)
}

// isNilPointer catches a nil taxonomy pointer stored in a non-nil error.
func isNilPointer(err error) bool {
	switch e := err.(type) {
	case *apierror.Error:
		return e == nil
	case *apierror.ValidationError:
		return e == nil
	case *apierror.NetworkError:
		return e == nil
	}
	return false
}

// Message is the user-facing text for v.
func Message(v any) string {
	err := normalize(v)

	var verr *apierror.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		if verr.Message == "" {
			return fmt.Sprintf("Please check the %s field and try again.", verr.Field)
		}
		return fmt.Sprintf("Please check the %s field: %s", verr.Field, verr.Message)
	}

	if apiErr, ok := apierror.AsAPI(err); ok {
		if msg, ok := codeMessages[apiErr.Code]; ok {
			return msg
		}
		if msg, ok := statusMessages[apiErr.Status]; ok {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return unexpectedMessage
	}
	if apierror.IsNetwork(err) {
		return networkMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unexpectedMessage
}

// IsRetryable reports whether retrying the failed call may succeed.
func IsRetryable(v any) bool {
	return apierror.IsRetryable(normalize(v))
}
