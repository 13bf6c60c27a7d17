// Package tokens persists the access token, the refresh token and the access
// token expiry, and answers whether the session is still usable.
package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/municollect/internal/logging"
)

const (
	KeyAccessToken  = "municollect_access_token"
	KeyRefreshToken = "municollect_refresh_token"
	KeyExpiresAt    = "municollect_token_expires_at"
)

// ErrIncompleteTokens is returned by SetTokens when any of the three values
// is missing. The pair is only ever stored whole.
var ErrIncompleteTokens = errors.New("access token, refresh token and expiry are all required")

// Manager reads and writes the token triple. Read failures are logged and
// treated as "absent"; a missing or unreadable expiry counts as expired.
type Manager struct {
	store Store
	log   logging.Logger
	now   func() time.Time
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, log: logging.Nop{}, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) AccessToken(ctx context.Context) string {
	return m.read(ctx, KeyAccessToken)
}

func (m *Manager) RefreshToken(ctx context.Context) string {
	return m.read(ctx, KeyRefreshToken)
}

// ExpiresAt returns the stored expiry, ok=false when absent or unparsable.
func (m *Manager) ExpiresAt(ctx context.Context) (time.Time, bool) {
	raw := m.read(ctx, KeyExpiresAt)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		m.log.Warn(ctx, "token expiry unreadable", "value", raw, "error", err)
		return time.Time{}, false
	}
	return t, true
}

// SetTokens stores all three values in one atomic update.
func (m *Manager) SetTokens(ctx context.Context, access, refresh string, expiresAt time.Time) error {
	if access == "" || refresh == "" || expiresAt.IsZero() {
		return ErrIncompleteTokens
	}
	return m.store.Update(ctx, func(kv KV) error {
		if err := kv.Set(ctx, KeyAccessToken, access); err != nil {
			return err
		}
		if err := kv.Set(ctx, KeyRefreshToken, refresh); err != nil {
			return err
		}
		return kv.Set(ctx, KeyExpiresAt, expiresAt.UTC().Format(time.RFC3339Nano))
	})
}

// ClearTokens removes all three values in one atomic update.
func (m *Manager) ClearTokens(ctx context.Context) error {
	return m.store.Update(ctx, func(kv KV) error {
		for _, k := range []string{KeyAccessToken, KeyRefreshToken, KeyExpiresAt} {
			if err := kv.Remove(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// IsTokenExpired is true unless a readable expiry lies strictly in the future.
func (m *Manager) IsTokenExpired(ctx context.Context) bool {
	exp, ok := m.ExpiresAt(ctx)
	if !ok {
		return true
	}
	return !m.now().Before(exp)
}

func (m *Manager) read(ctx context.Context, key string) string {
	v, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn(ctx, "token store read failed", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}
