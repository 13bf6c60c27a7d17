// Package session holds the application-wide authentication state.
//
// A Session moves Unknown -> Checking -> Authenticated | Anonymous. Login,
// Register, Logout and RefreshToken move it between the settled states and
// drive navigation and notices through the ui collaborators. Observers
// registered with Subscribe get a Snapshot after every change.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/client/services"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
	"github.com/dmitrijs2005/municollect/internal/logging"
)

type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	State     State
	User      *models.User
	IsLoading bool
}

func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}

// Settled reports whether the initial check has completed.
func (s Snapshot) Settled() bool {
	return s.State == StateAuthenticated || s.State == StateAnonymous
}

type Session struct {
	auth  services.AuthService
	users services.UserService
	nav   ui.Navigator
	note  ui.Notifier
	log   logging.Logger
	msgs  Messages

	mu      sync.RWMutex
	state   State
	user    *models.User
	loading int

	subsMu sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithMessages(m Messages) Option {
	return func(s *Session) { s.msgs = m }
}

func New(auth services.AuthService, users services.UserService, nav ui.Navigator, note ui.Notifier, opts ...Option) *Session {
	s := &Session{
		auth:  auth,
		users: users,
		nav:   nav,
		note:  note,
		log:   logging.Nop{},
		msgs:  DefaultMessages(),
		subs:  make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var u *models.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return Snapshot{State: s.state, User: u, IsLoading: s.loading > 0}
}

func (s *Session) User() *models.User    { return s.Snapshot().User }
func (s *Session) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }
func (s *Session) IsLoading() bool       { return s.Snapshot().IsLoading }

// Subscribe registers fn for change notifications. The returned function
// removes it.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// update applies fn under the write lock, then notifies observers outside it.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.subsMu.Unlock()

	for _, f := range subs {
		f(snap)
	}
}

func (s *Session) beginLoading() {
	s.update(func() { s.loading++ })
}

func (s *Session) endLoading() {
	s.update(func() { s.loading-- })
}

func (s *Session) setUser(u *models.User) {
	s.update(func() {
		s.user = u
		if u != nil {
			s.state = StateAuthenticated
		} else {
			s.state = StateAnonymous
		}
	})
}

// Init resolves the initial state from the stored tokens.
func (s *Session) Init(ctx context.Context) {
	s.update(func() {
		s.state = StateChecking
		s.loading++
	})
	defer s.endLoading()

	if !s.auth.IsAuthenticated(ctx) {
		s.setUser(nil)
		return
	}

	profile, err := s.users.GetProfile(ctx)
	if err != nil {
		s.log.Warn(ctx, "session check failed", "error", err)
		s.clearTokens(ctx)
		s.setUser(nil)
		return
	}
	s.setUser(&profile.User)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.beginLoading()
	defer s.endLoading()

	resp, err := s.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.log.Error(ctx, "login failed", "error", err)
		s.note.Notify(ui.Notice{
			Level:       ui.LevelError,
			Title:       s.msgs.LoginFailedTitle,
			Description: s.msgs.loginError(err),
		})
		return err
	}

	s.signedIn(resp.User, s.msgs.LoginSuccessTitle)
	return nil
}

func (s *Session) Register(ctx context.Context, req models.RegisterRequest) error {
	s.beginLoading()
	defer s.endLoading()

	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		s.log.Error(ctx, "registration failed", "error", err)
		s.note.Notify(ui.Notice{
			Level:       ui.LevelError,
			Title:       s.msgs.RegisterFailedTitle,
			Description: s.msgs.registerError(err),
		})
		return err
	}

	s.signedIn(resp.User, s.msgs.RegisterSuccessTitle)
	return nil
}

func (s *Session) signedIn(u models.User, title string) {
	s.setUser(&u)
	s.note.Notify(ui.Notice{
		Level:       ui.LevelSuccess,
		Title:       title,
		Description: s.msgs.welcome(u),
	})
	s.nav.Navigate(RoleHome(u.Role))
}

// Logout signs out locally regardless of what the server says.
func (s *Session) Logout(ctx context.Context) {
	s.beginLoading()
	defer s.endLoading()

	if err := s.auth.Logout(ctx); err != nil {
		s.log.Error(ctx, "logout failed", "error", err)
		s.clearTokens(ctx)
	}
	s.setUser(nil)
	s.note.Notify(ui.Notice{
		Level:       ui.LevelSuccess,
		Title:       s.msgs.LogoutTitle,
		Description: s.msgs.LogoutDescription,
	})
	s.nav.Navigate(ui.PathHome)
}

// RefreshToken rotates the tokens with the stored refresh token. On failure
// the session is signed out and the error returned.
func (s *Session) RefreshToken(ctx context.Context) error {
	refresh := s.auth.StoredRefreshToken(ctx)
	if refresh == "" {
		err := apierror.Unauthenticated("No refresh token available", apierror.ErrNoRefreshToken)
		s.refreshFailed(ctx, err)
		return err
	}

	resp, err := s.auth.RefreshToken(ctx, refresh)
	if err != nil {
		s.refreshFailed(ctx, err)
		return err
	}
	s.setUser(&resp.User)
	return nil
}

func (s *Session) refreshFailed(ctx context.Context, err error) {
	s.log.Error(ctx, "token refresh failed", "error", err)
	s.clearTokens(ctx)
	s.setUser(nil)
	s.nav.Navigate(ui.PathHome)
}

func (s *Session) clearTokens(ctx context.Context) {
	if err := s.auth.ClearTokens(ctx); err != nil {
		s.log.Error(ctx, "clear tokens failed", "error", err)
	}
}
