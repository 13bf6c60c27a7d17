package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
)

var (
	resident = models.User{ID: "u1", Email: "a@b.co", FirstName: "Somchai", Role: models.RoleResident}
	staff    = models.User{ID: "u2", Email: "s@b.co", FirstName: "Nok", Role: models.RoleMunicipalStaff}
)

func newTestSession(auth *fakeAuth, users *fakeUsers) (*Session, *ui.MemoryRouter, *ui.NoticeLog) {
	nav := ui.NewMemoryRouter(ui.PathLogin)
	notes := &ui.NoticeLog{}
	return New(auth, users, nav, notes), nav, notes
}

func TestSession_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("no tokens", func(t *testing.T) {
		users := &fakeUsers{}
		s, _, _ := newTestSession(&fakeAuth{}, users)
		assert.Equal(t, StateUnknown, s.Snapshot().State)

		s.Init(ctx)

		snap := s.Snapshot()
		assert.Equal(t, StateAnonymous, snap.State)
		assert.False(t, snap.IsLoading)
		assert.Nil(t, snap.User)
		assert.Zero(t, users.calls)
	})

	t.Run("valid tokens", func(t *testing.T) {
		users := &fakeUsers{profile: &models.UserProfileResponse{User: resident}}
		s, _, _ := newTestSession(&fakeAuth{authenticated: true}, users)

		s.Init(ctx)

		snap := s.Snapshot()
		assert.Equal(t, StateAuthenticated, snap.State)
		require.NotNil(t, snap.User)
		assert.Equal(t, "u1", snap.User.ID)
	})

	t.Run("profile fails clears tokens", func(t *testing.T) {
		auth := &fakeAuth{authenticated: true, stored: "r"}
		users := &fakeUsers{err: apierror.New(http.StatusUnauthorized, apierror.CodeAuthentication, "expired", nil)}
		s, _, _ := newTestSession(auth, users)

		s.Init(ctx)

		assert.Equal(t, StateAnonymous, s.Snapshot().State)
		assert.Equal(t, 1, auth.Cleared)
	})
}

func TestSession_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("resident goes to dashboard", func(t *testing.T) {
		auth := &fakeAuth{loginResp: &models.AuthResponse{AccessToken: "a", RefreshToken: "r", User: resident}}
		s, nav, notes := newTestSession(auth, &fakeUsers{})

		require.NoError(t, s.Login(ctx, "a@b.co", "secret1"))

		assert.Equal(t, models.LoginRequest{Email: "a@b.co", Password: "secret1"}, auth.LastLogin)
		assert.True(t, s.IsAuthenticated())
		assert.False(t, s.IsLoading())
		assert.Equal(t, ui.PathDashboard, nav.CurrentPath())
		n, ok := notes.Last()
		require.True(t, ok)
		assert.Equal(t, ui.LevelSuccess, n.Level)
		assert.Contains(t, n.Description, "Somchai")
	})

	t.Run("staff goes to municipal dashboard", func(t *testing.T) {
		auth := &fakeAuth{loginResp: &models.AuthResponse{User: staff}}
		s, nav, _ := newTestSession(auth, &fakeUsers{})

		require.NoError(t, s.Login(ctx, "s@b.co", "secret1"))
		assert.Equal(t, ui.PathMuniDashboard, nav.CurrentPath())
	})

	msgs := DefaultMessages()
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", apierror.New(401, apierror.CodeAuthentication, "bad", nil), msgs.InvalidCredentials},
		{"not found", apierror.New(404, apierror.CodeNotFound, "none", nil), msgs.AccountNotFound},
		{"other api", apierror.New(500, apierror.CodeInternal, "boom", nil), "boom"},
		{"network", apierror.NewNetwork("", nil), "Network connection failed"},
		{"plain", errors.New("x"), msgs.LoginFallback},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuth{loginErr: tc.err}
			s, nav, notes := newTestSession(auth, &fakeUsers{})

			err := s.Login(ctx, "a@b.co", "secret1")
			require.ErrorIs(t, err, tc.err)

			assert.False(t, s.IsAuthenticated())
			assert.False(t, s.IsLoading())
			assert.Equal(t, ui.PathLogin, nav.CurrentPath())
			n, ok := notes.Last()
			require.True(t, ok)
			assert.Equal(t, ui.LevelError, n.Level)
			assert.Equal(t, tc.want, n.Description)
		})
	}
}

func TestSession_Register(t *testing.T) {
	ctx := context.Background()
	req := models.RegisterRequest{Email: "a@b.co", Password: "secret1", FirstName: "Somchai", LastName: "J"}

	t.Run("success", func(t *testing.T) {
		auth := &fakeAuth{registerResp: &models.AuthResponse{User: resident}}
		s, nav, _ := newTestSession(auth, &fakeUsers{})

		require.NoError(t, s.Register(ctx, req))
		assert.Equal(t, req, auth.LastRegister)
		assert.Equal(t, ui.PathDashboard, nav.CurrentPath())
	})

	cases := []struct {
		status int
		want   string
	}{
		{http.StatusConflict, DefaultMessages().EmailTaken},
		{http.StatusBadRequest, DefaultMessages().InvalidData},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			auth := &fakeAuth{registerErr: apierror.New(tc.status, apierror.CodeForStatus(tc.status), "x", nil)}
			s, _, notes := newTestSession(auth, &fakeUsers{})

			require.Error(t, s.Register(ctx, req))
			n, _ := notes.Last()
			assert.Equal(t, tc.want, n.Description)
		})
	}
}

func TestSession_Logout(t *testing.T) {
	ctx := context.Background()

	for _, logoutErr := range []error{nil, apierror.NewNetwork("", nil)} {
		auth := &fakeAuth{loginResp: &models.AuthResponse{User: resident}, logoutErr: logoutErr}
		s, nav, _ := newTestSession(auth, &fakeUsers{})
		require.NoError(t, s.Login(ctx, "a@b.co", "secret1"))

		s.Logout(ctx)

		assert.False(t, s.IsAuthenticated())
		assert.Equal(t, StateAnonymous, s.Snapshot().State)
		assert.Equal(t, ui.PathHome, nav.CurrentPath())
		assert.Equal(t, 1, auth.LogoutCalls)
	}
}

func TestSession_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates", func(t *testing.T) {
		auth := &fakeAuth{stored: "r1", refreshResp: &models.AuthResponse{User: staff}}
		s, _, _ := newTestSession(auth, &fakeUsers{})

		require.NoError(t, s.RefreshToken(ctx))
		assert.Equal(t, "r1", auth.LastRefresh)
		assert.Equal(t, "u2", s.User().ID)
	})

	t.Run("expired access token still rotates", func(t *testing.T) {
		auth := &fakeAuth{authenticated: false, stored: "r1", refreshResp: &models.AuthResponse{User: staff}}
		s, _, _ := newTestSession(auth, &fakeUsers{})

		require.NoError(t, s.RefreshToken(ctx))
		assert.Equal(t, "r1", auth.LastRefresh)
		assert.True(t, s.IsAuthenticated())
	})

	t.Run("no stored token", func(t *testing.T) {
		auth := &fakeAuth{}
		s, nav, _ := newTestSession(auth, &fakeUsers{})
		nav.Navigate(ui.PathDashboard)

		err := s.RefreshToken(ctx)
		require.ErrorIs(t, err, apierror.ErrNoRefreshToken)
		assert.Equal(t, ui.PathHome, nav.CurrentPath())
		assert.Equal(t, 1, auth.Cleared)
	})

	t.Run("rejected", func(t *testing.T) {
		rejected := apierror.New(401, apierror.CodeAuthentication, "invalid", nil)
		auth := &fakeAuth{stored: "r1", refreshErr: rejected, loginResp: &models.AuthResponse{User: resident}}
		s, nav, _ := newTestSession(auth, &fakeUsers{})
		require.NoError(t, s.Login(ctx, "a@b.co", "secret1"))

		err := s.RefreshToken(ctx)
		require.ErrorIs(t, err, rejected)
		assert.False(t, s.IsAuthenticated())
		assert.Equal(t, ui.PathHome, nav.CurrentPath())
	})
}

func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{loginResp: &models.AuthResponse{User: resident}}
	s, _, _ := newTestSession(auth, &fakeUsers{})

	var (
		mu    sync.Mutex
		snaps []Snapshot
	)
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		snaps = append(snaps, snap)
		mu.Unlock()
		// reading from inside an observer must not deadlock
		_ = s.Snapshot()
	})

	require.NoError(t, s.Login(ctx, "a@b.co", "secret1"))

	mu.Lock()
	require.NotEmpty(t, snaps)
	assert.True(t, snaps[0].IsLoading)
	last := snaps[len(snaps)-1]
	mu.Unlock()
	assert.False(t, last.IsLoading)
	assert.True(t, last.IsAuthenticated())

	unsubscribe()
	mu.Lock()
	n := len(snaps)
	mu.Unlock()
	s.Logout(ctx)
	mu.Lock()
	assert.Equal(t, n, len(snaps))
	mu.Unlock()
}

func TestSnapshot_UserIsCopy(t *testing.T) {
	auth := &fakeAuth{loginResp: &models.AuthResponse{User: resident}}
	s, _, _ := newTestSession(auth, &fakeUsers{})
	require.NoError(t, s.Login(context.Background(), "a@b.co", "secret1"))

	u := s.User()
	u.FirstName = "changed"
	assert.Equal(t, "Somchai", s.User().FirstName)
}
