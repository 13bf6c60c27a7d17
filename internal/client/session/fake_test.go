package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/municollect/internal/client/models"
)

type fakeAuth struct {
	mu sync.Mutex

	authenticated bool
	stored        string

	loginResp    *models.AuthResponse
	loginErr     error
	registerResp *models.AuthResponse
	registerErr  error
	refreshResp  *models.AuthResponse
	refreshErr   error
	logoutErr    error

	LastLogin    models.LoginRequest
	LastRegister models.RegisterRequest
	LastRefresh  string
	Cleared      int
	LogoutCalls  int
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegister = req
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.authenticated = true
	return f.registerResp, nil
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLogin = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.authenticated = true
	return f.loginResp, nil
}

func (f *fakeAuth) RefreshToken(_ context.Context, token string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRefresh = token
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshResp, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	f.authenticated = false
	return f.logoutErr
}

func (f *fakeAuth) IsAuthenticated(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticated
}

func (f *fakeAuth) ClearTokens(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cleared++
	f.authenticated = false
	f.stored = ""
	return nil
}

func (f *fakeAuth) StoredRefreshToken(context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored
}

type fakeUsers struct {
	profile *models.UserProfileResponse
	err     error
	calls   int
}

func (f *fakeUsers) GetProfile(context.Context) (*models.UserProfileResponse, error) {
	f.calls++
	return f.profile, f.err
}

func (f *fakeUsers) UpdateProfile(context.Context, models.UpdateProfileRequest) (*models.User, error) {
	return nil, nil
}

func (f *fakeUsers) GetUserMunicipalities(context.Context) ([]models.Municipality, error) {
	return nil, nil
}
