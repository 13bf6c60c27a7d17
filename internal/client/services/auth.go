package services

import (
	"context"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/logging"
)

// AuthService covers account creation, sign-in, token rotation and sign-out.
//
// Register, Login and RefreshToken store the returned tokens. Logout always
// clears local tokens, even when the server call fails.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	ClearTokens(ctx context.Context) error
	StoredRefreshToken(ctx context.Context) string
}

type authService struct {
	api API
	log logging.Logger
}

func NewAuthService(api API, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &authService{api: api, log: log}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, endpoints.AuthRegister, req)
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, endpoints.AuthLogin, req)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	req := models.RefreshTokenRequest{RefreshToken: refreshToken}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, endpoints.AuthRefresh, req)
}

func (s *authService) authenticate(ctx context.Context, endpoint string, body any) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.api.Post(ctx, endpoint, body, nil, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.ExpiresAt.IsZero() {
		return nil, apierror.Unauthenticated("Authentication response carried incomplete token data", nil)
	}
	if err := s.api.SetTokens(ctx, resp.AccessToken, resp.RefreshToken, resp.ExpiresAt); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.api.Delete(ctx, endpoints.AuthLogout, nil, nil); err != nil {
		s.log.Warn(ctx, "logout request failed", "error", err)
	}
	return s.api.ClearTokens(ctx)
}

func (s *authService) IsAuthenticated(ctx context.Context) bool {
	return s.api.IsAuthenticated(ctx)
}

func (s *authService) ClearTokens(ctx context.Context) error {
	return s.api.ClearTokens(ctx)
}

func (s *authService) StoredRefreshToken(ctx context.Context) string {
	return s.api.RefreshTokenValue(ctx)
}
