// Package mockapi is an in-memory stand-in for the MuniCollect backend. It
// speaks the same JSON envelope and endpoints as the real API so the client
// can be developed and tested end to end without a database.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/common"
	"github.com/dmitrijs2005/municollect/internal/cryptox"
	"github.com/dmitrijs2005/municollect/internal/logging"
	"github.com/dmitrijs2005/municollect/internal/mockapi/auth"
	"github.com/dmitrijs2005/municollect/internal/mockapi/config"
	"github.com/dmitrijs2005/municollect/internal/mockapi/store"
)

// Caller is the authenticated principal of a request.
type Caller struct {
	UserID string
	Role   models.UserRole
}

func (c Caller) staff() bool {
	return c.Role == models.RoleMunicipalStaff || c.Role == models.RoleAdmin
}

type Service struct {
	store      *store.Store
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	qrTTL      time.Duration
	cost       int
	now        func() time.Time
	log        logging.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost lowers the hashing cost, which tests want.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(st *store.Store, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		store:      st,
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		qrTTL:      cfg.QRCodeTTL,
		cost:       cryptox.DefaultCost,
		now:        time.Now,
		log:        logging.Nop{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

// --- auth ---

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var links []string
	if req.MunicipalityID != nil {
		if _, err := s.store.Municipality(*req.MunicipalityID); err != nil {
			return nil, err
		}
		links = append(links, *req.MunicipalityID)
	}

	return s.createUser(ctx, req, models.RoleResident, links)
}

func (s *Service) createUser(ctx context.Context, req models.RegisterRequest, role models.UserRole, links []string) (*models.AuthResponse, error) {
	hash, err := cryptox.HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowUTC()
	user := models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(store.UserRecord{User: user, PasswordHash: hash, MunicipalityIDs: links}); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", role)
	return s.issueTokens(user)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	rec, err := s.store.UserByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}
	ok, err := cryptox.CheckPassword(rec.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	return s.issueTokens(rec.User)
}

// RefreshToken rotates a refresh token: the presented one is consumed and a
// new pair issued.
func (s *Service) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	tok, err := s.store.TakeRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", common.ErrInvalidToken)
	}
	if !tok.Expires.After(s.nowUTC()) {
		return nil, common.ErrRefreshTokenExpired
	}

	rec, err := s.store.UserByID(tok.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", common.ErrInvalidToken)
	}
	return s.issueTokens(rec.User)
}

// Logout revokes the caller's refresh tokens. Anonymous calls succeed.
func (s *Service) Logout(ctx context.Context, caller *Caller) {
	if caller == nil {
		return
	}
	n := s.store.RevokeRefreshTokens(caller.UserID)
	s.log.Debug(ctx, "refresh tokens revoked", "user_id", caller.UserID, "count", n)
}

// Authenticate resolves a bearer access token.
func (s *Service) Authenticate(token string) (Caller, error) {
	claims, err := auth.ParseToken(token, s.secret, s.now())
	if err != nil {
		return Caller{}, err
	}
	if _, err := s.store.UserByID(claims.UserID); err != nil {
		return Caller{}, common.ErrInvalidToken
	}
	return Caller{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *Service) issueTokens(u models.User) (*models.AuthResponse, error) {
	// JWT expiry has second precision; report the same instant
	now := s.nowUTC().Truncate(time.Second)

	access, err := auth.GenerateToken(u.ID, u.Role, s.secret, now, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	s.store.SaveRefreshToken(store.RefreshToken{Token: refresh, UserID: u.ID, Expires: now.Add(s.refreshTTL)})

	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         u,
		ExpiresAt:    now.Add(s.accessTTL),
	}, nil
}

// --- users ---

func (s *Service) Profile(ctx context.Context, c Caller) (*models.UserProfileResponse, error) {
	rec, err := s.store.UserByID(c.UserID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfileResponse{User: rec.User, Municipalities: s.municipalitiesOf(rec)}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, c Caller, req models.UpdateProfileRequest) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	rec, err := s.store.UpdateUser(c.UserID, func(r *store.UserRecord) error {
		if req.FirstName != nil {
			r.User.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			r.User.LastName = *req.LastName
		}
		if req.Phone != nil {
			r.User.Phone = req.Phone
		}
		r.User.UpdatedAt = s.nowUTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec.User, nil
}

func (s *Service) UserMunicipalities(ctx context.Context, c Caller) ([]models.Municipality, error) {
	rec, err := s.store.UserByID(c.UserID)
	if err != nil {
		return nil, err
	}
	return s.municipalitiesOf(rec), nil
}

func (s *Service) municipalitiesOf(rec store.UserRecord) []models.Municipality {
	out := make([]models.Municipality, 0, len(rec.MunicipalityIDs))
	for _, id := range rec.MunicipalityIDs {
		if m, err := s.store.Municipality(id); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) linkMunicipality(userID, municipalityID string) {
	_, _ = s.store.UpdateUser(userID, func(r *store.UserRecord) error {
		if !slices.Contains(r.MunicipalityIDs, municipalityID) {
			r.MunicipalityIDs = append(r.MunicipalityIDs, municipalityID)
		}
		return nil
	})
}

// --- municipalities ---

func (s *Service) Municipalities(ctx context.Context) *models.MunicipalityListResponse {
	list := s.store.Municipalities()
	return &models.MunicipalityListResponse{Municipalities: list, Total: len(list)}
}

func (s *Service) Municipality(ctx context.Context, id string) (*models.Municipality, error) {
	m, err := s.store.Municipality(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) CreateMunicipality(ctx context.Context, c Caller, req models.MunicipalityRequest) (*models.Municipality, error) {
	if c.Role != models.RoleAdmin {
		return nil, fmt.Errorf("create municipality: %w", common.ErrForbidden)
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	pc, err := paymentConfig(req.PaymentConfig)
	if err != nil {
		return nil, err
	}

	now := s.nowUTC()
	m := models.Municipality{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Code:          req.Code,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		PaymentConfig: pc,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateMunicipality(m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) UpdateMunicipality(ctx context.Context, c Caller, id string, req models.MunicipalityRequest) (*models.Municipality, error) {
	if c.Role != models.RoleAdmin {
		return nil, fmt.Errorf("update municipality: %w", common.ErrForbidden)
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var pc *models.PaymentConfig
	if req.PaymentConfig != nil {
		var err error
		if pc, err = paymentConfig(req.PaymentConfig); err != nil {
			return nil, err
		}
	}

	m, err := s.store.UpdateMunicipality(id, func(m *models.Municipality) error {
		m.Name = req.Name
		m.Code = req.Code
		m.ContactEmail = req.ContactEmail
		m.ContactPhone = req.ContactPhone
		if pc != nil {
			m.PaymentConfig = pc
		}
		m.UpdatedAt = s.nowUTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// paymentConfig decodes the free-form config onto the typed one, filling
// defaults for anything left out.
func paymentConfig(raw map[string]any) (*models.PaymentConfig, error) {
	pc := &models.PaymentConfig{
		Currency:                string(models.CurrencyTHB),
		PaymentMethods:          []string{"qr_code"},
		QRCodeExpirationMinutes: 15,
	}
	if raw == nil {
		return pc, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("payment config: %w", err)
	}
	if err := json.Unmarshal(b, pc); err != nil {
		return nil, fmt.Errorf("payment config: %w: %v", common.ErrInvalidState, err)
	}
	return pc, nil
}
