package mockapi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/cryptox"
	"github.com/dmitrijs2005/municollect/internal/mockapi/config"
	"github.com/dmitrijs2005/municollect/internal/mockapi/store"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// newSeededService returns a seeded service running on clock.
func newSeededService(t *testing.T, clock *testClock) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	svc := NewService(store.New(), cfg, WithClock(clock.Now), WithBcryptCost(cryptox.MinCost))
	require.NoError(t, svc.Seed(context.Background()))
	return svc
}

func loginAs(t *testing.T, svc *Service, email string) (*models.AuthResponse, Caller) {
	t.Helper()
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: email, Password: SeedPassword})
	require.NoError(t, err)
	return resp, Caller{UserID: resp.User.ID, Role: resp.User.Role}
}

// municipalityByCode finds a seeded municipality.
func municipalityByCode(t *testing.T, svc *Service, code string) models.Municipality {
	t.Helper()
	for _, m := range svc.Municipalities(context.Background()).Municipalities {
		if m.Code == code {
			return m
		}
	}
	t.Fatalf("municipality %s not seeded", code)
	return models.Municipality{}
}

func paymentRequest(municipalityID string, st models.ServiceType, amount float64) models.PaymentRequest {
	return models.PaymentRequest{
		MunicipalityID: municipalityID,
		ServiceType:    st,
		Amount:         amount,
		Currency:       models.CurrencyTHB,
		UserDetails:    models.UserDetails{FirstName: "Somchai", LastName: "Jaidee", Email: SeedResidentEmail},
	}
}
