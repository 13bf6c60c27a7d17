// Package services contains the domain services of the MuniCollect client.
// They are stateless facades over the API client: each validates its input,
// calls one or more endpoints and returns typed results.
package services

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/apiclient"
	"github.com/dmitrijs2005/municollect/internal/logging"
	"github.com/dmitrijs2005/municollect/internal/timex"
)

// API is the part of *apiclient.Client the services depend on.
type API interface {
	Get(ctx context.Context, endpoint string, params apiclient.Params, out any, opts ...apiclient.CallOption) error
	Post(ctx context.Context, endpoint string, body any, params apiclient.Params, out any, opts ...apiclient.CallOption) error
	Put(ctx context.Context, endpoint string, body any, params apiclient.Params, out any, opts ...apiclient.CallOption) error
	Delete(ctx context.Context, endpoint string, params apiclient.Params, out any, opts ...apiclient.CallOption) error

	SetTokens(ctx context.Context, access, refresh string, expiresAt time.Time) error
	ClearTokens(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	RefreshTokenValue(ctx context.Context) string
}

// Services bundles every domain service over one API.
type Services struct {
	Auth         AuthService
	User         UserService
	Municipality MunicipalityService
	Payment      PaymentService
	QR           QRService
	Notification NotificationService
}

func New(api API, log logging.Logger) *Services {
	return &Services{
		Auth:         NewAuthService(api, log),
		User:         NewUserService(api),
		Municipality: NewMunicipalityService(api),
		Payment:      NewPaymentService(api),
		QR:           NewQRService(api),
		Notification: NewNotificationService(api),
	}
}

// query collects only the filters that are set.
type query url.Values

func (q query) str(key, v string) {
	if v != "" {
		url.Values(q).Set(key, v)
	}
}

func (q query) positive(key string, v int) {
	if v > 0 {
		url.Values(q).Set(key, strconv.Itoa(v))
	}
}

func (q query) date(key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		url.Values(q).Set(key, timex.FormatISO(*t))
	}
}

func (q query) endpoint(base string) string {
	return apiclient.WithQuery(base, url.Values(q))
}
