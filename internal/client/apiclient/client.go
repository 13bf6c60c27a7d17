// Package apiclient is the HTTP JSON client of the MuniCollect API.
//
// Every call goes through Do, which refreshes an expired access token first
// (once, shared by all concurrent callers), attaches the bearer token,
// retries server and network failures with exponential backoff, unwraps the
// response envelope and normalizes failures into apierror values.
package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/metrics"
	"github.com/dmitrijs2005/municollect/internal/client/tokens"
	"github.com/dmitrijs2005/municollect/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second

	HeaderRequestID = "X-Request-ID"
)

type Client struct {
	baseURL    string
	tokens     *tokens.Manager
	http       *http.Client
	log        logging.Logger
	metrics    metrics.Recorder
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	requestID  func() string

	refreshGroup singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a failed attempt is retried.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithRetryDelay sets the first backoff delay; each further retry doubles it.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

func New(baseURL string, tm *tokens.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tm,
		http:       &http.Client{},
		log:        logging.Nop{},
		metrics:    metrics.Nop{},
		timeout:    DefaultTimeout,
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
		requestID:  uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetTokens(ctx context.Context, access, refresh string, expiresAt time.Time) error {
	return c.tokens.SetTokens(ctx, access, refresh, expiresAt)
}

func (c *Client) ClearTokens(ctx context.Context) error {
	return c.tokens.ClearTokens(ctx)
}

// IsAuthenticated reports a stored access token that has not expired.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.tokens.AccessToken(ctx) != "" && !c.tokens.IsTokenExpired(ctx)
}

// RefreshTokenValue returns the stored refresh token, empty when absent.
func (c *Client) RefreshTokenValue(ctx context.Context) string {
	return c.tokens.RefreshToken(ctx)
}
