package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/sethvargo/go-retry"
)

// Params fills ":name" placeholders of an endpoint template.
type Params map[string]string

// Request describes one logical API call. Zero values of the optional
// fields fall back to the client defaults.
type Request struct {
	Method     string
	Endpoint   string
	Body       any
	PathParams Params
	Headers    map[string]string
	// Out receives the decoded envelope data; nil discards it.
	Out any

	Timeout    time.Duration
	Retries    *int
	RetryDelay time.Duration
}

// CallOption adjusts a single call made through the verb helpers.
type CallOption func(*Request)

func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

func WithCallTimeout(d time.Duration) CallOption {
	return func(r *Request) { r.Timeout = d }
}

func WithCallRetries(n int) CallOption {
	return func(r *Request) { r.Retries = &n }
}

func WithCallRetryDelay(d time.Duration) CallOption {
	return func(r *Request) { r.RetryDelay = d }
}

func (c *Client) Get(ctx context.Context, endpoint string, params Params, out any, opts ...CallOption) error {
	return c.call(ctx, http.MethodGet, endpoint, nil, params, out, opts)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, params Params, out any, opts ...CallOption) error {
	return c.call(ctx, http.MethodPost, endpoint, body, params, out, opts)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any, params Params, out any, opts ...CallOption) error {
	return c.call(ctx, http.MethodPut, endpoint, body, params, out, opts)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any, params Params, out any, opts ...CallOption) error {
	return c.call(ctx, http.MethodPatch, endpoint, body, params, out, opts)
}

func (c *Client) Delete(ctx context.Context, endpoint string, params Params, out any, opts ...CallOption) error {
	return c.call(ctx, http.MethodDelete, endpoint, nil, params, out, opts)
}

func (c *Client) call(ctx context.Context, method, endpoint string, body any, params Params, out any, opts []CallOption) error {
	req := Request{Method: method, Endpoint: endpoint, Body: body, PathParams: params, Out: out}
	for _, o := range opts {
		o(&req)
	}
	return c.Do(ctx, req)
}

// Do executes req with refresh, retry and envelope handling.
func (c *Client) Do(ctx context.Context, req Request) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if !endpoints.IsAuth(req.Endpoint) {
		if err := c.RefreshTokenIfNeeded(ctx); err != nil {
			return err
		}
	}

	target := c.baseURL + BuildPath(req.Endpoint, req.PathParams)

	payload, err := encodeBody(req.Method, req.Body)
	if err != nil {
		return err
	}

	retries := c.retries
	if req.Retries != nil {
		retries = *req.Retries
	}
	if retries < 0 {
		retries = 0
	}
	delay := req.RetryDelay
	if delay <= 0 {
		delay = c.retryDelay
	}
	if delay <= 0 {
		delay = time.Nanosecond
	}

	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(delay))

	label, _, _ := strings.Cut(req.Endpoint, "?")

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 {
			c.metrics.Retry(req.Method, label)
		}
		attempt++

		err := c.attempt(ctx, &req, label, target, payload)
		if err == nil {
			return nil
		}
		if apierror.IsRetryable(err) {
			c.log.Debug(ctx, "request failed, will retry",
				"method", req.Method, "endpoint", req.Endpoint, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) attempt(ctx context.Context, req *Request, label, target string, payload []byte) error {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(actx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(ctx, httpReq, req.Headers)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.Request(req.Method, label, 0)
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.Request(req.Method, label, 0)
		return classifyTransportError(ctx, err)
	}
	c.metrics.Request(req.Method, label, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromBody(resp.StatusCode, raw)
	}
	return decodeEnvelope(raw, req.Out)
}

func (c *Client) setHeaders(ctx context.Context, r *http.Request, custom map[string]string) {
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	if token := c.tokens.AccessToken(ctx); token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range custom {
		r.Header.Set(k, v)
	}
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, c.requestID())
	}
}

// classifyTransportError keeps the caller's own cancellation as is and turns
// everything else into a retryable NetworkError.
func classifyTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierror.NewNetwork("Request timeout", err)
	}
	return apierror.NewNetwork("Network connection failed", err)
}

// BuildPath substitutes ":name" segments of endpoint with path-escaped
// values. Placeholders without a value are left untouched.
func BuildPath(endpoint string, params Params) string {
	if len(params) == 0 {
		return endpoint
	}
	segments := strings.Split(endpoint, "/")
	for i, seg := range segments {
		name, ok := strings.CutPrefix(seg, ":")
		if !ok {
			continue
		}
		if v, found := params[name]; found {
			segments[i] = url.PathEscape(v)
		}
	}
	return strings.Join(segments, "/")
}

// WithQuery appends encoded query values to an endpoint when there are any.
func WithQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

func encodeBody(method string, body any) ([]byte, error) {
	if body == nil || method == http.MethodGet {
		return nil, nil
	}
	switch b := body.(type) {
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return data, nil
}
