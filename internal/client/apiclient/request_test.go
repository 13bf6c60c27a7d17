package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string `json:"name"`
}

func TestDo_SuccessDecodesEnvelopeAndSetsHeaders(t *testing.T) {
	var got http.Header
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, endpoints.UsersProfile, r.URL.Path)
		writeData(w, http.StatusOK, profile{Name: "Ann"})
	}), WithRequestIDFunc(func() string { return "req-1" }))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	var out profile
	require.NoError(t, env.client.Get(context.Background(), endpoints.UsersProfile, nil, &out))

	assert.Equal(t, "Ann", out.Name)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer acc", got.Get("Authorization"))
	assert.Equal(t, "req-1", got.Get(HeaderRequestID))
	assert.Equal(t, []int{200}, env.metrics.Requests)
}

func TestDo_CallerHeadersWin(t *testing.T) {
	var got http.Header
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeData(w, http.StatusOK, nil)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil,
		WithHeader("Authorization", "Bearer custom"),
		WithHeader("X-Request-ID", "fixed"),
	)
	require.NoError(t, err)
	assert.Equal(t, "Bearer custom", got.Get("Authorization"))
	assert.Equal(t, "fixed", got.Get(HeaderRequestID))
}

func TestDo_NoAuthorizationWithoutToken(t *testing.T) {
	var got http.Header
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeData(w, http.StatusCreated, nil)
	}))

	require.NoError(t, env.client.Post(context.Background(), endpoints.AuthLogin, map[string]string{"email": "a@b.co"}, nil, nil))
	assert.Empty(t, got.Get("Authorization"))
}

func TestDo_PathParamsArePercentEncoded(t *testing.T) {
	var uri string
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri = r.RequestURI
		writeData(w, http.StatusOK, nil)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	require.NoError(t, env.client.Get(context.Background(), endpoints.MunicipalityByID, Params{"id": "a/b c"}, nil))
	assert.Equal(t, "/api/municipalities/a%2Fb%20c", uri)
}

func TestBuildPath(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   Params
		want     string
	}{
		{"no params", endpoints.PaymentsHistory, nil, "/api/payments/history"},
		{"middle segment", endpoints.PaymentStatus, Params{"id": "p1"}, "/api/payments/p1/status"},
		{"escaped", endpoints.QRDetails, Params{"code": "MC?x#y"}, "/api/qr/MC%3Fx%23y/details"},
		{"missing value kept", endpoints.NotificationRead, Params{"other": "x"}, "/api/notifications/:id/read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPath(tt.endpoint, tt.params))
		})
	}
}

func TestDo_NotRetriedOn404(t *testing.T) {
	var hits atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeFailure(w, http.StatusNotFound, "Municipality not found")
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.MunicipalityByID, Params{"id": "x"}, nil)

	apiErr, ok := apierror.AsAPI(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, apierror.CodeNotFound, apiErr.Code)
	assert.Equal(t, "Municipality not found", apiErr.Message)
	assert.EqualValues(t, 1, hits.Load())
	assert.Zero(t, env.metrics.Retries)
}

func TestDo_RetriesServerErrorsThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 3 {
			writeFailure(w, http.StatusServiceUnavailable, "busy")
			return
		}
		writeData(w, http.StatusOK, profile{Name: "ok"})
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	var out profile
	require.NoError(t, env.client.Get(context.Background(), endpoints.UsersProfile, nil, &out))
	assert.Equal(t, "ok", out.Name)
	assert.EqualValues(t, 4, hits.Load())
	assert.Equal(t, 3, env.metrics.Retries)
}

func TestDo_RetriesExhausted(t *testing.T) {
	var hits atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeFailure(w, http.StatusServiceUnavailable, "busy")
	}), WithRetries(2))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, apierror.StatusOf(err))
	assert.EqualValues(t, 3, hits.Load())
}

func TestDo_BackoffDoublesEachRetry(t *testing.T) {
	const delay = 40 * time.Millisecond

	var (
		mu       sync.Mutex
		arrivals []time.Time
	)
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		writeFailure(w, http.StatusServiceUnavailable, "busy")
	}), WithRetries(3), WithRetryDelay(delay))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, apierror.StatusOf(err))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrivals, 4)
	for i, want := range []time.Duration{delay, 2 * delay, 4 * delay} {
		gap := arrivals[i+1].Sub(arrivals[i])
		assert.GreaterOrEqual(t, gap, want, "gap before retry %d", i+1)
	}
}

func TestDo_EnvelopeFailureSurfaces(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":false,"error":{"error":"X","code":422,"timestamp":1,"details":"bad"},"timestamp":1}`)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil)
	apiErr, ok := apierror.AsAPI(err)
	require.True(t, ok)
	assert.Equal(t, "X", apiErr.Message)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, map[string]any{"message": "bad"}, apiErr.Details)
}

func TestDo_EnvelopeFailureWithoutCodeIs500(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"timestamp":1}`)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil, WithCallRetries(0))
	apiErr, ok := apierror.AsAPI(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, apierror.CodeInternal, apiErr.Code)
	assert.Equal(t, "Request failed", apiErr.Message)
}

func TestDo_RawTextErrorBody(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream exploded\n")
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil, WithCallRetries(0))
	apiErr, ok := apierror.AsAPI(err)
	require.True(t, ok)
	assert.Equal(t, 502, apiErr.Status)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestDo_FlatErrorBodyWithTextCode(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":"card declined","code":"PAYMENT_ERROR","details":{"reason":"nsf"}}`)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Post(context.Background(), endpoints.PaymentsInitiate, map[string]any{}, nil, nil)
	apiErr, ok := apierror.AsAPI(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodePayment, apiErr.Code)
	assert.Equal(t, "card declined", apiErr.Message)
	assert.Equal(t, "nsf", apiErr.Details["reason"])
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil,
		WithCallTimeout(20*time.Millisecond), WithCallRetries(0))

	var netErr *apierror.NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.Equal(t, "Request timeout", netErr.Message)
	assert.Equal(t, []int{0}, env.metrics.Requests)
}

func TestDo_ConnectionFailureIsRetriedNetworkError(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler(), WithRetries(1))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))
	env.srv.Close()

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil)
	assert.True(t, apierror.IsNetwork(err), "got %v", err)
	assert.Equal(t, 1, env.metrics.Retries)
}

func TestDo_CanceledContextReturnedAsIs(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, nil)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := env.client.Get(ctx, endpoints.UsersProfile, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, apierror.IsNetwork(err))
}

func TestDo_EmptyBodyYieldsNoData(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	out := profile{Name: "untouched"}
	require.NoError(t, env.client.Delete(context.Background(), endpoints.AuthLogout, nil, &out))
	assert.Equal(t, "untouched", out.Name)
}

func TestDo_InvalidSuccessBody(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>proxy</html>")
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Get(context.Background(), endpoints.UsersProfile, nil, nil, WithCallRetries(0))
	assert.Equal(t, http.StatusBadGateway, apierror.StatusOf(err))
}

func TestDo_StringBodySentVerbatim(t *testing.T) {
	var body string
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		writeData(w, http.StatusOK, nil)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	require.NoError(t, env.client.Put(context.Background(), endpoints.UsersProfile, `{"raw":true}`, nil, nil))
	assert.Equal(t, `{"raw":true}`, body)

	require.NoError(t, env.client.Patch(context.Background(), endpoints.UsersProfile, map[string]int{"n": 1}, nil, nil))
	assert.JSONEq(t, `{"n":1}`, body)
}

func TestDo_GetSendsNoBody(t *testing.T) {
	var length int64 = -2
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length = r.ContentLength
		writeData(w, http.StatusOK, nil)
	}))
	env.login(t, "acc", "ref", time.Now().Add(time.Hour))

	err := env.client.Do(context.Background(), Request{Endpoint: endpoints.UsersProfile, Body: map[string]int{"n": 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, length)
}
