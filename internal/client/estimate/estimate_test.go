package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
)

var photo = PhotoDataURI("image/png", []byte{0x89, 'P', 'N', 'G'})

func TestPhotoDataURI_RoundTrip(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,iVBORw==", photo)

	mime, data, err := ParseDataURI(photo)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestParseDataURI_Invalid(t *testing.T) {
	for _, uri := range []string{
		"",
		"iVBORw==",
		"data:image/png,iVBORw==",
		"data:;base64,iVBORw==",
		"data:image/png;base64",
		"data:image/png;base64,@@@",
	} {
		_, _, err := ParseDataURI(uri)
		assert.ErrorIs(t, err, ErrInvalidDataURI, uri)
	}
}

func TestPricing_Fee(t *testing.T) {
	p := DefaultPricing()
	assert.Equal(t, 125.0, p.Fee(0.5, false))
	assert.Equal(t, 475.0, p.Fee(1.5, true))
	assert.Equal(t, 50.0, p.Fee(-1, false))
}

func TestHTTPEstimator_Estimate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"estimatedCost":475,"justification":"old sofa, about 1.5 m3"}`))
	}))
	defer srv.Close()

	est, err := NewHTTPEstimator(srv.URL).Estimate(context.Background(), Request{PhotoDataURI: photo, Description: "old sofa"})
	require.NoError(t, err)

	assert.Equal(t, Request{PhotoDataURI: photo, Description: "old sofa"}, got)
	assert.Equal(t, &Estimate{EstimatedCost: 475, Justification: "old sofa, about 1.5 m3"}, est)
}

func TestHTTPEstimator_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"estimatedCost":125,"justification":"bags"},"timestamp":1}`))
	}))
	defer srv.Close()

	est, err := NewHTTPEstimator(srv.URL).Estimate(context.Background(), Request{PhotoDataURI: photo})
	require.NoError(t, err)
	assert.Equal(t, 125.0, est.EstimatedCost)
}

func TestHTTPEstimator_RejectsBadPhotoWithoutCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	_, err := NewHTTPEstimator(srv.URL).Estimate(context.Background(), Request{PhotoDataURI: "not a uri"})

	var verr *apierror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "photoDataUri", verr.Field)
	assert.Zero(t, calls)
}

func TestHTTPEstimator_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"not json", http.StatusOK, `nope`},
		{"failure envelope", http.StatusOK, `{"success":false,"error":{"error":"x","code":500}}`},
		{"negative", http.StatusOK, `{"estimatedCost":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPEstimator(srv.URL).Estimate(context.Background(), Request{PhotoDataURI: photo})
			require.Error(t, err)
		})
	}
}

func TestHTTPEstimator_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPEstimator(srv.URL).Estimate(ctx, Request{PhotoDataURI: photo})
	require.ErrorIs(t, err, context.Canceled)
}
