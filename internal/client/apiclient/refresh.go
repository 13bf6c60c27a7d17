package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/dmitrijs2005/municollect/internal/client/endpoints"
	"github.com/dmitrijs2005/municollect/internal/client/metrics"
	"github.com/dmitrijs2005/municollect/internal/client/models"
)

var errRefreshRejected = errors.New("refresh rejected")

// RefreshTokenIfNeeded renews the access token when it has expired.
// Concurrent callers share one refresh; a caller that gives up waiting does
// not cancel it for the others.
func (c *Client) RefreshTokenIfNeeded(ctx context.Context) error {
	if !c.tokens.IsTokenExpired(ctx) {
		return nil
	}

	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		// a refresh that finished just before this flight started already
		// renewed the token
		if !c.tokens.IsTokenExpired(fctx) {
			return nil, nil
		}
		return nil, c.refresh(fctx)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken(ctx)
	if refreshToken == "" {
		c.clearAfterRefresh(ctx)
		c.metrics.Refresh(metrics.RefreshNoToken)
		return apierror.Unauthenticated("No refresh token available", apierror.ErrNoRefreshToken)
	}

	c.log.Debug(ctx, "refreshing access token")

	auth, err := c.postRefresh(ctx, refreshToken)
	if err == nil {
		err = c.tokens.SetTokens(ctx, auth.AccessToken, auth.RefreshToken, auth.ExpiresAt)
	}
	if err != nil {
		c.log.Warn(ctx, "token refresh failed", "error", err)
		c.clearAfterRefresh(ctx)
		c.metrics.Refresh(metrics.RefreshFailed)
		return apierror.Unauthenticated("Token refresh failed", err)
	}

	c.metrics.Refresh(metrics.RefreshOK)
	return nil
}

// postRefresh calls the refresh endpoint directly, outside Do, so it is
// neither retried nor preceded by another refresh.
func (c *Client) postRefresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	payload, err := json.Marshal(models.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoints.AuthRefresh, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, c.requestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.metrics.Request(http.MethodPost, endpoints.AuthRefresh, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", errRefreshRejected, resp.StatusCode)
	}

	var auth models.AuthResponse
	if err := decodeEnvelope(raw, &auth); err != nil {
		return nil, err
	}
	if auth.AccessToken == "" || auth.RefreshToken == "" || auth.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("%w: incomplete token data", errRefreshRejected)
	}
	return &auth, nil
}

func (c *Client) clearAfterRefresh(ctx context.Context) {
	if err := c.tokens.ClearTokens(ctx); err != nil {
		c.log.Error(ctx, "clear tokens failed", "error", err)
	}
}
