package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/logging"
)

const maxResponseBytes = 1 << 20

// HTTPEstimator posts the request as JSON to a remote estimation flow.
// It does not retry; ctx bounds the call.
type HTTPEstimator struct {
	url  string
	http *http.Client
	log  logging.Logger
}

type HTTPOption func(*HTTPEstimator)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(e *HTTPEstimator) { e.http = c }
}

func WithLogger(l logging.Logger) HTTPOption {
	return func(e *HTTPEstimator) { e.log = l }
}

func NewHTTPEstimator(url string, opts ...HTTPOption) *HTTPEstimator {
	e := &HTTPEstimator{url: url, http: http.DefaultClient, log: logging.Nop{}}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *HTTPEstimator) Estimate(ctx context.Context, req Request) (*Estimate, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if _, _, err := ParseDataURI(req.PhotoDataURI); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode estimate request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build estimate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := e.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read estimate: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		e.log.Warn(ctx, "estimate rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("estimate: unexpected status %d", resp.StatusCode)
	}

	out, err := decodeEstimate(raw)
	if err != nil {
		return nil, err
	}
	e.log.Debug(ctx, "estimate received", "cost", out.EstimatedCost)
	return out, nil
}

// decodeEstimate accepts the bare estimate or the API success envelope.
func decodeEstimate(raw []byte) (*Estimate, error) {
	var probe struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode estimate: %w", err)
	}
	if probe.Success != nil {
		if !*probe.Success || len(probe.Data) == 0 {
			return nil, fmt.Errorf("decode estimate: unsuccessful response")
		}
		raw = probe.Data
	}

	var out Estimate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode estimate: %w", err)
	}
	if out.EstimatedCost < 0 {
		return nil, fmt.Errorf("decode estimate: negative cost %v", out.EstimatedCost)
	}
	return &out, nil
}
