// Package metrics exposes Prometheus counters for the API client.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the API client reports to. Nop discards everything.
type Recorder interface {
	Request(method, endpoint string, status int)
	Retry(method, endpoint string)
	Refresh(outcome string)
}

const (
	RefreshOK      = "ok"
	RefreshFailed  = "failed"
	RefreshNoToken = "no_token"
)

// Client holds the collectors. Register them with Collectors.
type Client struct {
	requests  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

func New() *Client {
	return &Client{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "municollect",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by method, endpoint template and status (0 for network failures).",
		}, []string{"method", "endpoint", "status"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "municollect",
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Retried API attempts.",
		}, []string{"method", "endpoint"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "municollect",
			Subsystem: "client",
			Name:      "token_refreshes_total",
			Help:      "Network token refreshes by outcome.",
		}, []string{"outcome"}),
	}
}

// NewRegistered builds a Client and registers it on reg.
func NewRegistered(reg prometheus.Registerer) (*Client, error) {
	c := New()
	for _, col := range c.Collectors() {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) Collectors() []prometheus.Collector {
	return []prometheus.Collector{c.requests, c.retries, c.refreshes}
}

func (c *Client) Request(method, endpoint string, status int) {
	c.requests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

func (c *Client) Retry(method, endpoint string) {
	c.retries.WithLabelValues(method, endpoint).Inc()
}

func (c *Client) Refresh(outcome string) {
	c.refreshes.WithLabelValues(outcome).Inc()
}

type Nop struct{}

func (Nop) Request(string, string, int) {}
func (Nop) Retry(string, string)        {}
func (Nop) Refresh(string)              {}
