/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/suparena/resourcekit/internal/logging"
)

// ConnectionConfig tunes the HTTP client of a Connection.
type ConnectionConfig struct {
	Timeout      time.Duration
	RetryCount   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit is the number of requests per second, zero for unlimited.
	RateLimit float64
}

// DefaultConnectionConfig returns the configuration used by DefaultManager.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		Timeout:      30 * time.Second,
		RetryCount:   3,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
	}
}

// Connection is a JSON HTTP client for one base URL. It is offline after a transport
// failure until a request or Ping succeeds again.
type Connection struct {
	baseURL string
	client  *resty.Client
	limiter *rate.Limiter
	online  atomic.Bool
	log     *zap.Logger
}

// NewConnection creates a Connection. Failed requests and 5xx responses are retried by
// a go-retryablehttp transport.
func NewConnection(baseURL string, cfg ConnectionConfig, log *zap.Logger) *Connection {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryCount
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, int(cfg.RateLimit)))
	}

	c := &Connection{
		baseURL: baseURL,
		client:  client,
		limiter: limiter,
		log:     logging.OrNop(log),
	}
	c.online.Store(true)
	return c
}

func (c *Connection) BaseURL() string {
	return c.baseURL
}

// IsAvailable reports whether the last request reached the server.
func (c *Connection) IsAvailable() bool {
	return c.online.Load()
}

// Ping requests the base URL. Any HTTP response counts as reachable.
func (c *Connection) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, resty.MethodHead, "/", nil, nil)
	return err
}

// Do sends a request. body, if not nil, is encoded as JSON. A non-nil error means the
// server was not reached; HTTP error statuses are left to the caller.
func (c *Connection) Do(ctx context.Context, method, path string, query map[string]string, body any) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}
	req := c.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encoding body: %w", method, path, err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		if c.online.Swap(false) {
			c.log.Warn("connection offline", zap.String("url", c.baseURL), zap.Error(err))
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !c.online.Swap(true) {
		c.log.Info("connection online", zap.String("url", c.baseURL))
	}
	c.log.Debug("request", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode()))
	return resp, nil
}

// Manager shares one Connection per base URL.
type Manager struct {
	mu          sync.Mutex
	cfg         ConnectionConfig
	log         *zap.Logger
	connections map[string]*Connection
}

// NewManager creates a Manager whose connections use cfg.
func NewManager(cfg ConnectionConfig, log *zap.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		log:         logging.OrNop(log),
		connections: map[string]*Connection{},
	}
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// DefaultManager returns the process-wide Manager.
func DefaultManager() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager(DefaultConnectionConfig(), nil)
	})
	return defaultManager
}

// Connection returns the connection for baseURL, creating it on first use.
func (m *Manager) Connection(baseURL string) *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.TrimSuffix(baseURL, "/")
	c, ok := m.connections[key]
	if !ok {
		c = NewConnection(key, m.cfg, m.log)
		m.connections[key] = c
	}
	return c
}

// IsAvailable reports the availability of the connection for baseURL.
func (m *Manager) IsAvailable(baseURL string) bool {
	return m.Connection(baseURL).IsAvailable()
}
