package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cryptoflow/middleware"
	"cryptoflow/models"
	"cryptoflow/parser"
	"cryptoflow/utils"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
)

const (
	HandshakeTimeout = 5 * time.Second
	BreakerTimeout   = 30 * time.Second
)

// Client follows a market feed and hands every parsed frame to OnFrame.
type Client struct {
	url       string
	Headers   map[string]string
	OnFrame   func(*models.Frame)
	OnError   func(error)
	dialer    websocket.Dialer
	breaker   *gobreaker.CircuitBreaker
	newPolicy func() backoff.BackOff

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
}

type ClientOption func(*Client)

// WithBackOff replaces the reconnect policy; a fresh policy is built per outage.
func WithBackOff(newPolicy func() backoff.BackOff) ClientOption {
	return func(c *Client) { c.newPolicy = newPolicy }
}

func WithBreaker(cb *gobreaker.CircuitBreaker) ClientOption {
	return func(c *Client) { c.breaker = cb }
}

func NewClient(url string, headers map[string]string, opts ...ClientOption) *Client {
	c := &Client{
		url:     url,
		Headers: headers,
		dialer:  websocket.Dialer{HandshakeTimeout: HandshakeTimeout},
		breaker: middleware.NewBreaker("feed-dial", BreakerTimeout),
		newPolicy: func() backoff.BackOff {
			return utils.NewExponentialBackoff(0)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the feed once through the circuit breaker. While the breaker is
// open it fails fast with gobreaker.ErrOpenState.
func (c *Client) Connect(ctx context.Context) error {
	return middleware.WithCircuitBreaker(c.breaker, func() error {
		conn, _, err := c.dialer.DialContext(ctx, c.url, c.getHttpHeaders())
		if err != nil {
			return fmt.Errorf("failed to dial %s: %w", c.url, err)
		}

		c.mu.Lock()
		c.conn = conn
		c.isConnected = true
		c.mu.Unlock()
		return nil
	})
}

func (c *Client) getHttpHeaders() http.Header {
	headers := http.Header{}
	for key, value := range c.Headers {
		headers.Set(key, value)
	}
	return headers
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Listen reads frames until ctx is done, reconnecting with exponential backoff
// whenever the connection drops. Frames that fail to parse are reported to
// OnError and skipped.
func (c *Client) Listen(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.Close)
	defer stop()
	defer c.Close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !c.Connected() {
			policy := backoff.WithContext(c.newPolicy(), ctx)
			err := backoff.RetryNotify(func() error { return c.Connect(ctx) }, policy,
				func(err error, wait time.Duration) {
					utils.Logger.Warnw("Feed connection failed, retrying",
						"url", c.url,
						"error", err,
						"retry_in", wait.String())
				})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("giving up on feed %s: %w", c.url, err)
			}
			utils.Logger.Infow("Connected to feed", "url", c.url)
		}

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			utils.Logger.Warnw("Error reading feed message", "error", err)
			c.Close()
			continue
		}

		frame, err := parser.ParseFrame(message)
		if err != nil {
			utils.Error(err, "Error parsing feed frame")
			if c.OnError != nil {
				c.OnError(err)
			}
			continue
		}
		if c.OnFrame != nil {
			c.OnFrame(frame)
		}
	}
}

// Close drops the current connection. Listen reconnects unless its context is done.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.isConnected = false
}
