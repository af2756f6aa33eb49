package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const defaultErrorMessage = "request failed"

// APIError is a non-2xx response. Errors is filled for validation failures.
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the catalog API. The bearer token is per-client state, persisted through a TokenStore.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu       sync.RWMutex
	token    string
	lastErr  string
	inFlight atomic.Int32
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.store = s }
}

// New restores a previously saved token from the store, if any.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		store: &MemoryTokenStore{},
	}
	for _, o := range opts {
		o(c)
	}

	token, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	c.token = token
	return c, nil
}

// SetToken stores the token for later requests; an empty token clears it.
func (c *Client) SetToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if token == "" {
		return c.store.Clear()
	}
	return c.store.Save(token)
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Loading reports whether any request is in flight.
func (c *Client) Loading() bool { return c.inFlight.Load() > 0 }

// LastError is the message of the most recent failed request, cleared when a new request starts.
func (c *Client) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

// Request sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	c.setLastError("")

	err := c.do(ctx, method, path, body, out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			c.setLastError(apiErr.Message)
		} else {
			c.setLastError(defaultErrorMessage)
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
