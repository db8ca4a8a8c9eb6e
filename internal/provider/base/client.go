// Package base provides common HTTP plumbing for provider adapters.
package base

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Client wraps outbound provider calls with shared headers, logging and a
// circuit breaker. The breaker is adapter-internal protection; the gateway
// core itself never retries or times out provider calls.
type Client struct {
	http    *http.Client
	baseURL string
	name    string // provider name for logging
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a client for one provider backend.
func NewClient(providerName, baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    providerName,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state changed")
		},
	})

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		name:    providerName,
		breaker: breaker,
	}
}

// PostJSON makes a POST request with a JSON payload.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any, headers map[string]string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), "application/json", headers)
}

// PostForm makes a POST request with a form-encoded payload.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string) (*Response, error) {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, endpoint, body, "application/x-www-form-urlencoded", headers)
}

// Get makes a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, "", headers)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, headers map[string]string) (*Response, error) {
	fullURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", "Paygate/"+c.name)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	log.Debug().
		Str("provider", c.name).
		Str("method", method).
		Str("url", fullURL).
		Msg("making provider request")

	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		return c.readResponse(resp)
	})
	if err != nil {
		log.Error().
			Str("provider", c.name).
			Str("url", fullURL).
			Err(err).
			Msg("provider request failed")
		return nil, fmt.Errorf("provider request failed: %w", err)
	}

	return result.(*Response), nil
}

func (c *Client) readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("provider", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received provider response")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Response is a fully-read provider HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess checks for a 2xx status code.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into the provided struct.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}
