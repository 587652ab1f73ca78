package api

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

	"github.com/sangkips/investify-desk/pkg/apperror"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// ClientConfig holds the connection settings for the back-office API
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client is a JSON client for the back-office REST API.
// Authenticated calls carry the bearer token supplied by the token source.
type Client struct {
	baseURL string
	authed  *http.Client
	public  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a new API client
func NewClient(cfg ClientConfig, tokens oauth2.TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		public:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("api"),
	}

	if tokens != nil {
		c.authed = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: tokens,
				Base:   http.DefaultTransport,
			},
		}
	} else {
		c.authed = c.public
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// Get performs an authenticated GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, c.authed, http.MethodGet, path, query, nil, out)
}

// Post performs an authenticated POST
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, c.authed, http.MethodPost, path, nil, body, out)
}

// Put performs an authenticated PUT
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, c.authed, http.MethodPut, path, nil, body, out)
}

// Delete performs an authenticated DELETE
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, c.authed, http.MethodDelete, path, nil, nil, out)
}

// PostPublic performs a POST without credentials (login)
func (c *Client) PostPublic(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, c.public, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperror.NewAPIError(0, err.Error())
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID, _ := GetRequestID(ctx)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		// the token source refusing to hand out a token surfaces here
		if apperror.IsKind(err, apperror.KindUnauthorized) {
			return apperror.GetAppError(err)
		}
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return apperror.NewAPIError(0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewAPIError(resp.StatusCode, err.Error())
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.NewAPIError(resp.StatusCode, errorMessage(data, resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperror.NewAPIError(resp.StatusCode, "malformed response: "+err.Error())
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response body,
// falling back to the status code
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("HTTP Error: %d", status)
}
