package wecom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the public WeCom API host.
const DefaultBaseURL = "https://qyapi.weixin.qq.com"

// Client calls the WeCom server API on behalf of one corp application.
type Client struct {
	baseURL string
	corpID  string
	secret  string
	http    *http.Client
	tokens  *TokenCache
	logger  *zap.Logger
	refresh singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(base), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTokenCache shares a token cache between clients.
func WithTokenCache(cache *TokenCache) Option {
	return func(c *Client) {
		if cache != nil {
			c.tokens = cache
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Client for corpID/secret.
func New(corpID, secret string, options ...Option) (*Client, error) {
	corpID = strings.TrimSpace(corpID)
	secret = strings.TrimSpace(secret)
	if corpID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		corpID:  corpID,
		secret:  secret,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.tokens == nil {
		c.tokens = NewTokenCache()
	}
	return c, nil
}

type tokenResponse struct {
	envelope
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a cached access token or fetches a new one. Concurrent
// callers share a single gettoken round trip.
func (c *Client) Token(ctx context.Context) (string, error) {
	key := tokenKey(c.corpID, c.secret)
	if token, ok := c.tokens.Get(key); ok {
		return token, nil
	}
	v, err, _ := c.refresh.Do(key, func() (any, error) {
		return c.fetchToken(ctx, key)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetchToken(ctx context.Context, key string) (string, error) {
	if token, ok := c.tokens.Get(key); ok {
		return token, nil
	}
	q := url.Values{}
	q.Set("corpid", c.corpID)
	q.Set("corpsecret", c.secret)

	var resp tokenResponse
	if err := c.do(ctx, "gettoken", http.MethodGet, c.baseURL+"/cgi-bin/gettoken?"+q.Encode(), nil, "", &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: gettoken returned no access_token", ErrEmptyResponse)
	}
	c.tokens.Put(key, resp.AccessToken, time.Duration(resp.ExpiresIn)*time.Second)
	c.logger.Debug("wecom token refreshed", zap.Int("expires_in", resp.ExpiresIn))
	return resp.AccessToken, nil
}

func (c *Client) endpoint(ctx context.Context, path string, query url.Values) (string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return "", err
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", token)
	return c.baseURL + path + "?" + query.Encode(), nil
}

func (c *Client) postJSON(ctx context.Context, scene, path string, body any, out response) error {
	endpoint, err := c.endpoint(ctx, path, nil)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("wecom: %s: encode request: %w", scene, err)
	}
	return c.dropStaleToken(c.do(ctx, scene, http.MethodPost, endpoint, bytes.NewReader(payload), "application/json", out))
}

func (c *Client) getJSON(ctx context.Context, scene, path string, query url.Values, out response) error {
	endpoint, err := c.endpoint(ctx, path, query)
	if err != nil {
		return err
	}
	return c.dropStaleToken(c.do(ctx, scene, http.MethodGet, endpoint, nil, "", out))
}

// Error codes WeCom returns for an invalid or expired access token.
const (
	codeInvalidToken = 40014
	codeExpiredToken = 42001
)

func (c *Client) dropStaleToken(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Code == codeInvalidToken || apiErr.Code == codeExpiredToken) {
		c.tokens.Invalidate(tokenKey(c.corpID, c.secret))
	}
	return err
}

func (c *Client) do(ctx context.Context, scene, method, endpoint string, body io.Reader, contentType string, out response) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("wecom: %s: %w", scene, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wecom: %s: %w", scene, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.logger.Debug("wecom call",
		zap.String("scene", scene),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, scene, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("wecom: %s: read body: %w", scene, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("wecom: %s: decode body: %w", scene, err)
	}
	return out.check(scene)
}
