// Package apiclient homeclean REST 接口客户端
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
	"time"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/logger"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetryBackoff = 300 * time.Millisecond
	maxResponseBytes    = 4 << 20
)

// TokenSource 提供 Bearer token，返回空串时不带 Authorization 头
type TokenSource interface {
	Token() string
}

// StaticToken 固定 token
type StaticToken string

// Token 实现 TokenSource
func (t StaticToken) Token() string { return string(t) }

// Options 客户端参数
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	GetRetries   int
	RetryBackoff time.Duration
	Locale       string
	Tokens       TokenSource
	HTTPClient   *http.Client
}

// Client REST 客户端
// 仅 GET 在传输失败或 5xx 时按线性退避重试，写请求从不重试
type Client struct {
	baseURL      string
	timeout      time.Duration
	getRetries   int
	retryBackoff time.Duration
	locale       string
	tokens       TokenSource
	http         *http.Client
	sleep        func(ctx context.Context, d time.Duration) error
}

// New 创建客户端
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.GetRetries
	if retries < 0 {
		retries = 0
	}
	backoff := opts.RetryBackoff
	if backoff < 0 {
		backoff = defaultRetryBackoff
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		timeout:      timeout,
		getRetries:   retries,
		retryBackoff: backoff,
		locale:       strings.TrimSpace(opts.Locale),
		tokens:       opts.Tokens,
		http:         httpClient,
		sleep:        sleepContext,
	}
}

// NewFromConfig 按客户端配置创建
func NewFromConfig(cfg config.ClientConfig, tokens TokenSource) *Client {
	return New(Options{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout(),
		GetRetries:   cfg.GetRetries,
		RetryBackoff: cfg.RetryBackoff(),
		Locale:       cfg.Locale,
		Tokens:       tokens,
	})
}

// SetTokenSource 替换 token 来源
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Code      string          `json:"code"`
	RequestID string          `json:"request_id"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: marshal request: %w", err)
		}
		payload = raw
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.getRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.retryBackoff*time.Duration(attempt)); err != nil {
				return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
			}
			logger.Debugw("api_request_retry", "method", method, "path", path, "attempt", attempt, "error", lastErr)
		}
		status, respBody, err := c.send(ctx, method, path, payload)
		if err != nil {
			lastErr = fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
			if ctx.Err() != nil {
				return lastErr
			}
			continue
		}
		err = decodeResponse(status, respBody, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Retryable() {
			lastErr = err
			continue
		}
		return err
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.locale != "" {
		req.Header.Set("Accept-Language", c.locale)
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func decodeResponse(status int, body []byte, out interface{}) error {
	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if status < 200 || status >= 300 || (decodeErr == nil && !env.Success) {
		apiErr := &APIError{Status: status, Kind: response.KindForStatus(status)}
		if decodeErr == nil {
			if code := strings.TrimSpace(env.Code); code != "" {
				apiErr.Kind = code
			}
			apiErr.Message = env.Message
			apiErr.RequestID = env.RequestID
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %v", ErrDecode, decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
