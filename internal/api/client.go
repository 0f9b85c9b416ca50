// Package api implements the HTTP client for the LEARN backend: request
// construction, JSON and binary response decoding, and mapping of the
// backend's error shapes into a uniform error type.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learnapp/learn-client/config"
	"github.com/learnapp/learn-client/pkg/httpclient"
	"github.com/learnapp/learn-client/pkg/logger"
	"github.com/learnapp/learn-client/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// StatusTransportError is the sentinel status carried by errors where no
// HTTP response was obtained at all
const StatusTransportError = -1

// APIError is the uniform error for any non-2xx backend response, carrying
// the HTTP status and a best-effort human-readable message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// IsTransport reports whether the error represents a connectivity failure
// rather than a backend response
func (e *APIError) IsTransport() bool {
	return e.Status == StatusTransportError
}

// NoContent is the expected-response sentinel for endpoints that answer with
// an empty body
type NoContent struct{}

// TokenProvider returns the current access token, or "" when logged out.
// It is consulted at request-construction time so a concurrent refresh
// affects subsequent requests but never one already in flight.
type TokenProvider func() string

// Client talks to the LEARN backend
type Client struct {
	baseURL *url.URL
	http    httpclient.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
	token   TokenProvider
}

// NewClient creates a backend client. tokenFn may be nil for a client that
// only performs unauthenticated calls.
func NewClient(cfg config.APIConfig, hc httpclient.Client, tokenFn TokenProvider) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", cfg.BaseURL, err)
	}
	if hc == nil {
		hc = httpclient.NewStandardClientWithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}

	limit := rate.Limit(cfg.RateLimitPerSecond)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	logger.Info("LEARN API client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("timeout_seconds", cfg.TimeoutSeconds))

	return &Client{
		baseURL: base,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		tracer:  otel.Tracer("learn-client/api"),
		token:   tokenFn,
	}, nil
}

// Send performs a request and JSON-decodes the response body into T. Only
// when T is NoContent does the body go untouched; a 204 against a
// JSON-expecting call is a decode failure, not a silent zero value.
func Send[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var out T

	_, raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return out, err
	}

	if _, ok := any(out).(NoContent); ok {
		return out, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return out, nil
}

// SendBinary performs a request and returns the raw response body on any
// 2xx status
func (c *Client) SendBinary(ctx context.Context, method, path string, body any) ([]byte, error) {
	_, raw, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// do builds and executes the request, returning the response and its fully
// read body for 2xx statuses and an *APIError otherwise
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, []byte, error) {
	start := time.Now()
	operation := operationLabel(method, path)

	ctx, span := c.tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, nil, fmt.Errorf("encode %s %s request body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The token is read here, not earlier, so a refresh completing mid-flow
	// is picked up by the next request
	token := c.token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("API request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Bool("authenticated", token != ""))

	resp, err := c.http.Do(req)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.APIRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(operation, "error", duration, zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, &APIError{Status: StatusTransportError, Message: "network request failed"}
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(operation, "error", duration, zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, &APIError{Status: StatusTransportError, Message: "network request failed"}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, raw)
		metrics.APIRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(operation, "error", duration,
			zap.Int("http_status", resp.StatusCode),
			zap.ByteString("body", raw))
		span.SetStatus(codes.Error, apiErr.Message)
		return nil, nil, apiErr
	}

	metrics.APIRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.APIRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(operation, "success", duration,
		zap.Int("http_status", resp.StatusCode))

	return resp, raw, nil
}

// parseAPIError extracts a human-readable message from an error response
// body, checking message, detail, error and errors keys in that order and
// falling back to the standard reason phrase for the status code
func parseAPIError(status int, raw []byte) *APIError {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if v, ok := payload[key]; ok {
				var s string
				if err := json.Unmarshal(v, &s); err == nil && s != "" {
					return &APIError{Status: status, Message: s}
				}
			}
		}
		if v, ok := payload["errors"]; ok {
			if msg := firstErrorsValue(v); msg != "" {
				return &APIError{Status: status, Message: msg}
			}
		}
	}

	msg := http.StatusText(status)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

// firstErrorsValue digs into a validation-style errors map. The first value
// in key order wins; a list of strings yields its first element, anything
// else is stringified whole.
func firstErrorsValue(raw json.RawMessage) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return ""
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	first := m[keys[0]]

	var list []string
	if err := json.Unmarshal(first, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	var s string
	if err := json.Unmarshal(first, &s); err == nil {
		return s
	}
	return string(raw)
}

// operationLabel collapses a request into a low-cardinality metrics label,
// replacing numeric path segments with a placeholder
func operationLabel(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		numeric := true
		for _, r := range seg {
			if r < '0' || r > '9' {
				numeric = false
				break
			}
		}
		if numeric {
			segments[i] = "{id}"
		}
	}
	return method + " /" + strings.Join(segments, "/")
}
