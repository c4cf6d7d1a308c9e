// Package remote is the REST client for the project-management backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ganot/pmdash/internal/apperr"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	headerRequestID = "X-Request-Id"
	headerCSRF      = "X-PMD-CSRF"
	cookieCSRF      = "PMD_CSRF"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Credentials supplies the bearer token and accepts refreshed ones.
type Credentials interface {
	Token() string
	UpdateToken(ctx context.Context, token string) error
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	HTTPClient *http.Client
	// OnUnauthorized fires when a 401 cannot be recovered by a refresh.
	OnUnauthorized func(ctx context.Context)
	// OnReachability fires when the server flips between reachable and unreachable.
	OnReachability func(online bool)
	Logger         *slog.Logger
}

// Client talks to the backend over JSON/HTTP.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	creds          Credentials
	limiter        *rate.Limiter
	metrics        *Metrics
	logger         *slog.Logger
	onUnauthorized func(ctx context.Context)
	onReachability func(online bool)
	refreshGroup   singleflight.Group

	mu        sync.Mutex
	reachable *bool
}

// New creates a client. creds may be nil for unauthenticated use.
func New(opts Options, creds Credentials) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient = &http.Client{Timeout: opts.Timeout, Jar: jar}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}

	return &Client{
		baseURL:        base,
		http:           httpClient,
		creds:          creds,
		limiter:        rate.NewLimiter(limit, burst),
		metrics:        NewMetrics(),
		logger:         logger,
		onUnauthorized: opts.OnUnauthorized,
		onReachability: opts.OnReachability,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type call struct {
	method string
	// route is the path template used as a metrics label.
	route string
	path  string
	query url.Values
	body  any
	// raw is sent verbatim with contentType instead of a JSON body.
	raw         []byte
	contentType string
	// noRefresh marks auth endpoints whose 401 must not trigger a refresh.
	noRefresh bool
}

func (c *Client) get(ctx context.Context, route, path string, query url.Values, out any) error {
	return c.do(ctx, call{method: http.MethodGet, route: route, path: path, query: query}, out)
}

func (c *Client) send(ctx context.Context, method, route, path string, body, out any) error {
	return c.do(ctx, call{method: method, route: route, path: path, body: body}, out)
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, cl, out)

	kind := "ok"
	if err != nil {
		kind = string(apperr.KindOf(err))
	}
	c.metrics.RequestsTotal.WithLabelValues(cl.method, cl.route, kind).Inc()
	c.metrics.RequestDuration.WithLabelValues(cl.method, cl.route).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) roundTrip(ctx context.Context, cl call, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &apperr.Error{Status: apperr.StatusUnreachable, Message: "request canceled", Err: err}
	}

	token := ""
	if c.creds != nil {
		token = c.creds.Token()
	}

	resp, requestID, err := c.exchange(ctx, cl, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !cl.noRefresh && c.creds != nil {
		resp.Body.Close()
		refreshed, rerr := c.refreshToken(ctx)
		if rerr != nil || refreshed == "" {
			c.logger.Info("token refresh failed", "error", rerr)
			c.signalUnauthorized(ctx)
			return &apperr.Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", RequestID: requestID, Err: rerr}
		}
		resp, requestID, err = c.exchange(ctx, cl, refreshed)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.Error{Status: resp.StatusCode, Message: "reading response", RequestID: requestID, Err: err}
	}

	if id := resp.Header.Get(headerRequestID); id != "" {
		requestID = id
	}

	if resp.StatusCode == http.StatusUnauthorized && !cl.noRefresh {
		c.signalUnauthorized(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data, requestID)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &apperr.Error{Status: resp.StatusCode, Message: "malformed response body", RequestID: requestID, Err: err}
	}
	return nil
}

// exchange sends one HTTP request. Transport failures become status 0 errors.
func (c *Client) exchange(ctx context.Context, cl call, token string) (*http.Response, string, error) {
	req, requestID, err := c.newRequest(ctx, cl, token)
	if err != nil {
		return nil, requestID, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.setReachable(false)
		c.logger.Warn("remote unreachable", "method", cl.method, "route", cl.route, "request_id", requestID, "error", err)
		return nil, requestID, &apperr.Error{
			Status:    apperr.StatusUnreachable,
			Message:   fmt.Sprintf("Cannot reach server. Check backend is running at %s and try again.", c.baseURL),
			RequestID: requestID,
			Err:       err,
		}
	}
	c.setReachable(true)
	c.logger.Debug("remote call", "method", cl.method, "route", cl.route, "status", resp.StatusCode, "request_id", requestID)
	return resp, requestID, nil
}

func (c *Client) newRequest(ctx context.Context, cl call, token string) (*http.Request, string, error) {
	requestID := uuid.NewString()

	target := c.baseURL.String() + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	contentType := "application/json"
	switch {
	case cl.raw != nil:
		body = bytes.NewReader(cl.raw)
		contentType = cl.contentType
	case cl.body != nil:
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, requestID, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, requestID, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(headerRequestID, requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cl.method != http.MethodGet && cl.method != http.MethodHead && cl.method != http.MethodOptions {
		if csrf := c.csrfToken(); csrf != "" {
			req.Header.Set(headerCSRF, csrf)
		}
	}
	return req, requestID, nil
}

func (c *Client) csrfToken() string {
	if c.http.Jar == nil {
		return ""
	}
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == cookieCSRF {
			return ck.Value
		}
	}
	return ""
}

// refreshToken exchanges the refresh cookie for a new bearer token. Concurrent
// 401s share a single refresh call.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		res, err := c.Refresh(ctx)
		if err != nil {
			return "", err
		}
		if res.Token == "" {
			return "", errors.New("refresh returned no token")
		}
		if err := c.creds.UpdateToken(ctx, res.Token); err != nil {
			return "", fmt.Errorf("storing refreshed token: %w", err)
		}
		return res.Token, nil
	})
	result := "ok"
	if err != nil {
		result = "failed"
	}
	c.metrics.RefreshesTotal.WithLabelValues(result).Inc()
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) signalUnauthorized(ctx context.Context) {
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

func (c *Client) setReachable(online bool) {
	c.mu.Lock()
	changed := c.reachable == nil || *c.reachable != online
	c.reachable = &online
	c.mu.Unlock()

	if online {
		c.metrics.Reachable.Set(1)
	} else {
		c.metrics.Reachable.Set(0)
	}
	if changed && c.onReachability != nil {
		c.onReachability(online)
	}
}

// Reachable reports the last observed reachability; true until a call fails.
func (c *Client) Reachable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reachable == nil || *c.reachable
}

type errorBody struct {
	Message     string            `json:"message"`
	Error       string            `json:"error"`
	Code        string            `json:"code"`
	RequestID   string            `json:"requestId"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Errors      []struct {
		Field          string `json:"field"`
		DefaultMessage string `json:"defaultMessage"`
	} `json:"errors"`
}

// decodeError turns a non-2xx response into an *apperr.Error. The message is
// taken from "message", then "error", then joined "errors[].defaultMessage",
// then the raw body.
func decodeError(status int, data []byte, requestID string) error {
	e := &apperr.Error{Status: status, RequestID: requestID}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		e.Code = body.Code
		e.FieldErrors = body.FieldErrors
		if body.RequestID != "" {
			e.RequestID = body.RequestID
		}
		switch {
		case body.Message != "":
			e.Message = body.Message
		case body.Error != "":
			e.Message = body.Error
		case len(body.Errors) > 0:
			msgs := make([]string, 0, len(body.Errors))
			for _, fe := range body.Errors {
				if fe.DefaultMessage == "" {
					continue
				}
				msgs = append(msgs, fe.DefaultMessage)
				if fe.Field != "" {
					if e.FieldErrors == nil {
						e.FieldErrors = map[string]string{}
					}
					e.FieldErrors[fe.Field] = fe.DefaultMessage
				}
			}
			e.Message = strings.Join(msgs, ", ")
		}
		return e
	}

	e.Message = strings.TrimSpace(string(data))
	if e.Message == "" {
		e.Message = "Request failed"
	}
	return e
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
