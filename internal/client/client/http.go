package client

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

	"github.com/dmitrijs2005/kbconsole/internal/client/session"
	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:8053"
	DefaultTimeout = 10 * time.Second

	maxResponseSize = 32 << 20
)

// HTTPClient talks to the platform's REST API.
type HTTPClient struct {
	base *url.URL
	auth *Authenticator
	log  logging.Logger

	http *http.Client // runs the Authenticator
	raw  *http.Client // refresh

	// Downloads bound only the wait for headers; the body is limited by ctx.
	download    *http.Client
	rawDownload *http.Client
}

type options struct {
	timeout   time.Duration
	log       logging.Logger
	onLogout  LogoutHandler
	now       func() time.Time
	transport http.RoundTripper
}

type Option func(*options)

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithLogoutHandler is called whenever the session is dropped by the
// Authenticator.
func WithLogoutHandler(h LogoutHandler) Option {
	return func(o *options) { o.onLogout = h }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTransport replaces the underlying RoundTripper (http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// NewHTTPClient returns a client for baseURL (DefaultBaseURL when empty)
// keeping its session in store.
func NewHTTPClient(baseURL string, store session.Store, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	o := options{
		timeout:   DefaultTimeout,
		log:       logging.Discard(),
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &HTTPClient{
		base: base,
		log:  o.log,
		raw:  &http.Client{Timeout: o.timeout, Transport: o.transport},
	}
	c.auth = NewAuthenticator(store, c.Refresh, o.onLogout, o.now, o.log)
	c.http = &http.Client{
		Timeout:   o.timeout,
		Transport: &authTransport{auth: c.auth, host: base.Host, next: o.transport},
	}
	slow := &headerTimeout{timeout: o.timeout, next: o.transport}
	c.download = &http.Client{Transport: &authTransport{auth: c.auth, host: base.Host, next: slow}}
	c.rawDownload = &http.Client{Transport: slow}
	return c, nil
}

// Authenticator exposes the request authenticator used by the client.
func (c *HTTPClient) Authenticator() *Authenticator {
	return c.auth
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	u.RawPath = ""
	u.RawQuery = query.Encode()
	return u.String()
}

// do sends a JSON request through the authenticated client and decodes the
// response data into out when out is not nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.send(ctx, c.http, method, c.endpoint(path, query), contentType, body, out)
}

func (c *HTTPClient) send(ctx context.Context, hc *http.Client, method, rawURL, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "api call",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", time.Since(started),
	)

	return decodeResponse(resp.StatusCode, payload, out)
}

func (c *HTTPClient) transportError(ctx context.Context, err error) error {
	if errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionExpired) {
		var ue *url.Error
		if errors.As(err, &ue) {
			return ue.Err
		}
		return err
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	c.log.Warn(ctx, "api call failed", "error", err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// envelope is the wrapper most endpoints answer with.
type envelope struct {
	Status  json.RawMessage `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// parseEnvelope reports whether payload is a wrapped answer. A JSON object
// counts as one when it carries "data", or a numeric "status" together with
// "message".
func parseEnvelope(payload []byte) (envelope, int, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return envelope{}, 0, false
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, 0, false
	}

	status := 0
	if len(env.Status) > 0 {
		var n json.Number
		if err := json.Unmarshal(env.Status, &n); err == nil {
			if v, err := n.Int64(); err == nil {
				status = int(v)
			}
		}
	}

	_, hasData := fields["data"]
	_, hasMessage := fields["message"]
	if hasData || (status != 0 && hasMessage) {
		return env, status, true
	}
	return envelope{}, 0, false
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func decodeResponse(code int, payload []byte, out any) error {
	payload = bytes.TrimSpace(payload)
	env, envStatus, wrapped := parseEnvelope(payload)

	if !isSuccess(code) {
		return responseError(code, payload, env, wrapped)
	}
	if wrapped && envStatus != 0 && !isSuccess(envStatus) {
		return responseError(envStatus, payload, env, wrapped)
	}

	if out == nil {
		return nil
	}

	if m, ok := out.(*messageOut); ok {
		m.text = messageOf(payload, env, wrapped)
		return nil
	}

	data := payload
	if wrapped {
		data = bytes.TrimSpace(env.Data)
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// messageOut asks decodeResponse for the answer's human message instead of
// its data.
type messageOut struct {
	text string
}

func responseError(code int, payload []byte, env envelope, wrapped bool) error {
	msg := messageOf(payload, env, wrapped)

	switch code {
	case http.StatusBadRequest:
		data := payload
		if wrapped {
			data = env.Data
		}
		var fieldErrs []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &fieldErrs); err == nil && len(fieldErrs) > 0 {
			ve := NewValidationError(msg)
			for _, fe := range fieldErrs {
				ve.Add(fe.Field, fe.Message)
			}
			return ve
		}
	case http.StatusUnauthorized:
		if msg == needsVerificationMessage {
			return &APIError{StatusCode: code, Message: msg, Err: ErrNeedsVerification}
		}
		return &APIError{StatusCode: code, Message: msg, Err: ErrUnauthorized}
	case http.StatusForbidden:
		return &APIError{StatusCode: code, Message: msg, Err: ErrUnauthorized}
	}

	if msg == "" {
		msg = http.StatusText(code)
	}
	return &APIError{StatusCode: code, Message: msg}
}

func messageOf(payload []byte, env envelope, wrapped bool) string {
	if wrapped && env.Message != "" {
		return env.Message
	}

	var alt struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &alt); err == nil {
		if alt.Message != "" {
			return alt.Message
		}
		if alt.Error != "" {
			return alt.Error
		}
	}

	if len(payload) == 0 {
		return ""
	}
	switch payload[0] {
	case '{', '[':
		return ""
	case '"':
		var text string
		if err := json.Unmarshal(payload, &text); err == nil {
			return text
		}
	}
	return string(payload)
}
