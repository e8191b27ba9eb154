package client

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/google/uuid"
)

// authTransport stamps a request id and runs the Authenticator before
// handing the request to the next RoundTripper. Requests to any host other
// than the API's, such as redirect hops, are sent without a token.
type authTransport struct {
	auth *Authenticator
	host string
	next http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A RoundTripper must not modify the caller's request.
	r := req.Clone(req.Context())
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	if r.URL.Host != t.host {
		r.Header.Del(common.AuthorizationHeaderName)
		return t.next.RoundTrip(r)
	}

	if err := t.auth.Authorize(r.Context(), r); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	return t.next.RoundTrip(r)
}

// headerTimeout bounds the wait for response headers only. The body may
// take as long as the request context allows.
type headerTimeout struct {
	timeout time.Duration
	next    http.RoundTripper
}

func (t *headerTimeout) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.timeout <= 0 {
		return t.next.RoundTrip(req)
	}

	ctx, cancel := context.WithCancel(req.Context())
	timer := time.AfterFunc(t.timeout, cancel)
	resp, err := t.next.RoundTrip(req.WithContext(ctx))
	timer.Stop()
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
