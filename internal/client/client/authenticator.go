package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/client/session"
	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
	"golang.org/x/sync/singleflight"
)

// PublicPaths are the endpoints that never carry a token. A request whose
// path contains one of them is sent as is; "/auth/login" therefore also
// covers "/auth/login-verification".
var PublicPaths = []string{
	"/auth/login",
	"/auth/signup",
	"/auth/forgotpassword",
	"/auth/send_otp",
	"/auth/send-verification-code",
	"/auth/reset-password",
	"/auth/validate-otp",
}

// RefreshFunc exchanges a refresh token for a new token pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (models.TokenPair, error)

// LogoutHandler is told that the session was dropped and the user has to
// sign in again. reason is ErrNoSession or ErrSessionExpired.
type LogoutHandler func(ctx context.Context, reason error)

// Authenticator decides, per outbound request, which token to attach.
type Authenticator struct {
	store    session.Store
	refresh  RefreshFunc
	onLogout LogoutHandler
	public   []string
	now      func() time.Time
	log      logging.Logger

	flight singleflight.Group
}

// NewAuthenticator wires the session store to the refresh call. onLogout,
// now and log may be nil.
func NewAuthenticator(store session.Store, refresh RefreshFunc, onLogout LogoutHandler, now func() time.Time, log logging.Logger) *Authenticator {
	if onLogout == nil {
		onLogout = func(context.Context, error) {}
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Authenticator{
		store:    store,
		refresh:  refresh,
		onLogout: onLogout,
		public:   PublicPaths,
		now:      now,
		log:      log,
	}
}

// IsPublic reports whether path is on the allow-list.
func (a *Authenticator) IsPublic(path string) bool {
	for _, p := range a.public {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// Authorize sets the Authorization header on req, refreshing the access
// token first when it has expired. It returns ErrNoSession or
// ErrSessionExpired when the request must not be sent; in both cases the
// session is already cleared and the logout handler has been called.
func (a *Authenticator) Authorize(ctx context.Context, req *http.Request) error {
	if a.IsPublic(req.URL.Path) {
		return nil
	}

	s, err := a.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if !s.HasToken() {
		a.log.Info(ctx, "no access token, signing out", "path", req.URL.Path)
		a.dropSession(ctx, ErrNoSession)
		return ErrNoSession
	}

	token := s.AccessToken
	if s.Expired(a.now()) && s.RefreshToken != "" {
		token, err = a.refreshed(ctx, s)
		if err != nil {
			return err
		}
	}

	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return nil
}

// refreshed returns the access token to use after refreshing stale.
// Callers holding the same stale session share one refresh call.
func (a *Authenticator) refreshed(ctx context.Context, stale session.Session) (string, error) {
	v, err, shared := a.flight.Do(stale.RefreshToken, func() (any, error) {
		fctx := context.WithoutCancel(ctx)

		// Another flight may have finished between our read and this one.
		if cur, err := a.store.Get(fctx); err == nil && cur.HasToken() &&
			cur.AccessToken != stale.AccessToken && !cur.Expired(a.now()) {
			return cur.AccessToken, nil
		}

		tp, err := a.refresh(fctx, stale.RefreshToken)
		if err != nil {
			a.log.Warn(fctx, "token refresh failed", "error", err)
			a.dropSession(fctx, ErrSessionExpired)
			return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}

		// A logout may have cleared the store while the call was in flight.
		cur, err := a.store.Get(fctx)
		if err != nil {
			return "", fmt.Errorf("load session: %w", err)
		}
		if cur.RefreshToken != stale.RefreshToken {
			a.log.Info(fctx, "session ended during token refresh, discarding new tokens")
			return "", ErrNoSession
		}

		if tp.AccessToken == "" {
			a.log.Warn(fctx, "refresh response has no access token, keeping the old one")
			return stale.AccessToken, nil
		}

		next := stale.Refreshed(tp, a.now())
		if err := a.store.Set(fctx, next); err != nil {
			return "", fmt.Errorf("save session: %w", err)
		}
		a.log.Info(fctx, "access token refreshed", "expires_at", next.ExpiresAt)
		return next.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		a.log.Debug(ctx, "joined in-flight token refresh")
	}
	return v.(string), nil
}

func (a *Authenticator) dropSession(ctx context.Context, reason error) {
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
	}
	a.onLogout(ctx, reason)
}
