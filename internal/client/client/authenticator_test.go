package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.UnixMilli(1_700_000_000_000)

func fixedClock() time.Time { return testNow }

// countingStore records how often the session was read.
type countingStore struct {
	session.Store
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context) (session.Session, error) {
	s.gets.Add(1)
	return s.Store.Get(ctx)
}

type fakeRefresher struct {
	calls atomic.Int32
	resp  models.TokenPair
	err   error
	gate  chan struct{}
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.resp, f.err
}

type logoutRecorder struct {
	mu      sync.Mutex
	reasons []error
}

func (l *logoutRecorder) handle(ctx context.Context, reason error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons = append(l.reasons, reason)
}

func (l *logoutRecorder) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reasons)
}

type authFixture struct {
	store   *countingStore
	refresh *fakeRefresher
	logout  *logoutRecorder
	auth    *Authenticator
}

func newAuthFixture(t *testing.T, s session.Session) *authFixture {
	t.Helper()
	st := &countingStore{Store: session.NewMemoryStore()}
	require.NoError(t, st.Set(context.Background(), s))

	f := &authFixture{store: st, refresh: &fakeRefresher{}, logout: &logoutRecorder{}}
	f.auth = NewAuthenticator(st, f.refresh.Refresh, f.logout.handle, fixedClock, nil)
	return f
}

func newReq(t *testing.T, path string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://localhost:8053"+path, nil)
	require.NoError(t, err)
	return req
}

func (f *authFixture) stored(t *testing.T) session.Session {
	t.Helper()
	s, err := f.store.Store.Get(context.Background())
	require.NoError(t, err)
	return s
}

func TestAuthorize_PublicPathUntouched(t *testing.T) {
	paths := []string{
		"/auth/login",
		"/auth/login-verification",
		"/auth/signup",
		"/auth/forgotpassword",
		"/auth/send_otp",
		"/auth/send-verification-code",
		"/auth/reset-password",
		"/auth/validate-otp",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			f := newAuthFixture(t, session.Session{})
			req := newReq(t, p)

			require.NoError(t, f.auth.Authorize(context.Background(), req))
			assert.Empty(t, req.Header.Get("Authorization"))
			assert.Zero(t, f.store.gets.Load(), "public requests must not read the session")
			assert.Zero(t, f.logout.count())
		})
	}
}

func TestAuthorize_ValidTokenAttached(t *testing.T) {
	cases := map[string]session.Session{
		"no expiry":     {AccessToken: "T1", RefreshToken: "R1"},
		"future expiry": {AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow.Add(time.Millisecond)},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			f := newAuthFixture(t, s)
			req := newReq(t, "/knowledge_bases/list")

			require.NoError(t, f.auth.Authorize(context.Background(), req))
			assert.Equal(t, "Bearer T1", req.Header.Get("Authorization"))
			assert.Zero(t, f.refresh.calls.Load())
		})
	}
}

func TestAuthorize_ExpiredTokenRefreshedOnce(t *testing.T) {
	f := newAuthFixture(t, session.Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow, Username: "alice"})
	f.refresh.resp = models.TokenPair{AccessToken: "T2", RefreshToken: "R2", ExpiresIn: 3600}
	req := newReq(t, "/knowledge_bases/list")

	require.NoError(t, f.auth.Authorize(context.Background(), req))

	assert.Equal(t, int32(1), f.refresh.calls.Load())
	assert.Equal(t, "Bearer T2", req.Header.Get("Authorization"))

	got := f.stored(t)
	assert.Equal(t, "T2", got.AccessToken)
	assert.Equal(t, "R2", got.RefreshToken)
	assert.Equal(t, testNow.UnixMilli()+3_600_000, got.ExpiresAt.UnixMilli())
	assert.Equal(t, "alice", got.Username)
}

func TestAuthorize_RefreshWithoutNewRefreshTokenKeepsOld(t *testing.T) {
	f := newAuthFixture(t, session.Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow.Add(-time.Hour)})
	f.refresh.resp = models.TokenPair{AccessToken: "T2"}

	require.NoError(t, f.auth.Authorize(context.Background(), newReq(t, "/chat-model/list")))

	got := f.stored(t)
	assert.Equal(t, "T2", got.AccessToken)
	assert.Equal(t, "R1", got.RefreshToken)
	assert.Equal(t, testNow.Add(-time.Hour).UnixMilli(), got.ExpiresAt.UnixMilli())
}

func TestAuthorize_RefreshWithoutAccessTokenKeepsOld(t *testing.T) {
	start := session.Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow}
	f := newAuthFixture(t, start)
	f.refresh.resp = models.TokenPair{}
	req := newReq(t, "/chat-model/list")

	require.NoError(t, f.auth.Authorize(context.Background(), req))
	assert.Equal(t, "Bearer T1", req.Header.Get("Authorization"))
	assert.Equal(t, start, f.stored(t))
	assert.Zero(t, f.logout.count())
}

func TestAuthorize_RefreshFailureDropsSession(t *testing.T) {
	f := newAuthFixture(t, session.Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow, Username: "alice", Role: "admin"})
	f.refresh.err = &APIError{StatusCode: http.StatusUnauthorized, Message: "invalid refresh token", Err: ErrUnauthorized}
	req := newReq(t, "/knowledge_bases/list")

	err := f.auth.Authorize(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.True(t, f.stored(t).Empty())
	require.Equal(t, 1, f.logout.count())
	assert.ErrorIs(t, f.logout.reasons[0], ErrSessionExpired)
}

func TestAuthorize_ExpiredWithoutRefreshTokenAttachesOld(t *testing.T) {
	f := newAuthFixture(t, session.Session{AccessToken: "T1", ExpiresAt: testNow.Add(-time.Minute)})
	req := newReq(t, "/knowledge_bases/list")

	require.NoError(t, f.auth.Authorize(context.Background(), req))
	assert.Equal(t, "Bearer T1", req.Header.Get("Authorization"))
	assert.Zero(t, f.refresh.calls.Load())
}

func TestAuthorize_NoTokenDropsSession(t *testing.T) {
	f := newAuthFixture(t, session.Session{RefreshToken: "R1", Username: "alice"})
	req := newReq(t, "/api/v2/users/search")

	err := f.auth.Authorize(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.True(t, f.stored(t).Empty())
	require.Equal(t, 1, f.logout.count())
	assert.ErrorIs(t, f.logout.reasons[0], ErrNoSession)
	assert.Zero(t, f.refresh.calls.Load())
}

func TestAuthorize_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	f := newAuthFixture(t, session.Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow})
	f.refresh.resp = models.TokenPair{AccessToken: "T2", RefreshToken: "R2", ExpiresIn: 3600}
	f.refresh.gate = make(chan struct{})

	const n = 8
	var wg sync.WaitGroup
	headers := make([]string, n)
	errs := make([]error, n)
	reqs := make([]*http.Request, n)
	for i := range reqs {
		reqs[i] = newReq(t, "/knowledge_bases/list")
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := reqs[i]
			errs[i] = f.auth.Authorize(context.Background(), req)
			headers[i] = req.Header.Get("Authorization")
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(f.refresh.gate)
	wg.Wait()

	assert.Equal(t, int32(1), f.refresh.calls.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Bearer T2", headers[i])
	}
}

func TestAuthorize_LogoutDuringRefreshIsNotUndone(t *testing.T) {
	f := newAuthFixture(t, session.Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: testNow})
	f.refresh.resp = models.TokenPair{AccessToken: "T2", RefreshToken: "R2", ExpiresIn: 3600}
	f.refresh.gate = make(chan struct{})

	req := newReq(t, "/knowledge_bases/list")
	done := make(chan error, 1)
	go func() { done <- f.auth.Authorize(context.Background(), req) }()

	require.Eventually(t, func() bool { return f.refresh.calls.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, f.store.Clear(context.Background()))
	close(f.refresh.gate)

	err := <-done
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.False(t, f.stored(t).HasToken(), "cleared session must stay cleared")
}

func TestAuthorize_StoreErrorIsReturned(t *testing.T) {
	boom := errors.New("disk gone")
	a := NewAuthenticator(failingStore{err: boom}, nil, nil, fixedClock, nil)

	err := a.Authorize(context.Background(), newReq(t, "/knowledge_bases/list"))
	assert.ErrorIs(t, err, boom)
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context) (session.Session, error) { return session.Session{}, s.err }
func (s failingStore) Set(context.Context, session.Session) error    { return s.err }
func (s failingStore) Clear(context.Context) error                   { return s.err }
