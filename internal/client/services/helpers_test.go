package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/dmitrijs2005/kbconsole/internal/client/fakeapi"
	"github.com/dmitrijs2005/kbconsole/internal/client/session"
	"github.com/dmitrijs2005/kbconsole/internal/logging"
	"github.com/stretchr/testify/require"
)

var testNow = time.UnixMilli(1_700_000_000_000)

type env struct {
	api   *fakeapi.Server
	store *session.MemoryStore
	c     *client.HTTPClient
	log   logging.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	api := fakeapi.New()
	t.Cleanup(api.Close)

	store := session.NewMemoryStore()
	c, err := client.NewHTTPClient(api.URL(), store)
	require.NoError(t, err)
	return &env{api: api, store: store, c: c, log: logging.Discard()}
}

// signedIn returns an env with a live admin session.
func signedIn(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	e.api.AddAccount("admin@example.com", "admin", "secret1", "admin", true)
	access, refresh := e.api.IssueTokens("admin@example.com")
	require.NoError(t, e.store.Set(context.Background(), session.Session{AccessToken: access, RefreshToken: refresh}))
	return e
}
