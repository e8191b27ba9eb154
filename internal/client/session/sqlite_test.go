package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), db
}

func storedKeys(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()
	rows, err := db.Query(`SELECT key, value FROM metadata`)
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k string
		var v []byte
		require.NoError(t, rows.Scan(&k, &v))
		out[k] = string(v)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestOpenDatabase_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := OpenDatabase(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, db.Close())

	db, err = OpenDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='metadata'`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st, db := newSQLiteStore(t)

	want := Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: now, Username: "alice", Role: "admin"}
	require.NoError(t, st.Set(ctx, want))

	got, err := st.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.Equal(t, want.ExpiresAt.UnixMilli(), got.ExpiresAt.UnixMilli())
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "admin", got.Role)

	assert.Equal(t, map[string]string{
		common.KeyAccessToken:    "T1",
		common.KeyRefreshToken:   "R1",
		common.KeyTokenExpiredAt: "1700000000000",
		common.KeyUsername:       "alice",
		common.KeyRole:           "admin",
	}, storedKeys(t, db))
}

func TestSQLiteStore_SetReplacesWholeSession(t *testing.T) {
	ctx := context.Background()
	st, db := newSQLiteStore(t)

	require.NoError(t, st.Set(ctx, Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: now}))
	require.NoError(t, st.Set(ctx, Session{AccessToken: "T2"}))

	assert.Equal(t, map[string]string{common.KeyAccessToken: "T2"}, storedKeys(t, db))

	got, err := st.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.HasExpiry())
}

func TestSQLiteStore_ClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	st, db := newSQLiteStore(t)

	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('theme', 'dark')`)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, Session{AccessToken: "T1", RefreshToken: "R1", ExpiresAt: now, Username: "u", Role: "r"}))

	require.NoError(t, st.Clear(ctx))

	assert.Equal(t, map[string]string{"theme": "dark"}, storedKeys(t, db))
	got, err := st.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestSQLiteStore_CorruptExpiry(t *testing.T) {
	ctx := context.Background()
	st, db := newSQLiteStore(t)

	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('tokenExpiredAt', 'soon')`)
	require.NoError(t, err)

	_, err = st.Get(ctx)
	require.ErrorContains(t, err, "parse tokenExpiredAt")
}
