package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/kbconsole/internal/client/migrations"
	"github.com/dmitrijs2005/kbconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/kbconsole/internal/common"
	"github.com/dmitrijs2005/kbconsole/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens (creating if needed) the SQLite session database at dsn
// and migrates it.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under concurrent refreshes
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session database: %w", err)
	}
	return db, nil
}

// SQLiteStore persists the session under the common.Key* keys of the
// metadata table. Set and Clear run in a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context) (Session, error) {
	values, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return Session{}, err
	}

	out := Session{
		AccessToken:  string(values[common.KeyAccessToken]),
		RefreshToken: string(values[common.KeyRefreshToken]),
		Username:     string(values[common.KeyUsername]),
		Role:         string(values[common.KeyRole]),
	}
	if raw := string(values[common.KeyTokenExpiredAt]); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Session{}, fmt.Errorf("parse %s: %w", common.KeyTokenExpiredAt, err)
		}
		out.ExpiresAt = time.UnixMilli(ms)
	}
	return out, nil
}

func (s *SQLiteStore) Set(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.SessionKeys[0], common.SessionKeys[1:]...); err != nil {
			return err
		}

		values := map[string]string{
			common.KeyAccessToken:  sess.AccessToken,
			common.KeyRefreshToken: sess.RefreshToken,
			common.KeyUsername:     sess.Username,
			common.KeyRole:         sess.Role,
		}
		if sess.HasExpiry() {
			values[common.KeyTokenExpiredAt] = strconv.FormatInt(sess.ExpiresAt.UnixMilli(), 10)
		}

		for _, key := range common.SessionKeys {
			v := values[key]
			if v == "" {
				continue
			}
			if err := repo.Set(ctx, key, []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, common.SessionKeys[0], common.SessionKeys[1:]...)
	})
}
