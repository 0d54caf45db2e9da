package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newSQLiteHandle(t *testing.T) *Handle {
	t.Helper()
	h := New("sqlite://"+filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, h.Connect(context.Background()))
	t.Cleanup(func() { _ = h.Close() })
	require.NoError(t, h.CreateSchema())
	return h
}

func countUsers(t *testing.T, s Session) int {
	t.Helper()
	var n int
	require.NoError(t, s.Get(context.Background(), &n, `SELECT COUNT(*) FROM users`))
	return n
}

const insertUser = `INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

func TestHandleLifecycle(t *testing.T) {
	h := New("sqlite://:memory:", true)

	_, err := h.NewSession()
	require.ErrorIs(t, err, ErrNotConnected)
	require.ErrorIs(t, h.CreateSchema(), ErrNotConnected)
	require.ErrorIs(t, h.Ping(context.Background()), ErrNotConnected)
	require.NoError(t, h.Close())

	require.NoError(t, h.Connect(context.Background()))
	require.Equal(t, SQLite, h.Dialect())
	require.NoError(t, h.Ping(context.Background()))
	require.NoError(t, h.CreateSchema())
	// second run finds nothing to apply
	require.NoError(t, h.CreateSchema())

	s, err := h.NewSession()
	require.NoError(t, err)
	require.Equal(t, SQLite, s.Dialect())
	require.Equal(t, 0, countUsers(t, s))
	require.NoError(t, s.Close())

	require.NoError(t, h.Close())
	_, err = h.NewSession()
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestHandleConnectErrors(t *testing.T) {
	t.Cleanup(func() { sqlxConnect = sqlx.ConnectContext })

	require.Error(t, New("nope", false).Connect(context.Background()))

	sqlxConnect = func(context.Context, string, string) (*sqlx.DB, error) { return nil, errors.New("refused") }
	err := New("postgres://localhost/x", false).Connect(context.Background())
	require.ErrorContains(t, err, "refused")
}

func TestHandleCreateSchemaServerDialect(t *testing.T) {
	t.Cleanup(func() {
		sqlOpenDB = sql.Open
		runMigrationsFn = RunMigrations
	})

	h := &Handle{target: Target{Dialect: Postgres, DSN: "postgres://localhost/x"}, db: &sqlx.DB{}}

	sqlOpenDB = func(string, string) (*sql.DB, error) { return nil, errors.New("open") }
	require.Error(t, h.CreateSchema())

	var gotDriver string
	var gotDialect Dialect
	sqlOpenDB = func(driver, dsn string) (*sql.DB, error) {
		gotDriver = driver
		return sql.Open("pgx", dsn)
	}
	runMigrationsFn = func(_ *sql.DB, d Dialect) error { gotDialect = d; return nil }
	require.NoError(t, h.CreateSchema())
	require.Equal(t, "pgx", gotDriver)
	require.Equal(t, Postgres, gotDialect)
}

func TestSessionTransactions(t *testing.T) {
	h := newSQLiteHandle(t)
	ctx := context.Background()
	s, err := h.NewSession()
	require.NoError(t, err)
	defer s.Close()

	// commit/rollback without Begin are no-ops
	require.NoError(t, s.Commit())
	require.NoError(t, s.Rollback())

	require.NoError(t, s.Begin(ctx))
	require.NoError(t, s.Begin(ctx))
	_, err = s.Exec(ctx, insertUser, "Alice", "a@x.com")
	require.NoError(t, err)
	require.NoError(t, s.Rollback())
	require.Equal(t, 0, countUsers(t, s))

	require.NoError(t, s.Begin(ctx))
	_, err = s.Exec(ctx, insertUser, "Alice", "a@x.com")
	require.NoError(t, err)
	require.NoError(t, s.Commit())
	require.Equal(t, 1, countUsers(t, s))

	var names []string
	require.NoError(t, s.Select(ctx, &names, `SELECT name FROM users WHERE email = ?`, "a@x.com"))
	require.Equal(t, []string{"Alice"}, names)
}

func TestSessionCloseRollsBack(t *testing.T) {
	h := newSQLiteHandle(t)
	ctx := context.Background()

	s, err := h.NewSession()
	require.NoError(t, err)
	require.NoError(t, s.Begin(ctx))
	_, err = s.Exec(ctx, insertUser, "Bob", "b@x.com")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.Begin(ctx), ErrSessionClosed)
	require.ErrorIs(t, s.Commit(), ErrSessionClosed)
	require.ErrorIs(t, s.Get(ctx, new(int), `SELECT 1`), ErrSessionClosed)
	require.ErrorIs(t, s.Select(ctx, new([]int), `SELECT 1`), ErrSessionClosed)
	_, err = s.Exec(ctx, `SELECT 1`)
	require.ErrorIs(t, err, ErrSessionClosed)

	other, err := h.NewSession()
	require.NoError(t, err)
	defer other.Close()
	require.Equal(t, 0, countUsers(t, other))
}

func TestSQLiteUniqueViolation(t *testing.T) {
	h := newSQLiteHandle(t)
	ctx := context.Background()
	s, err := h.NewSession()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Exec(ctx, insertUser, "Alice", "dup@x.com")
	require.NoError(t, err)
	_, err = s.Exec(ctx, insertUser, "Alice 2", "dup@x.com")
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
}
