package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		url     string
		dialect Dialect
		dsn     string
	}{
		{"postgres://u:p@localhost:5432/list?sslmode=disable", Postgres, "postgres://u:p@localhost:5432/list?sslmode=disable"},
		{"postgresql://postgres@localhost:8080/list", Postgres, "postgresql://postgres@localhost:8080/list"},
		{"sqlite://records.db", SQLite, "records.db?_busy_timeout=5000&_foreign_keys=on"},
		{"sqlite:///tmp/x.db?cache=shared", SQLite, "/tmp/x.db?cache=shared&_busy_timeout=5000&_foreign_keys=on"},
		{"sqlite://:memory:", SQLite, ":memory:"},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			target, err := ParseURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.dialect, target.Dialect)
			require.Equal(t, tc.dsn, target.DSN)
		})
	}
}

func TestParseURLMySQL(t *testing.T) {
	target, err := ParseURL("mysql://root:pw@tcp(127.0.0.1:3306)/records")
	require.NoError(t, err)
	require.Equal(t, MySQL, target.Dialect)
	require.Contains(t, target.DSN, "root:pw@tcp(127.0.0.1:3306)/records")
	require.Contains(t, target.DSN, "parseTime=true")
}

func TestParseURLErrors(t *testing.T) {
	for _, raw := range []string{"", "records.db", "sqlite://", "oracle://x", "mysql://bad dsn"} {
		_, err := ParseURL(raw)
		require.Error(t, err, raw)
	}
}

func TestDriverName(t *testing.T) {
	require.Equal(t, "pgx", Postgres.DriverName())
	require.Equal(t, "sqlite3_records", SQLite.DriverName())
	require.Equal(t, "mysql", MySQL.DriverName())
	require.Equal(t, "", Dialect("x").DriverName())
}
