package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Session 綁定在 Handle 上的 unit of work。SQL 一律使用 "?" 佔位符，
// 執行前依方言轉換；Begin/Commit 之外的查詢直接走連線池。
// 不可在多個 goroutine 間共用。
type Session interface {
	Get(ctx context.Context, dest any, query string, args ...any) error
	Select(ctx context.Context, dest any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Dialect() Dialect
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	Close() error
}

type session struct {
	db      *sqlx.DB
	dialect Dialect
	echo    bool
	tx      *sqlx.Tx
	closed  bool
}

func (s *session) Dialect() Dialect { return s.dialect }

func (s *session) ext() sqlx.ExtContext {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *session) prepare(ctx context.Context, query string, args []any) string {
	q := s.db.Rebind(query)
	if s.echo {
		slog.DebugContext(ctx, "sql", "query", q, "args", args, "tx", s.tx != nil)
	}
	return q
}

func (s *session) Get(ctx context.Context, dest any, query string, args ...any) error {
	if s.closed {
		return ErrSessionClosed
	}
	return sqlx.GetContext(ctx, s.ext(), dest, s.prepare(ctx, query, args), args...)
}

func (s *session) Select(ctx context.Context, dest any, query string, args ...any) error {
	if s.closed {
		return ErrSessionClosed
	}
	return sqlx.SelectContext(ctx, s.ext(), dest, s.prepare(ctx, query, args), args...)
}

func (s *session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.ext().ExecContext(ctx, s.prepare(ctx, query, args), args...)
}

// Begin 開啟交易；已在交易中時不做任何事
func (s *session) Begin(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

func (s *session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

func (s *session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Rollback()
}

// Close 回滾尚未提交的交易，可重複呼叫
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	err := s.Rollback()
	s.closed = true
	return err
}
