package database

import (
	"context"
	"database/sql"
)

// DB 資料庫生命週期：連線 → 建立資料表 → 發出 session → 關閉
type DB interface {
	Connect(ctx context.Context) error
	CreateSchema() error
	NewSession() (Session, error)
	Ping(ctx context.Context) error
	Close() error
}

type FakeDB struct {
	ConnectFn      func(ctx context.Context) error
	CreateSchemaFn func() error
	NewSessionFn   func() (Session, error)
	PingFn         func(ctx context.Context) error
	CloseFn        func() error
}

func (f *FakeDB) Connect(ctx context.Context) error {
	if f.ConnectFn != nil {
		return f.ConnectFn(ctx)
	}
	panic("unexpected Connect")
}

func (f *FakeDB) CreateSchema() error {
	if f.CreateSchemaFn != nil {
		return f.CreateSchemaFn()
	}
	panic("unexpected CreateSchema")
}

func (f *FakeDB) NewSession() (Session, error) {
	if f.NewSessionFn != nil {
		return f.NewSessionFn()
	}
	panic("unexpected NewSession")
}

func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	panic("unexpected Ping")
}

func (f *FakeDB) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}

type FakeSession struct {
	GetFn      func(ctx context.Context, dest any, query string, args ...any) error
	SelectFn   func(ctx context.Context, dest any, query string, args ...any) error
	ExecFn     func(ctx context.Context, query string, args ...any) (sql.Result, error)
	DialectFn  func() Dialect
	BeginFn    func(ctx context.Context) error
	CommitFn   func() error
	RollbackFn func() error
	CloseFn    func() error
}

func (f *FakeSession) Get(ctx context.Context, dest any, query string, args ...any) error {
	if f.GetFn != nil {
		return f.GetFn(ctx, dest, query, args...)
	}
	panic("unexpected Get")
}

func (f *FakeSession) Select(ctx context.Context, dest any, query string, args ...any) error {
	if f.SelectFn != nil {
		return f.SelectFn(ctx, dest, query, args...)
	}
	panic("unexpected Select")
}

func (f *FakeSession) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	panic("unexpected Exec")
}

func (f *FakeSession) Dialect() Dialect {
	if f.DialectFn != nil {
		return f.DialectFn()
	}
	return SQLite
}

func (f *FakeSession) Begin(ctx context.Context) error {
	if f.BeginFn != nil {
		return f.BeginFn(ctx)
	}
	panic("unexpected Begin")
}

func (f *FakeSession) Commit() error {
	if f.CommitFn != nil {
		return f.CommitFn()
	}
	panic("unexpected Commit")
}

func (f *FakeSession) Rollback() error {
	if f.RollbackFn != nil {
		return f.RollbackFn()
	}
	return nil
}

func (f *FakeSession) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
