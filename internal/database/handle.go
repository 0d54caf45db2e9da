package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

var (
	sqlxConnect     = sqlx.ConnectContext
	sqlOpenDB       = sql.Open
	runMigrationsFn = RunMigrations
)

// Handle 持有連線池並負責建立資料表
type Handle struct {
	url    string
	echo   bool
	target Target
	db     *sqlx.DB
}

// New 建立尚未連線的 Handle；echo 為 true 時以 debug 等級記錄每個 SQL
func New(url string, echo bool) *Handle {
	return &Handle{url: url, echo: echo}
}

// Connect 開啟連線池並 ping；失敗時只回傳錯誤，由呼叫端決定如何處理
func (h *Handle) Connect(ctx context.Context) error {
	target, err := ParseURL(h.url)
	if err != nil {
		return err
	}
	db, err := sqlxConnect(ctx, target.Dialect.DriverName(), target.DSN)
	if err != nil {
		return fmt.Errorf("connect %s: %w", target.Dialect, err)
	}

	if target.Dialect == SQLite && isMemory(target.DSN) {
		// 否則每條連線都會拿到各自的空資料庫
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
	}

	h.target = target
	h.db = db
	slog.Info("database connection established", "dialect", target.Dialect)
	return nil
}

// Dialect 在 Connect 成功前為空字串
func (h *Handle) Dialect() Dialect {
	return h.target.Dialect
}

// CreateSchema 執行內嵌的 migration；重複執行不會有任何變更
func (h *Handle) CreateSchema() error {
	if h.db == nil {
		return ErrNotConnected
	}
	if h.target.Dialect == SQLite {
		// in-memory 資料庫只存在於連線池自己的連線上
		return runMigrationsFn(h.db.DB, SQLite)
	}

	sqlDB, err := sqlOpenDB(h.target.Dialect.DriverName(), h.target.DSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return runMigrationsFn(sqlDB, h.target.Dialect)
}

func (h *Handle) NewSession() (Session, error) {
	if h.db == nil {
		return nil, ErrNotConnected
	}
	return &session{db: h.db, dialect: h.target.Dialect, echo: h.echo}, nil
}

func (h *Handle) Ping(ctx context.Context) error {
	if h.db == nil {
		return ErrNotConnected
	}
	return h.db.PingContext(ctx)
}

// Close 釋放所有連線；未連線時呼叫也安全
func (h *Handle) Close() error {
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	slog.Info("database connection closed")
	return err
}

var _ DB = (*Handle)(nil)
