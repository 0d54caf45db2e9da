// Command records 以互動選單 (APP_MODE=cli) 或網頁 (APP_MODE=web) 管理使用者資料。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-records/internal/cache"
	"user-records/internal/cli"
	"user-records/internal/config"
	"user-records/internal/database"
	"user-records/internal/flash"
	"user-records/internal/logging"
	"user-records/internal/router"
	"user-records/internal/validation"
	"user-records/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig     = config.Load
	newDatabase    = func(url string, echo bool) database.DB { return database.New(url, echo) }
	newRedisClient = cache.NewRedisClient
	startServer    = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	runMenu        = func(ctx context.Context, s database.Session, in io.Reader, out io.Writer, pageSize int) error {
		return cli.New(s, in, out, pageSize).Run(ctx)
	}
	stdin    io.Reader = os.Stdin
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
	exitFunc           = os.Exit
)

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	db := newDatabase(cfg.DatabaseURLOrDefault(), cfg.DBEcho)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("關閉資料庫失敗", "error", err)
		}
	}()

	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("建立資料表失敗: %w", err)
	}

	if cfg.Mode == config.ModeWeb {
		return serve(ctx, cfg, db)
	}
	return menu(ctx, cfg, db)
}

// menu 整個選單共用一個 session；session 先於資料庫關閉
func menu(ctx context.Context, cfg config.Config, db database.DB) error {
	fmt.Fprintln(stdout, "Database connected and tables created successfully!")

	s, err := db.NewSession()
	if err != nil {
		return fmt.Errorf("建立 session 失敗: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("關閉 session 失敗", "error", err)
		}
	}()

	return runMenu(ctx, s, stdin, stdout, cfg.PageSize)
}

func serve(ctx context.Context, cfg config.Config, db database.DB) error {
	var (
		cch     cache.Cache
		flashes flash.Store = flash.NewCookieStore()
	)
	if cfg.RedisEnabled() {
		c, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %w", err)
		}
		defer c.Close()
		cch = c
		flashes = flash.NewCacheStore(c, cfg.FlashTTL)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("載入頁面樣板失敗: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Validator = validation.New()
	e.Renderer = renderer
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, db, flashes, cch, cfg.PageSize)

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.ListenAddr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down", "addr", cfg.ListenAddr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return shutdownServer(shutdownCtx, e)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error(err.Error())
		exitFunc(1)
	}
}
