package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ModeCLI = "cli"
	ModeWeb = "web"

	DefaultDatabaseURL = "sqlite://records.db"
)

// Config 由環境變數載入的所有執行設定
type Config struct {
	Mode string `env:"APP_MODE" envDefault:"cli"`

	// DatabaseURL 優先；為空時才使用下方 DB_* 組出 Postgres URL
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBName      string `env:"DB_NAME" envDefault:"records"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`
	DBEcho      bool   `env:"DB_ECHO"`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	PageSize   int    `env:"PAGE_SIZE" envDefault:"100"`
	Debug      bool   `env:"DEBUG"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	FlashTTL      time.Duration `env:"FLASH_TTL" envDefault:"5m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

var envParse = env.Parse

// Load 解析環境變數並驗證結果
func Load() (Config, error) {
	var cfg Config
	if err := envParse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeCLI, ModeWeb:
	default:
		return fmt.Errorf("無效的 APP_MODE: %q (cli|web)", c.Mode)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("無效的 PAGE_SIZE: %d", c.PageSize)
	}
	if c.RedisAddr != "" && c.FlashTTL <= 0 {
		return fmt.Errorf("無效的 FLASH_TTL: %s", c.FlashTTL)
	}
	return nil
}

// DatabaseURLOrDefault 依序使用 DATABASE_URL、DB_* 變數，最後才是預設的 SQLite 檔案
func (c Config) DatabaseURLOrDefault() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" {
		return DefaultDatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DBSSLMode}}.Encode()
	}
	return u.String()
}

// RedisEnabled 是否將 flash 訊息存放在 Redis
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
