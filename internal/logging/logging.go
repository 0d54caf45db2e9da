package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New 建立寫入 w 的 slog.Logger；format 為 "text" 或 "json"
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("無效的 LOG_LEVEL: %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("無效的 LOG_FORMAT: %q", format)
	}
}
