// File: internal/handler/ping.go
package handler

import (
	"net/http"

	"user-records/internal/cache"
	"user-records/internal/database"

	"github.com/labstack/echo/v4"
)

// PingResponse 健康檢查回應
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}

// PingHandler 檢查資料庫連線；有設定 Redis 時一併檢查
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, PingResponse{Message: "database unhealthy"})
		}
		if cch != nil {
			if err := cch.Ping(ctx).Err(); err != nil {
				return c.JSON(http.StatusInternalServerError, PingResponse{Message: "cache unhealthy"})
			}
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
