// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"user-records/internal/cache"
	"user-records/internal/database"
	"user-records/internal/flash"
	"user-records/internal/handler"
	"user-records/internal/handler/users"
)

// Setup 註冊所有路由；cch 為 nil 時健康檢查只看資料庫
func Setup(e *echo.Echo, db database.DB, flashes flash.Store, cch cache.Cache, pageSize int) {
	// 健康檢查
	e.GET("/ping", handler.PingHandler(db, cch))

	// 列表與搜尋
	e.GET("/", users.ListUsersHandler(db, flashes, pageSize))

	// 新增
	e.GET("/add", users.AddUserFormHandler(flashes))
	e.POST("/add", users.AddUserHandler(db, flashes))

	// 編輯
	e.GET("/edit/:id", users.EditUserFormHandler(db, flashes))
	e.POST("/edit/:id", users.EditUserHandler(db, flashes))

	// 刪除只接受 POST
	e.POST("/delete/:id", users.DeleteUserHandler(db, flashes))
}
