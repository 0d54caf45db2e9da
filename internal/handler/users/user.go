package users

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"user-records/internal/api"
	"user-records/internal/database"
	"user-records/internal/flash"
	"user-records/internal/model"
	"user-records/internal/store"
	"user-records/internal/validation"
	"user-records/internal/view"

	"github.com/labstack/echo/v4"
)

var (
	listUsers   = store.ListUsers
	countUsers  = store.CountUsers
	searchUsers = store.SearchUsers
	createUser  = store.CreateUser
	getUserByID = store.GetUserByID
	updateUser  = store.UpdateUser
	deleteUser  = store.DeleteUser
)

/* ---------- 共用輔助 ---------- */

func addFlash(c echo.Context, flashes flash.Store, kind flash.Kind, msg string) {
	if err := flashes.Add(c, flash.Flash{Kind: kind, Message: msg}); err != nil {
		slog.WarnContext(c.Request().Context(), "add flash failed", "error", err)
	}
}

// flashStoreError 查無資料屬於提示，其餘為錯誤
func flashStoreError(c echo.Context, flashes flash.Store, err error) {
	kind := flash.Error
	if store.IsNotFound(err) {
		kind = flash.Info
	}
	addFlash(c, flashes, kind, store.Message(err))
}

func popFlashes(c echo.Context, flashes flash.Store) []flash.Flash {
	list, err := flashes.Pop(c)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "pop flash failed", "error", err)
	}
	return list
}

func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// withSession 每個請求開一個 session，處理完即關閉
func withSession(c echo.Context, db database.DB, fn func(ctx context.Context, s database.Session) error) error {
	s, err := db.NewSession()
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "open session failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.WarnContext(c.Request().Context(), "close session failed", "error", err)
		}
	}()
	return fn(c.Request().Context(), s)
}

func renderForm(c echo.Context, status int, page view.FormPage) error {
	return c.Render(status, view.PageForm, page)
}

/* ---------- 列表 ---------- */

// pageOffset 計算第 page 頁的起始位置；乘法溢位時回傳 ok=false
func pageOffset(page, pageSize int) (int, bool) {
	if page < 1 || pageSize < 1 || page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

// ListUsersHandler 顯示使用者列表；q 為搜尋字串，page 從 1 開始
func ListUsersHandler(db database.DB, flashes flash.Store, pageSize int) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListUsersRequest
		if err := c.Bind(&req); err != nil {
			req = api.ListUsersRequest{Query: c.QueryParam("q")}
		}
		req.Query = strings.TrimSpace(req.Query)
		if req.Page < 1 {
			req.Page = 1
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, validation.Message(err))
		}

		page := view.ListPage{
			Title:   "Users",
			Flashes: popFlashes(c, flashes),
			Users:   []model.User{},
			Query:   req.Query,
			Page:    req.Page,
		}
		skip, ok := pageOffset(req.Page, pageSize)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Page is out of range")
		}

		status := http.StatusOK
		err := withSession(c, db, func(ctx context.Context, s database.Session) error {
			if req.Query != "" {
				found, err := searchUsers(ctx, s, req.Query)
				if err != nil {
					return err
				}
				page.Total = int64(len(found))
				if skip < len(found) {
					page.Users = found[skip:min(skip+pageSize, len(found))]
				}
				return nil
			}

			total, err := countUsers(ctx, s)
			if err != nil {
				return err
			}
			page.Total = total
			page.Users, err = listUsers(ctx, s, skip, pageSize)
			return err
		})
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		if err != nil {
			status = http.StatusInternalServerError
			page.Users = []model.User{}
			page.Flashes = append(page.Flashes, flash.Flash{Kind: flash.Error, Message: store.Message(err)})
		}

		page.TotalPages = max(1, int((page.Total+int64(pageSize)-1)/int64(pageSize)))
		page.HasPrev = page.Page > 1
		page.HasNext = page.Page < page.TotalPages
		page.PrevPage = page.Page - 1
		page.NextPage = page.Page + 1
		return c.Render(status, view.PageList, page)
	}
}

/* ---------- 新增 ---------- */

func AddUserFormHandler(flashes flash.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderForm(c, http.StatusOK, view.FormPage{
			Title:   "Add user",
			Flashes: popFlashes(c, flashes),
			Action:  "/add",
		})
	}
}

// AddUserHandler 建立使用者後導回列表；驗證失敗時以 400 重新顯示表單
func AddUserHandler(db database.DB, flashes flash.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		page := view.FormPage{Title: "Add user", Action: "/add"}

		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			page.Errors = []string{"Invalid form data"}
			return renderForm(c, http.StatusBadRequest, page)
		}
		req.Normalize()
		page.Form = view.UserForm{Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address}
		if err := c.Validate(&req); err != nil {
			page.Errors = validation.Messages(err)
			return renderForm(c, http.StatusBadRequest, page)
		}

		err := withSession(c, db, func(ctx context.Context, s database.Session) error {
			u, err := createUser(ctx, s, req.Params())
			if err != nil {
				flashStoreError(c, flashes, err)
				return nil
			}
			addFlash(c, flashes, flash.Success, "User "+u.Name+" created successfully")
			return nil
		})
		if err != nil {
			return err
		}
		return redirectHome(c)
	}
}

/* ---------- 編輯 ---------- */

// EditUserFormHandler 以現有資料預填表單；找不到時提示並導回列表
func EditUserFormHandler(db database.DB, flashes flash.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			addFlash(c, flashes, flash.Error, "Invalid user ID")
			return redirectHome(c)
		}

		var u *model.User
		err := withSession(c, db, func(ctx context.Context, s database.Session) error {
			var err error
			u, err = getUserByID(ctx, s, id)
			return err
		})
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		if err != nil {
			flashStoreError(c, flashes, err)
			return redirectHome(c)
		}

		form := api.FromUser(u)
		return renderForm(c, http.StatusOK, view.FormPage{
			Title:   "Edit user",
			Flashes: popFlashes(c, flashes),
			Action:  "/edit/" + strconv.FormatInt(id, 10),
			IsEdit:  true,
			Form:    view.UserForm{Name: form.Name, Email: form.Email, Phone: form.Phone, Address: form.Address},
		})
	}
}

// EditUserHandler 送出全部欄位；留白的 phone/address 會被清除
func EditUserHandler(db database.DB, flashes flash.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			addFlash(c, flashes, flash.Error, "Invalid user ID")
			return redirectHome(c)
		}
		page := view.FormPage{
			Title:  "Edit user",
			Action: "/edit/" + strconv.FormatInt(id, 10),
			IsEdit: true,
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			page.Errors = []string{"Invalid form data"}
			return renderForm(c, http.StatusBadRequest, page)
		}
		req.Normalize()
		page.Form = view.UserForm{Name: req.Name, Email: req.Email, Phone: req.Phone, Address: req.Address}
		if err := c.Validate(&req); err != nil {
			page.Errors = validation.Messages(err)
			return renderForm(c, http.StatusBadRequest, page)
		}

		err := withSession(c, db, func(ctx context.Context, s database.Session) error {
			if _, err := updateUser(ctx, s, req.Params(id)); err != nil {
				flashStoreError(c, flashes, err)
				return nil
			}
			addFlash(c, flashes, flash.Success, "User updated successfully")
			return nil
		})
		if err != nil {
			return err
		}
		return redirectHome(c)
	}
}

/* ---------- 刪除 ---------- */

func DeleteUserHandler(db database.DB, flashes flash.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			addFlash(c, flashes, flash.Error, "Invalid user ID")
			return redirectHome(c)
		}

		err := withSession(c, db, func(ctx context.Context, s database.Session) error {
			if err := deleteUser(ctx, s, id); err != nil {
				flashStoreError(c, flashes, err)
				return nil
			}
			addFlash(c, flashes, flash.Success, "User deleted successfully")
			return nil
		})
		if err != nil {
			return err
		}
		return redirectHome(c)
	}
}
