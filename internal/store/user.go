package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"user-records/internal/database"
	"user-records/internal/model"
)

// 統一使用 UTC 並截到微秒，所有支援的資料庫都能原樣存回
var timeNow = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

const (
	userColumns = `id, name, email, phone, address, created_at, updated_at`

	sqlInsertUser = `INSERT INTO users (name, email, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	sqlGetUserByID    = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	sqlGetUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	sqlListUsers      = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`
	sqlCountUsers     = `SELECT COUNT(*) FROM users`
	sqlAllUsers       = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	// '!' 作為跳脫字元，MySQL 字串中的反斜線會被再解讀一次
	sqlSearchUsers = `SELECT ` + userColumns + ` FROM users
		WHERE LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'
		ORDER BY id`

	sqlUpdateUser = `UPDATE users
		SET name = ?, email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?`

	sqlDeleteUser = `DELETE FROM users WHERE id = ?`
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// fail 回滾目前的 unit of work、記錄原始錯誤並包成 *Error。
// unique constraint 違反一律歸類為 ErrDuplicateEmail。
func fail(ctx context.Context, s database.Session, op string, kind error, err error) error {
	if rbErr := s.Rollback(); rbErr != nil {
		slog.WarnContext(ctx, "rollback failed", "op", op, "error", rbErr)
	}
	if database.IsUniqueViolation(err) {
		kind = ErrDuplicateEmail
	}
	slog.ErrorContext(ctx, "store operation failed", "op", op, "kind", kind, "error", err)
	return &Error{Op: op, Kind: kind, Err: err}
}

// optional 將空字串正規化為 NULL
func optional(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func CreateUser(ctx context.Context, s database.Session, params model.CreateUserParams) (*model.User, error) {
	const op = "CreateUser"

	now := timeNow()
	u := &model.User{
		Name:      params.Name,
		Email:     params.Email,
		Phone:     optional(params.Phone),
		Address:   optional(params.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Begin(ctx); err != nil {
		return nil, fail(ctx, s, op, ErrCreateFailed, err)
	}

	args := []any{u.Name, u.Email, u.Phone, u.Address, u.CreatedAt, u.UpdatedAt}
	if s.Dialect() == database.Postgres {
		if err := s.Get(ctx, &u.ID, sqlInsertUser+` RETURNING id`, args...); err != nil {
			return nil, fail(ctx, s, op, ErrCreateFailed, err)
		}
	} else {
		res, err := s.Exec(ctx, sqlInsertUser, args...)
		if err != nil {
			return nil, fail(ctx, s, op, ErrCreateFailed, err)
		}
		if u.ID, err = res.LastInsertId(); err != nil {
			return nil, fail(ctx, s, op, ErrCreateFailed, err)
		}
	}

	if err := s.Commit(); err != nil {
		return nil, fail(ctx, s, op, ErrCreateFailed, err)
	}
	slog.InfoContext(ctx, "user created", "id", u.ID)
	return u, nil
}

func getUser(ctx context.Context, s database.Session, op, query string, arg any) (*model.User, error) {
	u := &model.User{}
	if err := s.Get(ctx, u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &Error{Op: op, Kind: ErrNotFound}
		}
		slog.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
		return nil, &Error{Op: op, Kind: ErrRetrieveFailed, Err: err}
	}
	return u, nil
}

// GetUserByID 查無資料時回傳 ErrNotFound
func GetUserByID(ctx context.Context, s database.Session, id int64) (*model.User, error) {
	return getUser(ctx, s, "GetUserByID", sqlGetUserByID, id)
}

// GetUserByEmail 以完全相同的 email 查詢
func GetUserByEmail(ctx context.Context, s database.Session, email string) (*model.User, error) {
	return getUser(ctx, s, "GetUserByEmail", sqlGetUserByEmail, email)
}

// ListUsers 依建立順序 (id) 分頁；skip < 0 視為 0，limit <= 0 回傳空結果
func ListUsers(ctx context.Context, s database.Session, skip, limit int) ([]model.User, error) {
	users := []model.User{}
	if limit <= 0 {
		return users, nil
	}
	if skip < 0 {
		skip = 0
	}
	if err := s.Select(ctx, &users, sqlListUsers, limit, skip); err != nil {
		slog.ErrorContext(ctx, "store operation failed", "op", "ListUsers", "error", err)
		return nil, &Error{Op: "ListUsers", Kind: ErrRetrieveFailed, Err: err}
	}
	return users, nil
}

func CountUsers(ctx context.Context, s database.Session) (int64, error) {
	var n int64
	if err := s.Get(ctx, &n, sqlCountUsers); err != nil {
		slog.ErrorContext(ctx, "store operation failed", "op", "CountUsers", "error", err)
		return 0, &Error{Op: "CountUsers", Kind: ErrRetrieveFailed, Err: err}
	}
	return n, nil
}

// UpdateUser 只覆寫 params 中非 nil 的欄位並更新 updated_at。
// Phone/Address 給空字串代表清除。
func UpdateUser(ctx context.Context, s database.Session, params model.UpdateUserParams) (*model.User, error) {
	const op = "UpdateUser"

	if err := s.Begin(ctx); err != nil {
		return nil, fail(ctx, s, op, ErrUpdateFailed, err)
	}

	u := &model.User{}
	if err := s.Get(ctx, u, sqlGetUserByID, params.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = s.Rollback()
			return nil, &Error{Op: op, Kind: ErrNotFound}
		}
		return nil, fail(ctx, s, op, ErrUpdateFailed, err)
	}

	if params.Name != nil {
		u.Name = *params.Name
	}
	if params.Email != nil {
		u.Email = *params.Email
	}
	if params.Phone != nil {
		u.Phone = optional(params.Phone)
	}
	if params.Address != nil {
		u.Address = optional(params.Address)
	}

	now := timeNow()
	if !now.After(u.UpdatedAt) {
		now = u.UpdatedAt.Add(time.Microsecond)
	}
	u.UpdatedAt = now

	if _, err := s.Exec(ctx, sqlUpdateUser, u.Name, u.Email, u.Phone, u.Address, u.UpdatedAt, u.ID); err != nil {
		return nil, fail(ctx, s, op, ErrUpdateFailed, err)
	}
	if err := s.Commit(); err != nil {
		return nil, fail(ctx, s, op, ErrUpdateFailed, err)
	}
	slog.InfoContext(ctx, "user updated", "id", u.ID)
	return u, nil
}

// DeleteUser 回傳 nil 表示刪除成功
func DeleteUser(ctx context.Context, s database.Session, id int64) error {
	const op = "DeleteUser"

	if err := s.Begin(ctx); err != nil {
		return fail(ctx, s, op, ErrDeleteFailed, err)
	}
	res, err := s.Exec(ctx, sqlDeleteUser, id)
	if err != nil {
		return fail(ctx, s, op, ErrDeleteFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fail(ctx, s, op, ErrDeleteFailed, err)
	}
	if n == 0 {
		_ = s.Rollback()
		return &Error{Op: op, Kind: ErrNotFound}
	}
	if err := s.Commit(); err != nil {
		return fail(ctx, s, op, ErrDeleteFailed, err)
	}
	slog.InfoContext(ctx, "user deleted", "id", id)
	return nil
}

// SearchUsers 回傳 name 或 email 包含 term（不分大小寫）的使用者。
// term 中的 LIKE 萬用字元會被跳脫；空白 term 回傳全部。
func SearchUsers(ctx context.Context, s database.Session, term string) ([]model.User, error) {
	const op = "SearchUsers"

	users := []model.User{}
	term = strings.TrimSpace(term)

	var err error
	if term == "" {
		err = s.Select(ctx, &users, sqlAllUsers)
	} else {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		err = s.Select(ctx, &users, sqlSearchUsers, pattern, pattern)
	}
	if err != nil {
		slog.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
		return nil, &Error{Op: op, Kind: ErrSearchFailed, Err: err}
	}
	slog.DebugContext(ctx, "users searched", "term", term, "count", len(users))
	return users, nil
}
