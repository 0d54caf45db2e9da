// File: internal/model/user.go
package model

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateUserParams 建立使用者所需欄位；Phone/Address 為 nil 表示未提供
type CreateUserParams struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
}

// UpdateUserParams 只覆寫非 nil 的欄位，其餘保持原值
type UpdateUserParams struct {
	ID      int64
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// StringPtr 回傳 s 的指標
func StringPtr(s string) *string { return &s }

// OptionalString 空字串視為未提供
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref 回傳指標內容，nil 時回傳空字串
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
