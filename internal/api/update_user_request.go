// File: internal/api/update_user_request.go
package api

import (
	"strings"

	"user-records/internal/model"
)

// UpdateUserRequest 編輯表單送出全部欄位；Phone/Address 留白代表清除
type UpdateUserRequest struct {
	Name    string `form:"name" validate:"required,max=100" example:"Alice"`
	Email   string `form:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Phone   string `form:"phone" validate:"omitempty,max=50" example:"555-1111"`
	Address string `form:"address" validate:"omitempty,max=255" example:"1 Main St"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

func (r UpdateUserRequest) Params(id int64) model.UpdateUserParams {
	return model.UpdateUserParams{
		ID:      id,
		Name:    model.StringPtr(r.Name),
		Email:   model.StringPtr(r.Email),
		Phone:   model.StringPtr(r.Phone),
		Address: model.StringPtr(r.Address),
	}
}

// FromUser 以現有資料預填表單
func FromUser(u *model.User) UpdateUserRequest {
	return UpdateUserRequest{
		Name:    u.Name,
		Email:   u.Email,
		Phone:   model.Deref(u.Phone),
		Address: model.Deref(u.Address),
	}
}
