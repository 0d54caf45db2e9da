package api

import (
	"strings"

	"user-records/internal/model"
)

// CreateUserRequest 新增使用者表單；Phone/Address 留白代表未提供
type CreateUserRequest struct {
	Name    string `form:"name" validate:"required,max=100" example:"Alice"`
	Email   string `form:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Phone   string `form:"phone" validate:"omitempty,max=50" example:"555-1111"`
	Address string `form:"address" validate:"omitempty,max=255" example:"1 Main St"`
}

// Normalize 去除前後空白
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

func (r CreateUserRequest) Params() model.CreateUserParams {
	return model.CreateUserParams{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   model.OptionalString(r.Phone),
		Address: model.OptionalString(r.Address),
	}
}
