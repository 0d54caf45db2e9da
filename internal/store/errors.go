package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrCreateFailed   = errors.New("create user failed")
	ErrUpdateFailed   = errors.New("update user failed")
	ErrDeleteFailed   = errors.New("delete user failed")
	ErrRetrieveFailed = errors.New("retrieve user failed")
	ErrSearchFailed   = errors.New("search users failed")
)

// 顯示給使用者的訊息；一般性失敗不帶 driver 細節
var messages = map[error]string{
	ErrNotFound:       "User not found",
	ErrDuplicateEmail: "Email already exists",
	ErrCreateFailed:   "Failed to create user",
	ErrUpdateFailed:   "Failed to update user",
	ErrDeleteFailed:   "Failed to delete user",
	ErrRetrieveFailed: "Failed to retrieve user",
	ErrSearchFailed:   "Failed to search users",
}

// Error 記錄失敗的操作、錯誤種類與底層 driver 錯誤。
// errors.Is 比對 Kind，errors.Unwrap 取得 Err。
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

// Message 回傳可以直接顯示給使用者的訊息
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		if msg, ok := messages[se.Kind]; ok {
			return msg
		}
	}
	return "Unexpected error"
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
