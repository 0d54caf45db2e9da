// Package flash 保存跨 redirect 的一次性提示訊息。
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

type Flash struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Store 在這次回應加入訊息，並在下一次請求取出後清除
type Store interface {
	Add(c echo.Context, f Flash) error
	Pop(c echo.Context) ([]Flash, error)
}

func encode(flashes []Flash) (string, error) {
	b, err := json.Marshal(flashes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decode(s string) ([]Flash, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var flashes []Flash
	if err := json.Unmarshal(b, &flashes); err != nil {
		return nil, err
	}
	return flashes, nil
}

func setCookie(c echo.Context, name, value string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
