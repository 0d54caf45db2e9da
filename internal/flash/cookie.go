package flash

import (
	"log/slog"

	"github.com/labstack/echo/v4"
)

const (
	cookieName = "flash"
	pendingKey = "flash.pending"
)

// CookieStore 把訊息以 base64 JSON 直接放在 cookie
type CookieStore struct{}

func NewCookieStore() *CookieStore { return &CookieStore{} }

func (s *CookieStore) Add(c echo.Context, f Flash) error {
	pending, _ := c.Get(pendingKey).([]Flash)
	pending = append(pending, f)
	v, err := encode(pending)
	if err != nil {
		return err
	}
	c.Set(pendingKey, pending)
	setCookie(c, cookieName, v)
	return nil
}

// Pop 取出訊息並要求瀏覽器刪除 cookie；內容損毀時視為沒有訊息
func (s *CookieStore) Pop(c echo.Context) ([]Flash, error) {
	ck, err := c.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return nil, nil
	}
	clearCookie(c, cookieName)
	flashes, err := decode(ck.Value)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "discarding malformed flash cookie", "error", err)
		return nil, nil
	}
	return flashes, nil
}

var _ Store = (*CookieStore)(nil)
