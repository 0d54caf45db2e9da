package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"user-records/internal/database"
	"user-records/internal/flash"
	"user-records/internal/validation"
	"user-records/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	Setup(e, &database.FakeDB{}, flash.NewCookieStore(), nil, 10)

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /ping",
		http.MethodGet + " /",
		http.MethodGet + " /add",
		http.MethodPost + " /add",
		http.MethodGet + " /edit/:id",
		http.MethodPost + " /edit/:id",
		http.MethodPost + " /delete/:id",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

/* ---------- 以 SQLite 跑完整流程 ---------- */

type browser struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	db := database.New("sqlite://"+filepath.Join(t.TempDir(), "web.db"), false)
	require.NoError(t, db.Connect(context.Background()))
	require.NoError(t, db.CreateSchema())
	t.Cleanup(func() { _ = db.Close() })

	e := echo.New()
	r, err := view.NewRenderer()
	require.NoError(t, err)
	e.Renderer = r
	e.Validator = validation.New()
	Setup(e, db, flash.NewCookieStore(), nil, 2)
	return &browser{t: t, e: e, cookies: map[string]*http.Cookie{}}
}

func TestWebFlow(t *testing.T) {
	b := newBrowser(t)

	rec := b.do(http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No users found.")

	rec = b.do(http.MethodPost, "/add", url.Values{"name": {"Alice"}, "email": {"a@x.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.do(http.MethodGet, "/", nil)
	body := rec.Body.String()
	require.Contains(t, body, "User Alice created successfully")
	require.Contains(t, body, "a@x.com")

	// flash 只出現一次
	rec = b.do(http.MethodGet, "/", nil)
	require.NotContains(t, rec.Body.String(), "created successfully")

	rec = b.do(http.MethodPost, "/add", url.Values{"name": {"Bob"}, "email": {"a@x.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = b.do(http.MethodGet, "/", nil)
	require.Contains(t, rec.Body.String(), "Email already exists")
	require.NotContains(t, rec.Body.String(), "Bob")

	rec = b.do(http.MethodGet, "/edit/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `value="Alice"`)

	rec = b.do(http.MethodPost, "/edit/1", url.Values{"name": {"Alice"}, "email": {"a@x.com"}, "phone": {"555-1111"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = b.do(http.MethodGet, "/?q=ALICE", nil)
	require.Contains(t, rec.Body.String(), "User updated successfully")
	require.Contains(t, rec.Body.String(), "555-1111")

	rec = b.do(http.MethodPost, "/delete/1", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = b.do(http.MethodGet, "/", nil)
	require.Contains(t, rec.Body.String(), "User deleted successfully")
	require.Contains(t, rec.Body.String(), "No users found.")

	rec = b.do(http.MethodGet, "/edit/1", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = b.do(http.MethodGet, "/", nil)
	require.Contains(t, rec.Body.String(), "User not found")

	// 刪除只接受 POST
	rec = b.do(http.MethodGet, "/delete/1", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebPagination(t *testing.T) {
	b := newBrowser(t)
	for _, name := range []string{"u1", "u2", "u3"} {
		rec := b.do(http.MethodPost, "/add", url.Values{"name": {name}, "email": {name + "@x.com"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	rec := b.do(http.MethodGet, "/", nil)
	require.Contains(t, rec.Body.String(), "Page 1 of 2")
	require.Contains(t, rec.Body.String(), "u2@x.com")
	require.NotContains(t, rec.Body.String(), "u3@x.com")

	rec = b.do(http.MethodGet, "/?page=2", nil)
	require.Contains(t, rec.Body.String(), "u3@x.com")
	require.NotContains(t, rec.Body.String(), "u1@x.com")
}
