// Package view 以內嵌的 html/template 實作 echo.Renderer。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"user-records/internal/flash"
	"user-records/internal/model"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageList = "list"
	PageForm = "form"
)

var funcs = template.FuncMap{
	"optional": func(s *string) string {
		if s == nil || *s == "" {
			return "N/A"
		}
		return *s
	},
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// ListPage 列表頁資料
type ListPage struct {
	Title      string
	Flashes    []flash.Flash
	Users      []model.User
	Query      string
	Total      int64
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type UserForm struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// FormPage 新增與編輯共用的表單頁
type FormPage struct {
	Title   string
	Flashes []flash.Flash
	Action  string
	IsEdit  bool
	Form    UserForm
	Errors  []string
}

// Renderer 每個頁面各自與 layout 組成一組 template
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{PageList, PageForm} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

var _ echo.Renderer = (*Renderer)(nil)
