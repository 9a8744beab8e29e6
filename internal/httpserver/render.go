package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/middleware/csrf"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
)

//go:embed templates/*.html templates/app.css
var templateFS embed.FS

var pageNames = []string{
	"signin",
	"dashboard_user",
	"dashboard_admin",
	"product_form",
	"product_delete",
}

var funcs = template.FuncMap{
	"currency": catalog.FormatCurrency,
	"quantity": catalog.FormatQuantity,
	"plain": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

// Renderer implements echo.Renderer over the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/products.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Page is what every template receives.
type Page struct {
	Title  string
	User   *session.Session
	Toasts []notify.Message
	CSRF   string
	Data   any
}

// render pops pending flash messages, appends msgs and writes the page.
func render(c echo.Context, flash *notify.FlashStore, code int, name, title string, data any, msgs ...notify.Message) error {
	p := Page{Title: title, CSRF: csrf.Token(c), Data: data}
	if s, ok := session.FromContext(c.Request().Context()); ok {
		p.User = &s
	}
	if flash != nil {
		p.Toasts = flash.Pop(c)
	}
	p.Toasts = append(p.Toasts, msgs...)
	return c.Render(code, name, p)
}

// keep moves collected messages into the flash so they survive a redirect.
func keep(flash *notify.FlashStore, c echo.Context, msgs []notify.Message) {
	if flash == nil || len(msgs) == 0 {
		return
	}
	f := flash.For(c)
	for _, m := range msgs {
		if m.Kind == notify.KindError {
			f.Error(m.Text)
			continue
		}
		f.Success(m.Text)
	}
}
