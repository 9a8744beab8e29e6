package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stock_dashboard/internal/auth"
	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/db"
	"github.com/Skotchmaster/stock_dashboard/internal/events"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/stock_dashboard/internal/middleware/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/repo"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

var baseURL, _ = url.Parse("http://example.com/")

type testEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Events *events.Recorder
	jar    http.CookieJar
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:", "")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := repo.New(gdb)
	require.NoError(t, auth.SeedDemoUsers(context.Background(), r, auth.PasswordPlain))

	rec := &events.Recorder{}
	store := session.NewStore(session.TokenCodec{Secret: []byte("test-session-secret")}, 0)
	gate := auth.NewGate(store)
	slots := auth.CookieSlots(false)
	flash := notify.NewFlashStore([]byte("test-flash-secret-32-bytes-long!"), false)
	v := validation.New()

	e := echo.New()
	e.Validator = v
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(io.Discard, "error")))

	require.NoError(t, Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Auth:      auth.NewAuthenticator(r, store, rec),
			Gate:      gate,
			Slots:     slots,
			Flash:     flash,
			Validator: v,
			ShowDemo:  true,
		},
		ProductHandler: &ProductHTTP{
			Mutator:  catalog.NewMutator(r, v, rec),
			Products: r,
			Flash:    flash,
		},
		HealthHandler: &HealthHTTP{DB: gdb},
		Gate:          gate,
		Slots:         slots,
		CSRF:          csrf.Config{EnforceSameOrigin: true},
	}))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{E: e, Repo: r, Events: rec, jar: jar}
}

func (env *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range env.jar.Cookies(baseURL) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	env.jar.SetCookies(baseURL, rec.Result().Cookies())
	return rec
}

func (env *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return env.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (env *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	for i := 0; i < 2; i++ {
		for _, c := range env.jar.Cookies(baseURL) {
			if c.Name == "XSRF-TOKEN" {
				return c.Value
			}
		}
		env.get(t, "/signin")
	}
	t.Fatal("no csrf cookie issued")
	return ""
}

func (env *testEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		form.Set("csrf_token", env.csrfToken(t))
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Origin", "http://example.com")
	return env.do(t, req)
}

func (env *testEnv) jsonRequest(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return env.do(t, req)
}

func (env *testEnv) signIn(t *testing.T, username, password string) {
	t.Helper()
	rec := env.postForm(t, "/signin", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
}

func (env *testEnv) seedProducts(t *testing.T, in ...catalog.ProductInput) []uint {
	t.Helper()
	ids := make([]uint, 0, len(in))
	for _, p := range in {
		id, err := env.Repo.Insert(context.Background(), p)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}
