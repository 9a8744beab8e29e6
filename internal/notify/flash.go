package notify

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stock_dashboard/internal/logging"
)

const flashSessionName = "flash"

// FlashStore persists messages in a signed cookie until the next page render.
type FlashStore struct {
	store *sessions.CookieStore
}

func NewFlashStore(secret []byte, secure bool) *FlashStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: cs}
}

// Flash is a Notifier bound to one request.
type Flash struct {
	fs *FlashStore
	c  echo.Context
}

func (fs *FlashStore) For(c echo.Context) *Flash {
	return &Flash{fs: fs, c: c}
}

func (f *Flash) Success(msg string) { f.add(KindSuccess, msg) }
func (f *Flash) Error(msg string)   { f.add(KindError, msg) }

func (f *Flash) add(k Kind, text string) {
	sess, err := f.fs.store.Get(f.c.Request(), flashSessionName)
	if err != nil && sess == nil {
		logging.FromContext(f.c.Request().Context()).Warn("flash_unavailable", "error", err)
		return
	}
	sess.AddFlash(text, string(k))
	if err := sess.Save(f.c.Request(), f.c.Response()); err != nil {
		logging.FromContext(f.c.Request().Context()).Warn("flash_save_failed", "error", err)
	}
}

// Pop returns and clears pending messages, successes first.
func (fs *FlashStore) Pop(c echo.Context) []Message {
	sess, err := fs.store.Get(c.Request(), flashSessionName)
	if err != nil && sess == nil {
		return nil
	}
	var out []Message
	for _, k := range []Kind{KindSuccess, KindError} {
		for _, raw := range sess.Flashes(string(k)) {
			s, _ := raw.(string)
			out = append(out, Message{Kind: k, Text: s})
		}
	}
	if len(out) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	return out
}
