package session

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

const CookieName = "user"

// Slot is the one named, client-local place the encoded session lives in.
type Slot interface {
	Read() (string, bool)
	Write(value string, expires time.Time)
	Remove()
}

// CookieSlot stores the session in a browser cookie. Writes are visible to
// later reads within the same request.
type CookieSlot struct {
	c       echo.Context
	name    string
	secure  bool
	pending *string
}

func NewCookieSlot(c echo.Context, secure bool) *CookieSlot {
	return &CookieSlot{c: c, name: CookieName, secure: secure}
}

func (s *CookieSlot) Read() (string, bool) {
	if s.pending != nil {
		return *s.pending, *s.pending != ""
	}
	ck, err := s.c.Cookie(s.name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	v, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *CookieSlot) Write(value string, expires time.Time) {
	s.pending = &value
	s.c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieSlot) Remove() {
	empty := ""
	s.pending = &empty
	s.c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// MemorySlot is an in-process slot. Expiry is honoured on Read.
type MemorySlot struct {
	mu      sync.Mutex
	value   string
	expires time.Time
	set     bool
	Now     func() time.Time
}

func (m *MemorySlot) Read() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", false
	}
	if !m.expires.IsZero() && !m.now().Before(m.expires) {
		return "", false
	}
	return m.value, true
}

func (m *MemorySlot) Write(value string, expires time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.expires, m.set = value, expires, true
}

func (m *MemorySlot) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.expires, m.set = "", time.Time{}, false
}

// Put writes a raw value with no expiry. Tests use it to plant corrupted data.
func (m *MemorySlot) Put(value string) {
	m.Write(value, time.Time{})
}

func (m *MemorySlot) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
