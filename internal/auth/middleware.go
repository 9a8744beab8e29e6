package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
)

// SlotFunc binds the session slot to a request.
type SlotFunc func(c echo.Context) session.Slot

func CookieSlots(secure bool) SlotFunc {
	return func(c echo.Context) session.Slot {
		return session.NewCookieSlot(c, secure)
	}
}

// RequireView redirects with 303 when the activation is not authorized.
func (g *Gate) RequireView(slots SlotFunc, required *session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a := g.Evaluate(slots(c), required)
			if !a.Authorized() {
				logging.FromContext(c.Request().Context()).Info("view_redirect",
					"path", c.Path(), "target", string(a.Target))
				return c.Redirect(http.StatusSeeOther, a.Target.Path())
			}
			withSession(c, a.Session)
			return next(c)
		}
	}
}

// RequireAPI answers 401 when no session exists and 403 on a role mismatch.
func (g *Gate) RequireAPI(slots SlotFunc, required *session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a := g.Evaluate(slots(c), required)
			if !a.Authorized() {
				if a.Target == ViewSignIn {
					return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
				}
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			withSession(c, a.Session)
			return next(c)
		}
	}
}

func withSession(c echo.Context, s session.Session) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("user_id", s.ID, "role", s.Role.String())
	ctx = logging.IntoContext(session.IntoContext(ctx, s), l)
	c.SetRequest(c.Request().WithContext(ctx))
}
