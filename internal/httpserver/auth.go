package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stock_dashboard/internal/auth"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
	"github.com/Skotchmaster/stock_dashboard/internal/transport"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

type AuthHTTP struct {
	Auth      *auth.Authenticator
	Gate      *auth.Gate
	Slots     auth.SlotFunc
	Flash     *notify.FlashStore
	Validator *validation.Validator
	ShowDemo  bool
}

type signInPage struct {
	Username string
	Error    string
	Fields   validation.Errors
	Demo     []auth.DemoCredential
}

// Root sends signed-in visitors to the dashboard and everyone else to sign-in.
func (h *AuthHTTP) Root(c echo.Context) error {
	a := h.Gate.Evaluate(h.Slots(c), nil)
	if a.Authorized() {
		return c.Redirect(http.StatusSeeOther, auth.ViewDashboard.Path())
	}
	return c.Redirect(http.StatusSeeOther, auth.ViewSignIn.Path())
}

func (h *AuthHTTP) SignInPage(c echo.Context) error {
	if h.Gate.Evaluate(h.Slots(c), nil).Authorized() {
		return c.Redirect(http.StatusSeeOther, auth.ViewDashboard.Path())
	}
	return h.renderSignIn(c, http.StatusOK, signInPage{})
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_in")

	var in auth.SignInInput
	if err := c.Bind(&in); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "invalid form", "error", err)
		return h.renderSignIn(c, http.StatusBadRequest, signInPage{Error: "invalid form"})
	}

	if err := h.Validator.Validate(in); err != nil {
		var verr validation.Errors
		errors.As(err, &verr)
		l.Warn("sign_in_failed", "status", 422, "reason", "validation", "error", err)
		return h.renderSignIn(c, http.StatusUnprocessableEntity, signInPage{Username: in.Username, Fields: verr})
	}

	s, err := h.Auth.Authenticate(ctx, h.Slots(c), in.Username, in.Password)
	if err != nil {
		code := http.StatusUnauthorized
		var lerr *auth.LookupError
		if errors.As(err, &lerr) {
			code = http.StatusBadGateway
		}
		l.Warn("sign_in_failed", "status", code, "error", err)
		return h.renderSignIn(c, code, signInPage{Username: in.Username, Error: err.Error()})
	}

	if h.Flash != nil {
		h.Flash.For(c).Success(welcome(s))
	}
	l.Info("sign_in_success", "user_id", s.ID)
	return c.Redirect(http.StatusSeeOther, auth.ViewDashboard.Path())
}

func (h *AuthHTTP) SignOut(c echo.Context) error {
	h.Auth.SignOut(c.Request().Context(), h.Slots(c))
	return c.Redirect(http.StatusSeeOther, auth.ViewSignIn.Path())
}

func (h *AuthHTTP) renderSignIn(c echo.Context, code int, p signInPage) error {
	if h.ShowDemo {
		p.Demo = auth.DemoCredentials
	}
	return render(c, h.Flash, code, "signin", "Sign In", p)
}

func welcome(s session.Session) string {
	return "Welcome back, " + s.Username + "!"
}

func (h *AuthHTTP) APISignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "api.sign_in")

	var in auth.SignInInput
	if err := c.Bind(&in); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validator.Validate(in); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "validation", "error", err)
		return validationResponse(c, err)
	}

	s, err := h.Auth.Authenticate(ctx, h.Slots(c), in.Username, in.Password)
	if err != nil {
		var lerr *auth.LookupError
		if errors.As(err, &lerr) {
			l.Error("sign_in_failed", "status", 502, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		l.Warn("sign_in_failed", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	l.Info("sign_in_success", "user_id", s.ID)
	return c.JSON(http.StatusOK, transport.SignInResponse{Session: s, Message: welcome(s)})
}

func (h *AuthHTTP) APISignOut(c echo.Context) error {
	h.Auth.SignOut(c.Request().Context(), h.Slots(c))
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "signed out"})
}

func (h *AuthHTTP) APISession(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	return c.JSON(http.StatusOK, s)
}

func validationResponse(c echo.Context, err error) error {
	var verr validation.Errors
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body", "fields": verr})
	}
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}
