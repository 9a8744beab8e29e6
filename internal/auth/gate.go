package auth

import "github.com/Skotchmaster/stock_dashboard/internal/session"

type State string

const (
	StateChecking    State = "checking"
	StateAuthorized  State = "authorized"
	StateRedirecting State = "redirecting"
)

type View string

const (
	ViewRoot      View = "root"
	ViewSignIn    View = "signin"
	ViewDashboard View = "dashboard"
)

func (v View) Path() string {
	switch v {
	case ViewSignIn:
		return "/signin"
	case ViewDashboard:
		return "/dashboard"
	}
	return "/"
}

// Activation is the outcome of one visit to a protected view.
type Activation struct {
	State   State
	Session session.Session
	Target  View
}

func (a Activation) Authorized() bool { return a.State == StateAuthorized }

// Role returns a pointer for use as a gate requirement.
func Role(r session.Role) *session.Role { return &r }

// Gate holds no state between activations.
type Gate struct {
	Store *session.Store
}

func NewGate(store *session.Store) *Gate {
	return &Gate{Store: store}
}

// Evaluate reads the slot once and moves a fresh activation out of
// StateChecking. A nil required role admits any signed-in user.
func (g *Gate) Evaluate(slot session.Slot, required *session.Role) Activation {
	a := Activation{State: StateChecking}

	s, ok := g.Store.Load(slot)
	switch {
	case !ok:
		a.State, a.Target = StateRedirecting, ViewSignIn
	case required != nil && s.Role != *required:
		a.State, a.Target = StateRedirecting, ViewDashboard
	default:
		a.State, a.Session = StateAuthorized, s
	}
	return a
}
