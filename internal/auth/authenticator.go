// Package auth verifies credentials, records the resulting session and
// decides whether a request may see a view.
package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/Skotchmaster/stock_dashboard/internal/events"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
)

var ErrInvalidCredentials = errors.New("Invalid credentials")

// LookupError is a failure of the user directory itself. Its message is the
// cause's message.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string { return e.Err.Error() }
func (e *LookupError) Unwrap() error { return e.Err }

// UserLookup returns users whose username and password both equal the given
// values. Implementations return at most two rows.
type UserLookup interface {
	FindByCredentials(ctx context.Context, username, password string) ([]models.User, error)
}

type Authenticator struct {
	Users  UserLookup
	Store  *session.Store
	Events events.Publisher
}

func NewAuthenticator(users UserLookup, store *session.Store, pub events.Publisher) *Authenticator {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Authenticator{Users: users, Store: store, Events: pub}
}

// Authenticate saves and returns a session when exactly one user matches.
// On any error the slot is left untouched.
func (a *Authenticator) Authenticate(ctx context.Context, slot session.Slot, username, password string) (session.Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "username", username)

	users, err := a.Users.FindByCredentials(ctx, username, password)
	if err != nil {
		l.Error("user_lookup_failed", "error", err)
		return session.Session{}, &LookupError{Err: err}
	}
	if len(users) != 1 {
		l.Warn("sign_in_rejected", "reason", "no unique match", "matches", len(users))
		return session.Session{}, ErrInvalidCredentials
	}

	u := users[0]
	role, err := session.ParseRole(u.Role)
	if err != nil {
		l.Warn("sign_in_rejected", "reason", "invalid stored role", "error", err)
		return session.Session{}, ErrInvalidCredentials
	}

	s := session.Session{ID: u.ID, Username: u.Username, Role: role}
	a.Store.Save(ctx, slot, s)
	l.Info("user_signed_in", "user_id", s.ID, "role", s.Role)

	a.publish(ctx, s, events.UserSignedIn)
	return s, nil
}

// SignOut clears the slot whatever it holds.
func (a *Authenticator) SignOut(ctx context.Context, slot session.Slot) {
	s, ok := a.Store.Load(slot)
	a.Store.Clear(slot)
	if !ok {
		return
	}
	logging.FromContext(ctx).Info("user_signed_out", "user_id", s.ID)
	a.publish(ctx, s, events.UserSignedOut)
}

func (a *Authenticator) publish(ctx context.Context, s session.Session, typ string) {
	key := strconv.FormatUint(uint64(s.ID), 10)
	ev := events.New(typ, map[string]any{"user_id": s.ID, "username": s.Username, "role": s.Role.String()})
	if err := a.Events.PublishEvent(ctx, events.TopicUsers, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "type", typ, "error", err)
	}
}
