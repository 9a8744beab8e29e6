// Package session keeps the signed-in user's identity in a single client-side
// slot. Stored values are decoded into a complete Session or treated as absent.
package session

import (
	"context"
	"errors"
	"fmt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrInvalidSession = errors.New("invalid session")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

type Session struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Session) validate() error {
	if s.Username == "" {
		return fmt.Errorf("%w: empty username", ErrInvalidSession)
	}
	if _, err := ParseRole(string(s.Role)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return nil
}

type ctxKey struct{}

func IntoContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
