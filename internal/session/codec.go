package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Codec interface {
	Encode(s Session, expires time.Time) (string, error)
	Decode(raw string) (Session, error)
}

// JSONCodec stores the session as plain JSON. Expiry is left to the slot.
type JSONCodec struct{}

func (JSONCodec) Encode(s Session, _ time.Time) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONCodec) Decode(raw string) (Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if err := s.validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec stores the session as an HS256 JWT, so the value cannot be
// edited client-side and carries its own expiry.
type TokenCodec struct {
	Secret []byte
	Now    func() time.Time
}

func (t TokenCodec) Encode(s Session, expires time.Time) (string, error) {
	claims := Claims{
		Username: s.Username,
		Role:     string(s.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(s.ID), 10),
			IssuedAt:  jwt.NewNumericDate(t.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

func (t TokenCodec) Decode(raw string) (Session, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return t.Secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("%w: bad subject: %v", ErrInvalidSession, err)
	}
	s := Session{ID: uint(id), Username: claims.Username, Role: Role(claims.Role)}
	if err := s.validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (t TokenCodec) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}
