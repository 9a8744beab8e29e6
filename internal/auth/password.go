package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/stock_dashboard/internal/models"
)

// PasswordMode is how stored passwords are compared.
type PasswordMode string

const (
	PasswordPlain  PasswordMode = "plain"
	PasswordBcrypt PasswordMode = "bcrypt"
)

func ParsePasswordMode(s string) (PasswordMode, error) {
	switch PasswordMode(s) {
	case PasswordPlain, PasswordBcrypt:
		return PasswordMode(s), nil
	case "":
		return PasswordPlain, nil
	}
	return "", fmt.Errorf("unknown password mode %q", s)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UsernameLookup finds users by name alone.
type UsernameLookup interface {
	FindByUsername(ctx context.Context, username string) ([]models.User, error)
}

// BcryptLookup matches credentials against bcrypt hashes.
type BcryptLookup struct {
	Users UsernameLookup
}

func (b BcryptLookup) FindByCredentials(ctx context.Context, username, password string) ([]models.User, error) {
	candidates, err := b.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	matches := make([]models.User, 0, len(candidates))
	for _, u := range candidates {
		if CheckPassword(u.Password, password) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// CredentialStore can serve both password modes.
type CredentialStore interface {
	UserLookup
	UsernameLookup
}

// LookupFor picks the lookup strategy for mode.
func LookupFor(mode PasswordMode, users CredentialStore) UserLookup {
	if mode == PasswordBcrypt {
		return BcryptLookup{Users: users}
	}
	return users
}
