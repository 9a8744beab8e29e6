package auth

import (
	"context"
	"errors"

	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/repo"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
)

// DemoCredential is an account offered on the sign-in page.
type DemoCredential struct {
	Username string
	Password string
	Role     session.Role
}

var DemoCredentials = []DemoCredential{
	{Username: "user1", Password: "password123", Role: session.RoleUser},
	{Username: "admin1", Password: "admin123", Role: session.RoleAdmin},
}

type UserSeeder interface {
	SeedUsers(ctx context.Context, users []models.User) error
}

// SeedDemoUsers inserts the demo accounts into an empty users table, storing
// passwords in the format mode expects.
func SeedDemoUsers(ctx context.Context, seeder UserSeeder, mode PasswordMode) error {
	l := logging.FromContext(ctx)
	users := make([]models.User, 0, len(DemoCredentials))
	for _, d := range DemoCredentials {
		pw := d.Password
		if mode == PasswordBcrypt {
			hash, err := HashPassword(d.Password)
			if err != nil {
				return err
			}
			pw = hash
		}
		users = append(users, models.User{Username: d.Username, Password: pw, Role: d.Role.String()})
	}

	err := seeder.SeedUsers(ctx, users)
	if errors.Is(err, repo.ErrUsersPresent) {
		l.Info("seed_skipped", "reason", "users exist")
		return nil
	}
	if err != nil {
		return err
	}
	l.Info("seed_done", "users", len(users), "password_mode", string(mode))
	return nil
}
