package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	PGDriver    string

	SessionSecret []byte
	SessionTTL    time.Duration
	FlashSecret   []byte
	CookieSecure  bool

	PasswordMode  string
	SeedDemoUsers bool

	KafkaBrokers []string
}

// Load reads .env (when present) and the process environment.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("notice: .env file not loaded: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "stock-dashboard"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: EnvDefault("DATABASE_URL", "sqlite://dashboard.db"),
		PGDriver:    EnvDefault("PG_DRIVER", "pgx"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 7*24*time.Hour),
		FlashSecret:   []byte(EnvDefault("FLASH_SECRET", "dev-flash-secret-change-me")),
		CookieSecure:  EnvBoolDefault("COOKIE_SECURE", false),

		PasswordMode:  strings.ToLower(EnvDefault("PASSWORD_MODE", "plain")),
		SeedDemoUsers: EnvBoolDefault("SEED_DEMO_USERS", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func (c Config) Validate() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustOneOf(c.PasswordMode, "PASSWORD_MODE", "plain", "bcrypt")
	MustOneOf(c.PGDriver, "PG_DRIVER", "pgx", "postgres")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := cast.ToDurationE(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
