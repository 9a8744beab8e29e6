package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/stock_dashboard/internal/auth"
	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/config"
	pkgdb "github.com/Skotchmaster/stock_dashboard/internal/db"
	"github.com/Skotchmaster/stock_dashboard/internal/events"
	"github.com/Skotchmaster/stock_dashboard/internal/httpserver"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/stock_dashboard/internal/middleware/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/repo"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

func main() {
	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, cfg.PGDriver)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	mode, err := auth.ParsePasswordMode(cfg.PasswordMode)
	if err != nil {
		log.Fatal(err)
	}

	r := repo.New(db)
	if cfg.SeedDemoUsers {
		seedCtx := logging.IntoContext(context.Background(), logger)
		if err := auth.SeedDemoUsers(seedCtx, r, mode); err != nil {
			log.Fatalf("seed users: %v", err)
		}
	}

	prod := events.FromBrokers(cfg.KafkaBrokers)

	var codec session.Codec = session.JSONCodec{}
	if len(cfg.SessionSecret) > 0 {
		codec = session.TokenCodec{Secret: cfg.SessionSecret}
	} else {
		logger.Warn("session_unsigned", "reason", "SESSION_SECRET is empty, sessions are stored as plain JSON")
	}
	store := session.NewStore(codec, cfg.SessionTTL)
	gate := auth.NewGate(store)
	slots := auth.CookieSlots(cfg.CookieSecure)
	flash := notify.NewFlashStore(cfg.FlashSecret, cfg.CookieSecure)
	v := validation.New()

	e := echo.New()
	e.HideBanner = true
	e.Validator = v
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))

	err = httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Auth:      auth.NewAuthenticator(auth.LookupFor(mode, r), store, prod),
			Gate:      gate,
			Slots:     slots,
			Flash:     flash,
			Validator: v,
			ShowDemo:  cfg.SeedDemoUsers && mode == auth.PasswordPlain,
		},
		ProductHandler: &httpserver.ProductHTTP{
			Mutator:  catalog.NewMutator(r, v, prod),
			Products: r,
			Flash:    flash,
		},
		HealthHandler: &httpserver.HealthHTTP{DB: db},
		Gate:          gate,
		Slots:         slots,
		CSRF:          csrf.Config{Secure: cfg.CookieSecure, EnforceSameOrigin: true},
	})
	if err != nil {
		log.Fatalf("register routes: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
