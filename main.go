package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/accounts/internal/config"
	"github.com/msomdec/accounts/internal/credential"
	"github.com/msomdec/accounts/internal/domain"
	"github.com/msomdec/accounts/internal/handler"
	"github.com/msomdec/accounts/internal/logging"
	"github.com/msomdec/accounts/internal/repository/postgres"
	"github.com/msomdec/accounts/internal/repository/sqlite"
	"github.com/msomdec/accounts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(level, os.Stdout, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	hasher, err := credential.NewHasher(cfg.Scrypt(), cfg.HashConcurrency)
	if err != nil {
		slog.Error("invalid scrypt parameters", "error", err)
		os.Exit(1)
	}

	signinLimiter := service.NewTokenBucket(cfg.SigninRate, cfg.SigninBurst)
	defer signinLimiter.Close()

	router := handler.NewRouter(handler.Deps{
		Auth:          service.NewAuthService(db.Users(), hasher),
		Users:         service.NewUserService(db.Users(), hasher),
		Sessions:      service.NewSessionService(cfg.SessionSecret, cfg.SessionTTL),
		SigninLimiter: signinLimiter,
		CookieSecure:  cfg.CookieSecure,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	if cfg.DatabaseDriver == config.DriverPostgres {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return db, nil
}
