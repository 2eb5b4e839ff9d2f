package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nexiot/site-backend/internal/api"
	"github.com/nexiot/site-backend/internal/api/handler"
	"github.com/nexiot/site-backend/internal/core/ports"
	"github.com/nexiot/site-backend/internal/core/service"
	"github.com/nexiot/site-backend/internal/infrastructure/db/postgres"
	"github.com/nexiot/site-backend/internal/infrastructure/db/redis"
	"github.com/nexiot/site-backend/internal/infrastructure/mail"
	"github.com/nexiot/site-backend/internal/pkg/config"
	"github.com/nexiot/site-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                      Site Backend API
// @version                    1.0
// @description                Contact form intake and admin session API.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "site-backend",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	checks := map[string]handler.CheckFunc{
		"postgres": pool.Ping,
	}

	// Without redis, logout still clears the cookie but tokens are not revoked.
	var revoked ports.RevocationStore
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, session revocation disabled")
	} else {
		defer rdb.Close()
		revoked = redis.NewRevocationStore(rdb)
		checks["redis"] = redis.Ping(rdb)
	}

	notifier := mail.NewNotifier(mail.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.User,
		Password:  cfg.SMTP.Password,
		From:      cfg.SMTP.From,
		Recipient: cfg.SMTP.Recipient,
	}, log)
	if !notifier.Configured() {
		log.Warn().Msg("SMTP_HOST or CONTACT_RECIPIENT not set, contact submissions will be rejected")
	}

	authService := service.NewAuthService(service.AuthConfig{
		Username:      cfg.Admin.Username,
		Password:      cfg.Admin.Password,
		PasswordHash:  cfg.Admin.PasswordHash,
		SigningSecret: cfg.Session.Secret,
	}, revoked, log)
	contactService := service.NewContactService(postgres.NewContactRepository(pool), notifier, log)

	e := api.NewRouter(api.RouterConfig{
		AuthService:    authService,
		ContactService: contactService,
		Checks:         checks,
		CookieName:     cfg.Session.CookieName,
		CookieSecure:   cfg.Session.CookieSecure,
		LoginPath:      cfg.Session.LoginPath,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		os.Exit(1)
	}
}
