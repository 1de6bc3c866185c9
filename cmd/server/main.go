package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sirupsen/logrus"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/application/usecase"
	"github.com/authly/authly/infrastructure/config"
	"github.com/authly/authly/infrastructure/http/handler"
	"github.com/authly/authly/infrastructure/http/middleware"
	"github.com/authly/authly/infrastructure/http/router"
	"github.com/authly/authly/infrastructure/persistence/memory"
	"github.com/authly/authly/infrastructure/persistence/postgres"
	"github.com/authly/authly/infrastructure/service/jwt"
	"github.com/authly/authly/infrastructure/service/logger"
	"github.com/authly/authly/infrastructure/service/password"
	"github.com/authly/authly/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "authly",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":           cfg.Environment,
		"session_store": cfg.SessionStoreBackend,
	})

	// Initialize persistence for the selected backend
	var (
		userRepo     outbound.UserRepository
		sessionStore outbound.SessionStore
		postRepo     outbound.PostRepository
	)
	switch cfg.SessionStoreBackend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			structuredLogger.Error(ctx, "Failed to ping database", err, nil)
			log.Fatalf("Failed to ping database: %v", err)
		}
		structuredLogger.Info(ctx, "Database connection established", nil)

		userRepo = postgres.NewUserRepository(db)
		sessionStore = postgres.NewSessionStore(db, cfg.RefreshTokenTTL)
		postRepo = postgres.NewPostRepository(db)
	default:
		userRepo = memory.NewUserRepository()
		sessionStore = memory.NewSessionStore(cfg.RefreshTokenTTL)
		postRepo = memory.NewPostRepository()
	}

	// Initialize rate limiting (Redis-backed or noop based on config)
	rateLimitService, err := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, logrus.New())
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize rate limit service", err, map[string]interface{}{
			"redis_url": cfg.RedisURL,
		})
		log.Fatalf("Failed to initialize rate limit service: %v", err)
	}

	// Initialize services
	signer, err := jwt.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(10)

	// Initialize use cases
	tokenService := usecase.NewTokenService(signer, sessionStore, structuredLogger, cfg.RevokeFamilyOnReuse)
	authUseCase := usecase.NewAuthUseCase(userRepo, passwordService, tokenService, rateLimitService, structuredLogger)
	credentialUseCase := usecase.NewCredentialUseCase(userRepo, passwordService, tokenService, cfg.RevokeSessionsOnPasswordChange, structuredLogger)
	postUseCase := usecase.NewPostUseCase(postRepo)

	// Initialize HTTP layer
	guard := middleware.NewAuthGuard(tokenService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, structuredLogger)

	routes := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(authUseCase, credentialUseCase, structuredLogger),
		Posts:     handler.NewPostHandler(postUseCase, structuredLogger),
		Guard:     guard,
		RateLimit: rateLimitMiddleware,
	})

	var httpHandler http.Handler = routes
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		httpHandler = middleware.CORSMiddleware(httpHandler, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
