package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"faqchat-backend/internal/config"
	"faqchat-backend/internal/database"
	"faqchat-backend/internal/handlers"
	"faqchat-backend/internal/middleware"
	"faqchat-backend/internal/persona"
	"faqchat-backend/internal/repository"
	"faqchat-backend/internal/router"
	"faqchat-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("starting FAQ chat backend", zap.String("env", cfg.Env))

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("PostgreSQL connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("PostgreSQL connected")

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ──── Step 4: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	// ──── Step 5: Load Persona Configuration ────
	assistantPersona, err := persona.Load(cfg.PersonaName, cfg.PersonaService, cfg.PersonaLanguage, cfg.FAQPath)
	if err != nil {
		logger.Fatal("persona configuration failed", zap.Error(err))
	}
	logger.Info("persona loaded", zap.String("persona", assistantPersona.Name))

	// ──── Step 6: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		time.Duration(cfg.GeminiTimeoutSeconds)*time.Second,
		cfg.GeminiConcurrentReqs,
		assistantPersona,
		logger,
	)
	if err != nil {
		logger.Fatal("Gemini client initialization failed", zap.Error(err))
	}
	defer geminiService.Close()
	logger.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))

	// ──── Initialize Repositories and Services ────
	userRepo := repository.NewUserRepo(pool)
	conversationRepo := repository.NewConversationRepo(pool)

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessionStore := services.NewRedisSessionStore(redisClient)
	authService := services.NewAuthService(userRepo, sessionStore, jwtAuth, sessionTTL)
	chatService := services.NewChatService(geminiService, conversationRepo, logger)

	sessionAuth := middleware.NewSessionAuth(authService, jwtAuth)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, sessionTTL)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)
	chatHandler := handlers.NewChatHandler(chatService)

	// ──── Start HTTP Server ────
	r := router.New(sessionAuth, authHandler, conversationHandler, chatHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("FAQ chat backend ready", zap.String("addr", server.Addr))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
