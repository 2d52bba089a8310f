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

	"github.com/joho/godotenv"

	"github.com/Poojareddy2809/shadowshare/api/internal/adapters"
	"github.com/Poojareddy2809/shadowshare/api/internal/api/handlers"
	"github.com/Poojareddy2809/shadowshare/api/internal/api/middleware"
	"github.com/Poojareddy2809/shadowshare/api/internal/api/router"
	"github.com/Poojareddy2809/shadowshare/api/internal/config"
	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
	"github.com/Poojareddy2809/shadowshare/api/internal/core/services"
	"github.com/Poojareddy2809/shadowshare/api/internal/infrastructure/crypto"
)

func main() {
	// --- 1. Configuration & Telemetry ---
	// A .env file is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("FATAL: invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("🚀 Booting ShadowShare API...", "env", cfg.Environment)

	// --- 2. Hardened Dependency Injection ---
	passwordCipher, err := crypto.NewPasswordCipher(crypto.KDFParams{
		Time:      cfg.Argon2Time,
		MemoryKiB: cfg.Argon2MemoryKiB,
		Threads:   cfg.Argon2Threads,
	})
	if err != nil {
		logger.Error("FATAL: cipher setup failed", "error", err)
		os.Exit(1)
	}

	// 🛡️ A nil interface disables translation; never pass a typed nil client
	var translator domain.Translator
	if cfg.TranslationEnabled() {
		client, err := adapters.NewTranslateClient(
			cfg.TranslateEndpoint,
			cfg.TranslateAPIKey,
			adapters.WithTimeout(cfg.TranslateTimeout),
		)
		if err != nil {
			logger.Error("FATAL: translate client setup failed", "error", err)
			os.Exit(1)
		}
		translator = client
	} else {
		logger.Warn("⚠️ TRANSLATE_API_KEY not set, translation disabled")
	}

	envelopeService := services.NewEnvelopeService(passwordCipher, logger)
	translationService := services.NewTranslationService(translator, logger)

	// --- 3. Background Workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	// The limiter's sweeper lives as long as workerCtx
	limiter := middleware.NewRateLimiter(workerCtx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins:    cfg.AllowedOrigins,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		RequestTimeout:    cfg.RequestTimeout,
		CryptoHandler:     handlers.NewCryptoHandler(envelopeService),
		TranslateHandler:  handlers.NewTranslateHandler(translationService),
		HealthHandler:     handlers.NewHealthHandler(translationService),
		RateLimiter:       limiter,
		Logger:            logger,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second, // chi's Timeout answers first
		IdleTimeout:       120 * time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("🌐 ShadowShare API active", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: Server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("🛑 Shutting down...")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ERROR: Forced shutdown", "error", err)
	}
	logger.Info("✅ ShadowShare API shutdown complete")
}
