package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/grattalab/scratch-win-system/internal/auth"
	"github.com/grattalab/scratch-win-system/internal/config"
	"github.com/grattalab/scratch-win-system/internal/handler"
	"github.com/grattalab/scratch-win-system/internal/repository"
	"github.com/grattalab/scratch-win-system/internal/service"
	appvalidator "github.com/grattalab/scratch-win-system/internal/validator"
	"github.com/grattalab/scratch-win-system/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.DB.EnsureSchema {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Scratch & Win System",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := appvalidator.New()

	// Token service backs both login and the capability checks
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	// Initialize components (layered architecture)
	storeRepo := repository.NewStoreRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	voucherRepo := repository.NewVoucherRepository(pool)

	playCfg := service.PlayConfig{
		VoucherValidity: time.Duration(cfg.Game.VoucherValidityDays) * 24 * time.Hour,
		CodeMaxAttempts: cfg.Game.CodeMaxAttempts,
	}
	storeService := service.NewStoreService(storeRepo, userRepo, tokens)
	campaignService := service.NewCampaignService(storeRepo, campaignRepo)
	playService := service.NewPlayService(pool, sessionRepo, voucherRepo, service.NewTimeSeededRand(), playCfg)
	voucherService := service.NewVoucherService(voucherRepo)

	storeHandler := handler.NewStoreHandler(storeService, validate)
	campaignHandler := handler.NewCampaignHandler(campaignService, validate)
	playHandler := handler.NewPlayHandler(campaignService, playService, validate)
	voucherHandler := handler.NewVoucherHandler(voucherService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Public surface
	app.Post("/api/auth/login", storeHandler.Login)
	app.Get("/api/play/:storeSlug/:campaignSlug", playHandler.GetCampaign)
	app.Post("/api/play/:storeSlug/:campaignSlug", playHandler.Play)

	// Authenticated surface
	authed := app.Group("/api", handler.RequireAuth(tokens))
	admin := authed.Group("/admin", handler.RequireSuperadmin())
	admin.Post("/stores", storeHandler.CreateStore)
	admin.Get("/stores", storeHandler.ListStores)

	stores := authed.Group("/stores/:storeID", handler.RequireStoreAccess())
	stores.Post("/campaigns", campaignHandler.CreateCampaign)
	stores.Get("/campaigns", campaignHandler.ListCampaigns)

	authed.Get("/vouchers/:code", voucherHandler.GetVoucher)
	authed.Post("/vouchers/redeem", voucherHandler.RedeemVoucher)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
