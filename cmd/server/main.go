package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitcity/fitcity-backend/config"
	"github.com/fitcity/fitcity-backend/internal/app/controller"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/internal/app/service"
	"github.com/fitcity/fitcity-backend/internal/db"
	"github.com/fitcity/fitcity-backend/internal/middleware"
	"github.com/fitcity/fitcity-backend/internal/router"
	"github.com/fitcity/fitcity-backend/internal/scheduler"
	"github.com/fitcity/fitcity-backend/internal/storage"
	"github.com/fitcity/fitcity-backend/pkg/email/resend"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"github.com/fitcity/fitcity-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting FitCity Signup Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: without it, rate limiting and token revocation
	// are skipped.
	redisEnabled := cfg.Redis.Enabled()
	if redisEnabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	} else {
		logger.Warn("Redis not configured, rate limiting and token revocation disabled", nil)
	}

	// Initialize repositories
	signupRepo := repository.NewSignupRepository(db.GetDB())

	// Email is optional: without an API key, signups succeed without a
	// confirmation email and the retry job stays off.
	var notifier service.NotificationService
	if cfg.Email.ResendAPIKey != "" {
		mailer, err := resend.NewClient(resend.Config{
			APIKey:  cfg.Email.ResendAPIKey,
			From:    cfg.Email.FromAddress,
			BaseURL: cfg.Email.BaseURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize email client", err)
		}
		notifier = service.NewNotificationService(signupRepo, mailer)
	} else {
		logger.Warn("Email not configured, confirmation emails disabled", nil)
	}

	// Initialize services
	signupService := service.NewSignupService(signupRepo, notifier, cfg.Crypto.IBANEncryptionKey)
	adminService := service.NewAdminService(
		signupRepo,
		cfg.Crypto.IBANEncryptionKey,
		cfg.Admin.PasswordHash,
		cfg.Admin.JWTSecret,
		cfg.Admin.TokenExpiry,
		redisEnabled,
	)
	exportService := service.NewExportService(signupRepo, cfg.Crypto.IBANEncryptionKey)

	// Initialize controllers
	signupController := controller.NewSignupController(signupService)
	adminController := controller.NewAdminController(adminService, exportService)
	webhookController := controller.NewWebhookController(signupService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Admin.JWTSecret, redisEnabled)

	// Setup router
	r := router.NewRouter(
		signupController,
		adminController,
		webhookController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Schedulers
	if notifier != nil {
		emailRetry := scheduler.NewEmailRetryScheduler(notifier)
		if err := emailRetry.Start(); err != nil {
			logger.Fatal("Failed to start email retry scheduler", err)
		}
		defer emailRetry.Stop()
	}

	if cfg.Backup.Enabled && cfg.Backup.Bucket != "" {
		store := storage.NewS3Storage(
			cfg.Backup.Region,
			cfg.Backup.Bucket,
			cfg.Backup.AccessKeyID,
			cfg.Backup.SecretAccessKey,
		)
		backup := scheduler.NewBackupScheduler(exportService, store, cfg.Backup.CronSpec)
		if err := backup.Start(); err != nil {
			logger.Fatal("Failed to start backup scheduler", err)
		}
		defer backup.Stop()
	}

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
