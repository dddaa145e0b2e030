package db

import (
	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Signup{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
