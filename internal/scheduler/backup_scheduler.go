package scheduler

import (
	"context"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/service"
	"github.com/fitcity/fitcity-backend/internal/storage"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// BackupScheduler exports all signups to a workbook and uploads it to
// the backup bucket on a nightly schedule.
type BackupScheduler struct {
	cron          *cron.Cron
	exportService service.ExportService
	store         *storage.S3Storage
	spec          string
}

func NewBackupScheduler(exportService service.ExportService, store *storage.S3Storage, spec string) *BackupScheduler {
	return &BackupScheduler{
		cron:          cron.New(),
		exportService: exportService,
		store:         store,
		spec:          spec,
	}
}

func (s *BackupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runBackup()
	})
	if err != nil {
		logger.Error("Failed to add cron job for signup backup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Backup scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *BackupScheduler) Stop() {
	logger.Info("Stopping backup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Backup scheduler stopped", nil)
}

func (s *BackupScheduler) runBackup() {
	logger.Info("Starting scheduled signup backup", nil)

	data, err := s.exportService.ExportAllSignups()
	if err != nil {
		logger.Error("Failed to export signups for backup", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	key, err := s.store.UploadBackup(ctx, data, time.Now())
	if err != nil {
		logger.Error("Failed to upload signup backup", err)
		return
	}

	logger.Info("Scheduled signup backup finished", map[string]interface{}{
		"key": key,
	})
}
