package scheduler

import (
	"context"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/service"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// retryBatchSize caps one retry run; the next run picks up the rest.
const retryBatchSize = 50

// EmailRetryScheduler periodically resends confirmation emails that
// failed at submission time.
type EmailRetryScheduler struct {
	cron     *cron.Cron
	notifier service.NotificationService
}

func NewEmailRetryScheduler(notifier service.NotificationService) *EmailRetryScheduler {
	return &EmailRetryScheduler{
		cron:     cron.New(),
		notifier: notifier,
	}
}

// Start schedules the retry job every 15 minutes.
func (s *EmailRetryScheduler) Start() error {
	_, err := s.cron.AddFunc("*/15 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		sent, err := s.notifier.RetryPending(ctx, retryBatchSize)
		if err != nil {
			logger.Error("Confirmation email retry run failed", err)
			return
		}
		if sent > 0 {
			logger.Info("Confirmation email retry run sent emails", map[string]interface{}{
				"sent": sent,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for email retry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Email retry scheduler started (every 15 minutes)", nil)
	return nil
}

func (s *EmailRetryScheduler) Stop() {
	logger.Info("Stopping email retry scheduler...", nil)
	s.cron.Stop()
	logger.Info("Email retry scheduler stopped", nil)
}
