package repository

import (
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"gorm.io/gorm"
)

type SignupRepository interface {
	Create(signup *model.Signup) error
	FindByID(id string) (*model.Signup, error)
	FindByMolliePaymentID(paymentID string) (*model.Signup, error)
	ListByStatus(status model.SignupStatus) ([]model.Signup, error)
	ListPendingConfirmation(limit int) ([]model.Signup, error)
	UpdateStatus(id string, status model.SignupStatus) error
	UpdateAdminFields(id string, paidInPerson bool, adminNotes *string) error
	UpdateSubscription(id, customerID, subscriptionID string) error
	MarkEmailSent(id string, sentAt time.Time) error
}

type signupRepository struct {
	db *gorm.DB
}

func NewSignupRepository(db *gorm.DB) SignupRepository {
	return &signupRepository{db: db}
}

func (r *signupRepository) Create(signup *model.Signup) error {
	logger.Debug("Creating signup in database", map[string]interface{}{
		"signup_id":     signup.ID,
		"membership_id": signup.MembershipID,
	})

	if err := r.db.Create(signup).Error; err != nil {
		logger.Error("Failed to create signup in database", err, map[string]interface{}{
			"signup_id": signup.ID,
		})
		return err
	}

	return nil
}

func (r *signupRepository) FindByID(id string) (*model.Signup, error) {
	var signup model.Signup
	err := r.db.Where("id = ?", id).First(&signup).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find signup by ID in database", err, map[string]interface{}{
				"signup_id": id,
			})
		}
		return nil, err
	}
	return &signup, nil
}

func (r *signupRepository) FindByMolliePaymentID(paymentID string) (*model.Signup, error) {
	var signup model.Signup
	err := r.db.Where("mollie_payment_id = ?", paymentID).First(&signup).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find signup by payment reference in database", err, map[string]interface{}{
				"mollie_payment_id": paymentID,
			})
		}
		return nil, err
	}
	return &signup, nil
}

// ListByStatus returns all signups in the given status, newest first.
// No pagination; acceptable at current scale but a known scaling limit.
func (r *signupRepository) ListByStatus(status model.SignupStatus) ([]model.Signup, error) {
	var signups []model.Signup
	err := r.db.
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&signups).Error
	if err != nil {
		logger.Error("Failed to list signups by status in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return signups, nil
}

// ListPendingConfirmation returns signups whose confirmation email has
// not been dispatched yet, oldest first, for the retry job.
func (r *signupRepository) ListPendingConfirmation(limit int) ([]model.Signup, error) {
	var signups []model.Signup
	err := r.db.
		Where("email_sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&signups).Error
	if err != nil {
		logger.Error("Failed to list signups pending confirmation email", err)
		return nil, err
	}
	return signups, nil
}

func (r *signupRepository) UpdateStatus(id string, status model.SignupStatus) error {
	logger.Debug("Updating signup status in database", map[string]interface{}{
		"signup_id": id,
		"status":    status,
	})

	result := r.db.Model(&model.Signup{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update signup status in database", result.Error, map[string]interface{}{
			"signup_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateAdminFields overwrites both admin-controlled fields in a single
// statement so a concurrent read never sees one updated without the other.
func (r *signupRepository) UpdateAdminFields(id string, paidInPerson bool, adminNotes *string) error {
	logger.Debug("Updating signup admin fields in database", map[string]interface{}{
		"signup_id":      id,
		"paid_in_person": paidInPerson,
	})

	result := r.db.Model(&model.Signup{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"paid_in_person": paidInPerson,
			"admin_notes":    adminNotes,
		})
	if result.Error != nil {
		logger.Error("Failed to update signup admin fields in database", result.Error, map[string]interface{}{
			"signup_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSubscription records the mandate references delivered by the
// payment provider and moves the signup to subscription_created, all in
// one statement.
func (r *signupRepository) UpdateSubscription(id, customerID, subscriptionID string) error {
	logger.Debug("Recording subscription references in database", map[string]interface{}{
		"signup_id": id,
	})

	result := r.db.Model(&model.Signup{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"mollie_customer_id":     customerID,
			"mollie_subscription_id": subscriptionID,
			"status":                 model.StatusSubscriptionCreated,
		})
	if result.Error != nil {
		logger.Error("Failed to record subscription references in database", result.Error, map[string]interface{}{
			"signup_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *signupRepository) MarkEmailSent(id string, sentAt time.Time) error {
	result := r.db.Model(&model.Signup{}).Where("id = ?", id).Update("email_sent_at", sentAt)
	if result.Error != nil {
		logger.Error("Failed to mark confirmation email as sent in database", result.Error, map[string]interface{}{
			"signup_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
