package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSignupNotFound    = errors.New("signup not found")
	ErrInvalidPlan       = errors.New("unknown membership plan")
	ErrIneligiblePlan    = errors.New("membership plan not available for online signup")
	ErrInvalidStatus     = errors.New("invalid signup status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// ValidationError carries every failing form rule at once so the caller
// can show the full list instead of the first problem only.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// SignupStatusInfo is the public view of one signup: enough for the
// thank-you page to poll on, nothing personal.
type SignupStatusInfo struct {
	ID             string             `json:"id"`
	Status         model.SignupStatus `json:"status"`
	MembershipID   string             `json:"membershipId"`
	MembershipName string             `json:"membershipName"`
	StartDate      string             `json:"startDate"`
}

type SignupService interface {
	Submit(ctx context.Context, in util.SignupInput) (*model.Signup, error)
	GetStatus(id string) (*SignupStatusInfo, error)
	RecordPaymentStatus(paymentID string, status model.SignupStatus) error
	RecordSubscription(paymentID, customerID, subscriptionID string) error
}

type signupService struct {
	repo          repository.SignupRepository
	notifier      NotificationService
	encryptionKey string
}

// NewSignupService creates the signup service. The notifier may be nil
// when no email provider is configured; submissions then succeed
// without a confirmation email.
func NewSignupService(repo repository.SignupRepository, notifier NotificationService, encryptionKey string) SignupService {
	return &signupService{
		repo:          repo,
		notifier:      notifier,
		encryptionKey: encryptionKey,
	}
}

// Submit validates a form submission, snapshots the selected plan,
// encrypts the bank details and stores the signup as pending_pickup.
// A *ValidationError is returned when any field rule fails.
func (s *signupService) Submit(ctx context.Context, in util.SignupInput) (*model.Signup, error) {
	logger.Info("Processing signup submission", map[string]interface{}{
		"membership_id": in.MembershipID,
	})

	if errs := util.ValidateSignupInput(in); len(errs) > 0 {
		logger.Warn("Signup submission failed validation", map[string]interface{}{
			"membership_id": in.MembershipID,
			"error_count":   len(errs),
		})
		return nil, &ValidationError{Messages: errs}
	}

	// The validator already restricts the plan to the online allow-list;
	// the catalog check guards against the two drifting apart.
	if !model.IsSignupEligible(in.MembershipID) {
		logger.Warn("Signup submission for ineligible plan", map[string]interface{}{
			"membership_id": in.MembershipID,
		})
		return nil, ErrIneligiblePlan
	}

	plan := model.MembershipByID(in.MembershipID)
	if plan == nil {
		return nil, ErrInvalidPlan
	}

	signup := &model.Signup{
		ID:     uuid.NewString(),
		Status: model.StatusPendingPickup,

		MembershipID:    plan.ID,
		MembershipName:  plan.Name,
		MembershipPrice: strconv.FormatFloat(plan.Price, 'f', -1, 64),
		MembershipTerm:  plan.Period,
		StartDate:       in.StartDate,

		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       util.NormalizePhone(in.Phone),
		DateOfBirth: in.DateOfBirth,

		Street:              strings.TrimSpace(in.Street),
		HouseNumber:         strings.TrimSpace(in.HouseNumber),
		HouseNumberAddition: strings.TrimSpace(in.HouseNumberAddition),
		PostalCode:          util.NormalizePostalCode(in.PostalCode),
		City:                strings.TrimSpace(in.City),
	}

	if in.Bank != nil {
		encrypted, err := util.EncryptIBAN(util.NormalizeIBAN(in.Bank.IBAN), s.encryptionKey)
		if err != nil {
			logger.Error("Failed to encrypt bank details", err, map[string]interface{}{
				"signup_id": signup.ID,
			})
			return nil, err
		}
		signup.IBANEncrypted = &encrypted
	}

	if err := s.repo.Create(signup); err != nil {
		return nil, err
	}

	logger.Info("Signup created", map[string]interface{}{
		"signup_id":     signup.ID,
		"membership_id": signup.MembershipID,
		"status":        signup.Status,
	})

	// The signup is stored at this point; a failed confirmation email
	// must not fail the submission. The retry job picks it up later.
	if s.notifier != nil {
		if err := s.notifier.SendConfirmation(ctx, signup); err != nil {
			logger.Warn("Confirmation email not sent, left for retry", map[string]interface{}{
				"signup_id": signup.ID,
				"reason":    err.Error(),
			})
		}
	}

	return signup, nil
}

// GetStatus returns the public status view for the thank-you page.
func (s *signupService) GetStatus(id string) (*SignupStatusInfo, error) {
	signup, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}

	return &SignupStatusInfo{
		ID:             signup.ID,
		Status:         signup.Status,
		MembershipID:   signup.MembershipID,
		MembershipName: signup.MembershipName,
		StartDate:      signup.StartDate,
	}, nil
}

// RecordPaymentStatus applies a payment provider status update to the
// signup correlated by payment reference. Updates that would move the
// record backwards or sideways are rejected.
func (s *signupService) RecordPaymentStatus(paymentID string, status model.SignupStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	signup, err := s.repo.FindByMolliePaymentID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Payment update for unknown payment reference", map[string]interface{}{
				"mollie_payment_id": paymentID,
			})
			return ErrSignupNotFound
		}
		return err
	}

	if signup.Status == status {
		// Providers redeliver webhooks; an already-applied update is fine.
		return nil
	}
	if !signup.Status.CanTransition(status) {
		logger.Warn("Rejected illegal status transition", map[string]interface{}{
			"signup_id": signup.ID,
			"from":      signup.Status,
			"to":        status,
		})
		return ErrIllegalTransition
	}

	return s.repo.UpdateStatus(signup.ID, status)
}

// RecordSubscription stores the mandate references delivered once the
// provider establishes the recurring subscription.
func (s *signupService) RecordSubscription(paymentID, customerID, subscriptionID string) error {
	signup, err := s.repo.FindByMolliePaymentID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSignupNotFound
		}
		return err
	}

	if !signup.Status.CanTransition(model.StatusSubscriptionCreated) {
		return ErrIllegalTransition
	}

	logger.Info("Recording subscription for signup", map[string]interface{}{
		"signup_id": signup.ID,
	})
	return s.repo.UpdateSubscription(signup.ID, customerID, subscriptionID)
}
