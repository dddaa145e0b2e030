package service

import (
	"context"
	"errors"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"github.com/fitcity/fitcity-backend/pkg/redis"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminSignupView is one signup as shown in the admin panel: the full
// record with the bank account decrypted and the ciphertext stripped.
type AdminSignupView struct {
	model.Signup
	IBAN *string `json:"iban"`
}

// AdminUpdateInput carries the two admin-editable fields. Both are
// overwritten on every update, mirroring the panel form.
type AdminUpdateInput struct {
	PaidInPerson bool
	AdminNotes   *string
}

type AdminService interface {
	Login(password string) (token string, expiresIn time.Duration, err error)
	Logout(ctx context.Context, token string) error
	ListSignups(status model.SignupStatus) ([]AdminSignupView, error)
	UpdateSignup(id string, in AdminUpdateInput) (*model.Signup, error)
}

type adminService struct {
	repo          repository.SignupRepository
	encryptionKey string
	passwordHash  string
	jwtSecret     string
	tokenExpiry   time.Duration
	redisEnabled  bool
}

func NewAdminService(
	repo repository.SignupRepository,
	encryptionKey string,
	passwordHash string,
	jwtSecret string,
	tokenExpiry time.Duration,
	redisEnabled bool,
) AdminService {
	return &adminService{
		repo:          repo,
		encryptionKey: encryptionKey,
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		tokenExpiry:   tokenExpiry,
		redisEnabled:  redisEnabled,
	}
}

// Login verifies the shared admin password and issues a bearer token.
func (s *adminService) Login(password string) (string, time.Duration, error) {
	if !util.VerifyPassword(s.passwordHash, password) {
		logger.Warn("Admin login attempt with wrong password", nil)
		return "", 0, ErrInvalidCredentials
	}

	token, err := util.GenerateAdminToken(s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate admin token", err, nil)
		return "", 0, err
	}

	logger.Info("Admin logged in", nil)
	return token, s.tokenExpiry, nil
}

// Logout revokes a token by blacklisting it for its remaining lifetime.
// Without Redis tokens are stateless and simply age out.
func (s *adminService) Logout(ctx context.Context, token string) error {
	if !s.redisEnabled {
		return nil
	}

	claims, err := util.ValidateAdminToken(token, s.jwtSecret)
	if err != nil {
		// An invalid or expired token needs no revocation.
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return redis.BlacklistToken(ctx, token, remaining)
}

// ListSignups returns all signups in the given status with bank
// accounts decrypted. A record whose ciphertext cannot be decrypted is
// still listed, with a placeholder, so one corrupt row never hides the
// rest of the queue.
func (s *adminService) ListSignups(status model.SignupStatus) ([]AdminSignupView, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	signups, err := s.repo.ListByStatus(status)
	if err != nil {
		return nil, err
	}

	views := make([]AdminSignupView, 0, len(signups))
	for _, signup := range signups {
		view := AdminSignupView{Signup: signup}
		if signup.IBANEncrypted != nil {
			iban, err := util.DecryptIBAN(*signup.IBANEncrypted, s.encryptionKey)
			if err != nil {
				logger.Error("Failed to decrypt bank details for signup", err, map[string]interface{}{
					"signup_id": signup.ID,
				})
				iban = "[DECRYPTION ERROR]"
			}
			view.IBAN = &iban
		}
		// The ciphertext never leaves the server.
		view.IBANEncrypted = nil
		views = append(views, view)
	}

	return views, nil
}

// UpdateSignup overwrites the admin fields and keeps the lifecycle in
// step: marking paid-in-person moves the signup to paid, unmarking it
// reverts a paid signup to pending_pickup. Other states are untouched.
func (s *adminService) UpdateSignup(id string, in AdminUpdateInput) (*model.Signup, error) {
	signup, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupNotFound
		}
		return nil, err
	}

	if err := s.repo.UpdateAdminFields(id, in.PaidInPerson, in.AdminNotes); err != nil {
		return nil, err
	}

	var target model.SignupStatus
	switch {
	case in.PaidInPerson && !signup.PaidInPerson:
		target = model.StatusPaid
	case !in.PaidInPerson && signup.PaidInPerson && signup.Status == model.StatusPaid:
		target = model.StatusPendingPickup
	}

	if target != "" && signup.Status.CanTransition(target) {
		if err := s.repo.UpdateStatus(id, target); err != nil {
			return nil, err
		}
		logger.Info("Admin changed signup status", map[string]interface{}{
			"signup_id": id,
			"from":      signup.Status,
			"to":        target,
		})
	}

	return s.repo.FindByID(id)
}
