package controller

import (
	"errors"
	"net/http"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/service"
	apperrors "github.com/fitcity/fitcity-backend/internal/errors"
	"github.com/fitcity/fitcity-backend/internal/middleware"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type SignupController struct {
	signupService service.SignupService
}

func NewSignupController(signupService service.SignupService) *SignupController {
	return &SignupController{
		signupService: signupService,
	}
}

// SubmitSignupRequest mirrors the public signup form. Field names are
// the form's wire names; validation happens in the service so every
// rule failure is reported, not just the first. IBAN is a pointer: an
// absent key selects the variant without bank details, while an empty
// string is a present-but-blank IBAN and fails validation.
type SubmitSignupRequest struct {
	MembershipID        string  `json:"membershipId"`
	StartDate           string  `json:"startDate"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	DateOfBirth         string  `json:"dateOfBirth"`
	Street              string  `json:"street"`
	HouseNumber         string  `json:"houseNumber"`
	HouseNumberAddition string  `json:"houseNumberAddition"`
	PostalCode          string  `json:"postalCode"`
	City                string  `json:"city"`
	AgreeTerms          bool    `json:"agreeTerms"`
	IBAN                *string `json:"iban"`
}

// Submit handles a signup form submission
// POST /api/submit-signup
func (ctrl *SignupController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Ongeldige aanvraag")
		return
	}

	in := util.SignupInput{
		MembershipID:        req.MembershipID,
		StartDate:           req.StartDate,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		DateOfBirth:         req.DateOfBirth,
		Street:              req.Street,
		HouseNumber:         req.HouseNumber,
		HouseNumberAddition: req.HouseNumberAddition,
		PostalCode:          req.PostalCode,
		City:                req.City,
		AgreeTerms:          req.AgreeTerms,
	}
	if req.IBAN != nil {
		in.Bank = &util.BankDetails{IBAN: *req.IBAN}
	}

	signup, err := ctrl.signupService.Submit(c.Request.Context(), in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			log.Warn("Signup rejected by validation", map[string]interface{}{
				"error_count": len(verr.Messages),
			})
			apperrors.RespondWithValidationErrors(c, verr.Messages)
			return
		}
		if errors.Is(err, service.ErrIneligiblePlan) || errors.Is(err, service.ErrInvalidPlan) {
			apperrors.BadRequest(c, apperrors.SignupIneligiblePlan, "Dit abonnement kan niet online worden afgesloten")
			return
		}
		log.Error("Signup submission failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit signup")
		return
	}

	log.Info("Signup submitted", map[string]interface{}{
		"signup_id": signup.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"signupId": signup.ID,
	})
}

// Status returns the public status view for one signup
// GET /api/signup-status?id=
func (ctrl *SignupController) Status(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Query("id")
	if id == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Ontbrekend inschrijvings-ID")
		return
	}

	info, err := ctrl.signupService.GetStatus(id)
	if err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			apperrors.NotFound(c, apperrors.SignupNotFound, "Inschrijving niet gevonden")
			return
		}
		log.Error("Failed to fetch signup status", err, map[string]interface{}{
			"signup_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get signup status")
		return
	}

	c.JSON(http.StatusOK, info)
}

// Memberships returns the public plan catalog
// GET /api/memberships
func (ctrl *SignupController) Memberships(c *gin.Context) {
	type planView struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Price          float64 `json:"price"`
		Period         string  `json:"period"`
		ContractMonths int     `json:"contractMonths"`
		SignupEligible bool    `json:"signupEligible"`
	}

	catalog := model.Memberships()
	plans := make([]planView, 0, len(catalog))
	for _, m := range catalog {
		plans = append(plans, planView{
			ID:             m.ID,
			Name:           m.Name,
			Price:          m.Price,
			Period:         m.Period,
			ContractMonths: m.ContractMonths,
			SignupEligible: m.SignupEligible,
		})
	}

	c.JSON(http.StatusOK, gin.H{"memberships": plans})
}
