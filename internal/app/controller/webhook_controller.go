package controller

import (
	"errors"
	"net/http"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/service"
	apperrors "github.com/fitcity/fitcity-backend/internal/errors"
	"github.com/fitcity/fitcity-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	signupService service.SignupService
}

func NewWebhookController(signupService service.SignupService) *WebhookController {
	return &WebhookController{
		signupService: signupService,
	}
}

// MollieWebhookRequest is the payment provider callback payload. Only
// facts are consumed here; no payment API calls are made back.
type MollieWebhookRequest struct {
	PaymentID      string `json:"id"`
	Status         string `json:"status"`
	CustomerID     string `json:"customerId"`
	SubscriptionID string `json:"subscriptionId"`
}

// providerStatus maps Mollie payment states onto the signup lifecycle.
var providerStatus = map[string]model.SignupStatus{
	"paid":     model.StatusPaid,
	"failed":   model.StatusFailed,
	"canceled": model.StatusCanceled,
	"expired":  model.StatusExpired,
}

// HandleMollie processes a payment provider callback
// POST /api/webhooks/mollie
func (ctrl *WebhookController) HandleMollie(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req MollieWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Ongeldige aanvraag")
		return
	}
	if req.PaymentID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Ontbrekende betalingsreferentie")
		return
	}

	// Subscription references arrive once the recurring mandate exists
	// and take precedence over the plain status update.
	var err error
	if req.CustomerID != "" && req.SubscriptionID != "" {
		err = ctrl.signupService.RecordSubscription(req.PaymentID, req.CustomerID, req.SubscriptionID)
	} else {
		status, known := providerStatus[req.Status]
		if !known {
			log.Warn("Webhook with unmapped provider status", map[string]interface{}{
				"mollie_payment_id": req.PaymentID,
				"provider_status":   req.Status,
			})
			// Acknowledge so the provider stops redelivering.
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		err = ctrl.signupService.RecordPaymentStatus(req.PaymentID, status)
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrSignupNotFound):
			apperrors.NotFound(c, apperrors.SignupNotFound, "Inschrijving niet gevonden")
		case errors.Is(err, service.ErrIllegalTransition):
			// Late or duplicate callbacks after a terminal state. Nothing
			// to redo, acknowledge.
			log.Warn("Webhook ignored: illegal transition", map[string]interface{}{
				"mollie_payment_id": req.PaymentID,
				"provider_status":   req.Status,
			})
			c.JSON(http.StatusOK, gin.H{"success": true})
		default:
			log.Error("Webhook processing failed", err, map[string]interface{}{
				"mollie_payment_id": req.PaymentID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "process webhook")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
