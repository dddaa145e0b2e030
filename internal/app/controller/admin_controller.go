package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/service"
	apperrors "github.com/fitcity/fitcity-backend/internal/errors"
	"github.com/fitcity/fitcity-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService  service.AdminService
	exportService service.ExportService
}

func NewAdminController(adminService service.AdminService, exportService service.ExportService) *AdminController {
	return &AdminController{
		adminService:  adminService,
		exportService: exportService,
	}
}

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type AdminUpdateSignupRequest struct {
	SignupID     string  `json:"signupId"`
	PaidInPerson bool    `json:"paidInPerson"`
	AdminNotes   *string `json:"adminNotes"`
}

// Login exchanges the admin password for a bearer token
// POST /api/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Ongeldige aanvraag")
		return
	}

	token, expiresIn, err := ctrl.adminService.Login(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthBadCredential, "Onjuist wachtwoord")
			return
		}
		log.Error("Admin login failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int64(expiresIn.Seconds()),
	})
}

// Logout revokes the current bearer token
// POST /api/admin/logout
func (ctrl *AdminController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := middleware.GetAdminToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.adminService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Admin logout failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListSignups returns signups in a status with decrypted bank details
// GET /api/admin/signups?status=
func (ctrl *AdminController) ListSignups(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.SignupStatus(c.DefaultQuery("status", string(model.StatusPendingPickup)))

	signups, err := ctrl.adminService.ListSignups(status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.SignupInvalidStatus, "Onbekende status")
			return
		}
		log.Error("Failed to list signups", err, map[string]interface{}{
			"status": status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list signups")
		return
	}

	c.JSON(http.StatusOK, gin.H{"signups": signups})
}

// UpdateSignup overwrites the admin fields of one signup
// POST /api/admin/update-signup
func (ctrl *AdminController) UpdateSignup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminUpdateSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Ongeldige aanvraag")
		return
	}
	if req.SignupID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Ontbrekend inschrijvings-ID")
		return
	}

	signup, err := ctrl.adminService.UpdateSignup(req.SignupID, service.AdminUpdateInput{
		PaidInPerson: req.PaidInPerson,
		AdminNotes:   req.AdminNotes,
	})
	if err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			apperrors.NotFound(c, apperrors.SignupNotFound, "Inschrijving niet gevonden")
			return
		}
		log.Error("Failed to update signup", err, map[string]interface{}{
			"signup_id": req.SignupID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update signup")
		return
	}

	log.Info("Admin updated signup", map[string]interface{}{
		"signup_id":      signup.ID,
		"paid_in_person": signup.PaidInPerson,
		"status":         signup.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"signup":  signup,
	})
}

// ExportSignups streams an XLSX download of signups
// GET /api/admin/signups/export?status=
func (ctrl *AdminController) ExportSignups(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	statusParam := c.DefaultQuery("status", string(model.StatusPendingPickup))

	var (
		data []byte
		err  error
	)
	if statusParam == "all" {
		data, err = ctrl.exportService.ExportAllSignups()
	} else {
		data, err = ctrl.exportService.ExportSignups(model.SignupStatus(statusParam))
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.SignupInvalidStatus, "Onbekende status")
			return
		}
		log.Error("Failed to export signups", err, map[string]interface{}{
			"status": statusParam,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export signups")
		return
	}

	filename := fmt.Sprintf("inschrijvingen-%s-%s.xlsx", statusParam, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
