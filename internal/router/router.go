package router

import (
	"time"

	"github.com/fitcity/fitcity-backend/config"
	"github.com/fitcity/fitcity-backend/internal/app/controller"
	"github.com/fitcity/fitcity-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Submission rate limit per client address. Generous for humans who
// retry after validation errors, tight for scripts.
const (
	submitRateLimit  = 10
	submitRateWindow = time.Hour
)

type Router struct {
	signupController  *controller.SignupController
	adminController   *controller.AdminController
	webhookController *controller.WebhookController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	signupController *controller.SignupController,
	adminController *controller.AdminController,
	webhookController *controller.WebhookController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		signupController:  signupController,
		adminController:   adminController,
		webhookController: webhookController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "FitCity signup API is running",
		})
	})

	api := router.Group("/api")
	{
		api.GET("/memberships", r.signupController.Memberships)
		api.POST("/submit-signup",
			middleware.RateLimitMiddleware(submitRateLimit, submitRateWindow, r.config.Redis.Enabled()),
			r.signupController.Submit,
		)
		api.GET("/signup-status", r.signupController.Status)

		api.POST("/webhooks/mollie", r.webhookController.HandleMollie)

		admin := api.Group("/admin")
		{
			admin.POST("/login", r.adminController.Login)

			authed := admin.Group("")
			authed.Use(r.authMiddleware.Authenticate())
			{
				authed.POST("/logout", r.adminController.Logout)
				authed.GET("/signups", r.adminController.ListSignups)
				authed.GET("/signups/export", r.adminController.ExportSignups)
				authed.POST("/update-signup", r.adminController.UpdateSignup)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
