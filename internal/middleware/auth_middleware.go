package middleware

import (
	"net/http"
	"strings"

	"github.com/fitcity/fitcity-backend/internal/errors"
	"github.com/fitcity/fitcity-backend/pkg/redis"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// AdminTokenKey is the gin context key holding the raw bearer token,
// set after successful authentication so logout can revoke it.
const AdminTokenKey = "admin_token"

type AuthMiddleware struct {
	jwtSecret    string
	redisEnabled bool
}

func NewAuthMiddleware(jwtSecret string, redisEnabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:    jwtSecret,
		redisEnabled: redisEnabled,
	}
}

// Authenticate guards the admin surface: a valid, non-revoked bearer
// token is required.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Inloggen vereist")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Ongeldig autorisatieformaat")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateAdminToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Sessie verlopen, log opnieuw in")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Ongeldig autorisatietoken")
			}
			c.Abort()
			return
		}

		if m.redisEnabled {
			revoked, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
			if err != nil {
				// Blacklist unavailable: fail closed on the admin surface.
				log.Error("Token blacklist check failed", err, map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.InternalError(c, "")
				c.Abort()
				return
			}
			if revoked {
				log.Warn("Rejected revoked token", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Sessie is uitgelogd")
				c.Abort()
				return
			}
		}

		c.Set(AdminTokenKey, token)

		log.Debug("Admin authenticated successfully", map[string]interface{}{
			"role": claims.Role,
		})

		c.Next()
	}
}

// GetAdminToken extracts the authenticated bearer token from context.
func GetAdminToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(AdminTokenKey)
	if !exists {
		return "", false
	}
	return token.(string), true
}
