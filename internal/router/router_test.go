package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitcity/fitcity-backend/config"
	"github.com/fitcity/fitcity-backend/internal/app/controller"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/internal/app/service"
	"github.com/fitcity/fitcity-backend/internal/db"
	"github.com/fitcity/fitcity-backend/internal/middleware"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	routerTestEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	routerTestPassword      = "router-test-wachtwoord"
	routerTestOrigin        = "http://localhost:3000"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	testDB := db.SetupTestDB(t)
	repo := repository.NewSignupRepository(testDB)

	hash, err := util.HashPassword(routerTestPassword)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		Admin: config.AdminConfig{
			PasswordHash: hash,
			JWTSecret:    "router-test-jwt-secret",
			TokenExpiry:  time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{routerTestOrigin}},
	}

	signupService := service.NewSignupService(repo, nil, routerTestEncryptionKey)
	adminService := service.NewAdminService(
		repo,
		routerTestEncryptionKey,
		hash,
		cfg.Admin.JWTSecret,
		cfg.Admin.TokenExpiry,
		false,
	)
	exportService := service.NewExportService(repo, routerTestEncryptionKey)

	r := NewRouter(
		controller.NewSignupController(signupService),
		controller.NewAdminController(adminService, exportService),
		controller.NewWebhookController(signupService),
		middleware.NewAuthMiddleware(cfg.Admin.JWTSecret, false),
		cfg,
	)
	return r.Setup()
}

func TestRouter_Health(t *testing.T) {
	engine := setupRouterTest(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_PreflightAllowedOrigin(t *testing.T) {
	engine := setupRouterTest(t)

	// Every endpoint answers preflight with 204, admin routes included:
	// OPTIONS carries no credentials, so it must not hit the auth guard.
	paths := []string{
		"/api/memberships",
		"/api/submit-signup",
		"/api/signup-status",
		"/api/webhooks/mollie",
		"/api/admin/login",
		"/api/admin/signups",
		"/api/admin/update-signup",
	}

	for _, path := range paths {
		req := httptest.NewRequest("OPTIONS", path, nil)
		req.Header.Set("Origin", routerTestOrigin)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
		assert.Equal(t, routerTestOrigin, w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "OPTIONS", path)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization", path)
	}
}

func TestRouter_PreflightUnknownOrigin(t *testing.T) {
	engine := setupRouterTest(t)

	req := httptest.NewRequest("OPTIONS", "/api/submit-signup", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	// The preflight still short-circuits, but no origin is allowed.
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AdminRoutesRequireAuth(t *testing.T) {
	engine := setupRouterTest(t)

	requests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/admin/signups"},
		{"GET", "/api/admin/signups/export"},
		{"POST", "/api/admin/update-signup"},
		{"POST", "/api/admin/logout"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
		assert.Contains(t, w.Body.String(), "AUTH_UNAUTHORIZED", r.path)
	}
}

func TestRouter_AdminLoginThenList(t *testing.T) {
	engine := setupRouterTest(t)

	body := strings.NewReader(`{"password":"` + routerTestPassword + `"}`)
	req := httptest.NewRequest("POST", "/api/admin/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	req = httptest.NewRequest("GET", "/api/admin/signups", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"signups"`)
}

func TestRouter_SubmitThroughFullStack(t *testing.T) {
	engine := setupRouterTest(t)

	// Rate limiting is a no-op without Redis; the submission passes the
	// whole middleware chain.
	payload := `{
		"membershipId": "smart-deal",
		"startDate": "2100-01-01",
		"firstName": "Jan",
		"lastName": "de Vries",
		"email": "jan@example.nl",
		"phone": "0612345678",
		"dateOfBirth": "1990-05-10",
		"street": "Marktstraat",
		"houseNumber": "12",
		"postalCode": "4101AB",
		"city": "Culemborg",
		"agreeTerms": true,
		"iban": "NL91ABNA0417164300"
	}`

	req := httptest.NewRequest("POST", "/api/submit-signup", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", routerTestOrigin)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"signupId"`)
	assert.Equal(t, routerTestOrigin, w.Header().Get("Access-Control-Allow-Origin"))
}
