package errors

// Error code constants, format CATEGORY_SPECIFIC_DETAIL. The admin
// front-end maps these codes to messages; the message field is a
// ready-to-show Dutch fallback.

const (
	// Authentication / authorization
	AuthUnauthorized  = "AUTH_UNAUTHORIZED"
	AuthTokenExpired  = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid  = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked  = "AUTH_TOKEN_REVOKED"
	AuthBadCredential = "AUTH_INVALID_CREDENTIALS"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Signup domain
	SignupNotFound          = "SIGNUP_NOT_FOUND"
	SignupIneligiblePlan    = "SIGNUP_INELIGIBLE_PLAN"
	SignupInvalidPlan       = "SIGNUP_INVALID_PLAN"
	SignupInvalidStatus     = "SIGNUP_INVALID_STATUS"
	SignupIllegalTransition = "SIGNUP_ILLEGAL_TRANSITION"

	// Rate limiting
	RateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
