package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse carries every failing rule so the form can
// show all problems at once. Error holds the first message, matching
// what single-message clients expect.
type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// RespondWithValidationErrors returns a 400 with the ordered list of
// rule failures. The messages are safe, user-facing Dutch text.
func RespondWithValidationErrors(c *gin.Context, messages []string) {
	first := ""
	if len(messages) > 0 {
		first = messages[0]
	}
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:  first,
		Errors: messages,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Te veel verzoeken. Probeer het later opnieuw"
	}
	RespondWithError(c, http.StatusTooManyRequests, RateLimitExceeded, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Er is een fout opgetreden. Probeer het later opnieuw."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
