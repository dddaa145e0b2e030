package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a safe code+message pair derived from an internal error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError reduces database and network errors to a user-safe code
// and Dutch message. Internal detail is for the server log only and
// must never reach the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Er is een fout opgetreden. Probeer het later opnieuw.",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    SignupNotFound,
			Message: "Inschrijving niet gevonden",
		}
	}

	// Postgres unique constraint violation (23505). Fresh UUIDs make a
	// primary key collision on signups all but impossible, but a
	// violated constraint must not surface as raw SQL.
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Er is een fout opgetreden. Probeer het later opnieuw.",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Er is een fout opgetreden. Probeer het later opnieuw.",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Er is een fout opgetreden. Probeer het later opnieuw.",
	}
}

// ParseAndRespond parses err and writes the standard error payload.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
