package resend

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid resend configuration")

	// ErrSendFailed is returned when the Resend API rejects a message.
	ErrSendFailed = errors.New("email dispatch failed")
)
