package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrSignupNotFound is returned for an unknown signup ID.
	ErrSignupNotFound = errors.New("signup not found")

	// ErrPollTimeout is returned when polling gives up before the
	// signup reaches a terminal status.
	ErrPollTimeout = errors.New("status polling timed out")
)

// Lifecycle statuses as they appear on the wire.
const (
	StatusPendingPickup       = "pending_pickup"
	StatusPaid                = "paid"
	StatusSubscriptionCreated = "subscription_created"
	StatusFailed              = "failed"
	StatusCanceled            = "canceled"
	StatusExpired             = "expired"
	StatusUnknown             = "unknown"
)

// IsTerminalStatus reports whether polling should stop on this status.
// "unknown" is retryable and never terminal.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusPaid, StatusSubscriptionCreated, StatusFailed, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

// ValidationError carries the per-field messages of a rejected
// submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return "submission rejected"
}

type Config struct {
	// BaseURL is the API root, e.g. "https://fitcityculemborg.nl".
	BaseURL string

	// HTTPClient overrides the default client when set.
	HTTPClient *http.Client
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}

// PollConfig tunes WaitForTerminal. The zero value uses the defaults
// the signup thank-you page uses: poll every second for the first ten
// seconds, then back off to every seven seconds, give up after ninety.
type PollConfig struct {
	FastInterval time.Duration
	SlowInterval time.Duration
	FastWindow   time.Duration
	Timeout      time.Duration
}

func (p PollConfig) withDefaults() PollConfig {
	if p.FastInterval <= 0 {
		p.FastInterval = time.Second
	}
	if p.SlowInterval <= 0 {
		p.SlowInterval = 7 * time.Second
	}
	if p.FastWindow <= 0 {
		p.FastWindow = 10 * time.Second
	}
	if p.Timeout <= 0 {
		p.Timeout = 90 * time.Second
	}
	return p
}

// SubmitRequest is the public signup form payload.
type SubmitRequest struct {
	MembershipID        string `json:"membershipId"`
	StartDate           string `json:"startDate"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	DateOfBirth         string `json:"dateOfBirth"`
	Street              string `json:"street"`
	HouseNumber         string `json:"houseNumber"`
	HouseNumberAddition string `json:"houseNumberAddition,omitempty"`
	PostalCode          string `json:"postalCode"`
	City                string `json:"city"`
	AgreeTerms          bool   `json:"agreeTerms"`
	IBAN                string `json:"iban"`
}

type SubmitResponse struct {
	Success  bool   `json:"success"`
	SignupID string `json:"signupId"`
}

type StatusResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	MembershipID   string `json:"membershipId"`
	MembershipName string `json:"membershipName"`
	StartDate      string `json:"startDate"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// Client is a typed client for the public signup API.
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// SubmitSignup posts a signup form. A 400 with field messages is
// returned as *ValidationError.
func (c *Client) SubmitSignup(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/submit-signup", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && len(errResp.Errors) > 0 {
			return nil, &ValidationError{Messages: errResp.Errors}
		}
		return nil, fmt.Errorf("submission rejected: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var submitResp SubmitResponse
	if err := json.Unmarshal(respBody, &submitResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &submitResp, nil
}

// GetStatus fetches the current status of one signup.
func (c *Client) GetStatus(ctx context.Context, signupID string) (*StatusResponse, error) {
	url := fmt.Sprintf("%s/api/signup-status?id=%s", c.config.BaseURL, signupID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSignupNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var statusResp StatusResponse
	if err := json.Unmarshal(respBody, &statusResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &statusResp, nil
}

// WaitForTerminal polls the status endpoint until the signup reaches a
// terminal state. On timeout the last response is returned with the
// status forced to "unknown", together with ErrPollTimeout. Transient
// fetch errors are retried on the same schedule.
func (c *Client) WaitForTerminal(ctx context.Context, signupID string, poll PollConfig) (*StatusResponse, error) {
	poll = poll.withDefaults()
	start := time.Now()

	var last *StatusResponse
	for {
		status, err := c.GetStatus(ctx, signupID)
		if err != nil {
			if errors.Is(err, ErrSignupNotFound) {
				return nil, err
			}
		} else {
			last = status
			if IsTerminalStatus(status.Status) {
				return status, nil
			}
		}

		elapsed := time.Since(start)
		if elapsed >= poll.Timeout {
			break
		}

		interval := poll.FastInterval
		if elapsed >= poll.FastWindow {
			interval = poll.SlowInterval
		}
		if remaining := poll.Timeout - elapsed; interval > remaining {
			interval = remaining
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}

	if last == nil {
		last = &StatusResponse{ID: signupID}
	}
	last.Status = StatusUnknown
	return last, ErrPollTimeout
}
