package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return c, server
}

func fastPoll() PollConfig {
	return PollConfig{
		FastInterval: 5 * time.Millisecond,
		SlowInterval: 10 * time.Millisecond,
		FastWindow:   50 * time.Millisecond,
		Timeout:      200 * time.Millisecond,
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSubmitSignup_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submit-signup", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "smart-deal", req.MembershipID)
		assert.Equal(t, "NL91ABNA0417164300", req.IBAN)

		json.NewEncoder(w).Encode(SubmitResponse{Success: true, SignupID: "abc-123"})
	}))

	resp, err := c.SubmitSignup(context.Background(), SubmitRequest{
		MembershipID: "smart-deal",
		IBAN:         "NL91ABNA0417164300",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "abc-123", resp.SignupID)
}

func TestSubmitSignup_ValidationErrors(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Error:  "Ongeldig e-mailadres",
			Errors: []string{"Ongeldig e-mailadres", "IBAN is verplicht"},
		})
	}))

	_, err := c.SubmitSignup(context.Background(), SubmitRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Messages, 2)
	assert.Equal(t, "Ongeldig e-mailadres", valErr.Error())
}

func TestGetStatus_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/signup-status", r.URL.Path)
		assert.Equal(t, "abc-123", r.URL.Query().Get("id"))

		json.NewEncoder(w).Encode(StatusResponse{
			ID:             "abc-123",
			Status:         StatusPendingPickup,
			MembershipID:   "smart-deal",
			MembershipName: "Smart Deal",
			StartDate:      "2026-10-01",
		})
	}))

	status, err := c.GetStatus(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPickup, status.Status)
	assert.Equal(t, "Smart Deal", status.MembershipName)
}

func TestGetStatus_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSignupNotFound)
}

func TestWaitForTerminal_StopsOnTerminalStatus(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := StatusPendingPickup
		if atomic.AddInt32(&calls, 1) >= 3 {
			status = StatusPaid
		}
		json.NewEncoder(w).Encode(StatusResponse{ID: "abc-123", Status: status})
	}))

	status, err := c.WaitForTerminal(context.Background(), "abc-123", fastPoll())
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, status.Status)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestWaitForTerminal_TimeoutReturnsUnknown(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(StatusResponse{ID: "abc-123", Status: StatusPendingPickup})
	}))

	status, err := c.WaitForTerminal(context.Background(), "abc-123", fastPoll())
	assert.ErrorIs(t, err, ErrPollTimeout)
	require.NotNil(t, status)
	assert.Equal(t, StatusUnknown, status.Status)
}

func TestWaitForTerminal_UnknownReference(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.WaitForTerminal(context.Background(), "missing", fastPoll())
	assert.ErrorIs(t, err, ErrSignupNotFound)
}

func TestWaitForTerminal_RetriesTransientErrors(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(StatusResponse{ID: "abc-123", Status: StatusCanceled})
	}))

	status, err := c.WaitForTerminal(context.Background(), "abc-123", fastPoll())
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, status.Status)
}

func TestIsTerminalStatus(t *testing.T) {
	for _, status := range []string{StatusPaid, StatusSubscriptionCreated, StatusFailed, StatusCanceled, StatusExpired} {
		assert.True(t, IsTerminalStatus(status), status)
	}
	for _, status := range []string{StatusPendingPickup, StatusUnknown, ""} {
		assert.False(t, IsTerminalStatus(status), status)
	}
}
