package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/internal/db"
	"github.com/fitcity/fitcity-backend/pkg/email/resend"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotificationServiceTest(t *testing.T, handler http.HandlerFunc) (NotificationService, repository.SignupRepository) {
	testDB := db.SetupTestDB(t)
	repo := repository.NewSignupRepository(testDB)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	mailer, err := resend.NewClient(resend.Config{
		APIKey:  "re_test_key",
		From:    "FitCity Culemborg <noreply@fitcityculemborg.nl>",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	return NewNotificationService(repo, mailer), repo
}

func newUnsentSignup(repo repository.SignupRepository, t *testing.T) *model.Signup {
	t.Helper()

	signup := &model.Signup{
		ID:              uuid.NewString(),
		Status:          model.StatusPendingPickup,
		MembershipID:    "smart-deal",
		MembershipName:  "Smart Deal",
		MembershipPrice: "24.5",
		MembershipTerm:  "maand",
		StartDate:       "2100-01-01",
		FirstName:       "Jan",
		LastName:        "de Vries",
		Email:           "jan@example.nl",
		Phone:           "0612345678",
		DateOfBirth:     "1990-05-10",
		Street:          "Marktstraat",
		HouseNumber:     "12",
		PostalCode:      "4101AB",
		City:            "Culemborg",
	}
	require.NoError(t, repo.Create(signup))
	return signup
}

func TestNotificationService_SendConfirmation(t *testing.T) {
	var received resend.Message
	svc, repo := setupNotificationServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(resend.SendResponse{ID: "msg_1"})
	})

	signup := newUnsentSignup(repo, t)
	require.NoError(t, svc.SendConfirmation(context.Background(), signup))

	assert.Equal(t, []string{"jan@example.nl"}, received.To)
	assert.Equal(t, "Bevestiging inschrijving FitCity Culemborg", received.Subject)

	assert.Contains(t, received.HTML, "Beste Jan,")
	assert.Contains(t, received.HTML, "Smart Deal")
	assert.Contains(t, received.HTML, "€24,50 / maand")
	assert.Contains(t, received.HTML, "vrijdag 1 januari 2100")
	assert.Contains(t, received.Text, "Welkom bij FitCity!")
	assert.Contains(t, received.Text, "Prijs: €24,50 / maand")
	assert.Contains(t, received.Text, "Startdatum: vrijdag 1 januari 2100")

	stored, err := repo.FindByID(signup.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.EmailSentAt)
}

func TestNotificationService_SendConfirmation_ProviderFailure(t *testing.T) {
	svc, repo := setupNotificationServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	signup := newUnsentSignup(repo, t)
	err := svc.SendConfirmation(context.Background(), signup)
	assert.ErrorIs(t, err, resend.ErrSendFailed)

	stored, err := repo.FindByID(signup.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EmailSentAt)
}

func TestNotificationService_RetryPending(t *testing.T) {
	svc, repo := setupNotificationServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(resend.SendResponse{ID: "msg_retry"})
	})

	first := newUnsentSignup(repo, t)
	second := newUnsentSignup(repo, t)

	sent, err := svc.RetryPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	for _, id := range []string{first.ID, second.ID} {
		stored, err := repo.FindByID(id)
		require.NoError(t, err)
		assert.NotNil(t, stored.EmailSentAt)
	}

	// A second run finds nothing left to send.
	sent, err = svc.RetryPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestNotificationService_RetryPending_KeepsFailures(t *testing.T) {
	svc, repo := setupNotificationServiceTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	signup := newUnsentSignup(repo, t)

	sent, err := svc.RetryPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	stored, err := repo.FindByID(signup.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EmailSentAt)
}

func TestFormatEuro(t *testing.T) {
	assert.Equal(t, "€24,50", formatEuro("24.5"))
	assert.Equal(t, "€19,95", formatEuro("19.95"))
	assert.Equal(t, "€37,00", formatEuro("37"))
	assert.Equal(t, "€0,00", formatEuro("0"))
	// Unparseable input is passed through.
	assert.Equal(t, "€gratis", formatEuro("gratis"))
}

func TestFormatDutchDate(t *testing.T) {
	assert.Equal(t, "vrijdag 1 januari 2100", formatDutchDate("2100-01-01"))
	assert.Equal(t, "woensdag 15 juli 2026", formatDutchDate("2026-07-15"))
	assert.Equal(t, "niet-een-datum", formatDutchDate("niet-een-datum"))
}
