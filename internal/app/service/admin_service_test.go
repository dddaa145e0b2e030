package service

import (
	"context"
	"testing"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/internal/db"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "sterk-wachtwoord"

func setupAdminServiceTest(t *testing.T) (AdminService, repository.SignupRepository) {
	testDB := db.SetupTestDB(t)
	repo := repository.NewSignupRepository(testDB)

	hash, err := util.HashPassword(testAdminPassword)
	require.NoError(t, err)

	svc := NewAdminService(repo, testEncryptionKey, hash, "test-jwt-secret", time.Hour, false)
	return svc, repo
}

func createAdminTestSignup(t *testing.T, repo repository.SignupRepository, status model.SignupStatus, iban string) *model.Signup {
	t.Helper()

	signup := &model.Signup{
		ID:              uuid.NewString(),
		Status:          status,
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
	if iban != "" {
		encrypted, err := util.EncryptIBAN(iban, testEncryptionKey)
		require.NoError(t, err)
		signup.IBANEncrypted = &encrypted
	}
	require.NoError(t, repo.Create(signup))
	return signup
}

func TestAdminService_Login(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	token, expiresIn, err := svc.Login(testAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, expiresIn)

	claims, err := util.ValidateAdminToken(token, "test-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestAdminService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	_, _, err := svc.Login("fout-wachtwoord")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminService_Logout_WithoutRedis(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	token, _, err := svc.Login(testAdminPassword)
	require.NoError(t, err)

	// Stateless tokens: logout is a no-op when no blacklist is available.
	assert.NoError(t, svc.Logout(context.Background(), token))
}

func TestAdminService_ListSignups(t *testing.T) {
	svc, repo := setupAdminServiceTest(t)

	withBank := createAdminTestSignup(t, repo, model.StatusPendingPickup, "NL91ABNA0417164300")
	withoutBank := createAdminTestSignup(t, repo, model.StatusPendingPickup, "")
	createAdminTestSignup(t, repo, model.StatusPaid, "NL20INGB0001234567")

	views, err := svc.ListSignups(model.StatusPendingPickup)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[string]AdminSignupView{}
	for _, v := range views {
		byID[v.ID] = v
		// The ciphertext must never reach the admin panel.
		assert.Nil(t, v.IBANEncrypted)
	}

	require.NotNil(t, byID[withBank.ID].IBAN)
	assert.Equal(t, "NL91ABNA0417164300", *byID[withBank.ID].IBAN)
	assert.Nil(t, byID[withoutBank.ID].IBAN)
}

func TestAdminService_ListSignups_CorruptCiphertext(t *testing.T) {
	svc, repo := setupAdminServiceTest(t)

	garbage := "niet-een-geldige-blob"
	require.NoError(t, repo.Create(&model.Signup{
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
		IBANEncrypted:   &garbage,
	}))

	views, err := svc.ListSignups(model.StatusPendingPickup)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].IBAN)
	assert.Equal(t, "[DECRYPTION ERROR]", *views[0].IBAN)
}

func TestAdminService_ListSignups_InvalidStatus(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	_, err := svc.ListSignups(model.SignupStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdminService_UpdateSignup_MarkPaid(t *testing.T) {
	svc, repo := setupAdminServiceTest(t)
	signup := createAdminTestSignup(t, repo, model.StatusPendingPickup, "")

	notes := "Betaald aan de balie"
	updated, err := svc.UpdateSignup(signup.ID, AdminUpdateInput{PaidInPerson: true, AdminNotes: &notes})
	require.NoError(t, err)

	assert.True(t, updated.PaidInPerson)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "Betaald aan de balie", *updated.AdminNotes)
	assert.Equal(t, model.StatusPaid, updated.Status)
}

func TestAdminService_UpdateSignup_UnmarkPaidReverts(t *testing.T) {
	svc, repo := setupAdminServiceTest(t)
	signup := createAdminTestSignup(t, repo, model.StatusPendingPickup, "")

	_, err := svc.UpdateSignup(signup.ID, AdminUpdateInput{PaidInPerson: true})
	require.NoError(t, err)

	updated, err := svc.UpdateSignup(signup.ID, AdminUpdateInput{PaidInPerson: false})
	require.NoError(t, err)
	assert.False(t, updated.PaidInPerson)
	assert.Equal(t, model.StatusPendingPickup, updated.Status)
}

func TestAdminService_UpdateSignup_NotesOnly(t *testing.T) {
	svc, repo := setupAdminServiceTest(t)
	signup := createAdminTestSignup(t, repo, model.StatusPendingPickup, "")

	notes := "Belt volgende week terug"
	updated, err := svc.UpdateSignup(signup.ID, AdminUpdateInput{PaidInPerson: false, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingPickup, updated.Status)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "Belt volgende week terug", *updated.AdminNotes)
}

func TestAdminService_UpdateSignup_PaidFlagOnSubscription(t *testing.T) {
	svc, repo := setupAdminServiceTest(t)
	signup := createAdminTestSignup(t, repo, model.StatusSubscriptionCreated, "")

	// The flag is stored but a subscription never moves back to paid.
	updated, err := svc.UpdateSignup(signup.ID, AdminUpdateInput{PaidInPerson: true})
	require.NoError(t, err)
	assert.True(t, updated.PaidInPerson)
	assert.Equal(t, model.StatusSubscriptionCreated, updated.Status)
}

func TestAdminService_UpdateSignup_NotFound(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	_, err := svc.UpdateSignup(uuid.NewString(), AdminUpdateInput{PaidInPerson: true})
	assert.ErrorIs(t, err, ErrSignupNotFound)
}
