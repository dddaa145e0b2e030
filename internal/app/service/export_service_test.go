package service

import (
	"bytes"
	"testing"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupExportServiceTest(t *testing.T) (ExportService, repository.SignupRepository) {
	testDB := db.SetupTestDB(t)
	repo := repository.NewSignupRepository(testDB)
	return NewExportService(repo, testEncryptionKey), repo
}

func TestExportService_ExportSignups(t *testing.T) {
	svc, repo := setupExportServiceTest(t)
	signup := createAdminTestSignup(t, repo, model.StatusPendingPickup, "NL91ABNA0417164300")

	data, err := svc.ExportSignups(model.StatusPendingPickup)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("pending_pickup")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "IBAN", rows[0][17])

	assert.Equal(t, signup.ID, rows[1][0])
	assert.Equal(t, "Smart Deal", rows[1][3])
	assert.Equal(t, "NL91ABNA0417164300", rows[1][17])
	assert.Equal(t, "nee", rows[1][18])
}

func TestExportService_ExportSignups_InvalidStatus(t *testing.T) {
	svc, _ := setupExportServiceTest(t)

	_, err := svc.ExportSignups(model.SignupStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExportService_ExportAllSignups(t *testing.T) {
	svc, repo := setupExportServiceTest(t)
	createAdminTestSignup(t, repo, model.StatusPendingPickup, "")
	createAdminTestSignup(t, repo, model.StatusPaid, "")

	data, err := svc.ExportAllSignups()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// One sheet per lifecycle status, populated or not.
	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "pending_pickup")
	assert.Contains(t, sheets, "paid")
	assert.Contains(t, sheets, "unknown")

	pending, err := f.GetRows("pending_pickup")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	paid, err := f.GetRows("paid")
	require.NoError(t, err)
	assert.Len(t, paid, 2)

	failed, err := f.GetRows("failed")
	require.NoError(t, err)
	assert.Len(t, failed, 1)
}
