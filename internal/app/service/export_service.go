package service

import (
	"fmt"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/pkg/logger"
	"github.com/fitcity/fitcity-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// ExportService renders signups as an XLSX workbook, for the admin
// download button and for the nightly backup job.
type ExportService interface {
	ExportSignups(status model.SignupStatus) ([]byte, error)
	ExportAllSignups() ([]byte, error)
}

type exportService struct {
	repo          repository.SignupRepository
	encryptionKey string
}

func NewExportService(repo repository.SignupRepository, encryptionKey string) ExportService {
	return &exportService{
		repo:          repo,
		encryptionKey: encryptionKey,
	}
}

var exportHeaders = []string{
	"ID", "Aangemaakt", "Status", "Abonnement", "Prijs", "Termijn", "Startdatum",
	"Voornaam", "Achternaam", "E-mail", "Telefoon", "Geboortedatum",
	"Straat", "Huisnummer", "Toevoeging", "Postcode", "Plaats",
	"IBAN", "Betaald bij balie", "Notities",
}

// ExportSignups builds a workbook with one sheet for the given status.
func (s *exportService) ExportSignups(status model.SignupStatus) ([]byte, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	signups, err := s.repo.ListByStatus(status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := string(status)
	f.SetSheetName("Sheet1", sheet)
	if err := s.writeSheet(f, sheet, signups); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Exported signups to workbook", map[string]interface{}{
		"status": status,
		"count":  len(signups),
	})
	return buf.Bytes(), nil
}

// ExportAllSignups builds a workbook with one sheet per lifecycle
// status, used as the nightly backup artifact.
func (s *exportService) ExportAllSignups() ([]byte, error) {
	statuses := []model.SignupStatus{
		model.StatusPendingPickup,
		model.StatusPaid,
		model.StatusSubscriptionCreated,
		model.StatusFailed,
		model.StatusCanceled,
		model.StatusExpired,
		model.StatusUnknown,
	}

	f := excelize.NewFile()
	defer f.Close()

	total := 0
	for i, status := range statuses {
		signups, err := s.repo.ListByStatus(status)
		if err != nil {
			return nil, err
		}
		total += len(signups)

		sheet := string(status)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("failed to add sheet %s: %w", sheet, err)
			}
		}
		if err := s.writeSheet(f, sheet, signups); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Exported full signup backup workbook", map[string]interface{}{
		"count": total,
	})
	return buf.Bytes(), nil
}

func (s *exportService) writeSheet(f *excelize.File, sheet string, signups []model.Signup) error {
	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for row, signup := range signups {
		iban := ""
		if signup.IBANEncrypted != nil {
			decrypted, err := util.DecryptIBAN(*signup.IBANEncrypted, s.encryptionKey)
			if err != nil {
				decrypted = "[DECRYPTION ERROR]"
			}
			iban = decrypted
		}

		notes := ""
		if signup.AdminNotes != nil {
			notes = *signup.AdminNotes
		}

		paid := "nee"
		if signup.PaidInPerson {
			paid = "ja"
		}

		values := []interface{}{
			signup.ID,
			signup.CreatedAt.Format(time.RFC3339),
			string(signup.Status),
			signup.MembershipName,
			signup.MembershipPrice,
			signup.MembershipTerm,
			signup.StartDate,
			signup.FirstName,
			signup.LastName,
			signup.Email,
			signup.Phone,
			signup.DateOfBirth,
			signup.Street,
			signup.HouseNumber,
			signup.HouseNumberAddition,
			signup.PostalCode,
			signup.City,
			iban,
			paid,
			notes,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}
