package util

import (
	"regexp"
	"strings"
	"time"
)

// signupEligibleMembershipIDs lists the plans that can be taken out via
// the online form: recurring plans only, single-period passes excluded.
var signupEligibleMembershipIDs = []string{
	"smart-deal",
	"duo-deal",
	"ladies-jaar-deal",
	"ultimate-fit",
	"kickboxing-weekly",
	"kickboxing-unlimited",
	"fit-deal-halfjaar",
	"ladies-halfjaar",
	"maand-flex",
	"ladies-flex",
}

const minSignupAge = 13

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex  = regexp.MustCompile(`^(\+31|0031|0)[1-9][0-9]{8}$`)
	postalRegex = regexp.MustCompile(`^[1-9][0-9]{3}[A-Z]{2}$`)
	// Dutch IBAN only: NL + 2 check digits + 4 letter bank code + 10
	// digit account number. No mod-97 checksum is performed.
	ibanRegex = regexp.MustCompile(`^NL[0-9]{2}[A-Z]{4}[0-9]{10}$`)
)

// BankDetails carries the bank account fields collected by the
// no-online-payment flow.
type BankDetails struct {
	IBAN string
}

// SignupInput is one raw form submission. Bank is nil for the online
// payment variant and set for the flow that collects an IBAN upfront;
// the two shapes are validated differently.
type SignupInput struct {
	MembershipID        string
	StartDate           string
	FirstName           string
	LastName            string
	Email               string
	Phone               string
	DateOfBirth         string
	Street              string
	HouseNumber         string
	HouseNumberAddition string
	PostalCode          string
	City                string
	AgreeTerms          bool
	Bank                *BankDetails
}

// ValidateSignupInput checks every field rule independently and returns
// one message per failing rule, in a fixed order, so the form can show
// all problems at once. An empty slice means the input is valid.
func ValidateSignupInput(in SignupInput) []string {
	return ValidateSignupInputAt(in, time.Now())
}

// ValidateSignupInputAt is ValidateSignupInput with an explicit clock,
// used by the date-boundary rules.
func ValidateSignupInputAt(in SignupInput, now time.Time) []string {
	var errs []string

	if in.MembershipID == "" {
		errs = append(errs, "Kies een abonnement")
	} else if !isEligibleMembershipID(in.MembershipID) {
		errs = append(errs, "Ongeldig abonnement geselecteerd")
	}

	if in.StartDate == "" {
		errs = append(errs, "Kies een startdatum")
	} else if !isFutureDate(in.StartDate, now) {
		errs = append(errs, "Startdatum moet in de toekomst liggen")
	}

	if strings.TrimSpace(in.FirstName) == "" {
		errs = append(errs, "Voornaam is verplicht")
	}

	if strings.TrimSpace(in.LastName) == "" {
		errs = append(errs, "Achternaam is verplicht")
	}

	if email := strings.TrimSpace(in.Email); email == "" {
		errs = append(errs, "E-mailadres is verplicht")
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, "Ongeldig e-mailadres")
	}

	if in.Phone == "" {
		errs = append(errs, "Telefoonnummer is verplicht")
	} else if !phoneRegex.MatchString(stripPhoneSeparators(in.Phone)) {
		errs = append(errs, "Ongeldig telefoonnummer")
	}

	if in.DateOfBirth == "" {
		errs = append(errs, "Geboortedatum is verplicht")
	} else if !isOldEnough(in.DateOfBirth, minSignupAge, now) {
		errs = append(errs, "Je moet minimaal 13 jaar oud zijn")
	}

	if strings.TrimSpace(in.Street) == "" {
		errs = append(errs, "Straat is verplicht")
	}

	if strings.TrimSpace(in.HouseNumber) == "" {
		errs = append(errs, "Huisnummer is verplicht")
	}

	if in.PostalCode == "" {
		errs = append(errs, "Postcode is verplicht")
	} else if !postalRegex.MatchString(NormalizePostalCode(in.PostalCode)) {
		errs = append(errs, "Ongeldige postcode (formaat: 1234AB)")
	}

	if strings.TrimSpace(in.City) == "" {
		errs = append(errs, "Plaats is verplicht")
	}

	if !in.AgreeTerms {
		errs = append(errs, "Je moet akkoord gaan met de voorwaarden")
	}

	// IBAN rules only apply when the submission carries bank details.
	if in.Bank != nil {
		if in.Bank.IBAN == "" {
			errs = append(errs, "IBAN is verplicht")
		} else if !ibanRegex.MatchString(NormalizeIBAN(in.Bank.IBAN)) {
			errs = append(errs, "Ongeldig IBAN (formaat: NL91ABNA0417164300)")
		}
	}

	return errs
}

func isEligibleMembershipID(id string) bool {
	for _, eligible := range signupEligibleMembershipIDs {
		if id == eligible {
			return true
		}
	}
	return false
}

// isFutureDate reports whether the date is strictly later than today at
// local midnight. Today itself is rejected.
func isFutureDate(dateString string, now time.Time) bool {
	date, err := time.ParseInLocation("2006-01-02", dateString, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return date.After(today)
}

// isOldEnough computes a calendar-accurate age: the year difference,
// minus one if the birthday has not yet occurred this year.
func isOldEnough(dateOfBirth string, minAge int, now time.Time) bool {
	dob, err := time.ParseInLocation("2006-01-02", dateOfBirth, now.Location())
	if err != nil {
		return false
	}

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}

	return age >= minAge
}
