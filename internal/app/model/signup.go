package model

import (
	"time"
)

type SignupStatus string

const (
	// StatusPendingPickup is the initial state for signups collected
	// without online payment: the member pays in person at the gym.
	StatusPendingPickup SignupStatus = "pending_pickup"
	// StatusPaid means payment was confirmed, by an admin or automatically.
	StatusPaid SignupStatus = "paid"
	// StatusSubscriptionCreated means a recurring SEPA mandate was established.
	StatusSubscriptionCreated SignupStatus = "subscription_created"

	// Terminal non-success states, reached only via the online payment variant.
	StatusFailed   SignupStatus = "failed"
	StatusCanceled SignupStatus = "canceled"
	StatusExpired  SignupStatus = "expired"

	// StatusUnknown is reported when the state could not be determined.
	// Pollers treat it as retryable.
	StatusUnknown SignupStatus = "unknown"
)

// IsTerminal reports whether no further automatic transition happens
// from the given status. A new submission is the only way forward.
func (s SignupStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusSubscriptionCreated, StatusFailed, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known lifecycle states.
func (s SignupStatus) IsValid() bool {
	switch s {
	case StatusPendingPickup, StatusPaid, StatusSubscriptionCreated,
		StatusFailed, StatusCanceled, StatusExpired, StatusUnknown:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to target is a legal
// lifecycle transition. Callers must check this before any status write
// so that illegal transitions cannot be introduced by new admin features.
func (s SignupStatus) CanTransition(target SignupStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case StatusPendingPickup:
		// Admin marks paid, mandate callback, or the online payment
		// variant resolving to a failure state.
		switch target {
		case StatusPaid, StatusSubscriptionCreated, StatusFailed, StatusCanceled, StatusExpired:
			return true
		}
	case StatusPaid:
		// Admin unmarking paid-in-person reverts to pending; a mandate
		// callback may still arrive after payment.
		switch target {
		case StatusPendingPickup, StatusSubscriptionCreated:
			return true
		}
	case StatusUnknown:
		// Unknown is retryable: any determined state may replace it.
		return target.IsValid()
	}
	// Failure states and subscription_created never move automatically.
	return false
}

// Signup is the persistent record of one membership application, from
// submission through payment or admin resolution. Plan fields are a
// snapshot taken at submission time so later catalog edits never alter
// the recorded terms. Records are never deleted by this pipeline.
type Signup struct {
	ID        string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Status    SignupStatus `gorm:"type:varchar(30);not null;default:'pending_pickup';index" json:"status"`

	MembershipID    string `gorm:"type:varchar(50);not null" json:"membershipId"`
	MembershipName  string `gorm:"type:varchar(100);not null" json:"membershipName"`
	MembershipPrice string `gorm:"type:varchar(20);not null" json:"membershipPrice"`
	MembershipTerm  string `gorm:"type:varchar(30);not null" json:"membershipTerm"`
	StartDate       string `gorm:"type:varchar(10);not null" json:"startDate"`

	FirstName   string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName    string `gorm:"type:varchar(100);not null" json:"lastName"`
	Email       string `gorm:"type:varchar(255);not null" json:"email"`
	Phone       string `gorm:"type:varchar(20);not null" json:"phone"`
	DateOfBirth string `gorm:"type:varchar(10);not null" json:"dateOfBirth"`

	Street              string `gorm:"type:varchar(150);not null" json:"street"`
	HouseNumber         string `gorm:"type:varchar(20);not null" json:"houseNumber"`
	HouseNumberAddition string `gorm:"type:varchar(20)" json:"houseNumberAddition"`
	PostalCode          string `gorm:"type:varchar(10);not null" json:"postalCode"`
	City                string `gorm:"type:varchar(100);not null" json:"city"`

	// IBANEncrypted holds the AES-GCM blob, never the plaintext account
	// number. Nil when no bank details were collected.
	IBANEncrypted *string `gorm:"type:text" json:"ibanEncrypted,omitempty"`

	// Payment correlation references set by the external payment provider.
	MolliePaymentID      *string `gorm:"type:varchar(64);index" json:"molliePaymentId,omitempty"`
	MollieCustomerID     *string `gorm:"type:varchar(64)" json:"mollieCustomerId,omitempty"`
	MollieSubscriptionID *string `gorm:"type:varchar(64)" json:"mollieSubscriptionId,omitempty"`

	// EmailSentAt is nil until the confirmation email was dispatched;
	// the retry job scans for nil values.
	EmailSentAt *time.Time `json:"emailSentAt,omitempty"`

	PaidInPerson bool    `gorm:"not null;default:false" json:"paidInPerson"`
	AdminNotes   *string `gorm:"type:text" json:"adminNotes,omitempty"`
}

func (Signup) TableName() string {
	return "signups"
}
