package model

// Membership is one plan from the catalog. The catalog is static
// marketing data; signups copy a snapshot of it at submission time.
type Membership struct {
	ID             string
	Name           string
	Price          float64
	Period         string
	ContractMonths int
	SignupEligible bool
}

// memberships mirrors the public pricing table. Only recurring plans
// are eligible for online signup; one-off passes are sold at the desk.
var memberships = []Membership{
	{ID: "smart-deal", Name: "Smart Deal", Price: 24.5, Period: "maand", ContractMonths: 12, SignupEligible: true},
	{ID: "duo-deal", Name: "Duo Deal", Price: 39.5, Period: "maand", ContractMonths: 12, SignupEligible: true},
	{ID: "ladies-jaar-deal", Name: "Ladies Only Jaar", Price: 20.5, Period: "maand", ContractMonths: 12, SignupEligible: true},
	{ID: "ultimate-fit", Name: "Ultimate Fit Deal", Price: 0, Period: "maand", ContractMonths: 12, SignupEligible: true},
	{ID: "kickboxing-weekly", Name: "Kickboksen 1x p/w", Price: 19.95, Period: "maand", ContractMonths: 12, SignupEligible: true},
	{ID: "kickboxing-unlimited", Name: "Kickboksen Onbeperkt", Price: 26.95, Period: "maand", ContractMonths: 12, SignupEligible: true},
	{ID: "fit-deal-halfjaar", Name: "Fit Deal (6 mnd)", Price: 29.5, Period: "maand", ContractMonths: 6, SignupEligible: true},
	{ID: "ladies-halfjaar", Name: "Ladies Halfjaar", Price: 25.5, Period: "maand", ContractMonths: 6, SignupEligible: true},
	{ID: "maand-flex", Name: "Maand Flex", Price: 37, Period: "maand", ContractMonths: 1, SignupEligible: true},
	{ID: "ladies-flex", Name: "Ladies Flex", Price: 32, Period: "maand", ContractMonths: 1, SignupEligible: true},
	{ID: "quick-deal-3mnd", Name: "Quick Deal (3 mnd)", Price: 99, Period: "3 maanden (eenmalig)", ContractMonths: 3, SignupEligible: false},
}

// MembershipByID returns the plan with the given ID, or nil.
func MembershipByID(id string) *Membership {
	for i := range memberships {
		if memberships[i].ID == id {
			return &memberships[i]
		}
	}
	return nil
}

// IsSignupEligible reports whether the plan can be taken out online.
func IsSignupEligible(id string) bool {
	m := MembershipByID(id)
	return m != nil && m.SignupEligible
}

// Memberships returns the full catalog.
func Memberships() []Membership {
	out := make([]Membership, len(memberships))
	copy(out, memberships)
	return out
}
