package entity

import (
	"strings"
	"time"
)

// CompanyProfile the seller identity of a tenant. Exactly one per tenant.
type CompanyProfile struct {
	ID            string
	TenantID      string
	CompanyName   string
	GSTNumber     string
	Address       string
	City          string
	State         string
	Pincode       string
	Phone         string
	Email         string
	Website       string
	BankName      string
	AccountNumber string
	IFSCCode      string

	OnboardingComplete    bool
	OnboardingCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsComplete reports whether the profile can be stamped onto pakka bills.
func (p *CompanyProfile) IsComplete() bool {
	if p == nil || !p.OnboardingComplete {
		return false
	}
	for _, f := range []string{p.CompanyName, p.GSTNumber, p.Address, p.City, p.State, p.Pincode} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}
