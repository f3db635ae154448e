package domain

import "time"

// PolicyStatus is derived from the policy's end date, never stored
// authoritatively.
type PolicyStatus string

const (
	PolicyActive       PolicyStatus = "Active"
	PolicyExpiringSoon PolicyStatus = "Expiring Soon"
	PolicyExpired      PolicyStatus = "Expired"
)

// expiryWarningWindow is how close to the end date a policy starts
// reporting Expiring Soon.
const expiryWarningWindow = 30 * 24 * time.Hour

// InsurancePolicy covers a vehicle for a date span.
type InsurancePolicy struct {
	ID           string
	VehicleID    string
	PolicyNumber string
	Provider     string
	StartDate    time.Time
	EndDate      time.Time
	CreatedAt    time.Time
}

// Validate checks the policy's date order.
func (p *InsurancePolicy) Validate() error {
	if p.EndDate.Before(p.StartDate) {
		return &InvalidDocumentError{Reason: "policy end date cannot be before its start date"}
	}
	return nil
}

// StatusAt derives the policy status as of the given instant.
func (p *InsurancePolicy) StatusAt(now time.Time) PolicyStatus {
	switch {
	case p.EndDate.Before(now):
		return PolicyExpired
	case p.EndDate.Sub(now) <= expiryWarningWindow:
		return PolicyExpiringSoon
	default:
		return PolicyActive
	}
}
