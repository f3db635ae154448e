package domain

import "time"

// Customer is a rental customer record. Scan-derived fields are merged
// in only where the record is still empty; a scan never overwrites data
// an agent has already entered.
type Customer struct {
	ID             string
	FullName       string
	FirstName      string
	LastName       string
	PassportNumber string
	PassportExpiry string
	PassportIssuer string
	DateOfBirth    string
	Nationality    string
	Gender         string
	ScanImageURL   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// scanTargets maps extracted field names to setters on the customer.
// Unrecognized keys from the analyzer are dropped.
func (c *Customer) scanTargets() map[string]*string {
	return map[string]*string{
		"full_name":       &c.FullName,
		"first_name":      &c.FirstName,
		"last_name":       &c.LastName,
		"passport_number": &c.PassportNumber,
		"passport_expiry": &c.PassportExpiry,
		"passport_issuer": &c.PassportIssuer,
		"date_of_birth":   &c.DateOfBirth,
		"nationality":     &c.Nationality,
		"gender":          &c.Gender,
		"passport_image":  &c.ScanImageURL,
	}
}

// MergeScanFields fills empty customer fields from an untrusted analyzer
// output and returns the names of the fields it changed.
func (c *Customer) MergeScanFields(fields map[string]string) []string {
	targets := c.scanTargets()
	var applied []string
	// Deterministic order: walk a fixed key list, not the input map.
	for _, key := range []string{
		"full_name", "first_name", "last_name",
		"passport_number", "passport_expiry", "passport_issuer",
		"date_of_birth", "nationality", "gender", "passport_image",
	} {
		val, ok := fields[key]
		if !ok || val == "" {
			continue
		}
		dst := targets[key]
		if *dst != "" {
			continue
		}
		*dst = val
		applied = append(applied, key)
	}
	return applied
}
