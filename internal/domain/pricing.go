package domain

import "time"

// PricingPlan holds the rate card for a vehicle class.
type PricingPlan struct {
	ID                    string
	Name                  string
	DailyRate             float64
	WeeklyRate            float64
	MonthlyRate           float64
	MileageIncludedPerDay int64
	ExtraKMRate           float64
	CreatedAt             time.Time
}

// RateQuote is one priced option for a rental duration.
type RateQuote struct {
	Kind   string
	Total  float64
	PerDay float64
}

// Validate checks the plan's rate invariants.
func (p *PricingPlan) Validate() error {
	if p.DailyRate <= 0 {
		return &InvalidDocumentError{Reason: "daily rate must be greater than zero"}
	}
	if p.MileageIncludedPerDay < 0 {
		return &InvalidDocumentError{Reason: "included mileage per day cannot be negative"}
	}
	if p.ExtraKMRate < 0 {
		return &InvalidDocumentError{Reason: "extra km rate cannot be negative"}
	}
	return nil
}

// BestRate returns the most economical quote for a rental of the given
// number of days. Weekly and monthly rates are combined with daily rates
// for the remainder days. Returns nil when the plan has no usable rate.
func (p *PricingPlan) BestRate(days int) *RateQuote {
	if days <= 0 {
		return nil
	}

	var quotes []RateQuote
	if p.DailyRate > 0 {
		quotes = append(quotes, RateQuote{Kind: "Daily", Total: p.DailyRate * float64(days)})
	}
	if p.WeeklyRate > 0 && days >= 7 {
		total := float64(days/7) * p.WeeklyRate
		if rem := days % 7; rem > 0 && p.DailyRate > 0 {
			total += float64(rem) * p.DailyRate
		}
		quotes = append(quotes, RateQuote{Kind: "Weekly", Total: total})
	}
	if p.MonthlyRate > 0 && days >= 30 {
		total := float64(days/30) * p.MonthlyRate
		if rem := days % 30; rem > 0 && p.DailyRate > 0 {
			total += float64(rem) * p.DailyRate
		}
		quotes = append(quotes, RateQuote{Kind: "Monthly", Total: total})
	}

	if len(quotes) == 0 {
		return nil
	}
	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.Total < best.Total {
			best = q
		}
	}
	best.PerDay = best.Total / float64(days)
	return &best
}

// ExtraMileageCharge computes the charge for kilometers beyond the
// plan's included allowance over the rental period.
func (p *PricingPlan) ExtraMileageCharge(totalKM int64, rentalDays int) float64 {
	if p.MileageIncludedPerDay <= 0 || p.ExtraKMRate <= 0 {
		return 0
	}
	included := p.MileageIncludedPerDay * int64(rentalDays)
	extra := totalKM - included
	if extra <= 0 {
		return 0
	}
	return float64(extra) * p.ExtraKMRate
}
