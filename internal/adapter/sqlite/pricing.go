package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openrental/fleetd/internal/domain"
)

// Compile-time checks: Store implements the rate-card and policy ports.
var (
	_ domain.PricingPlanRepository = (*Store)(nil)
	_ domain.InsuranceRepository   = (*Store)(nil)
)

func (s *Store) CreatePricingPlan(ctx context.Context, p domain.PricingPlan) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pricing_plans
			(id, name, daily_rate, weekly_rate, monthly_rate, mileage_included_per_day, extra_km_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.DailyRate, p.WeeklyRate, p.MonthlyRate,
		p.MileageIncludedPerDay, p.ExtraKMRate, fmtTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting pricing plan: %w", err)
	}
	return nil
}

func (s *Store) GetPricingPlan(ctx context.Context, id string) (domain.PricingPlan, error) {
	var p domain.PricingPlan
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, daily_rate, weekly_rate, monthly_rate, mileage_included_per_day, extra_km_rate, created_at
		 FROM pricing_plans WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.DailyRate, &p.WeeklyRate, &p.MonthlyRate,
		&p.MileageIncludedPerDay, &p.ExtraKMRate, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PricingPlan{}, domain.ErrPricingPlanNotFound
		}
		return domain.PricingPlan{}, fmt.Errorf("scanning pricing plan: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

func (s *Store) ListPricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, daily_rate, weekly_rate, monthly_rate, mileage_included_per_day, extra_km_rate, created_at
		 FROM pricing_plans ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pricing plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.PricingPlan
	for rows.Next() {
		var p domain.PricingPlan
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.DailyRate, &p.WeeklyRate, &p.MonthlyRate,
			&p.MileageIncludedPerDay, &p.ExtraKMRate, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning pricing plan row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *Store) CreatePolicy(ctx context.Context, p domain.InsurancePolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO insurance_policies
			(id, vehicle_id, policy_number, provider, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.VehicleID, p.PolicyNumber, p.Provider,
		fmtTime(p.StartDate), fmtTime(p.EndDate), fmtTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting insurance policy: %w", err)
	}
	return nil
}

func (s *Store) ListPoliciesByVehicle(ctx context.Context, vehicleID string) ([]domain.InsurancePolicy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vehicle_id, policy_number, provider, start_date, end_date, created_at
		 FROM insurance_policies WHERE vehicle_id = ? ORDER BY end_date DESC`, vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing insurance policies: %w", err)
	}
	defer rows.Close()

	var policies []domain.InsurancePolicy
	for rows.Next() {
		var p domain.InsurancePolicy
		var start, end, createdAt string
		if err := rows.Scan(&p.ID, &p.VehicleID, &p.PolicyNumber, &p.Provider,
			&start, &end, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning insurance policy row: %w", err)
		}
		p.StartDate = parseTime(start)
		p.EndDate = parseTime(end)
		p.CreatedAt = parseTime(createdAt)
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
