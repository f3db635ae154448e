package app

import (
	"context"
	"fmt"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

// VehicleMovements returns the movement history for a vehicle together
// with the total number of matching entries.
func (s *FleetService) VehicleMovements(ctx context.Context, vehicleID string, filter domain.MovementFilter) ([]domain.Movement, int64, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, 0, err
	}
	return s.movements.ListMovements(ctx, vehicleID, filter)
}

// BookingInput holds the fields accepted when creating a reservation
// directly, outside the transition path.
type BookingInput struct {
	VehicleID      string
	Customer       string
	StartTime      time.Time
	EndTime        time.Time
	PickupLocation string
	DropLocation   string
}

// CreateReservation books a vehicle for a time span. The span must not
// overlap any active reservation for the same vehicle; boundaries
// count as overlap.
func (s *FleetService) CreateReservation(ctx context.Context, in BookingInput) (domain.Reservation, error) {
	if _, err := s.vehicles.GetByID(ctx, in.VehicleID); err != nil {
		return domain.Reservation{}, err
	}

	now := s.now()
	r := domain.Reservation{
		ID:             newID(),
		VehicleID:      in.VehicleID,
		Customer:       in.Customer,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		PickupLocation: in.PickupLocation,
		DropLocation:   in.DropLocation,
		Status:         domain.ReservationNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.reservations.CreateReservation(ctx, r); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

// VehicleReservations lists a vehicle's reservations, newest first.
func (s *FleetService) VehicleReservations(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.reservations.ListReservationsByVehicle(ctx, vehicleID)
}

// CancelReservation marks a reservation Cancelled. The vehicle's status
// is untouched; releasing the vehicle itself is a separate transition.
func (s *FleetService) CancelReservation(ctx context.Context, id string) (domain.Reservation, error) {
	r, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if r.Status == domain.ReservationCancelled {
		return r, nil
	}
	if err := s.reservations.SetReservationStatus(ctx, id, domain.ReservationCancelled); err != nil {
		return domain.Reservation{}, fmt.Errorf("cancelling reservation: %w", err)
	}
	r.Status = domain.ReservationCancelled
	return r, nil
}

// VehicleServiceJobs lists a vehicle's workshop jobs, newest first.
func (s *FleetService) VehicleServiceJobs(ctx context.Context, vehicleID string) ([]domain.ServiceJob, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.services.ListServiceJobs(ctx, vehicleID)
}

// CompleteServiceJob marks a workshop job Completed with the given
// completion time, defaulting to now.
func (s *FleetService) CompleteServiceJob(ctx context.Context, id string, completion time.Time) error {
	if completion.IsZero() {
		completion = s.now()
	}
	return s.services.SetServiceStatus(ctx, id, domain.ServiceCompleted, completion)
}

// PlanInput holds the fields accepted when creating a pricing plan.
type PlanInput struct {
	Name                  string
	DailyRate             float64
	WeeklyRate            float64
	MonthlyRate           float64
	MileageIncludedPerDay int64
	ExtraKMRate           float64
}

// CreatePricingPlan registers a new rate card.
func (s *FleetService) CreatePricingPlan(ctx context.Context, in PlanInput) (domain.PricingPlan, error) {
	p := domain.PricingPlan{
		ID:                    newID(),
		Name:                  in.Name,
		DailyRate:             in.DailyRate,
		WeeklyRate:            in.WeeklyRate,
		MonthlyRate:           in.MonthlyRate,
		MileageIncludedPerDay: in.MileageIncludedPerDay,
		ExtraKMRate:           in.ExtraKMRate,
		CreatedAt:             s.now(),
	}
	if err := s.plans.CreatePricingPlan(ctx, p); err != nil {
		return domain.PricingPlan{}, err
	}
	return p, nil
}

// ListPricingPlans returns every rate card.
func (s *FleetService) ListPricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	return s.plans.ListPricingPlans(ctx)
}

// Quote is a priced rental estimate against one plan.
type Quote struct {
	Plan          domain.PricingPlan
	Days          int
	Rate          domain.RateQuote
	MileageCharge float64
	Total         float64
}

// QuoteRental prices a rental of the given duration and expected
// mileage against a plan.
func (s *FleetService) QuoteRental(ctx context.Context, planID string, days int, expectedKM int64) (Quote, error) {
	p, err := s.plans.GetPricingPlan(ctx, planID)
	if err != nil {
		return Quote{}, err
	}
	if days <= 0 {
		return Quote{}, &domain.InvalidDocumentError{Reason: "rental days must be greater than zero"}
	}
	rate := p.BestRate(days)
	if rate == nil {
		return Quote{}, &domain.InvalidDocumentError{Reason: "plan has no usable rate for this duration"}
	}
	mileage := p.ExtraMileageCharge(expectedKM, days)
	return Quote{
		Plan:          p,
		Days:          days,
		Rate:          *rate,
		MileageCharge: mileage,
		Total:         rate.Total + mileage,
	}, nil
}

// PolicyInput holds the fields accepted when registering an insurance
// policy.
type PolicyInput struct {
	VehicleID    string
	PolicyNumber string
	Provider     string
	StartDate    time.Time
	EndDate      time.Time
}

// CreateInsurancePolicy registers a policy for a vehicle.
func (s *FleetService) CreateInsurancePolicy(ctx context.Context, in PolicyInput) (domain.InsurancePolicy, error) {
	if _, err := s.vehicles.GetByID(ctx, in.VehicleID); err != nil {
		return domain.InsurancePolicy{}, err
	}
	p := domain.InsurancePolicy{
		ID:           newID(),
		VehicleID:    in.VehicleID,
		PolicyNumber: in.PolicyNumber,
		Provider:     in.Provider,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedAt:    s.now(),
	}
	if err := s.policies.CreatePolicy(ctx, p); err != nil {
		return domain.InsurancePolicy{}, err
	}
	return p, nil
}

// PolicyView pairs a stored policy with its status derived at read
// time.
type PolicyView struct {
	Policy domain.InsurancePolicy
	Status domain.PolicyStatus
}

// VehiclePolicies lists a vehicle's insurance policies with derived
// statuses.
func (s *FleetService) VehiclePolicies(ctx context.Context, vehicleID string) ([]PolicyView, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	policies, err := s.policies.ListPoliciesByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]PolicyView, 0, len(policies))
	for _, p := range policies {
		views = append(views, PolicyView{Policy: p, Status: p.StatusAt(now)})
	}
	return views, nil
}
