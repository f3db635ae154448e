package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

// --- Movements ---

type ListMovementsInput struct {
	ID           string `path:"id" doc:"Vehicle ID"`
	From         string `query:"from" required:"false" doc:"Earliest movement date (ISO 8601)"`
	To           string `query:"to" required:"false" doc:"Latest movement date (ISO 8601)"`
	MovementType string `query:"movement_type" required:"false" doc:"Filter by movement type"`
	Limit        int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset       int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListMovementsOutput struct {
	Body struct {
		Movements []MovementResponse `json:"movements"`
		Total     int64              `json:"total" doc:"Total matching entries"`
	}
}

// --- Reservations ---

type CreateReservationInput struct {
	Body struct {
		VehicleID      string    `json:"vehicle_id" minLength:"1" doc:"Vehicle ID"`
		Customer       string    `json:"customer,omitempty" doc:"Customer name or id"`
		StartTime      time.Time `json:"start_time" doc:"Booking start"`
		EndTime        time.Time `json:"end_time" doc:"Booking end"`
		PickupLocation string    `json:"pickup_location,omitempty"`
		DropLocation   string    `json:"drop_location,omitempty"`
	}
}

type CreateReservationOutput struct {
	Body ReservationResponse
}

type ListReservationsInput struct {
	ID string `path:"id" doc:"Vehicle ID"`
}

type ListReservationsOutput struct {
	Body []ReservationResponse
}

type CancelReservationInput struct {
	ID string `path:"id" doc:"Reservation ID"`
}

type CancelReservationOutput struct {
	Body ReservationResponse
}

// --- Service Jobs ---

type ListServiceJobsInput struct {
	ID string `path:"id" doc:"Vehicle ID"`
}

type ListServiceJobsOutput struct {
	Body []ServiceJobResponse
}

type CompleteServiceJobInput struct {
	ID   string `path:"id" doc:"Service job ID"`
	Body struct {
		CompletionDate time.Time `json:"completion_date,omitempty" doc:"Completion timestamp, defaults to now"`
	}
}

type CompleteServiceJobOutput struct {
	Status int
}

// --- Pricing ---

type CreatePricingPlanInput struct {
	Body struct {
		Name                  string  `json:"name" minLength:"1" doc:"Plan name"`
		DailyRate             float64 `json:"daily_rate" minimum:"0" doc:"Rate per day"`
		WeeklyRate            float64 `json:"weekly_rate,omitempty" minimum:"0" doc:"Rate per week"`
		MonthlyRate           float64 `json:"monthly_rate,omitempty" minimum:"0" doc:"Rate per month"`
		MileageIncludedPerDay int64   `json:"mileage_included_per_day,omitempty" minimum:"0" doc:"Included km per day"`
		ExtraKMRate           float64 `json:"extra_km_rate,omitempty" minimum:"0" doc:"Charge per extra km"`
	}
}

type CreatePricingPlanOutput struct {
	Body PricingPlanResponse
}

type ListPricingPlansOutput struct {
	Body []PricingPlanResponse
}

type QuoteRentalInput struct {
	ID         string `path:"id" doc:"Pricing plan ID"`
	Days       int    `query:"days" doc:"Rental duration in days"`
	ExpectedKM int64  `query:"expected_km" required:"false" doc:"Expected total mileage"`
}

type QuoteRentalOutput struct {
	Body struct {
		Plan          PricingPlanResponse `json:"plan"`
		Days          int                 `json:"days"`
		RateKind      string              `json:"rate_kind" doc:"Which rate won (Daily, Weekly, Monthly)"`
		RateTotal     float64             `json:"rate_total"`
		RatePerDay    float64             `json:"rate_per_day"`
		MileageCharge float64             `json:"mileage_charge"`
		Total         float64             `json:"total"`
	}
}

// --- Insurance ---

type CreatePolicyInput struct {
	Body struct {
		VehicleID    string    `json:"vehicle_id" minLength:"1" doc:"Vehicle ID"`
		PolicyNumber string    `json:"policy_number" minLength:"1" doc:"Policy number"`
		Provider     string    `json:"provider,omitempty" doc:"Insurance provider"`
		StartDate    time.Time `json:"start_date" doc:"Coverage start"`
		EndDate      time.Time `json:"end_date" doc:"Coverage end"`
	}
}

type CreatePolicyOutput struct {
	Body PolicyResponse
}

type ListPoliciesInput struct {
	ID string `path:"id" doc:"Vehicle ID"`
}

type ListPoliciesOutput struct {
	Body []PolicyResponse
}

func registerRentals(api huma.API, svc *app.FleetService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-vehicle-movements",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}/movements",
		Summary:     "Movement history for a vehicle",
		Tags:        []string{"Movements"},
	}, func(ctx context.Context, input *ListMovementsInput) (*ListMovementsOutput, error) {
		filter := domain.MovementFilter{
			MovementType: input.MovementType,
			Limit:        input.Limit,
			Offset:       input.Offset,
		}
		if input.From != "" {
			t, err := time.Parse(time.RFC3339, input.From)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("invalid from timestamp")
			}
			filter.From = &t
		}
		if input.To != "" {
			t, err := time.Parse(time.RFC3339, input.To)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("invalid to timestamp")
			}
			filter.To = &t
		}

		movements, total, err := svc.VehicleMovements(ctx, input.ID, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &ListMovementsOutput{}
		out.Body.Total = total
		out.Body.Movements = make([]MovementResponse, len(movements))
		for i, m := range movements {
			out.Body.Movements[i] = toMovementResponse(m)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-reservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations",
		Summary:     "Book a vehicle",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *CreateReservationInput) (*CreateReservationOutput, error) {
		r, err := svc.CreateReservation(ctx, app.BookingInput{
			VehicleID:      input.Body.VehicleID,
			Customer:       input.Body.Customer,
			StartTime:      input.Body.StartTime,
			EndTime:        input.Body.EndTime,
			PickupLocation: input.Body.PickupLocation,
			DropLocation:   input.Body.DropLocation,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateReservationOutput{Body: toReservationResponse(r)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-vehicle-reservations",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}/reservations",
		Summary:     "Reservations for a vehicle",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *ListReservationsInput) (*ListReservationsOutput, error) {
		reservations, err := svc.VehicleReservations(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ReservationResponse, len(reservations))
		for i, r := range reservations {
			resp[i] = toReservationResponse(r)
		}
		return &ListReservationsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-reservation",
		Method:      http.MethodPost,
		Path:        "/api/v1/reservations/{id}/cancel",
		Summary:     "Cancel a reservation",
		Tags:        []string{"Reservations"},
	}, func(ctx context.Context, input *CancelReservationInput) (*CancelReservationOutput, error) {
		r, err := svc.CancelReservation(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CancelReservationOutput{Body: toReservationResponse(r)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-vehicle-service-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}/service-jobs",
		Summary:     "Workshop jobs for a vehicle",
		Tags:        []string{"Service"},
	}, func(ctx context.Context, input *ListServiceJobsInput) (*ListServiceJobsOutput, error) {
		jobs, err := svc.VehicleServiceJobs(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ServiceJobResponse, len(jobs))
		for i, j := range jobs {
			resp[i] = toServiceJobResponse(j)
		}
		return &ListServiceJobsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "complete-service-job",
		Method:        http.MethodPost,
		Path:          "/api/v1/service-jobs/{id}/complete",
		Summary:       "Mark a workshop job completed",
		Tags:          []string{"Service"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *CompleteServiceJobInput) (*CompleteServiceJobOutput, error) {
		if err := svc.CompleteServiceJob(ctx, input.ID, input.Body.CompletionDate); err != nil {
			return nil, toHumaError(err)
		}
		return &CompleteServiceJobOutput{Status: http.StatusNoContent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-pricing-plan",
		Method:      http.MethodPost,
		Path:        "/api/v1/pricing-plans",
		Summary:     "Create a rate card",
		Tags:        []string{"Pricing"},
	}, func(ctx context.Context, input *CreatePricingPlanInput) (*CreatePricingPlanOutput, error) {
		p, err := svc.CreatePricingPlan(ctx, app.PlanInput{
			Name:                  input.Body.Name,
			DailyRate:             input.Body.DailyRate,
			WeeklyRate:            input.Body.WeeklyRate,
			MonthlyRate:           input.Body.MonthlyRate,
			MileageIncludedPerDay: input.Body.MileageIncludedPerDay,
			ExtraKMRate:           input.Body.ExtraKMRate,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreatePricingPlanOutput{Body: toPricingPlanResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-pricing-plans",
		Method:      http.MethodGet,
		Path:        "/api/v1/pricing-plans",
		Summary:     "List rate cards",
		Tags:        []string{"Pricing"},
	}, func(ctx context.Context, _ *struct{}) (*ListPricingPlansOutput, error) {
		plans, err := svc.ListPricingPlans(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]PricingPlanResponse, len(plans))
		for i, p := range plans {
			resp[i] = toPricingPlanResponse(p)
		}
		return &ListPricingPlansOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "quote-rental",
		Method:      http.MethodGet,
		Path:        "/api/v1/pricing-plans/{id}/quote",
		Summary:     "Price a rental against a plan",
		Tags:        []string{"Pricing"},
	}, func(ctx context.Context, input *QuoteRentalInput) (*QuoteRentalOutput, error) {
		q, err := svc.QuoteRental(ctx, input.ID, input.Days, input.ExpectedKM)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &QuoteRentalOutput{}
		out.Body.Plan = toPricingPlanResponse(q.Plan)
		out.Body.Days = q.Days
		out.Body.RateKind = q.Rate.Kind
		out.Body.RateTotal = q.Rate.Total
		out.Body.RatePerDay = q.Rate.PerDay
		out.Body.MileageCharge = q.MileageCharge
		out.Body.Total = q.Total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-insurance-policy",
		Method:      http.MethodPost,
		Path:        "/api/v1/insurance-policies",
		Summary:     "Register an insurance policy",
		Tags:        []string{"Insurance"},
	}, func(ctx context.Context, input *CreatePolicyInput) (*CreatePolicyOutput, error) {
		p, err := svc.CreateInsurancePolicy(ctx, app.PolicyInput{
			VehicleID:    input.Body.VehicleID,
			PolicyNumber: input.Body.PolicyNumber,
			Provider:     input.Body.Provider,
			StartDate:    input.Body.StartDate,
			EndDate:      input.Body.EndDate,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		view := app.PolicyView{Policy: p, Status: p.StatusAt(time.Now().UTC())}
		return &CreatePolicyOutput{Body: toPolicyResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-vehicle-insurance-policies",
		Method:      http.MethodGet,
		Path:        "/api/v1/vehicles/{id}/insurance-policies",
		Summary:     "Insurance policies for a vehicle",
		Tags:        []string{"Insurance"},
	}, func(ctx context.Context, input *ListPoliciesInput) (*ListPoliciesOutput, error) {
		views, err := svc.VehiclePolicies(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]PolicyResponse, len(views))
		for i, v := range views {
			resp[i] = toPolicyResponse(v)
		}
		return &ListPoliciesOutput{Body: resp}, nil
	})
}
