package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openrental/fleetd/internal/domain"
)

// Deps bundles the adapters a FleetService needs. Analyzer and Decoder
// are optional; the corresponding operations fail with an upstream
// error when they are absent.
type Deps struct {
	Vehicles     domain.VehicleRepository
	Store        domain.TransitionStore
	Movements    domain.MovementRepository
	Reservations domain.ReservationRepository
	Services     domain.ServiceRepository
	Customers    domain.CustomerRepository
	Plans        domain.PricingPlanRepository
	Policies     domain.InsuranceRepository
	Workflows    domain.WorkflowRepository
	Validator    domain.TransitionValidator
	Publisher    domain.EventPublisher
	Analyzer     domain.DocumentAnalyzer
	Decoder      domain.VINDecoder
	Logger       *slog.Logger
}

// FleetService orchestrates fleet operations: vehicle onboarding, the
// status transition pipeline, bookings, workshop jobs, customer records
// and rate cards.
type FleetService struct {
	vehicles     domain.VehicleRepository
	store        domain.TransitionStore
	movements    domain.MovementRepository
	reservations domain.ReservationRepository
	services     domain.ServiceRepository
	customers    domain.CustomerRepository
	plans        domain.PricingPlanRepository
	policies     domain.InsuranceRepository
	workflows    domain.WorkflowRepository
	validator    domain.TransitionValidator
	publisher    domain.EventPublisher
	analyzer     domain.DocumentAnalyzer
	decoder      domain.VINDecoder
	logger       *slog.Logger
	now          func() time.Time
}

// NewFleetService creates a service with the given adapters.
func NewFleetService(deps Deps) *FleetService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FleetService{
		vehicles:     deps.Vehicles,
		store:        deps.Store,
		movements:    deps.Movements,
		reservations: deps.Reservations,
		services:     deps.Services,
		customers:    deps.Customers,
		plans:        deps.Plans,
		policies:     deps.Policies,
		workflows:    deps.Workflows,
		validator:    deps.Validator,
		publisher:    deps.Publisher,
		analyzer:     deps.Analyzer,
		decoder:      deps.Decoder,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// OnboardInput holds the descriptive fields accepted when registering a
// vehicle.
type OnboardInput struct {
	LicensePlate  string
	ChassisNumber string
	VIN           string
	Make          string
	Model         string
	ModelYear     int
	Color         string
	FuelType      string
	Transmission  string
	Location      string
	LastOdometer  int64
}

// OnboardVehicle registers a new vehicle in the Available state.
func (s *FleetService) OnboardVehicle(ctx context.Context, in OnboardInput) (domain.Vehicle, error) {
	if in.LicensePlate == "" {
		return domain.Vehicle{}, &domain.InvalidDocumentError{Reason: "license plate is required"}
	}

	v := domain.NewVehicle(newID(), in.LicensePlate, in.ChassisNumber)
	v.VIN = in.VIN
	v.Make = in.Make
	v.Model = in.Model
	v.ModelYear = in.ModelYear
	v.Color = in.Color
	v.FuelType = in.FuelType
	v.Transmission = in.Transmission
	v.Location = in.Location
	v.LastOdometer = in.LastOdometer

	if err := s.vehicles.Create(ctx, v); err != nil {
		return domain.Vehicle{}, fmt.Errorf("creating vehicle: %w", err)
	}
	return v, nil
}

// GetVehicle returns a vehicle by its unique identifier.
func (s *FleetService) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

// GetVehicleByPlate returns a vehicle by its license plate.
func (s *FleetService) GetVehicleByPlate(ctx context.Context, plate string) (domain.Vehicle, error) {
	return s.vehicles.GetByPlate(ctx, plate)
}

// ListVehicles returns vehicles matching the given filter.
func (s *FleetService) ListVehicles(ctx context.Context, filter domain.ListFilter) ([]domain.Vehicle, error) {
	return s.vehicles.List(ctx, filter)
}

// BoardColumn is one kanban column: a status, its display style, and
// the vehicles currently in it.
type BoardColumn struct {
	Status   domain.Status
	Style    string
	Vehicles []domain.Vehicle
}

// columnStyles drives the board's visual grouping per status.
var columnStyles = map[domain.Status]string{
	domain.StatusAvailable:        "Success",
	domain.StatusReserved:         "Info",
	domain.StatusOutForDelivery:   "Warning",
	domain.StatusRentedOut:        "Primary",
	domain.StatusDueForReturn:     "Warning",
	domain.StatusInspection:       "Info",
	domain.StatusAtGarage:         "Default",
	domain.StatusUnderMaintenance: "Warning",
	domain.StatusAccidentRepair:   "Danger",
	domain.StatusDeactivated:      "Danger",
}

// Board groups the whole fleet by status, one column per status in
// fixed board order. Empty columns are included so the board shape is
// stable.
func (s *FleetService) Board(ctx context.Context) ([]BoardColumn, error) {
	all, err := s.vehicles.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}

	byStatus := make(map[domain.Status][]domain.Vehicle, len(domain.AllStatuses))
	for _, v := range all {
		byStatus[v.Status] = append(byStatus[v.Status], v)
	}

	columns := make([]BoardColumn, 0, len(domain.AllStatuses))
	for _, st := range domain.AllStatuses {
		columns = append(columns, BoardColumn{
			Status:   st,
			Style:    columnStyles[st],
			Vehicles: byStatus[st],
		})
	}
	return columns, nil
}
