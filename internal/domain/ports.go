package domain

import (
	"context"
	"time"
)

// CreatedDoc identifies one document created by an applied transition.
type CreatedDoc struct {
	Type string
	ID   string
}

// TransitionEvent is the snapshot published after a committed transition.
type TransitionEvent struct {
	VehicleID    string
	LicensePlate string
	From         Status
	To           Status
	Action       string
	CreatedDocs  []CreatedDoc
	OccurredAt   time.Time
}

// TransitionValidator decides whether a status change is permitted.
// A nil return means allowed; otherwise the error is an
// *InvalidStateError or *DisallowedTransitionError. Validation never
// mutates anything.
type TransitionValidator interface {
	Validate(ctx context.Context, from, to Status) error
}

// WorkflowEdge is one row of an externally configured workflow
// definition. Role is informational metadata; it is stored and returned
// but not enforced here.
type WorkflowEdge struct {
	DocumentType string
	FromState    Status
	Action       string
	ToState      Status
	Role         string
}

// WorkflowSource supplies dynamically configured edges. An empty result
// means no workflow is defined and the static table is authoritative.
type WorkflowSource interface {
	Edges(ctx context.Context, documentType string) ([]WorkflowEdge, error)
}

// WorkflowRepository additionally configures workflow definitions.
// ReplaceWorkflow swaps the whole edge set for a document type; an empty
// set removes the override and restores the static table.
type WorkflowRepository interface {
	WorkflowSource
	ReplaceWorkflow(ctx context.Context, documentType string, edges []WorkflowEdge) error
}

// VehicleRepository is the persistence contract for vehicles. Update
// performs an optimistic version check and returns *ConflictError when
// the stored version has moved on.
type VehicleRepository interface {
	Create(ctx context.Context, v Vehicle) error
	GetByID(ctx context.Context, id string) (Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (Vehicle, error)
	List(ctx context.Context, filter ListFilter) ([]Vehicle, error)
	Update(ctx context.Context, v Vehicle) (Vehicle, error)
}

// TransitionStore applies a validated transition as a single atomic
// unit: every pending document is inserted in order, reservation
// inserts re-check the overlap invariant under the same transaction,
// and the vehicle row is updated with a version check. Any failure
// rolls the whole unit back.
type TransitionStore interface {
	ApplyTransition(ctx context.Context, v Vehicle, docs []PendingDocument) ([]CreatedDoc, error)
}

// MovementRepository reads the append-only movement log.
type MovementRepository interface {
	ListMovements(ctx context.Context, vehicleID string, filter MovementFilter) ([]Movement, int64, error)
}

// ReservationRepository manages bookings outside the transition path.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, r Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservationsByVehicle(ctx context.Context, vehicleID string) ([]Reservation, error)
	SetReservationStatus(ctx context.Context, id string, status ReservationStatus) error
	// ActiveOverlapping returns active reservations whose span intersects
	// [start, end] for the vehicle, excluding the given reservation id.
	ActiveOverlapping(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) ([]Reservation, error)
}

// ServiceRepository reads workshop jobs.
type ServiceRepository interface {
	ListServiceJobs(ctx context.Context, vehicleID string) ([]ServiceJob, error)
	SetServiceStatus(ctx context.Context, id string, status ServiceStatus, completion time.Time) error
}

// CustomerRepository is the persistence contract for customers.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c Customer) error
	GetCustomer(ctx context.Context, id string) (Customer, error)
	UpdateCustomer(ctx context.Context, c Customer) error
}

// PricingPlanRepository is the persistence contract for rate cards.
type PricingPlanRepository interface {
	CreatePricingPlan(ctx context.Context, p PricingPlan) error
	GetPricingPlan(ctx context.Context, id string) (PricingPlan, error)
	ListPricingPlans(ctx context.Context) ([]PricingPlan, error)
}

// InsuranceRepository is the persistence contract for policies.
type InsuranceRepository interface {
	CreatePolicy(ctx context.Context, p InsurancePolicy) error
	ListPoliciesByVehicle(ctx context.Context, vehicleID string) ([]InsurancePolicy, error)
}

// EventPublisher emits transition events for asynchronous consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event TransitionEvent) error
}

// DocumentAnalyzer is the external document-analysis collaborator. It
// returns an untrusted field-name to value mapping extracted from a
// scanned identity document.
type DocumentAnalyzer interface {
	AnalyzeURL(ctx context.Context, fileURL string) (map[string]string, error)
}

// VINDecoder is the external vehicle-data collaborator. It returns a
// flat attribute mapping for a VIN.
type VINDecoder interface {
	Decode(ctx context.Context, vin string, modelYear int) (map[string]string, error)
}
