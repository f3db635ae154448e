package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for simple not-found conditions.
var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPricingPlanNotFound = errors.New("pricing plan not found")
)

// InvalidStateError is returned when a target status is not part of the
// recognized enumeration at all.
type InvalidStateError struct {
	State Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%q is not a valid vehicle status", e.State)
}

// DisallowedTransitionError is returned when both statuses are
// recognized but no edge connects them.
type DisallowedTransitionError struct {
	From Status
	To   Status
}

func (e *DisallowedTransitionError) Error() string {
	return fmt.Sprintf("transition from %q to %q is not allowed", e.From, e.To)
}

// MissingFieldError is returned when a required payload field is absent
// or empty at apply time.
type MissingFieldError struct {
	Field string
	From  Status
	To    Status
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q is required for transition %q -> %q", e.Field, e.From, e.To)
}

// OverlapError is returned when a new reservation would intersect an
// active one for the same vehicle.
type OverlapError struct {
	VehicleID     string
	ReservationID string
	Start         time.Time
	End           time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("vehicle %s is already reserved from %s to %s (reservation %s)",
		e.VehicleID,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339),
		e.ReservationID,
	)
}

// ConflictError is returned when a concurrent modification is detected,
// either by the stale from-state check or by the version check at commit.
type ConflictError struct {
	VehicleID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vehicle %s was modified concurrently", e.VehicleID)
}

// InvalidDocumentError is returned when a document violates one of its
// own invariants (date order, duplicate plate and the like).
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return e.Reason
}

// UpstreamError is returned when an external collaborator fails, times
// out, or answers with something unparseable. It carries the
// collaborator identity and the raw HTTP status when one was received.
type UpstreamError struct {
	Service string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream failure (status %d): %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: upstream failure: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
