package domain

import "time"

// ReservationStatus is the booking's own lifecycle, independent of the
// vehicle status.
type ReservationStatus string

const (
	ReservationNew       ReservationStatus = "New"
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationCompleted ReservationStatus = "Completed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

// Reservation is a booking spanning a start and end timestamp for a
// vehicle and a customer.
type Reservation struct {
	ID             string
	VehicleID      string
	Customer       string
	StartTime      time.Time
	EndTime        time.Time
	PickupLocation string
	DropLocation   string
	Status         ReservationStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (*Reservation) DocKind() string { return "Reservation" }

// Active reports whether the reservation still blocks the vehicle's
// calendar.
func (r *Reservation) Active() bool {
	return r.Status == ReservationNew || r.Status == ReservationConfirmed
}

// Validate checks the reservation's own invariants.
func (r *Reservation) Validate() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return &InvalidDocumentError{Reason: "reservation needs both a start and an end time"}
	}
	if !r.EndTime.After(r.StartTime) {
		return &InvalidDocumentError{Reason: "reservation end time must be after its start time"}
	}
	return nil
}

// Overlaps reports whether the reservation's span intersects
// [start, end]. Boundaries count as overlap: a booking ending exactly
// when another starts still blocks it, matching the calendar rule used
// at the counter.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return !r.StartTime.After(end) && !r.EndTime.Before(start)
}
