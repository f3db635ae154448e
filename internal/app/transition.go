package app

import (
	"context"
	"fmt"

	"github.com/openrental/fleetd/internal/domain"
)

// TransitionResult is what a successful apply reports back: the updated
// vehicle, the documents created alongside the status change, and any
// non-fatal warnings gathered after commit.
type TransitionResult struct {
	Vehicle     domain.Vehicle
	CreatedDocs []domain.CreatedDoc
	Warnings    []string
}

// Preflight describes a candidate transition without performing it.
type Preflight struct {
	Allowed       bool
	Reason        string
	RequiresInput bool
	Fields        []domain.FieldSpec
}

// PreflightTransition reports whether the transition is permitted and
// which extra fields the caller must collect before applying it. It
// never mutates anything.
func (s *FleetService) PreflightTransition(ctx context.Context, id string, to domain.Status) (Preflight, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return Preflight{}, err
	}

	if err := s.validator.Validate(ctx, v.Status, to); err != nil {
		return Preflight{Allowed: false, Reason: err.Error()}, nil
	}

	fields := domain.RequiredFields(v.Status, to)
	requires := false
	for _, f := range fields {
		if f.Required {
			requires = true
			break
		}
	}
	return Preflight{Allowed: true, RequiresInput: requires, Fields: fields}, nil
}

// ApplyTransition moves a vehicle from one status to another, creating
// the transition's side-effect documents in the same atomic unit as the
// status change. The from status must match the vehicle's current
// status; a mismatch means the caller acted on a stale read and is
// reported as a conflict.
//
// Applying a transition where from equals to and matches the current
// status is a no-op that succeeds without touching the vehicle or
// creating documents.
func (s *FleetService) ApplyTransition(ctx context.Context, id string, from, to domain.Status, payload domain.Payload) (TransitionResult, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return TransitionResult{}, err
	}

	if from == to {
		if !domain.IsValidStatus(from) {
			return TransitionResult{}, &domain.InvalidStateError{State: from}
		}
		// Only a no-op when the caller's view matches reality; a
		// same-state request against a different current status is
		// still a stale read.
		if v.Status != from {
			return TransitionResult{}, &domain.ConflictError{VehicleID: v.ID}
		}
		return TransitionResult{Vehicle: v}, nil
	}

	if v.Status != from {
		return TransitionResult{}, &domain.ConflictError{VehicleID: v.ID}
	}

	if err := s.validator.Validate(ctx, from, to); err != nil {
		return TransitionResult{}, err
	}

	if missing := domain.MissingRequired(from, to, payload); len(missing) > 0 {
		return TransitionResult{}, &domain.MissingFieldError{Field: missing[0], From: from, To: to}
	}

	now := s.now()
	docs := domain.BuildSideEffects(v, from, to, payload, now)
	for _, doc := range docs {
		assignDocID(doc)
	}

	updated := v
	updated.Status = to
	updated.UpdatedAt = now
	applyConvenienceFields(&updated, payload)

	created, err := s.store.ApplyTransition(ctx, updated, docs)
	if err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{CreatedDocs: created}
	result.Vehicle, err = s.vehicles.GetByID(ctx, v.ID)
	if err != nil {
		// The commit already happened; fall back to the local copy rather
		// than reporting a failure for a transition that succeeded.
		s.logger.WarnContext(ctx, "re-read after transition failed", "vehicle_id", v.ID, "error", err)
		updated.Version++
		result.Vehicle = updated
	}

	event := domain.TransitionEvent{
		VehicleID:    v.ID,
		LicensePlate: v.LicensePlate,
		From:         from,
		To:           to,
		Action:       domain.ActionFor(from, to, domain.Edges),
		CreatedDocs:  created,
		OccurredAt:   now,
	}
	// The transition is already committed. A publish failure must not
	// undo it, so it surfaces as a warning instead of an error.
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "transition event publish failed",
			"vehicle_id", v.ID, "from", from, "to", to, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("event publish failed: %v", err))
	}

	return result, nil
}

// assignDocID stamps a fresh identifier on a pending document.
func assignDocID(doc domain.PendingDocument) {
	switch d := doc.(type) {
	case *domain.Reservation:
		d.ID = newID()
	case *domain.Movement:
		d.ID = newID()
	case *domain.ServiceJob:
		d.ID = newID()
	}
}

// applyConvenienceFields copies payload values that the board and list
// views read straight off the vehicle row.
func applyConvenienceFields(v *domain.Vehicle, p domain.Payload) {
	if p.Has("agreement_no") {
		v.CurrentAgreement = p.String("agreement_no")
	}
	if p.Has("driver") {
		v.Driver = p.String("driver")
	}
	if p.Has("location") {
		v.Location = p.String("location")
	}
	// Odometer only moves forward; an inbound reading wins over the
	// outbound one recorded at dispatch.
	for _, key := range []string{"in_mileage", "out_mileage", "odometer_value"} {
		if km := p.Int64(key); km > v.LastOdometer {
			v.LastOdometer = km
			break
		}
	}
}
