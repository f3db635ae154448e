package domain

import "time"

// PendingDocument is a side-effect document described but not yet
// persisted. Building and persisting are separate so the applier can
// validate the whole set before committing any of it.
type PendingDocument interface {
	DocKind() string
}

// Archetype names the document shape a transition produces. Exactly one
// archetype is selected per call, from the transition pair and the
// payload keys that are present, never from payload ordering.
type Archetype string

const (
	ArchetypeNone            Archetype = "none"
	ArchetypeReservation     Archetype = "reservation"
	ArchetypeOutboundMove    Archetype = "outbound_movement"
	ArchetypeInboundMove     Archetype = "inbound_movement"
	ArchetypeService         Archetype = "service"
	ArchetypeAccidentService Archetype = "accident_service"
)

// inboundSources are the states a vehicle physically comes back from.
var inboundSources = map[Status]bool{
	StatusRentedOut:        true,
	StatusDueForReturn:     true,
	StatusInspection:       true,
	StatusAtGarage:         true,
	StatusUnderMaintenance: true,
	StatusAccidentRepair:   true,
}

// SelectArchetype decides which document shape the transition produces.
func SelectArchetype(from, to Status, p Payload) Archetype {
	switch {
	case from == to:
		return ArchetypeNone
	case from == StatusAvailable && to == StatusReserved:
		return ArchetypeReservation
	case to == StatusUnderMaintenance:
		return ArchetypeService
	case to == StatusAccidentRepair:
		return ArchetypeAccidentService
	case to == StatusOutForDelivery, to == StatusRentedOut:
		// Out for Delivery -> Rented Out only logs a movement when the
		// agreement number is known; otherwise the handover was already
		// recorded at dispatch time.
		if from == StatusOutForDelivery && !p.Has("agreement_no") {
			return ArchetypeNone
		}
		return ArchetypeOutboundMove
	case to == StatusInspection && from == StatusDueForReturn:
		return ArchetypeInboundMove
	case to == StatusAvailable && inboundSources[from]:
		return ArchetypeInboundMove
	default:
		return ArchetypeNone
	}
}

// BuildSideEffects constructs the pending documents for a transition.
// It is pure: nothing is persisted, IDs are left empty for the applier
// to assign, and "now" is injected for deterministic defaults.
//
// Field derivation: each document field is copied from the payload by
// matching name, or defaulted: dates to now, outbound mileage to the
// vehicle's last recorded odometer.
func BuildSideEffects(v Vehicle, from, to Status, p Payload, now time.Time) []PendingDocument {
	switch SelectArchetype(from, to, p) {
	case ArchetypeReservation:
		return []PendingDocument{buildReservation(v, p, now)}
	case ArchetypeOutboundMove:
		return []PendingDocument{buildOutboundMovement(v, from, to, p, now)}
	case ArchetypeInboundMove:
		return []PendingDocument{buildInboundMovement(v, from, to, p, now)}
	case ArchetypeService:
		return []PendingDocument{buildServiceJob(v, p, now)}
	case ArchetypeAccidentService:
		return []PendingDocument{buildAccidentServiceJob(v, p, now)}
	default:
		return nil
	}
}

func buildReservation(v Vehicle, p Payload, now time.Time) *Reservation {
	return &Reservation{
		VehicleID:      v.ID,
		Customer:       p.String("driver"),
		StartTime:      p.Time("start_time"),
		EndTime:        p.Time("end_time"),
		PickupLocation: p.String("pickup_location"),
		DropLocation:   p.String("drop_location"),
		Status:         ReservationNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func buildOutboundMovement(v Vehicle, from, to Status, p Payload, now time.Time) *Movement {
	mileage := v.LastOdometer
	if p.Has("out_mileage") {
		mileage = p.Int64("out_mileage")
	}
	return &Movement{
		VehicleID:    v.ID,
		MovementType: MovementTypeFor(from, to),
		Direction:    DirectionOutbound,
		AgreementNo:  p.String("agreement_no"),
		Date:         p.TimeOr("date", now),
		OutDateTime:  p.TimeOr("out_date_time", now),
		OutFrom:      p.String("out_from"),
		OutCustomer:  p.String("out_customer"),
		OutDriver:    p.String("out_driver"),
		OutMileage:   mileage,
		OutFuelLevel: p.String("out_fuel_level"),
		OutNotes:     p.String("out_notes"),
		CreatedAt:    now,
	}
}

func buildInboundMovement(v Vehicle, from, to Status, p Payload, now time.Time) *Movement {
	return &Movement{
		VehicleID:    v.ID,
		MovementType: MovementTypeFor(from, to),
		Direction:    DirectionInbound,
		AgreementNo:  p.String("agreement_no"),
		Date:         p.TimeOr("date", now),
		InDateTime:   p.TimeOr("in_date_time", now),
		InTo:         p.String("in_to"),
		InCustomer:   p.String("in_customer"),
		InDriver:     p.String("in_driver"),
		InMileage:    p.Int64("in_mileage"),
		InFuelLevel:  p.String("in_fuel_level"),
		InNotes:      p.String("in_notes"),
		CreatedAt:    now,
	}
}

func buildServiceJob(v Vehicle, p Payload, now time.Time) *ServiceJob {
	job := &ServiceJob{
		VehicleID:     v.ID,
		ServiceType:   p.String("service_type"),
		Description:   p.String("description"),
		ScheduledDate: p.TimeOr("date", now),
		LaborCost:     p.Float64("labor_cost"),
		PartsCost:     p.Float64("parts_cost"),
		OtherCost:     p.Float64("other_cost"),
		Vendor:        p.String("vendor"),
		Note:          p.String("note"),
		Status:        ServiceToDo,
		CreatedAt:     now,
	}
	// A single estimated "cost" lands in the other bucket when no
	// breakdown was supplied.
	if job.LaborCost == 0 && job.PartsCost == 0 && job.OtherCost == 0 {
		job.OtherCost = p.Float64("cost")
	}
	job.ComputeTotal()
	return job
}

func buildAccidentServiceJob(v Vehicle, p Payload, now time.Time) *ServiceJob {
	serviceType := p.String("service_type")
	if serviceType == "" {
		serviceType = "Repair"
	}
	desc := p.String("accident_description")
	if desc == "" {
		desc = "No description"
	}
	claim := "No"
	if p.Bool("insurance_claim") {
		claim = "Yes"
	}
	job := &ServiceJob{
		VehicleID:     v.ID,
		ServiceType:   serviceType,
		Description:   "Accident/Repair - " + desc,
		ScheduledDate: p.TimeOr("accident_date", now),
		OtherCost:     p.Float64("repair_cost"),
		Vendor:        p.String("vendor"),
		Note: "Accident Date: " + p.String("accident_date") +
			"\nDescription: " + desc +
			"\nInsurance Claim: " + claim,
		Status:    ServiceToDo,
		CreatedAt: now,
	}
	job.ComputeTotal()
	return job
}
