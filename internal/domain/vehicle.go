package domain

import "time"

// Status represents the operational state of a vehicle.
type Status string

const (
	StatusAvailable        Status = "Available"
	StatusReserved         Status = "Reserved"
	StatusOutForDelivery   Status = "Out for Delivery"
	StatusRentedOut        Status = "Rented Out"
	StatusDueForReturn     Status = "Due for Return"
	StatusInspection       Status = "Returned (Inspection)"
	StatusAtGarage         Status = "At Garage"
	StatusUnderMaintenance Status = "Under Maintenance"
	StatusAccidentRepair   Status = "Accident/Repair"
	StatusDeactivated      Status = "Deactivated"
)

// AllStatuses lists every recognized vehicle status in board order.
var AllStatuses = []Status{
	StatusAvailable,
	StatusReserved,
	StatusOutForDelivery,
	StatusRentedOut,
	StatusDueForReturn,
	StatusInspection,
	StatusAtGarage,
	StatusUnderMaintenance,
	StatusAccidentRepair,
	StatusDeactivated,
}

// IsValidStatus reports whether s is one of the recognized statuses.
func IsValidStatus(s Status) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Edge is a permitted status change. Action is the operator-facing verb
// that triggers it.
type Edge struct {
	From   Status
	Action string
	To     Status
}

// Edges is the static transition table. It is the validator's authority
// whenever no workflow definition is configured for vehicles.
var Edges = []Edge{
	{StatusAvailable, "Reserve", StatusReserved},
	{StatusAvailable, "Dispatch", StatusOutForDelivery},
	{StatusAvailable, "Walk-in Handover", StatusRentedOut},
	{StatusAvailable, "Send to Garage", StatusAtGarage},
	{StatusAvailable, "Start Maintenance", StatusUnderMaintenance},
	{StatusAvailable, "Report Accident", StatusAccidentRepair},
	{StatusAvailable, "Deactivate", StatusDeactivated},

	{StatusReserved, "Cancel Reservation", StatusAvailable},
	{StatusReserved, "Dispatch", StatusOutForDelivery},
	{StatusReserved, "Hand Over", StatusRentedOut},
	{StatusReserved, "Deactivate", StatusDeactivated},

	{StatusOutForDelivery, "Hand Over", StatusRentedOut},
	{StatusOutForDelivery, "Cancel Dispatch", StatusAvailable},
	{StatusOutForDelivery, "Back to Reserved", StatusReserved},

	{StatusRentedOut, "Mark Due for Return", StatusDueForReturn},
	{StatusRentedOut, "Send to Garage", StatusAtGarage},
	{StatusRentedOut, "Report Accident", StatusAccidentRepair},

	{StatusDueForReturn, "Check In", StatusInspection},

	{StatusInspection, "Release to Fleet", StatusAvailable},
	{StatusInspection, "Send to Garage", StatusAtGarage},
	{StatusInspection, "Start Maintenance", StatusUnderMaintenance},

	{StatusAtGarage, "Release to Fleet", StatusAvailable},
	{StatusAtGarage, "Start Maintenance", StatusUnderMaintenance},
	{StatusAtGarage, "Report Accident", StatusAccidentRepair},

	{StatusUnderMaintenance, "Job Done", StatusAvailable},
	{StatusUnderMaintenance, "Send to Garage", StatusAtGarage},

	{StatusAccidentRepair, "Tow to Workshop", StatusAtGarage},
	{StatusAccidentRepair, "Start Maintenance", StatusUnderMaintenance},
	{StatusAccidentRepair, "Repair Completed", StatusAvailable},

	{StatusDeactivated, "Reactivate", StatusAvailable},
}

// ActionFor returns the operator-facing action name for a transition, or
// "Status Change" when the pair is not in the table.
func ActionFor(from, to Status, edges []Edge) string {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return e.Action
		}
	}
	return "Status Change"
}

// AllowedTargets returns the statuses reachable from the given status
// according to the static table, in table order.
func AllowedTargets(from Status, edges []Edge) []Status {
	var out []Status
	for _, e := range edges {
		if e.From == from {
			out = append(out, e.To)
		}
	}
	return out
}

// Vehicle is the core fleet entity. Status changes only through the
// transition applier; everything else is descriptive.
type Vehicle struct {
	ID            string
	LicensePlate  string
	ChassisNumber string
	VIN           string
	Make          string
	Model         string
	ModelYear     int
	Color         string
	FuelType      string
	Transmission  string
	Status        Status
	Driver        string
	Location      string
	LastOdometer  int64
	// CurrentAgreement holds the active rental agreement number while the
	// vehicle is out, as a convenience for the board view.
	CurrentAgreement string
	// Version supports the optimistic-concurrency check on update.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewVehicle creates a vehicle in the initial "Available" state.
func NewVehicle(id, plate, chassis string) Vehicle {
	now := time.Now().UTC()
	return Vehicle{
		ID:            id,
		LicensePlate:  plate,
		ChassisNumber: chassis,
		Status:        StatusAvailable,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ListFilter holds optional criteria for listing vehicles.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}
