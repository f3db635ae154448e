package domain

import "time"

// Direction classifies a movement as the vehicle leaving the fleet's
// hands (outbound) or coming back (inbound).
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Movement is an append-only audit entry of a physical handover or
// return event. Once written it is never updated.
type Movement struct {
	ID           string
	VehicleID    string
	MovementType string
	Direction    Direction
	AgreementNo  string
	Date         time.Time

	OutDateTime  time.Time
	OutFrom      string
	OutCustomer  string
	OutDriver    string
	OutMileage   int64
	OutFuelLevel string
	OutNotes     string

	InDateTime  time.Time
	InTo        string
	InCustomer  string
	InDriver    string
	InMileage   int64
	InFuelLevel string
	InNotes     string

	CreatedAt time.Time
}

// DocKind identifies the document type on results and pending documents.
func (*Movement) DocKind() string { return "Vehicle Movement" }

// movementTypes names the operational event behind each transition.
var movementTypes = map[edgeKey]string{
	{StatusAvailable, StatusReserved}:        "Reservation",
	{StatusReserved, StatusOutForDelivery}:   "Dispatch",
	{StatusAvailable, StatusOutForDelivery}:  "Dispatch",
	{StatusOutForDelivery, StatusRentedOut}:  "Handover",
	{StatusReserved, StatusRentedOut}:        "Handover",
	{StatusAvailable, StatusRentedOut}:       "Walk-in Handover",
	{StatusRentedOut, StatusDueForReturn}:    "Recall",
	{StatusDueForReturn, StatusInspection}:   "Check-in",
	{StatusInspection, StatusAvailable}:      "Ready",
	{StatusInspection, StatusAtGarage}:       "Send to Workshop",
	{StatusAvailable, StatusAtGarage}:        "Send to Workshop",
	{StatusAtGarage, StatusAvailable}:        "Return from Workshop",
	{StatusUnderMaintenance, StatusAvailable}: "Return from Workshop",
	{StatusRentedOut, StatusAccidentRepair}:  "Incident",
	{StatusAccidentRepair, StatusAtGarage}:   "Tow to Workshop",
	{StatusDeactivated, StatusAvailable}:     "Reactivate",
}

// MovementTypeFor returns the event name recorded on movements created
// for the given transition, defaulting to a plain status change.
func MovementTypeFor(from, to Status) string {
	if mt, ok := movementTypes[edgeKey{from, to}]; ok {
		return mt
	}
	return "Status Change"
}

// MovementFilter narrows a movement history query.
type MovementFilter struct {
	From         *time.Time
	To           *time.Time
	MovementType string
	Limit        int
	Offset       int
}
