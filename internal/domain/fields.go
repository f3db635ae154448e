package domain

// FieldType describes how a transition field should be captured and
// validated by callers.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldInt      FieldType = "int"
	FieldCurrency FieldType = "currency"
	FieldDate     FieldType = "date"
	FieldDatetime FieldType = "datetime"
	FieldSelect   FieldType = "select"
	FieldCheck    FieldType = "check"
	FieldNote     FieldType = "note"
)

// FieldSpec describes one payload field a transition expects. The list
// returned by RequiredFields is advisory for callers building forms; the
// applier re-checks Required fields at apply time regardless.
type FieldSpec struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	// Options constrains select fields to a fixed set of values.
	Options []string
}

type edgeKey struct {
	from Status
	to   Status
}

// transitionFields maps each (from, to) pair to the extra data it needs.
// Pairs not listed require nothing beyond the bare status change.
var transitionFields = map[edgeKey][]FieldSpec{
	{StatusAvailable, StatusReserved}: {
		{Name: "driver", Label: "Customer", Type: FieldText, Required: true},
		{Name: "start_time", Label: "Start Time", Type: FieldDatetime, Required: true},
		{Name: "end_time", Label: "End Time", Type: FieldDatetime, Required: true},
		{Name: "pickup_location", Label: "Pickup Location", Type: FieldText},
		{Name: "drop_location", Label: "Drop Location", Type: FieldText},
	},
	{StatusReserved, StatusOutForDelivery}: {
		{Name: "out_driver", Label: "Driver", Type: FieldText},
		{Name: "out_date_time", Label: "Delivery Date & Time", Type: FieldDatetime, Required: true},
		{Name: "out_mileage", Label: "Out Mileage (KM)", Type: FieldInt, Required: true},
		{Name: "out_fuel_level", Label: "Out Fuel Level", Type: FieldText},
	},
	{StatusOutForDelivery, StatusRentedOut}: {
		{Name: "agreement_no", Label: "Agreement No", Type: FieldText, Required: true},
		{Name: "out_customer", Label: "Customer", Type: FieldText, Required: true},
		{Name: "out_from", Label: "Delivery Location", Type: FieldText},
	},
	{StatusReserved, StatusRentedOut}: {
		{Name: "agreement_no", Label: "Agreement No", Type: FieldText, Required: true},
		{Name: "out_customer", Label: "Customer", Type: FieldText, Required: true},
		{Name: "out_date_time", Label: "Handover Date & Time", Type: FieldDatetime, Required: true},
		{Name: "out_mileage", Label: "Out Mileage (KM)", Type: FieldInt},
	},
	{StatusRentedOut, StatusDueForReturn}: {
		{Name: "expected_return_date", Label: "Expected Return Date", Type: FieldDatetime, Required: true},
		{Name: "return_location", Label: "Return Location", Type: FieldText},
	},
	{StatusDueForReturn, StatusInspection}: {
		{Name: "in_date_time", Label: "Return Date & Time", Type: FieldDatetime, Required: true},
		{Name: "in_mileage", Label: "Return Mileage (KM)", Type: FieldInt, Required: true},
		{Name: "in_fuel_level", Label: "Return Fuel Level", Type: FieldText},
		{Name: "in_notes", Label: "Inspection Notes", Type: FieldNote},
	},
	{StatusInspection, StatusAvailable}: {
		{Name: "inspection_status", Label: "Inspection Status", Type: FieldSelect, Required: true, Options: []string{"Pass", "Fail"}},
		{Name: "inspection_notes", Label: "Inspection Comments", Type: FieldNote},
	},
	{StatusInspection, StatusAtGarage}: {
		{Name: "garage_reason", Label: "Reason", Type: FieldText, Required: true},
		{Name: "damage_description", Label: "Damage Description", Type: FieldNote},
	},
	{StatusAvailable, StatusUnderMaintenance}: {
		{Name: "service_type", Label: "Service Type", Type: FieldText, Required: true},
		{Name: "description", Label: "Description", Type: FieldText, Required: true},
		{Name: "date", Label: "Service Date", Type: FieldDate, Required: true},
		{Name: "cost", Label: "Estimated Cost", Type: FieldCurrency},
		{Name: "vendor", Label: "Vendor", Type: FieldText},
		{Name: "note", Label: "Notes", Type: FieldNote},
	},
	{StatusAtGarage, StatusUnderMaintenance}: {
		{Name: "service_type", Label: "Service Type", Type: FieldText, Required: true},
		{Name: "description", Label: "Description", Type: FieldText, Required: true},
		{Name: "date", Label: "Service Date", Type: FieldDate, Required: true},
		{Name: "cost", Label: "Estimated Cost", Type: FieldCurrency},
		{Name: "vendor", Label: "Vendor", Type: FieldText},
	},
	{StatusInspection, StatusUnderMaintenance}: {
		{Name: "service_type", Label: "Service Type", Type: FieldText, Required: true},
		{Name: "description", Label: "Description", Type: FieldText, Required: true},
		{Name: "date", Label: "Service Date", Type: FieldDate, Required: true},
		{Name: "cost", Label: "Estimated Cost", Type: FieldCurrency},
	},
	{StatusAvailable, StatusAccidentRepair}: {
		{Name: "accident_date", Label: "Accident Date", Type: FieldDate, Required: true},
		{Name: "accident_description", Label: "Accident Description", Type: FieldNote, Required: true},
		{Name: "repair_cost", Label: "Estimated Repair Cost", Type: FieldCurrency},
		{Name: "insurance_claim", Label: "Insurance Claim", Type: FieldCheck},
	},
	{StatusRentedOut, StatusAccidentRepair}: {
		{Name: "accident_date", Label: "Accident Date", Type: FieldDate, Required: true},
		{Name: "accident_description", Label: "Accident Description", Type: FieldNote, Required: true},
		{Name: "driver_involved", Label: "Driver Involved", Type: FieldText},
		{Name: "repair_cost", Label: "Estimated Repair Cost", Type: FieldCurrency},
		{Name: "insurance_claim", Label: "Insurance Claim", Type: FieldCheck},
	},
	{StatusAtGarage, StatusAccidentRepair}: {
		{Name: "accident_date", Label: "Accident Date", Type: FieldDate, Required: true},
		{Name: "accident_description", Label: "Accident Description", Type: FieldNote, Required: true},
		{Name: "repair_cost", Label: "Estimated Repair Cost", Type: FieldCurrency},
	},
	{StatusUnderMaintenance, StatusAvailable}: {
		{Name: "service_completed", Label: "Service Completed", Type: FieldCheck, Required: true},
		{Name: "completion_notes", Label: "Completion Notes", Type: FieldNote},
	},
	{StatusAccidentRepair, StatusAvailable}: {
		{Name: "repair_completed", Label: "Repair Completed", Type: FieldCheck, Required: true},
		{Name: "repair_notes", Label: "Repair Notes", Type: FieldNote},
		{Name: "final_cost", Label: "Final Repair Cost", Type: FieldCurrency},
	},
	{StatusAtGarage, StatusAvailable}: {
		{Name: "garage_clearance", Label: "Cleared for Use", Type: FieldCheck, Required: true},
		{Name: "clearance_notes", Label: "Clearance Notes", Type: FieldNote},
	},
}

// RequiredFields returns the ordered field specs for the given transition,
// or nil when the pair needs no extra data.
func RequiredFields(from, to Status) []FieldSpec {
	return transitionFields[edgeKey{from, to}]
}

// MissingRequired returns the names of Required fields absent from the
// payload, in spec order.
func MissingRequired(from, to Status, p Payload) []string {
	var missing []string
	for _, f := range RequiredFields(from, to) {
		if f.Required && !p.Has(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
