package http

import (
	"time"

	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

// VehicleResponse is the API representation of a vehicle.
type VehicleResponse struct {
	ID               string `json:"id" doc:"Unique identifier"`
	LicensePlate     string `json:"license_plate" doc:"Registration plate"`
	ChassisNumber    string `json:"chassis_number,omitempty" doc:"Chassis number"`
	VIN              string `json:"vin,omitempty" doc:"Vehicle identification number"`
	Make             string `json:"make,omitempty" doc:"Manufacturer"`
	Model            string `json:"model,omitempty" doc:"Model name"`
	ModelYear        int    `json:"model_year,omitempty" doc:"Model year"`
	Color            string `json:"color,omitempty" doc:"Color"`
	FuelType         string `json:"fuel_type,omitempty" doc:"Fuel type"`
	Transmission     string `json:"transmission,omitempty" doc:"Transmission style"`
	Status           string `json:"status" doc:"Operational status"`
	Driver           string `json:"driver,omitempty" doc:"Assigned driver"`
	Location         string `json:"location,omitempty" doc:"Current location"`
	LastOdometer     int64  `json:"last_odometer" doc:"Last recorded odometer (km)"`
	CurrentAgreement string `json:"current_agreement,omitempty" doc:"Active rental agreement number"`
	Version          int64  `json:"version" doc:"Concurrency version"`
	CreatedAt        string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt        string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toVehicleResponse(v domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:               v.ID,
		LicensePlate:     v.LicensePlate,
		ChassisNumber:    v.ChassisNumber,
		VIN:              v.VIN,
		Make:             v.Make,
		Model:            v.Model,
		ModelYear:        v.ModelYear,
		Color:            v.Color,
		FuelType:         v.FuelType,
		Transmission:     v.Transmission,
		Status:           string(v.Status),
		Driver:           v.Driver,
		Location:         v.Location,
		LastOdometer:     v.LastOdometer,
		CurrentAgreement: v.CurrentAgreement,
		Version:          v.Version,
		CreatedAt:        fmtTime(v.CreatedAt),
		UpdatedAt:        fmtTime(v.UpdatedAt),
	}
}

// CreatedDocResponse identifies one document created by a transition.
type CreatedDocResponse struct {
	Type string `json:"type" doc:"Document type"`
	ID   string `json:"id" doc:"Document identifier"`
}

func toCreatedDocs(docs []domain.CreatedDoc) []CreatedDocResponse {
	out := make([]CreatedDocResponse, len(docs))
	for i, d := range docs {
		out[i] = CreatedDocResponse{Type: d.Type, ID: d.ID}
	}
	return out
}

// MovementResponse is the API representation of a movement log entry.
type MovementResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	VehicleID    string `json:"vehicle_id" doc:"Vehicle identifier"`
	MovementType string `json:"movement_type" doc:"Operational event name"`
	Direction    string `json:"direction" doc:"outbound or inbound"`
	AgreementNo  string `json:"agreement_no,omitempty" doc:"Rental agreement number"`
	Date         string `json:"date" doc:"Movement date"`
	OutDateTime  string `json:"out_date_time,omitempty"`
	OutFrom      string `json:"out_from,omitempty"`
	OutCustomer  string `json:"out_customer,omitempty"`
	OutDriver    string `json:"out_driver,omitempty"`
	OutMileage   int64  `json:"out_mileage,omitempty"`
	OutFuelLevel string `json:"out_fuel_level,omitempty"`
	OutNotes     string `json:"out_notes,omitempty"`
	InDateTime   string `json:"in_date_time,omitempty"`
	InTo         string `json:"in_to,omitempty"`
	InCustomer   string `json:"in_customer,omitempty"`
	InDriver     string `json:"in_driver,omitempty"`
	InMileage    int64  `json:"in_mileage,omitempty"`
	InFuelLevel  string `json:"in_fuel_level,omitempty"`
	InNotes      string `json:"in_notes,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toMovementResponse(m domain.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		VehicleID:    m.VehicleID,
		MovementType: m.MovementType,
		Direction:    string(m.Direction),
		AgreementNo:  m.AgreementNo,
		Date:         fmtTime(m.Date),
		OutDateTime:  fmtTime(m.OutDateTime),
		OutFrom:      m.OutFrom,
		OutCustomer:  m.OutCustomer,
		OutDriver:    m.OutDriver,
		OutMileage:   m.OutMileage,
		OutFuelLevel: m.OutFuelLevel,
		OutNotes:     m.OutNotes,
		InDateTime:   fmtTime(m.InDateTime),
		InTo:         m.InTo,
		InCustomer:   m.InCustomer,
		InDriver:     m.InDriver,
		InMileage:    m.InMileage,
		InFuelLevel:  m.InFuelLevel,
		InNotes:      m.InNotes,
		CreatedAt:    fmtTime(m.CreatedAt),
	}
}

// ReservationResponse is the API representation of a booking.
type ReservationResponse struct {
	ID             string `json:"id" doc:"Unique identifier"`
	VehicleID      string `json:"vehicle_id" doc:"Vehicle identifier"`
	Customer       string `json:"customer,omitempty" doc:"Customer name or id"`
	StartTime      string `json:"start_time" doc:"Booking start"`
	EndTime        string `json:"end_time" doc:"Booking end"`
	PickupLocation string `json:"pickup_location,omitempty"`
	DropLocation   string `json:"drop_location,omitempty"`
	Status         string `json:"status" doc:"Booking status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func toReservationResponse(r domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:             r.ID,
		VehicleID:      r.VehicleID,
		Customer:       r.Customer,
		StartTime:      fmtTime(r.StartTime),
		EndTime:        fmtTime(r.EndTime),
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		Status:         string(r.Status),
		CreatedAt:      fmtTime(r.CreatedAt),
		UpdatedAt:      fmtTime(r.UpdatedAt),
	}
}

// ServiceJobResponse is the API representation of a workshop job.
type ServiceJobResponse struct {
	ID             string  `json:"id" doc:"Unique identifier"`
	VehicleID      string  `json:"vehicle_id" doc:"Vehicle identifier"`
	ServiceType    string  `json:"service_type,omitempty"`
	Description    string  `json:"description,omitempty"`
	ScheduledDate  string  `json:"scheduled_date,omitempty"`
	CompletionDate string  `json:"completion_date,omitempty"`
	LaborCost      float64 `json:"labor_cost"`
	PartsCost      float64 `json:"parts_cost"`
	OtherCost      float64 `json:"other_cost"`
	TotalCost      float64 `json:"total_cost"`
	Vendor         string  `json:"vendor,omitempty"`
	Note           string  `json:"note,omitempty"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

func toServiceJobResponse(s domain.ServiceJob) ServiceJobResponse {
	return ServiceJobResponse{
		ID:             s.ID,
		VehicleID:      s.VehicleID,
		ServiceType:    s.ServiceType,
		Description:    s.Description,
		ScheduledDate:  fmtTime(s.ScheduledDate),
		CompletionDate: fmtTime(s.CompletionDate),
		LaborCost:      s.LaborCost,
		PartsCost:      s.PartsCost,
		OtherCost:      s.OtherCost,
		TotalCost:      s.TotalCost,
		Vendor:         s.Vendor,
		Note:           s.Note,
		Status:         string(s.Status),
		CreatedAt:      fmtTime(s.CreatedAt),
	}
}

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	ID             string `json:"id" doc:"Unique identifier"`
	FullName       string `json:"full_name,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
	PassportExpiry string `json:"passport_expiry,omitempty"`
	PassportIssuer string `json:"passport_issuer,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	Gender         string `json:"gender,omitempty"`
	ScanImageURL   string `json:"scan_image_url,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func toCustomerResponse(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		FullName:       c.FullName,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		PassportNumber: c.PassportNumber,
		PassportExpiry: c.PassportExpiry,
		PassportIssuer: c.PassportIssuer,
		DateOfBirth:    c.DateOfBirth,
		Nationality:    c.Nationality,
		Gender:         c.Gender,
		ScanImageURL:   c.ScanImageURL,
		CreatedAt:      fmtTime(c.CreatedAt),
		UpdatedAt:      fmtTime(c.UpdatedAt),
	}
}

// PricingPlanResponse is the API representation of a rate card.
type PricingPlanResponse struct {
	ID                    string  `json:"id" doc:"Unique identifier"`
	Name                  string  `json:"name"`
	DailyRate             float64 `json:"daily_rate"`
	WeeklyRate            float64 `json:"weekly_rate,omitempty"`
	MonthlyRate           float64 `json:"monthly_rate,omitempty"`
	MileageIncludedPerDay int64   `json:"mileage_included_per_day,omitempty"`
	ExtraKMRate           float64 `json:"extra_km_rate,omitempty"`
	CreatedAt             string  `json:"created_at"`
}

func toPricingPlanResponse(p domain.PricingPlan) PricingPlanResponse {
	return PricingPlanResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		DailyRate:             p.DailyRate,
		WeeklyRate:            p.WeeklyRate,
		MonthlyRate:           p.MonthlyRate,
		MileageIncludedPerDay: p.MileageIncludedPerDay,
		ExtraKMRate:           p.ExtraKMRate,
		CreatedAt:             fmtTime(p.CreatedAt),
	}
}

// PolicyResponse is the API representation of an insurance policy with
// its derived status.
type PolicyResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	VehicleID    string `json:"vehicle_id"`
	PolicyNumber string `json:"policy_number"`
	Provider     string `json:"provider,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status" doc:"Derived at read time"`
	CreatedAt    string `json:"created_at"`
}

func toPolicyResponse(v app.PolicyView) PolicyResponse {
	return PolicyResponse{
		ID:           v.Policy.ID,
		VehicleID:    v.Policy.VehicleID,
		PolicyNumber: v.Policy.PolicyNumber,
		Provider:     v.Policy.Provider,
		StartDate:    fmtTime(v.Policy.StartDate),
		EndDate:      fmtTime(v.Policy.EndDate),
		Status:       string(v.Status),
		CreatedAt:    fmtTime(v.Policy.CreatedAt),
	}
}
