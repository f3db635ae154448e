package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/openrental/fleetd/internal/domain"
)

// errNotConfigured is wrapped in an UpstreamError when an optional
// collaborator was never wired in.
var errNotConfigured = errors.New("collaborator not configured")

// CustomerInput holds the fields accepted when creating a customer.
type CustomerInput struct {
	FullName       string
	FirstName      string
	LastName       string
	PassportNumber string
	Nationality    string
	DateOfBirth    string
}

// CreateCustomer registers a new customer record.
func (s *FleetService) CreateCustomer(ctx context.Context, in CustomerInput) (domain.Customer, error) {
	now := s.now()
	c := domain.Customer{
		ID:             newID(),
		FullName:       in.FullName,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PassportNumber: in.PassportNumber,
		Nationality:    in.Nationality,
		DateOfBirth:    in.DateOfBirth,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.customers.CreateCustomer(ctx, c); err != nil {
		return domain.Customer{}, fmt.Errorf("creating customer: %w", err)
	}
	return c, nil
}

// GetCustomer returns a customer by its unique identifier.
func (s *FleetService) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

// ScanCustomerDocument runs the document analyzer over a scanned
// identity document and merges the extracted fields into the customer
// record, filling only fields that are still empty. It returns the
// updated customer and the names of the fields the scan filled.
//
// An analyzer failure leaves the customer untouched.
func (s *FleetService) ScanCustomerDocument(ctx context.Context, customerID, fileURL string) (domain.Customer, []string, error) {
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return domain.Customer{}, nil, err
	}
	if s.analyzer == nil {
		return domain.Customer{}, nil, &domain.UpstreamError{Service: "document-intelligence", Err: errNotConfigured}
	}

	fields, err := s.analyzer.AnalyzeURL(ctx, fileURL)
	if err != nil {
		return domain.Customer{}, nil, err
	}

	applied := c.MergeScanFields(fields)
	if len(applied) == 0 {
		return c, nil, nil
	}

	c.ScanImageURL = fileURL
	c.UpdatedAt = s.now()
	if err := s.customers.UpdateCustomer(ctx, c); err != nil {
		return domain.Customer{}, nil, fmt.Errorf("saving scanned fields: %w", err)
	}
	return c, applied, nil
}

// vinTargets maps decoder attribute names to vehicle fields; only these
// attributes are ever merged.
func vinTargets(v *domain.Vehicle) map[string]*string {
	return map[string]*string{
		"Make":              &v.Make,
		"Model":             &v.Model,
		"FuelTypePrimary":   &v.FuelType,
		"TransmissionStyle": &v.Transmission,
	}
}

// EnrichVehicleFromVIN decodes the vehicle's VIN through the external
// decoder and fills descriptive fields that are still empty. A decoder
// failure leaves the vehicle untouched.
func (s *FleetService) EnrichVehicleFromVIN(ctx context.Context, vehicleID string) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if v.VIN == "" {
		return domain.Vehicle{}, &domain.InvalidDocumentError{Reason: "vehicle has no VIN to decode"}
	}
	if s.decoder == nil {
		return domain.Vehicle{}, &domain.UpstreamError{Service: "vin-decoder", Err: errNotConfigured}
	}

	attrs, err := s.decoder.Decode(ctx, v.VIN, v.ModelYear)
	if err != nil {
		return domain.Vehicle{}, err
	}

	changed := false
	targets := vinTargets(&v)
	for _, key := range []string{"Make", "Model", "FuelTypePrimary", "TransmissionStyle"} {
		val := attrs[key]
		if !usableAttr(val) {
			continue
		}
		dst := targets[key]
		if *dst != "" {
			continue
		}
		*dst = val
		changed = true
	}
	if v.ModelYear == 0 {
		if year, err := strconv.Atoi(attrs["ModelYear"]); err == nil && year > 0 {
			v.ModelYear = year
			changed = true
		}
	}

	if !changed {
		return v, nil
	}
	v.UpdatedAt = s.now()
	updated, err := s.vehicles.Update(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("saving decoded attributes: %w", err)
	}
	return updated, nil
}

// usableAttr filters the decoder's placeholder values.
func usableAttr(val string) bool {
	switch val {
	case "", "0", "Not Applicable":
		return false
	}
	return true
}
