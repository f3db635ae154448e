package app_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

type customerRepoMock struct {
	customers map[string]domain.Customer
	updates   int
}

func (m *customerRepoMock) CreateCustomer(ctx context.Context, c domain.Customer) error {
	m.customers[c.ID] = c
	return nil
}

func (m *customerRepoMock) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (m *customerRepoMock) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	m.customers[c.ID] = c
	m.updates++
	return nil
}

type analyzerMock struct {
	fields map[string]string
	err    error
}

func (m *analyzerMock) AnalyzeURL(ctx context.Context, fileURL string) (map[string]string, error) {
	return m.fields, m.err
}

type decoderMock struct {
	attrs map[string]string
	err   error
}

func (m *decoderMock) Decode(ctx context.Context, vin string, modelYear int) (map[string]string, error) {
	return m.attrs, m.err
}

func TestScanCustomerDocument_MergesOnlyEmptyFields(t *testing.T) {
	customers := &customerRepoMock{customers: map[string]domain.Customer{
		"c-1": {ID: "c-1", FullName: "Sara Haddad"},
	}}
	analyzer := &analyzerMock{fields: map[string]string{
		"full_name":       "OTHER NAME",
		"passport_number": "J1234567",
		"nationality":     "Jordanian",
	}}
	svc := app.NewFleetService(app.Deps{
		Customers: customers,
		Analyzer:  analyzer,
		Logger:    slog.New(slog.DiscardHandler),
	})

	c, applied, err := svc.ScanCustomerDocument(context.Background(), "c-1", "https://files/scan.jpg")
	if err != nil {
		t.Fatalf("ScanCustomerDocument failed: %v", err)
	}

	if c.FullName != "Sara Haddad" {
		t.Errorf("FullName overwritten to %q", c.FullName)
	}
	if c.PassportNumber != "J1234567" {
		t.Errorf("PassportNumber = %q", c.PassportNumber)
	}
	if c.ScanImageURL != "https://files/scan.jpg" {
		t.Errorf("ScanImageURL = %q", c.ScanImageURL)
	}
	if len(applied) != 2 {
		t.Errorf("applied = %v, want passport_number and nationality", applied)
	}
	if customers.updates != 1 {
		t.Errorf("updates = %d, want 1", customers.updates)
	}
}

func TestScanCustomerDocument_UpstreamFailureLeavesCustomer(t *testing.T) {
	customers := &customerRepoMock{customers: map[string]domain.Customer{
		"c-1": {ID: "c-1"},
	}}
	analyzer := &analyzerMock{err: &domain.UpstreamError{Service: "document-intelligence", Status: 503, Err: errors.New("unavailable")}}
	svc := app.NewFleetService(app.Deps{
		Customers: customers,
		Analyzer:  analyzer,
		Logger:    slog.New(slog.DiscardHandler),
	})

	_, _, err := svc.ScanCustomerDocument(context.Background(), "c-1", "https://files/scan.jpg")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if customers.updates != 0 {
		t.Error("customer updated despite analyzer failure")
	}
}

func TestScanCustomerDocument_NothingToApply(t *testing.T) {
	customers := &customerRepoMock{customers: map[string]domain.Customer{
		"c-1": {ID: "c-1", FullName: "Sara", PassportNumber: "J1"},
	}}
	analyzer := &analyzerMock{fields: map[string]string{"full_name": "X", "passport_number": "Y"}}
	svc := app.NewFleetService(app.Deps{
		Customers: customers,
		Analyzer:  analyzer,
		Logger:    slog.New(slog.DiscardHandler),
	})

	_, applied, err := svc.ScanCustomerDocument(context.Background(), "c-1", "u")
	if err != nil {
		t.Fatalf("ScanCustomerDocument failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %v, want none", applied)
	}
	if customers.updates != 0 {
		t.Error("no-op scan still wrote the customer")
	}
}

func TestEnrichVehicleFromVIN(t *testing.T) {
	v := domain.NewVehicle("v-1", "E 1", "CH")
	v.VIN = "1FTFW1ET1EKE57182"
	v.Make = "Ford" // already set, must survive
	repo := newVehicleRepoMock(v)
	decoder := &decoderMock{attrs: map[string]string{
		"Make":              "CHEVROLET",
		"Model":             "Silverado",
		"ModelYear":         "2020",
		"FuelTypePrimary":   "Gasoline",
		"TransmissionStyle": "Not Applicable",
	}}
	svc := app.NewFleetService(app.Deps{
		Vehicles: repo,
		Decoder:  decoder,
		Logger:   slog.New(slog.DiscardHandler),
	})

	got, err := svc.EnrichVehicleFromVIN(context.Background(), "v-1")
	if err != nil {
		t.Fatalf("EnrichVehicleFromVIN failed: %v", err)
	}

	if got.Make != "Ford" {
		t.Errorf("Make overwritten to %q", got.Make)
	}
	if got.Model != "Silverado" {
		t.Errorf("Model = %q, want Silverado", got.Model)
	}
	if got.ModelYear != 2020 {
		t.Errorf("ModelYear = %d, want 2020", got.ModelYear)
	}
	if got.FuelType != "Gasoline" {
		t.Errorf("FuelType = %q, want Gasoline", got.FuelType)
	}
	if got.Transmission != "" {
		t.Errorf("Transmission = %q, placeholder values must be dropped", got.Transmission)
	}
}

func TestEnrichVehicleFromVIN_DecoderFailureLeavesVehicle(t *testing.T) {
	v := domain.NewVehicle("v-1", "E 1", "CH")
	v.VIN = "1FTFW1ET1EKE57182"
	repo := newVehicleRepoMock(v)
	decoder := &decoderMock{err: &domain.UpstreamError{Service: "vin-decoder", Err: errors.New("timeout")}}
	svc := app.NewFleetService(app.Deps{
		Vehicles: repo,
		Decoder:  decoder,
		Logger:   slog.New(slog.DiscardHandler),
	})

	_, err := svc.EnrichVehicleFromVIN(context.Background(), "v-1")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	got, _ := repo.GetByID(context.Background(), "v-1")
	if got.Version != 1 {
		t.Error("vehicle written despite decoder failure")
	}
}

func TestEnrichVehicleFromVIN_NoVIN(t *testing.T) {
	repo := newVehicleRepoMock(domain.NewVehicle("v-1", "E 1", "CH"))
	svc := app.NewFleetService(app.Deps{
		Vehicles: repo,
		Decoder:  &decoderMock{},
		Logger:   slog.New(slog.DiscardHandler),
	})

	_, err := svc.EnrichVehicleFromVIN(context.Background(), "v-1")
	var invalid *domain.InvalidDocumentError
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want InvalidDocumentError", err)
	}
}

func TestBoard_StableColumns(t *testing.T) {
	v1 := domain.NewVehicle("v-1", "A 1", "CH1")
	v2 := domain.NewVehicle("v-2", "A 2", "CH2")
	v2.Status = domain.StatusRentedOut
	f := newFixture(v1, v2)

	columns, err := f.svc.Board(context.Background())
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(columns) != len(domain.AllStatuses) {
		t.Fatalf("columns = %d, want %d", len(columns), len(domain.AllStatuses))
	}
	for i, col := range columns {
		if col.Status != domain.AllStatuses[i] {
			t.Errorf("column %d = %q, want %q", i, col.Status, domain.AllStatuses[i])
		}
	}
	if len(columns[0].Vehicles) != 1 {
		t.Errorf("Available column has %d vehicles, want 1", len(columns[0].Vehicles))
	}
	if len(columns[3].Vehicles) != 1 {
		t.Errorf("Rented Out column has %d vehicles, want 1", len(columns[3].Vehicles))
	}
}

func TestOnboardVehicle_RequiresPlate(t *testing.T) {
	f := newFixture()
	_, err := f.svc.OnboardVehicle(context.Background(), app.OnboardInput{})
	var invalid *domain.InvalidDocumentError
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want InvalidDocumentError", err)
	}

	v, err := f.svc.OnboardVehicle(context.Background(), app.OnboardInput{LicensePlate: "F 123"})
	if err != nil {
		t.Fatalf("OnboardVehicle failed: %v", err)
	}
	if v.ID == "" {
		t.Error("vehicle has no id")
	}
	if v.Status != domain.StatusAvailable {
		t.Errorf("Status = %q, want Available", v.Status)
	}
}
