package app_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/openrental/fleetd/internal/adapter/fsm"
	"github.com/openrental/fleetd/internal/app"
	"github.com/openrental/fleetd/internal/domain"
)

// vehicleRepoMock is an in-memory domain.VehicleRepository.
type vehicleRepoMock struct {
	vehicles map[string]domain.Vehicle
}

func newVehicleRepoMock(vehicles ...domain.Vehicle) *vehicleRepoMock {
	m := &vehicleRepoMock{vehicles: map[string]domain.Vehicle{}}
	for _, v := range vehicles {
		m.vehicles[v.ID] = v
	}
	return m
}

func (m *vehicleRepoMock) Create(ctx context.Context, v domain.Vehicle) error {
	m.vehicles[v.ID] = v
	return nil
}

func (m *vehicleRepoMock) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	return v, nil
}

func (m *vehicleRepoMock) GetByPlate(ctx context.Context, plate string) (domain.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.LicensePlate == plate {
			return v, nil
		}
	}
	return domain.Vehicle{}, domain.ErrVehicleNotFound
}

func (m *vehicleRepoMock) List(ctx context.Context, filter domain.ListFilter) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range m.vehicles {
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *vehicleRepoMock) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	stored, ok := m.vehicles[v.ID]
	if !ok {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}
	if stored.Version != v.Version {
		return domain.Vehicle{}, &domain.ConflictError{VehicleID: v.ID}
	}
	v.Version++
	m.vehicles[v.ID] = v
	return v, nil
}

// storeMock records applied transitions; failErr simulates a rollback.
type storeMock struct {
	repo    *vehicleRepoMock
	applied [][]domain.PendingDocument
	failErr error
}

func (m *storeMock) ApplyTransition(ctx context.Context, v domain.Vehicle, docs []domain.PendingDocument) ([]domain.CreatedDoc, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	m.applied = append(m.applied, docs)

	created := make([]domain.CreatedDoc, 0, len(docs))
	for _, d := range docs {
		id := ""
		switch doc := d.(type) {
		case *domain.Reservation:
			id = doc.ID
		case *domain.Movement:
			id = doc.ID
		case *domain.ServiceJob:
			id = doc.ID
		}
		created = append(created, domain.CreatedDoc{Type: d.DocKind(), ID: id})
	}

	if _, err := m.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return created, nil
}

// publisherMock records events; failErr simulates a broker outage.
type publisherMock struct {
	events  []domain.TransitionEvent
	failErr error
}

func (m *publisherMock) Publish(ctx context.Context, event domain.TransitionEvent) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.events = append(m.events, event)
	return nil
}

type fixture struct {
	svc       *app.FleetService
	repo      *vehicleRepoMock
	store     *storeMock
	publisher *publisherMock
}

func newFixture(vehicles ...domain.Vehicle) *fixture {
	repo := newVehicleRepoMock(vehicles...)
	store := &storeMock{repo: repo}
	publisher := &publisherMock{}
	svc := app.NewFleetService(app.Deps{
		Vehicles:  repo,
		Store:     store,
		Validator: fsm.New(),
		Publisher: publisher,
		Logger:    slog.New(slog.DiscardHandler),
	})
	return &fixture{svc: svc, repo: repo, store: store, publisher: publisher}
}

func availableVehicle() domain.Vehicle {
	v := domain.NewVehicle("v-1", "D 4444", "CH-5")
	v.LastOdometer = 30000
	return v
}

func TestApplyTransition_ReservationScenario(t *testing.T) {
	f := newFixture(availableVehicle())

	result, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusAvailable, domain.StatusReserved, domain.Payload{
			"driver":     "Omar",
			"start_time": "2026-03-01T09:00:00Z",
			"end_time":   "2026-03-05T09:00:00Z",
		})
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}

	if result.Vehicle.Status != domain.StatusReserved {
		t.Errorf("Status = %q, want Reserved", result.Vehicle.Status)
	}
	if result.Vehicle.Version != 2 {
		t.Errorf("Version = %d, want 2 after one update", result.Vehicle.Version)
	}
	if len(result.CreatedDocs) != 1 || result.CreatedDocs[0].Type != "Reservation" {
		t.Fatalf("CreatedDocs = %v, want one Reservation", result.CreatedDocs)
	}
	if result.CreatedDocs[0].ID == "" {
		t.Error("created reservation has no id")
	}

	if len(f.publisher.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(f.publisher.events))
	}
	event := f.publisher.events[0]
	if event.Action != "Reserve" {
		t.Errorf("event action = %q, want Reserve", event.Action)
	}
	if event.From != domain.StatusAvailable || event.To != domain.StatusReserved {
		t.Errorf("event = %q -> %q", event.From, event.To)
	}
}

func TestApplyTransition_DisallowedEdge(t *testing.T) {
	v := availableVehicle()
	v.Status = domain.StatusRentedOut
	f := newFixture(v)

	_, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusRentedOut, domain.StatusDeactivated, nil)

	var disallowed *domain.DisallowedTransitionError
	if !errors.As(err, &disallowed) {
		t.Fatalf("err = %v, want DisallowedTransitionError", err)
	}
	if len(f.store.applied) != 0 {
		t.Error("store touched on a rejected transition")
	}
	if len(f.publisher.events) != 0 {
		t.Error("event published for a rejected transition")
	}
	got, _ := f.repo.GetByID(context.Background(), "v-1")
	if got.Status != domain.StatusRentedOut {
		t.Errorf("vehicle status changed to %q", got.Status)
	}
}

func TestApplyTransition_MissingRequiredField(t *testing.T) {
	f := newFixture(availableVehicle())

	_, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusAvailable, domain.StatusReserved, domain.Payload{"driver": "Omar"})

	var missing *domain.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingFieldError", err)
	}
	if missing.Field != "start_time" {
		t.Errorf("Field = %q, want first missing field start_time", missing.Field)
	}
	if len(f.store.applied) != 0 {
		t.Error("store touched despite missing field")
	}
}

func TestApplyTransition_StaleFromStatus(t *testing.T) {
	f := newFixture(availableVehicle())

	// Caller read the vehicle as Reserved but it is Available.
	_, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusReserved, domain.StatusRentedOut, domain.Payload{
			"agreement_no":  "AG-1",
			"out_customer":  "Omar",
			"out_date_time": "2026-03-01T09:00:00Z",
		})

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestApplyTransition_SameStateNoOp(t *testing.T) {
	f := newFixture(availableVehicle())

	result, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusAvailable, domain.StatusAvailable, nil)
	if err != nil {
		t.Fatalf("no-op transition failed: %v", err)
	}
	if result.Vehicle.Version != 1 {
		t.Errorf("Version = %d, want untouched 1", result.Vehicle.Version)
	}
	if len(result.CreatedDocs) != 0 {
		t.Errorf("CreatedDocs = %v, want none", result.CreatedDocs)
	}
	if len(f.store.applied) != 0 {
		t.Error("store touched on a no-op")
	}
}

func TestApplyTransition_SameStateStaleFromConflicts(t *testing.T) {
	f := newFixture(availableVehicle())

	// Caller believes the vehicle is Reserved; it is Available.
	_, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusReserved, domain.StatusReserved, nil)

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if len(f.store.applied) != 0 {
		t.Error("store touched on a conflicting call")
	}
}

func TestApplyTransition_StoreFailureLeavesVehicle(t *testing.T) {
	f := newFixture(availableVehicle())
	f.store.failErr = errors.New("disk full")

	_, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusAvailable, domain.StatusReserved, domain.Payload{
			"driver":     "Omar",
			"start_time": "2026-03-01T09:00:00Z",
			"end_time":   "2026-03-05T09:00:00Z",
		})
	if err == nil {
		t.Fatal("expected store failure to surface")
	}

	got, _ := f.repo.GetByID(context.Background(), "v-1")
	if got.Status != domain.StatusAvailable || got.Version != 1 {
		t.Errorf("vehicle mutated despite store failure: %+v", got)
	}
	if len(f.publisher.events) != 0 {
		t.Error("event published despite store failure")
	}
}

func TestApplyTransition_PublishFailureIsAWarning(t *testing.T) {
	f := newFixture(availableVehicle())
	f.publisher.failErr = errors.New("queue down")

	result, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusAvailable, domain.StatusDeactivated, nil)
	if err != nil {
		t.Fatalf("committed transition reported as failed: %v", err)
	}
	if result.Vehicle.Status != domain.StatusDeactivated {
		t.Errorf("Status = %q, want Deactivated", result.Vehicle.Status)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one publish warning", result.Warnings)
	}
}

func TestApplyTransition_ConvenienceFields(t *testing.T) {
	v := availableVehicle()
	v.Status = domain.StatusReserved
	f := newFixture(v)

	result, err := f.svc.ApplyTransition(context.Background(), "v-1",
		domain.StatusReserved, domain.StatusRentedOut, domain.Payload{
			"agreement_no":  "AG-77",
			"out_customer":  "Leila",
			"out_date_time": "2026-03-01T09:00:00Z",
			"out_mileage":   float64(30100),
		})
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}

	if result.Vehicle.CurrentAgreement != "AG-77" {
		t.Errorf("CurrentAgreement = %q, want AG-77", result.Vehicle.CurrentAgreement)
	}
	if result.Vehicle.LastOdometer != 30100 {
		t.Errorf("LastOdometer = %d, want 30100", result.Vehicle.LastOdometer)
	}
}

func TestPreflightTransition(t *testing.T) {
	f := newFixture(availableVehicle())
	ctx := context.Background()

	pf, err := f.svc.PreflightTransition(ctx, "v-1", domain.StatusReserved)
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	if !pf.Allowed || !pf.RequiresInput {
		t.Errorf("Allowed = %v, RequiresInput = %v; want both true", pf.Allowed, pf.RequiresInput)
	}
	if len(pf.Fields) == 0 {
		t.Error("no fields returned for a transition that needs input")
	}

	pf, err = f.svc.PreflightTransition(ctx, "v-1", domain.StatusDueForReturn)
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	if pf.Allowed {
		t.Error("Available -> Due for Return reported as allowed")
	}
	if pf.Reason == "" {
		t.Error("rejected preflight carries no reason")
	}

	pf, err = f.svc.PreflightTransition(ctx, "v-1", domain.StatusDeactivated)
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	if !pf.Allowed || pf.RequiresInput {
		t.Errorf("Allowed = %v, RequiresInput = %v; want allowed with no input", pf.Allowed, pf.RequiresInput)
	}
}

func TestApplyTransition_RoundTripRestoresAvailability(t *testing.T) {
	f := newFixture(availableVehicle())
	ctx := context.Background()

	steps := []struct {
		from, to domain.Status
		payload  domain.Payload
	}{
		{domain.StatusAvailable, domain.StatusReserved, domain.Payload{
			"driver": "Omar", "start_time": "2026-03-01T09:00:00Z", "end_time": "2026-03-05T09:00:00Z",
		}},
		{domain.StatusReserved, domain.StatusRentedOut, domain.Payload{
			"agreement_no": "AG-1", "out_customer": "Omar", "out_date_time": "2026-03-01T10:00:00Z",
		}},
		{domain.StatusRentedOut, domain.StatusDueForReturn, domain.Payload{
			"expected_return_date": "2026-03-05T09:00:00Z",
		}},
		{domain.StatusDueForReturn, domain.StatusInspection, domain.Payload{
			"in_date_time": "2026-03-05T09:30:00Z", "in_mileage": float64(30500),
		}},
		{domain.StatusInspection, domain.StatusAvailable, domain.Payload{
			"inspection_status": "Pass",
		}},
	}
	for _, step := range steps {
		if _, err := f.svc.ApplyTransition(ctx, "v-1", step.from, step.to, step.payload); err != nil {
			t.Fatalf("step %q -> %q failed: %v", step.from, step.to, err)
		}
	}

	got, _ := f.repo.GetByID(ctx, "v-1")
	if got.Status != domain.StatusAvailable {
		t.Errorf("final status = %q, want Available", got.Status)
	}
	if got.LastOdometer != 30500 {
		t.Errorf("LastOdometer = %d, want 30500 from check-in", got.LastOdometer)
	}
	if len(f.publisher.events) != len(steps) {
		t.Errorf("events = %d, want %d", len(f.publisher.events), len(steps))
	}
}
