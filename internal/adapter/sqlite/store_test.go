package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openrental/fleetd/internal/adapter/sqlite"
	"github.com/openrental/fleetd/internal/domain"
)

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedVehicle(t *testing.T, store *sqlite.Store, id, plate string) domain.Vehicle {
	t.Helper()

	v := domain.NewVehicle(id, plate, "CH-"+id)
	if err := store.Create(context.Background(), v); err != nil {
		t.Fatalf("seeding vehicle: %v", err)
	}
	return v
}

func TestStore_CreateAndGetVehicle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	v := domain.NewVehicle("v-1", "G 1001", "CH-1")
	v.Make = "Toyota"
	v.Model = "Corolla"
	v.LastOdometer = 12000
	if err := store.Create(ctx, v); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByID(ctx, "v-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LicensePlate != "G 1001" || got.Make != "Toyota" || got.LastOdometer != 12000 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}

	byPlate, err := store.GetByPlate(ctx, "G 1001")
	if err != nil {
		t.Fatalf("GetByPlate failed: %v", err)
	}
	if byPlate.ID != "v-1" {
		t.Errorf("GetByPlate returned %q", byPlate.ID)
	}

	if _, err := store.GetByID(ctx, "nope"); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Errorf("missing vehicle err = %v, want ErrVehicleNotFound", err)
	}
}

func TestStore_CreateVehicle_DuplicatePlate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seedVehicle(t, store, "v-1", "H 42")
	err := store.Create(ctx, domain.NewVehicle("v-2", "H 42", "CH-2"))

	var invalid *domain.InvalidDocumentError
	if !errors.As(err, &invalid) {
		t.Errorf("duplicate plate err = %v, want InvalidDocumentError", err)
	}
}

func TestStore_ListVehicles_StatusFilter(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seedVehicle(t, store, "v-1", "L 1")
	v2 := domain.NewVehicle("v-2", "L 2", "CH-2")
	v2.Status = domain.StatusRentedOut
	if err := store.Create(ctx, v2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rented := domain.StatusRentedOut
	got, err := store.List(ctx, domain.ListFilter{Status: &rented})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "v-2" {
		t.Errorf("List = %+v, want only v-2", got)
	}

	all, err := store.List(ctx, domain.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List all = %d, want 2", len(all))
	}
}

func TestStore_UpdateVehicle_VersionCheck(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	v := seedVehicle(t, store, "v-1", "M 5")

	v.Status = domain.StatusReserved
	updated, err := store.Update(ctx, v)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}
	if updated.Status != domain.StatusReserved {
		t.Errorf("Status = %q, want Reserved", updated.Status)
	}

	// Writing again with the stale version must conflict.
	v.Status = domain.StatusDeactivated
	_, err = store.Update(ctx, v)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("stale write err = %v, want ConflictError", err)
	}

	// Unknown vehicle is not a conflict.
	ghost := domain.NewVehicle("ghost", "X 0", "CH-0")
	if _, err := store.Update(ctx, ghost); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Errorf("unknown vehicle err = %v, want ErrVehicleNotFound", err)
	}
}

func reservation(id, vehicleID string, start, end time.Time) domain.Reservation {
	now := time.Now().UTC()
	return domain.Reservation{
		ID:        id,
		VehicleID: vehicleID,
		Customer:  "Omar",
		StartTime: start,
		EndTime:   end,
		Status:    domain.ReservationNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_CreateReservation_OverlapRejected(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	seedVehicle(t, store, "v-1", "R 1")

	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	if err := store.CreateReservation(ctx, reservation("r-1", "v-1", base, base.AddDate(0, 0, 5))); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	// Starts exactly when the first one ends: boundaries collide.
	err := store.CreateReservation(ctx, reservation("r-2", "v-1", base.AddDate(0, 0, 5), base.AddDate(0, 0, 8)))
	var overlap *domain.OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("err = %v, want OverlapError", err)
	}
	if overlap.ReservationID != "r-1" {
		t.Errorf("overlap blames %q, want r-1", overlap.ReservationID)
	}

	// A span fully inside the booking collides too.
	err = store.CreateReservation(ctx, reservation("r-3", "v-1", base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)))
	if !errors.As(err, &overlap) {
		t.Errorf("inside span err = %v, want OverlapError", err)
	}

	// Disjoint span is fine.
	if err := store.CreateReservation(ctx, reservation("r-4", "v-1", base.AddDate(0, 0, -4), base.AddDate(0, 0, -1))); err != nil {
		t.Errorf("disjoint reservation rejected: %v", err)
	}
}

func TestStore_CreateReservation_CancelledDoesNotBlock(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	seedVehicle(t, store, "v-1", "R 2")

	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	if err := store.CreateReservation(ctx, reservation("r-1", "v-1", base, base.AddDate(0, 0, 5))); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if err := store.SetReservationStatus(ctx, "r-1", domain.ReservationCancelled); err != nil {
		t.Fatalf("SetReservationStatus failed: %v", err)
	}

	if err := store.CreateReservation(ctx, reservation("r-2", "v-1", base, base.AddDate(0, 0, 5))); err != nil {
		t.Errorf("cancelled booking still blocks: %v", err)
	}
}

func TestStore_ActiveOverlapping_ExcludesGivenID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	seedVehicle(t, store, "v-1", "R 3")

	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	if err := store.CreateReservation(ctx, reservation("r-1", "v-1", base, base.AddDate(0, 0, 5))); err != nil {
		t.Fatalf("reservation failed: %v", err)
	}

	hits, err := store.ActiveOverlapping(ctx, "v-1", base, base.AddDate(0, 0, 2), "r-1")
	if err != nil {
		t.Fatalf("ActiveOverlapping failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("reservation overlaps itself: %v", hits)
	}
}

func TestStore_ApplyTransition_Atomic(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	v := seedVehicle(t, store, "v-1", "T 1")

	now := time.Now().UTC()
	v.Status = domain.StatusReserved
	docs := []domain.PendingDocument{
		&domain.Reservation{
			ID:        "r-1",
			VehicleID: "v-1",
			Customer:  "Omar",
			StartTime: now.AddDate(0, 0, 1),
			EndTime:   now.AddDate(0, 0, 4),
			Status:    domain.ReservationNew,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	created, err := store.ApplyTransition(ctx, v, docs)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if len(created) != 1 || created[0].Type != "Reservation" || created[0].ID != "r-1" {
		t.Errorf("created = %v", created)
	}

	got, _ := store.GetByID(ctx, "v-1")
	if got.Status != domain.StatusReserved || got.Version != 2 {
		t.Errorf("vehicle after transition: %+v", got)
	}
	if _, err := store.GetReservation(ctx, "r-1"); err != nil {
		t.Errorf("reservation not persisted: %v", err)
	}
}

func TestStore_ApplyTransition_RollsBackOnOverlap(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	v := seedVehicle(t, store, "v-1", "T 2")

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	if err := store.CreateReservation(ctx, reservation("r-1", "v-1", base, base.AddDate(0, 0, 5))); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}

	now := time.Now().UTC()
	v.Status = domain.StatusReserved
	docs := []domain.PendingDocument{
		&domain.Movement{
			ID: "m-1", VehicleID: "v-1", MovementType: "Reservation",
			Direction: domain.DirectionOutbound, Date: now, CreatedAt: now,
		},
		&domain.Reservation{
			ID: "r-2", VehicleID: "v-1", Customer: "Leila",
			StartTime: base.AddDate(0, 0, 1), EndTime: base.AddDate(0, 0, 3),
			Status: domain.ReservationNew, CreatedAt: now, UpdatedAt: now,
		},
	}

	_, err := store.ApplyTransition(ctx, v, docs)
	var overlap *domain.OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("err = %v, want OverlapError", err)
	}

	// The movement inserted before the failing reservation must be gone.
	movements, total, listErr := store.ListMovements(ctx, "v-1", domain.MovementFilter{})
	if listErr != nil {
		t.Fatalf("ListMovements failed: %v", listErr)
	}
	if total != 0 || len(movements) != 0 {
		t.Errorf("movement survived the rollback: %v", movements)
	}
	got, _ := store.GetByID(ctx, "v-1")
	if got.Status != domain.StatusAvailable || got.Version != 1 {
		t.Errorf("vehicle mutated despite rollback: %+v", got)
	}
}

func TestStore_ApplyTransition_VersionConflict(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	v := seedVehicle(t, store, "v-1", "T 3")

	// Another writer moves the vehicle first.
	racer := v
	racer.Status = domain.StatusAtGarage
	if _, err := store.Update(ctx, racer); err != nil {
		t.Fatalf("racing update failed: %v", err)
	}

	v.Status = domain.StatusReserved
	_, err := store.ApplyTransition(ctx, v, nil)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("err = %v, want ConflictError", err)
	}
}

func TestStore_MovementsFilterAndCount(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	v := seedVehicle(t, store, "v-1", "T 4")

	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	for i, mt := range []string{"Dispatch", "Handover", "Check-in"} {
		v.Version = int64(i + 1)
		docs := []domain.PendingDocument{&domain.Movement{
			ID: "m-" + mt, VehicleID: "v-1", MovementType: mt,
			Direction: domain.DirectionOutbound,
			Date:      base.AddDate(0, 0, i), CreatedAt: base,
		}}
		if _, err := store.ApplyTransition(ctx, v, docs); err != nil {
			t.Fatalf("seeding movement %s: %v", mt, err)
		}
	}

	got, total, err := store.ListMovements(ctx, "v-1", domain.MovementFilter{MovementType: "Handover"})
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].MovementType != "Handover" {
		t.Errorf("filtered = %v (total %d)", got, total)
	}

	from := base.AddDate(0, 0, 1)
	got, total, err = store.ListMovements(ctx, "v-1", domain.MovementFilter{From: &from})
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if total != 2 {
		t.Errorf("from-filtered total = %d, want 2", total)
	}
	// Newest first.
	if len(got) == 2 && got[0].Date.Before(got[1].Date) {
		t.Error("movements not ordered newest first")
	}
}

func TestStore_CustomersRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	c := domain.Customer{ID: "c-1", FullName: "Sara Haddad", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	c.PassportNumber = "J1234567"
	if err := store.UpdateCustomer(ctx, c); err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}

	got, err := store.GetCustomer(ctx, "c-1")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if got.PassportNumber != "J1234567" {
		t.Errorf("PassportNumber = %q", got.PassportNumber)
	}

	if err := store.UpdateCustomer(ctx, domain.Customer{ID: "ghost"}); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("unknown customer err = %v, want ErrCustomerNotFound", err)
	}
}

func TestStore_WorkflowRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	edges, err := store.Edges(ctx, "Vehicle")
	if err != nil {
		t.Fatalf("Edges failed: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("fresh store has %d workflow edges, want 0", len(edges))
	}

	want := []domain.WorkflowEdge{
		{DocumentType: "Vehicle", FromState: domain.StatusAvailable, Action: "Retire", ToState: domain.StatusDeactivated, Role: "Fleet Manager"},
		{DocumentType: "Vehicle", FromState: domain.StatusDeactivated, Action: "Reactivate", ToState: domain.StatusAvailable, Role: "Fleet Manager"},
	}
	if err := store.ReplaceWorkflow(ctx, "Vehicle", want); err != nil {
		t.Fatalf("ReplaceWorkflow failed: %v", err)
	}

	edges, err = store.Edges(ctx, "Vehicle")
	if err != nil {
		t.Fatalf("Edges failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(edges))
	}
	if edges[0].Action != "Retire" || edges[0].Role != "Fleet Manager" {
		t.Errorf("edge[0] = %+v", edges[0])
	}

	// Replace again with one edge: the old set is gone.
	if err := store.ReplaceWorkflow(ctx, "Vehicle", want[:1]); err != nil {
		t.Fatalf("ReplaceWorkflow failed: %v", err)
	}
	edges, _ = store.Edges(ctx, "Vehicle")
	if len(edges) != 1 {
		t.Errorf("edges after replace = %d, want 1", len(edges))
	}
}

func TestStore_ServiceJobsAndPolicies(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	v := seedVehicle(t, store, "v-1", "S 1")

	now := time.Now().UTC()
	v.Status = domain.StatusUnderMaintenance
	docs := []domain.PendingDocument{&domain.ServiceJob{
		ID: "j-1", VehicleID: "v-1", ServiceType: "Oil Change",
		Description: "10k service", ScheduledDate: now,
		LaborCost: 50, PartsCost: 100,
		Status: domain.ServiceToDo, CreatedAt: now,
	}}
	if _, err := store.ApplyTransition(ctx, v, docs); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}

	jobs, err := store.ListServiceJobs(ctx, "v-1")
	if err != nil {
		t.Fatalf("ListServiceJobs failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].TotalCost != 150 {
		t.Errorf("jobs = %+v, want one with total 150", jobs)
	}

	completion := now.AddDate(0, 0, 1)
	if err := store.SetServiceStatus(ctx, "j-1", domain.ServiceCompleted, completion); err != nil {
		t.Fatalf("SetServiceStatus failed: %v", err)
	}
	jobs, _ = store.ListServiceJobs(ctx, "v-1")
	if jobs[0].Status != domain.ServiceCompleted || jobs[0].CompletionDate.IsZero() {
		t.Errorf("job after completion = %+v", jobs[0])
	}

	policy := domain.InsurancePolicy{
		ID: "p-1", VehicleID: "v-1", PolicyNumber: "POL-9",
		StartDate: now, EndDate: now.AddDate(1, 0, 0), CreatedAt: now,
	}
	if err := store.CreatePolicy(ctx, policy); err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}
	policies, err := store.ListPoliciesByVehicle(ctx, "v-1")
	if err != nil {
		t.Fatalf("ListPoliciesByVehicle failed: %v", err)
	}
	if len(policies) != 1 || policies[0].PolicyNumber != "POL-9" {
		t.Errorf("policies = %+v", policies)
	}
}

func TestStore_SetServiceStatus_RejectsEarlyCompletion(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	v := seedVehicle(t, store, "v-1", "S 2")

	scheduled := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	v.Status = domain.StatusUnderMaintenance
	docs := []domain.PendingDocument{&domain.ServiceJob{
		ID: "j-1", VehicleID: "v-1", ServiceType: "Brake Pads",
		ScheduledDate: scheduled, Status: domain.ServiceToDo, CreatedAt: scheduled,
	}}
	if _, err := store.ApplyTransition(ctx, v, docs); err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}

	err := store.SetServiceStatus(ctx, "j-1", domain.ServiceCompleted, scheduled.AddDate(0, 0, -5))
	var invalid *domain.InvalidDocumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("early completion err = %v, want InvalidDocumentError", err)
	}

	// The row is untouched after the rejection.
	jobs, _ := store.ListServiceJobs(ctx, "v-1")
	if jobs[0].Status != domain.ServiceToDo || !jobs[0].CompletionDate.IsZero() {
		t.Errorf("job after rejected completion = %+v", jobs[0])
	}

	if err := store.SetServiceStatus(ctx, "j-1", domain.ServiceCompleted, scheduled.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("valid completion rejected: %v", err)
	}
}

func TestStore_PricingPlansRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	plan := domain.PricingPlan{
		ID: "pp-1", Name: "Compact", DailyRate: 100, WeeklyRate: 600,
		MileageIncludedPerDay: 200, ExtraKMRate: 0.5, CreatedAt: time.Now().UTC(),
	}
	if err := store.CreatePricingPlan(ctx, plan); err != nil {
		t.Fatalf("CreatePricingPlan failed: %v", err)
	}

	got, err := store.GetPricingPlan(ctx, "pp-1")
	if err != nil {
		t.Fatalf("GetPricingPlan failed: %v", err)
	}
	if got.WeeklyRate != 600 || got.ExtraKMRate != 0.5 {
		t.Errorf("plan round-trip mismatch: %+v", got)
	}

	if _, err := store.GetPricingPlan(ctx, "ghost"); !errors.Is(err, domain.ErrPricingPlanNotFound) {
		t.Errorf("unknown plan err = %v, want ErrPricingPlanNotFound", err)
	}

	plans, err := store.ListPricingPlans(ctx)
	if err != nil {
		t.Fatalf("ListPricingPlans failed: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("plans = %d, want 1", len(plans))
	}
}
