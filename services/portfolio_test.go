package services

import (
	"errors"
	"sync"
	"testing"

	"rental-manager-server/models"
	"rental-manager-server/utils"
)

func newTestPortfolio() *Portfolio {
	return NewPortfolio(nil, nil)
}

func mustSaveUnit(t *testing.T, p *Portfolio, input UnitInput) *models.Unit {
	t.Helper()
	unit, err := p.SaveUnit(input)
	if err != nil {
		t.Fatalf("SaveUnit(%+v): %v", input, err)
	}
	return unit
}

func mustAddTenant(t *testing.T, p *Portfolio, input TenantInput) *models.Tenant {
	t.Helper()
	tenant, err := p.AddTenant(input)
	if err != nil {
		t.Fatalf("AddTenant(%+v): %v", input, err)
	}
	return tenant
}

func TestSaveUnitRejectsDuplicateKey(t *testing.T) {
	p := newTestPortfolio()
	mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})

	_, err := p.SaveUnit(UnitInput{BuildingName: "maple", UnitNumber: " 101 "})
	var duplicate *DuplicateUnitError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateUnitError, got %v", err)
	}
	if duplicate.Existing == nil || duplicate.Existing.UnitNumber != "101" {
		t.Fatalf("duplicate error should carry the existing unit, got %+v", duplicate.Existing)
	}
}

func TestSaveUnitEditKeepsOwnKey(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})

	// Re-saving the same unit under its own key is not a duplicate.
	if _, err := p.SaveUnit(UnitInput{ID: unit.ID, BuildingName: "Maple", UnitNumber: "101", Notes: "corner flat"}); err != nil {
		t.Fatalf("editing a unit in place: %v", err)
	}
}

func TestSaveUnitRequiresFields(t *testing.T) {
	p := newTestPortfolio()
	if _, err := p.SaveUnit(UnitInput{BuildingName: "  ", UnitNumber: "101"}); !errors.Is(err, ErrMissingUnitFields) {
		t.Fatalf("expected ErrMissingUnitFields, got %v", err)
	}
	if _, err := p.SaveUnit(UnitInput{BuildingName: "Maple", UnitNumber: "101", Status: models.UnitOccupied}); !errors.Is(err, ErrMissingTenantName) {
		t.Fatalf("occupied without occupant name should fail, got %v", err)
	}
}

func TestSaveUnitLinksMatchingTenant(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})

	second := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "102"})

	// Marking the second unit occupied by Alice would double-assign her.
	_, err := p.SaveUnit(UnitInput{ID: second.ID, BuildingName: "Maple", UnitNumber: "102", Status: models.UnitOccupied, TenantName: "alice"})
	var assigned *TenantAssignedError
	if !errors.As(err, &assigned) {
		t.Fatalf("expected TenantAssignedError, got %v", err)
	}

	state := p.Snapshot()
	got := state.TenantByID(tenant.ID)
	if got.LinkedUnitID != unit.ID {
		t.Fatalf("tenant link should be untouched, got %q", got.LinkedUnitID)
	}
}

func TestSaveUnitOccupiedWithUnknownNameDangles(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101", Status: models.UnitOccupied, TenantName: "Ghost"})

	if !unit.Occupied() {
		t.Fatal("unit should stay occupied even without a matching tenant record")
	}
	state := p.Snapshot()
	for _, tenant := range state.Tenants {
		if tenant.LinkedUnitID == unit.ID {
			t.Fatalf("no tenant should be linked, found %q", tenant.TenantName)
		}
	}
}

func TestAddTenantValidation(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})

	base := TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	}

	bad := base
	bad.LeaseStart = "2024-13-01"
	if _, err := p.AddTenant(bad); err == nil {
		t.Error("expected error for unparseable lease start")
	}

	bad = base
	bad.LeaseStart, bad.LeaseEnd = "2024-12-31", "2024-01-01"
	if _, err := p.AddTenant(bad); !errors.Is(err, ErrInvalidLeaseRange) {
		t.Errorf("expected ErrInvalidLeaseRange, got %v", err)
	}

	bad = base
	bad.LinkedUnitID = ""
	if _, err := p.AddTenant(bad); !errors.Is(err, ErrUnitRequired) {
		t.Errorf("expected ErrUnitRequired, got %v", err)
	}

	bad = base
	bad.LinkedUnitID = "no-such-unit"
	if _, err := p.AddTenant(bad); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("expected ErrUnitNotFound, got %v", err)
	}

	bad = base
	bad.Mobile = "12345"
	if _, err := p.AddTenant(bad); err == nil {
		t.Error("expected error for bad mobile")
	}
}

func TestAddTenantMarksUnitOccupied(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   " Alice ",
		Mobile:       "98765 43210",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})

	if tenant.TenantName != "Alice" {
		t.Errorf("tenant name should be trimmed, got %q", tenant.TenantName)
	}
	if tenant.Mobile != "+91 9876543210" {
		t.Errorf("mobile should be normalized, got %q", tenant.Mobile)
	}
	if tenant.PropertyName != "Maple - 101" {
		t.Errorf("property label: got %q", tenant.PropertyName)
	}

	state := p.Snapshot()
	got := state.UnitByID(unit.ID)
	if !got.Occupied() || got.TenantName != "Alice" {
		t.Fatalf("unit should be occupied by Alice, got %+v", got)
	}
}

func TestAddTenantLeaseConflict(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-06-30",
		LinkedUnitID: unit.ID,
	})

	// Overlapping lease on the same unit conflicts.
	_, err := p.AddTenant(TenantInput{
		TenantName:   "Bob",
		MonthlyRent:  9000,
		LeaseStart:   "2024-06-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})
	var conflict *LeaseConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected LeaseConflictError, got %v", err)
	}
	if conflict.Conflicting.TenantName != "Alice" {
		t.Fatalf("conflict should name Alice, got %q", conflict.Conflicting.TenantName)
	}

	// A lease starting after Alice's ends is fine.
	if _, err := p.AddTenant(TenantInput{
		TenantName:   "Bob",
		MonthlyRent:  9000,
		LeaseStart:   "2024-07-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	}); err != nil {
		t.Fatalf("non-overlapping lease should succeed: %v", err)
	}
}

func TestUpdateTenantRelinksUnits(t *testing.T) {
	p := newTestPortfolio()
	first := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	second := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "102"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: first.ID,
	})

	updated, err := p.UpdateTenant(tenant.ID, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  9000,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: second.ID,
	})
	if err != nil {
		t.Fatalf("UpdateTenant: %v", err)
	}
	if updated.PropertyName != "Maple - 102" {
		t.Errorf("property label: got %q", updated.PropertyName)
	}

	state := p.Snapshot()
	if got := state.UnitByID(first.ID); got.Occupied() {
		t.Error("abandoned unit should revert to vacant")
	}
	if got := state.UnitByID(second.ID); !got.Occupied() || got.TenantName != "Alice" {
		t.Errorf("new unit should be occupied by Alice, got %+v", got)
	}
}

func TestRemoveTenantVacatesSoleUnit(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})

	if err := p.RemoveTenant(tenant.ID); err != nil {
		t.Fatalf("RemoveTenant: %v", err)
	}

	state := p.Snapshot()
	if state.TenantByID(tenant.ID) != nil {
		t.Fatal("tenant should be gone")
	}
	if got := state.UnitByID(unit.ID); got.Occupied() || got.TenantName != "" {
		t.Fatalf("unit should be vacant, got %+v", got)
	}

	if err := p.RemoveTenant(tenant.ID); !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("second delete should be ErrTenantNotFound, got %v", err)
	}
}

func TestRemoveUnitKeepsTenantLabel(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})

	if err := p.RemoveUnit(unit.ID); err != nil {
		t.Fatalf("RemoveUnit: %v", err)
	}

	state := p.Snapshot()
	got := state.TenantByID(tenant.ID)
	if got.LinkedUnitID != "" {
		t.Errorf("tenant should be detached, got %q", got.LinkedUnitID)
	}
	if got.PropertyName != "Maple - 101" {
		t.Errorf("cached label should survive, got %q", got.PropertyName)
	}
	if state.TenantPropertyLabel(got) != "Maple - 101" {
		t.Errorf("display label should fall back to the cached name")
	}
}

func TestSetUnitVacantDetachesTenant(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})

	got, err := p.SetUnitVacant(unit.ID)
	if err != nil {
		t.Fatalf("SetUnitVacant: %v", err)
	}
	if got.Occupied() || got.TenantName != "" {
		t.Fatalf("unit should be vacant, got %+v", got)
	}

	state := p.Snapshot()
	if state.TenantByID(tenant.ID).LinkedUnitID != "" {
		t.Error("tenant should be detached")
	}
}

func TestReconcileLinksIsIdempotent(t *testing.T) {
	state := models.NewAppState()
	state.Units = []models.Unit{
		{ID: "u1", BuildingName: "Maple", UnitNumber: "101", Status: models.UnitOccupied, TenantName: "Alice"},
	}
	state.Tenants = []models.Tenant{
		{ID: "t1", TenantName: "Alice", PropertyName: "maple - 101", LinkedUnitID: "gone"},
		{ID: "t2", TenantName: "Bob", PropertyName: "Oak - 5", LinkedUnitID: "also-gone"},
	}

	ReconcileLinks(state)
	if state.Tenants[0].LinkedUnitID != "u1" {
		t.Fatalf("Alice should re-link by label, got %q", state.Tenants[0].LinkedUnitID)
	}
	if state.Tenants[1].LinkedUnitID != "" {
		t.Fatalf("Bob has no matching unit, got %q", state.Tenants[1].LinkedUnitID)
	}

	before := state.Tenants[0].LinkedUnitID
	ReconcileLinks(state)
	if state.Tenants[0].LinkedUnitID != before || state.Tenants[1].LinkedUnitID != "" {
		t.Fatal("second reconcile changed the result")
	}
}

func TestSnapshotIsDeeplyIsolated(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
		Documents:    []models.Document{{Name: "id-proof.pdf", DataURL: "data:,x"}},
	})

	before := p.Snapshot()

	if _, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleAdmin, "2024-03-05"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	// The snapshot must not observe mutations applied after it was taken.
	if got := before.TenantByID(tenant.ID).PaymentStatus("2024-03"); got != models.PaymentDue {
		t.Fatalf("snapshot shares the payments map with live state, got %q", got)
	}

	// Writes through a snapshot must not leak back either.
	before.TenantByID(tenant.ID).Payments["2024-04"] = models.Payment{Status: models.PaymentPaid}
	before.TenantByID(tenant.ID).Documents[0].Name = "mutated.pdf"
	after := p.Snapshot()
	if got := after.TenantByID(tenant.ID).PaymentStatus("2024-04"); got != models.PaymentDue {
		t.Fatalf("snapshot write leaked into live state, got %q", got)
	}
	if got := after.TenantByID(tenant.ID).Documents[0].Name; got != "id-proof.pdf" {
		t.Fatalf("snapshot shares the documents slice, got %q", got)
	}
}

func TestConcurrentPaymentsAndRollups(t *testing.T) {
	p := newTestPortfolio()
	unit := mustSaveUnit(t, p, UnitInput{BuildingName: "Maple", UnitNumber: "101"})
	tenant := mustAddTenant(t, p, TenantInput{
		TenantName:   "Alice",
		MonthlyRent:  8500,
		LeaseStart:   "2024-01-01",
		LeaseEnd:     "2024-12-31",
		LinkedUnitID: unit.ID,
	})

	// Overlapping payment writes and rollup reads must not touch the same
	// map; the race detector flags it if they do.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := p.MarkPaid(tenant.ID, "2024-03", utils.RoleAdmin, "2024-03-05"); err != nil {
				t.Errorf("MarkPaid: %v", err)
				return
			}
			if _, err := p.MarkUnpaid(tenant.ID, "2024-03", utils.RoleAdmin); err != nil {
				t.Errorf("MarkUnpaid: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			summary := p.RentSummary("2024-03")
			if summary.Expected != 8500 {
				t.Errorf("expected rent 8500, got %v", summary.Expected)
				return
			}
		}
	}()
	wg.Wait()
}

func TestSetActiveMonth(t *testing.T) {
	p := newTestPortfolio()
	if err := p.SetActiveMonth("2024-05"); err != nil {
		t.Fatalf("SetActiveMonth: %v", err)
	}
	if got := p.ActiveMonth(); got != "2024-05" {
		t.Fatalf("got %q", got)
	}
	if err := p.SetActiveMonth("2024-13"); !errors.Is(err, ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}
