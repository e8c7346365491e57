package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rental-manager-server/models"
	"rental-manager-server/storage"
	"rental-manager-server/utils"
)

// Portfolio owns the single in-memory portfolio state. Every mutation goes
// through it so the unit/tenant link invariants hold; persistence happens
// after the mutation via Persist, and a failed save never rolls the
// mutation back.
type Portfolio struct {
	mu       sync.Mutex
	state    *models.AppState
	store    *storage.StateStore
	notifier *NotificationService
}

func NewPortfolio(store *storage.StateStore, notifier *NotificationService) *Portfolio {
	return &Portfolio{
		state:    models.NewAppState(),
		store:    store,
		notifier: notifier,
	}
}

// Start loads persisted state, reconciles unit/tenant links and begins
// listening for remote push notifications.
func (p *Portfolio) Start(ctx context.Context) error {
	state, err := p.store.Load(ctx)
	if err != nil {
		return err
	}
	p.replaceState(state)
	p.store.Subscribe(ctx, p.replaceState)
	return nil
}

// replaceState swaps in a freshly loaded state wholesale. Push
// notifications are last-write-wins; concurrent local edits are not merged.
func (p *Portfolio) replaceState(state *models.AppState) {
	state.Normalize()
	ReconcileLinks(state)
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

// Persist saves the current state. Called after each successful mutation;
// the in-memory state stays authoritative when it fails. The store gets a
// deep copy so marshalling happens outside the lock without sharing maps
// with in-flight mutations.
func (p *Portfolio) Persist(ctx context.Context) error {
	p.mu.Lock()
	state := p.state.Clone()
	p.mu.Unlock()
	return p.store.Save(ctx, state)
}

// Snapshot returns a deep copy of the state for read-side rendering.
func (p *Portfolio) Snapshot() models.AppState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.state.Clone()
}

func (p *Portfolio) ActiveMonth() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.ActiveMonth
}

func (p *Portfolio) SetActiveMonth(monthKey string) error {
	if !utils.IsValidMonthKey(monthKey) {
		return ErrInvalidMonthKey
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.ActiveMonth = monthKey
	return nil
}

func (p *Portfolio) NotifyConfig() models.NotifyConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.NotifyConfig
}

// SaveNotifyConfig overwrites the notification settings wholesale.
func (p *Portfolio) SaveNotifyConfig(config models.NotifyConfig) {
	config.Normalize()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.NotifyConfig = config
}

// UnitInput is the add/edit-unit form. An empty ID creates a new unit.
type UnitInput struct {
	ID           string
	BuildingName string
	UnitNumber   string
	Status       string
	TenantName   string
	Notes        string
}

// SaveUnit validates and applies a unit create or edit, then reconciles
// tenant links against the saved unit.
func (p *Portfolio) SaveUnit(input UnitInput) (*models.Unit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return saveUnit(p.state, input)
}

func saveUnit(state *models.AppState, input UnitInput) (*models.Unit, error) {
	buildingName := utils.NormalizeUnitText(input.BuildingName)
	unitNumber := utils.NormalizeUnitText(input.UnitNumber)
	if buildingName == "" || unitNumber == "" {
		return nil, ErrMissingUnitFields
	}

	status := models.UnitVacant
	if input.Status == models.UnitOccupied {
		status = models.UnitOccupied
	}
	tenantName := ""
	if status == models.UnitOccupied {
		tenantName = strings.TrimSpace(input.TenantName)
		if tenantName == "" {
			return nil, ErrMissingTenantName
		}
	}

	newKey := utils.UnitKey(buildingName, unitNumber)
	for i := range state.Units {
		existing := &state.Units[i]
		if existing.ID != input.ID && existing.Key() == newKey {
			return nil, &DuplicateUnitError{Existing: existing}
		}
	}

	if status == models.UnitOccupied {
		for i := range state.Units {
			other := &state.Units[i]
			if other.ID == input.ID || !other.Occupied() {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(other.TenantName), tenantName) {
				return nil, &TenantAssignedError{TenantName: tenantName, UnitLabel: other.Label()}
			}
		}
		if selected := state.TenantByName(tenantName); selected != nil {
			if selected.LinkedUnitID != "" && selected.LinkedUnitID != input.ID {
				label := "another unit"
				if linked := state.UnitByID(selected.LinkedUnitID); linked != nil {
					label = linked.Label()
				}
				return nil, &TenantAssignedError{TenantName: selected.TenantName, UnitLabel: label}
			}
		}
	}

	previousTenantName := ""
	previousStatus := models.UnitVacant
	var saved *models.Unit
	if input.ID != "" {
		unit := state.UnitByID(input.ID)
		if unit == nil {
			return nil, ErrUnitNotFound
		}
		previousTenantName = unit.TenantName
		previousStatus = unit.Status
		unit.BuildingName = buildingName
		unit.UnitNumber = unitNumber
		unit.Status = status
		unit.TenantName = tenantName
		unit.Notes = strings.TrimSpace(input.Notes)
		saved = unit
	} else {
		state.Units = append(state.Units, models.Unit{
			ID:           uuid.NewString(),
			BuildingName: buildingName,
			UnitNumber:   unitNumber,
			Status:       status,
			TenantName:   tenantName,
			Notes:        strings.TrimSpace(input.Notes),
		})
		saved = &state.Units[len(state.Units)-1]
	}

	relinkTenantsForUnit(state, saved, previousTenantName, previousStatus)
	return saved, nil
}

// relinkTenantsForUnit reconciles tenant links after a unit create/update.
// The unit has at most one linked tenant when this returns. When the
// occupant name matches no tenant record, the unit keeps its occupied flag
// with nothing linked; that dangling state is tolerated and surfaced only
// in the log.
func relinkTenantsForUnit(state *models.AppState, unit *models.Unit, previousTenantName, previousStatus string) {
	currentName := strings.TrimSpace(unit.TenantName)

	clearLink := func(t *models.Tenant) {
		t.LinkedUnitID = ""
		t.PropertyName = ""
	}

	if !unit.Occupied() || currentName == "" {
		for i := range state.Tenants {
			if state.Tenants[i].LinkedUnitID == unit.ID {
				clearLink(&state.Tenants[i])
			}
		}
		return
	}

	selected := state.TenantByName(currentName)
	if selected == nil {
		log.Printf("unit %s is occupied by %q but no tenant record matches", unit.Label(), currentName)
		return
	}

	prevName := strings.TrimSpace(previousTenantName)
	if previousStatus == models.UnitOccupied && prevName != "" && !strings.EqualFold(prevName, currentName) {
		for i := range state.Tenants {
			tenant := &state.Tenants[i]
			if tenant.NameMatches(prevName) && tenant.LinkedUnitID == unit.ID {
				clearLink(tenant)
			}
		}
	}

	for i := range state.Tenants {
		tenant := &state.Tenants[i]
		if tenant.LinkedUnitID == unit.ID && tenant.ID != selected.ID {
			clearLink(tenant)
		}
	}

	selected.LinkedUnitID = unit.ID
	selected.PropertyName = unit.Label()
}

// RemoveUnit deletes a unit. Tenants referencing it are detached but kept;
// their cached property label survives as the display fallback.
func (p *Portfolio) RemoveUnit(unitID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.UnitByID(unitID) == nil {
		return ErrUnitNotFound
	}
	units := p.state.Units[:0]
	for _, unit := range p.state.Units {
		if unit.ID != unitID {
			units = append(units, unit)
		}
	}
	p.state.Units = units
	for i := range p.state.Tenants {
		if p.state.Tenants[i].LinkedUnitID == unitID {
			p.state.Tenants[i].LinkedUnitID = ""
		}
	}
	return nil
}

// SetUnitVacant clears a unit's occupancy and detaches any linked tenant.
func (p *Portfolio) SetUnitVacant(unitID string) (*models.Unit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	unit := p.state.UnitByID(unitID)
	if unit == nil {
		return nil, ErrUnitNotFound
	}
	previousTenantName := unit.TenantName
	previousStatus := unit.Status
	unit.Status = models.UnitVacant
	unit.TenantName = ""
	relinkTenantsForUnit(p.state, unit, previousTenantName, previousStatus)
	return unit, nil
}

// TenantInput is the add/edit-tenant form. Documents is the tenant's full
// resulting attachment set. ID may carry a pre-generated identifier so
// document uploads can be namespaced before the record exists.
type TenantInput struct {
	ID           string
	TenantName   string
	Email        string
	Mobile       string
	MonthlyRent  float64
	LeaseStart   string
	LeaseEnd     string
	Deposit      float64
	Notes        string
	LinkedUnitID string
	Documents    []models.Document
}

func validateTenantInput(state *models.AppState, input *TenantInput, excludeTenantID string) error {
	leaseStart, err := utils.ParseISODate(input.LeaseStart)
	if err != nil {
		return err
	}
	leaseEnd, err := utils.ParseISODate(input.LeaseEnd)
	if err != nil {
		return err
	}
	if leaseStart.After(leaseEnd) {
		return ErrInvalidLeaseRange
	}
	if input.LinkedUnitID == "" {
		return ErrUnitRequired
	}
	if state.UnitByID(input.LinkedUnitID) == nil {
		return ErrUnitNotFound
	}
	mobile, err := utils.ParseIndianMobile(input.Mobile)
	if err != nil {
		return err
	}
	input.Mobile = mobile
	if conflicting := findConflictingTenant(state, input.LinkedUnitID, leaseStart, leaseEnd, excludeTenantID); conflicting != nil {
		return &LeaseConflictError{Conflicting: conflicting}
	}
	return nil
}

// AddTenant validates and creates a tenant, marking the referenced unit
// occupied with the tenant's name.
func (p *Portfolio) AddTenant(input TenantInput) (*models.Tenant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := validateTenantInput(p.state, &input, ""); err != nil {
		return nil, err
	}

	unit := p.state.UnitByID(input.LinkedUnitID)
	documents := input.Documents
	if documents == nil {
		documents = []models.Document{}
	}
	tenantID := input.ID
	if tenantID == "" {
		tenantID = uuid.NewString()
	}
	p.state.Tenants = append(p.state.Tenants, models.Tenant{
		ID:           tenantID,
		PropertyName: unit.Label(),
		TenantName:   strings.TrimSpace(input.TenantName),
		Email:        strings.TrimSpace(input.Email),
		Mobile:       input.Mobile,
		MonthlyRent:  models.Money(input.MonthlyRent),
		LeaseStart:   input.LeaseStart,
		LeaseEnd:     input.LeaseEnd,
		Deposit:      models.Money(input.Deposit),
		Notes:        strings.TrimSpace(input.Notes),
		Documents:    documents,
		LinkedUnitID: input.LinkedUnitID,
		Payments:     map[string]models.Payment{},
	})
	tenant := &p.state.Tenants[len(p.state.Tenants)-1]
	syncUnitFromTenant(p.state, tenant, "")
	return tenant, nil
}

// UpdateTenant validates and applies a tenant edit, which may re-link the
// tenant to a different unit.
func (p *Portfolio) UpdateTenant(tenantID string, input TenantInput) (*models.Tenant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tenant := p.state.TenantByID(tenantID)
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	if err := validateTenantInput(p.state, &input, tenantID); err != nil {
		return nil, err
	}

	previousLinkedUnitID := tenant.LinkedUnitID
	unit := p.state.UnitByID(input.LinkedUnitID)
	tenant.PropertyName = unit.Label()
	tenant.TenantName = strings.TrimSpace(input.TenantName)
	tenant.Email = strings.TrimSpace(input.Email)
	tenant.Mobile = input.Mobile
	tenant.MonthlyRent = models.Money(input.MonthlyRent)
	tenant.LeaseStart = input.LeaseStart
	tenant.LeaseEnd = input.LeaseEnd
	tenant.Deposit = models.Money(input.Deposit)
	tenant.Notes = strings.TrimSpace(input.Notes)
	tenant.LinkedUnitID = input.LinkedUnitID
	if input.Documents != nil {
		tenant.Documents = input.Documents
	}
	syncUnitFromTenant(p.state, tenant, previousLinkedUnitID)
	return tenant, nil
}

// RemoveTenant deletes a tenant and its payment history. Remote documents
// are removed best-effort; when the deleted tenant was the unit's sole
// occupant, the unit reverts to vacant.
func (p *Portfolio) RemoveTenant(tenantID string) error {
	p.mu.Lock()
	tenant := p.state.TenantByID(tenantID)
	if tenant == nil {
		p.mu.Unlock()
		return ErrTenantNotFound
	}
	linkedUnitID := tenant.LinkedUnitID
	documents := append([]models.Document{}, tenant.Documents...)

	tenants := p.state.Tenants[:0]
	for _, entry := range p.state.Tenants {
		if entry.ID != tenantID {
			tenants = append(tenants, entry)
		}
	}
	p.state.Tenants = tenants

	if linkedUnitID != "" {
		stillLinked := false
		for i := range p.state.Tenants {
			if p.state.Tenants[i].LinkedUnitID == linkedUnitID {
				stillLinked = true
				break
			}
		}
		if !stillLinked {
			if unit := p.state.UnitByID(linkedUnitID); unit != nil {
				unit.Status = models.UnitVacant
				unit.TenantName = ""
			}
		}
	}
	p.mu.Unlock()

	go DeleteTenantDocuments(documents)
	return nil
}

// findConflictingTenant returns another tenant linked to the unit whose
// lease overlaps the given interval. Tenants with unparseable lease dates
// cannot conflict.
func findConflictingTenant(state *models.AppState, unitID string, leaseStart, leaseEnd time.Time, excludeTenantID string) *models.Tenant {
	for i := range state.Tenants {
		entry := &state.Tenants[i]
		if entry.ID == excludeTenantID || entry.LinkedUnitID != unitID {
			continue
		}
		entryStart, err := utils.ParseISODate(entry.LeaseStart)
		if err != nil {
			continue
		}
		entryEnd, err := utils.ParseISODate(entry.LeaseEnd)
		if err != nil {
			continue
		}
		if utils.LeasesOverlap(entryStart, entryEnd, leaseStart, leaseEnd) {
			return entry
		}
	}
	return nil
}

// syncUnitFromTenant updates unit occupancy after a tenant create/edit.
// When the tenant re-linked away from a unit nobody else references, that
// unit reverts to vacant; the newly linked unit becomes occupied with this
// tenant's name.
func syncUnitFromTenant(state *models.AppState, tenant *models.Tenant, previousLinkedUnitID string) {
	if previousLinkedUnitID != "" && previousLinkedUnitID != tenant.LinkedUnitID {
		stillLinked := false
		for i := range state.Tenants {
			entry := &state.Tenants[i]
			if entry.ID != tenant.ID && entry.LinkedUnitID == previousLinkedUnitID {
				stillLinked = true
				break
			}
		}
		if !stillLinked {
			if oldUnit := state.UnitByID(previousLinkedUnitID); oldUnit != nil {
				oldUnit.Status = models.UnitVacant
				oldUnit.TenantName = ""
			}
		}
	}

	if tenant.LinkedUnitID == "" {
		return
	}
	linkedUnit := state.UnitByID(tenant.LinkedUnitID)
	if linkedUnit == nil {
		return
	}
	linkedUnit.Status = models.UnitOccupied
	linkedUnit.TenantName = tenant.TenantName
}

// ReconcileLinks recovers tenant-to-unit links after a load. A tenant whose
// LinkedUnitID no longer resolves is re-linked by case-insensitive label
// match against its cached property name, otherwise the link is cleared.
// Running it twice produces the same result as running it once.
func ReconcileLinks(state *models.AppState) {
	for i := range state.Tenants {
		tenant := &state.Tenants[i]
		if tenant.LinkedUnitID != "" && state.UnitByID(tenant.LinkedUnitID) != nil {
			continue
		}
		tenant.LinkedUnitID = ""
		for j := range state.Units {
			if utils.EqualFoldNormalized(state.Units[j].Label(), tenant.PropertyName) {
				tenant.LinkedUnitID = state.Units[j].ID
				break
			}
		}
	}
}
