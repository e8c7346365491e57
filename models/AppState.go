package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"rental-manager-server/utils"
)

// AppState is the whole portfolio: the persisted JSON shape is identical
// whether it lands in the local snapshot or the remote row.
type AppState struct {
	ActiveMonth  string       `json:"activeMonth"`
	Tenants      []Tenant     `json:"tenants"`
	Units        []Unit       `json:"units"`
	NotifyConfig NotifyConfig `json:"notifyConfig"`
}

func NewAppState() *AppState {
	state := &AppState{
		ActiveMonth: utils.CurrentMonthKey(),
		Tenants:     []Tenant{},
		Units:       []Unit{},
	}
	state.NotifyConfig.Normalize()
	return state
}

// Normalize repairs a freshly deserialized state: unit text normalization and
// id backfill, payment map normalization against legacy boolean records,
// month sanitization and config defaults. Safe to run repeatedly.
func (s *AppState) Normalize() {
	if s.Tenants == nil {
		s.Tenants = []Tenant{}
	}
	if s.Units == nil {
		s.Units = []Unit{}
	}
	for i := range s.Units {
		unit := &s.Units[i]
		if unit.ID == "" {
			unit.ID = uuid.NewString()
		}
		unit.BuildingName = utils.NormalizeUnitText(unit.BuildingName)
		unit.UnitNumber = utils.NormalizeUnitText(unit.UnitNumber)
		if unit.Status != UnitOccupied {
			unit.Status = UnitVacant
		}
	}
	for i := range s.Tenants {
		tenant := &s.Tenants[i]
		if tenant.ID == "" {
			tenant.ID = uuid.NewString()
		}
		if tenant.Documents == nil {
			tenant.Documents = []Document{}
		}
		tenant.Payments = NormalizePayments(tenant.Payments)
	}
	s.NotifyConfig.Normalize()
	s.ActiveMonth = utils.SanitizeMonthKey(s.ActiveMonth)
}

// Clone returns a deep copy of the whole state. Readers work on clones so
// the live state is only ever touched under its owner's lock; a shallow copy
// would share the payment maps and race with concurrent mutations.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		ActiveMonth:  s.ActiveMonth,
		Tenants:      make([]Tenant, len(s.Tenants)),
		Units:        append([]Unit{}, s.Units...),
		NotifyConfig: s.NotifyConfig.Clone(),
	}
	for i := range s.Tenants {
		out.Tenants[i] = s.Tenants[i].Clone()
	}
	return out
}

// UnitByID returns a pointer into the Units slice, or nil.
func (s *AppState) UnitByID(id string) *Unit {
	if id == "" {
		return nil
	}
	for i := range s.Units {
		if s.Units[i].ID == id {
			return &s.Units[i]
		}
	}
	return nil
}

// TenantByID returns a pointer into the Tenants slice, or nil.
func (s *AppState) TenantByID(id string) *Tenant {
	if id == "" {
		return nil
	}
	for i := range s.Tenants {
		if s.Tenants[i].ID == id {
			return &s.Tenants[i]
		}
	}
	return nil
}

// TenantByName finds a tenant by trimmed, case-insensitive display name.
func (s *AppState) TenantByName(name string) *Tenant {
	for i := range s.Tenants {
		if s.Tenants[i].NameMatches(name) {
			return &s.Tenants[i]
		}
	}
	return nil
}

// TenantPropertyLabel resolves the display label for a tenant's unit: the
// linked unit when it exists, otherwise the cached property name.
func (s *AppState) TenantPropertyLabel(t *Tenant) string {
	if unit := s.UnitByID(t.LinkedUnitID); unit != nil {
		return unit.Label()
	}
	if t.PropertyName != "" {
		return t.PropertyName
	}
	return "-"
}

// TenantBuildingName resolves a tenant's building: by linked unit, then by
// label match against the cached property name, then the raw cached name.
func (s *AppState) TenantBuildingName(t *Tenant) string {
	if unit := s.UnitByID(t.LinkedUnitID); unit != nil {
		return unit.BuildingName
	}
	label := utils.NormalizeUnitText(t.PropertyName)
	for i := range s.Units {
		if utils.EqualFoldNormalized(s.Units[i].Label(), label) {
			return s.Units[i].BuildingName
		}
	}
	return label
}

// AppStateRow is the single remote row the whole state serializes into.
type AppStateRow struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (AppStateRow) TableName() string { return "app_state" }
