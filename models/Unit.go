package models

import "rental-manager-server/utils"

const (
	UnitVacant   = "vacant"
	UnitOccupied = "occupied"
)

// Unit is a rentable building unit. TenantName is a denormalized copy of the
// current occupant's display name; the authoritative relation is
// Tenant.LinkedUnitID, which the linking model keeps in sync with this field.
type Unit struct {
	ID           string `json:"id"`
	BuildingName string `json:"buildingName"`
	UnitNumber   string `json:"unitNumber"`
	Status       string `json:"status"`
	TenantName   string `json:"tenantName"`
	Notes        string `json:"notes"`
}

// Key is the uniqueness key for a unit: normalized building name plus
// normalized unit number, case-insensitive.
func (u *Unit) Key() string {
	return utils.UnitKey(u.BuildingName, u.UnitNumber)
}

// Label is the display form used as a tenant's denormalized property name,
// e.g. "Maple Residency - 101".
func (u *Unit) Label() string {
	return u.BuildingName + " - " + u.UnitNumber
}

func (u *Unit) Occupied() bool { return u.Status == UnitOccupied }
