package services

import (
	"errors"
	"fmt"

	"rental-manager-server/models"
)

// Validation errors are returned before any mutation is applied; a failed
// operation leaves the portfolio untouched.
var (
	ErrMissingUnitFields = errors.New("building name and unit number are required")
	ErrMissingTenantName = errors.New("tenant name is required for occupied units")
	ErrInvalidLeaseRange = errors.New("lease start date cannot be after lease end date")
	ErrUnitRequired      = errors.New("a building unit must be selected")
	ErrUnitNotFound      = errors.New("unit not found")
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrInvalidMonthKey   = errors.New("invalid month key")
	ErrInactiveLease     = errors.New("tenant lease is not active for this month")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAlreadyPaid       = errors.New("payment is already verified and marked as paid")
)

// DuplicateUnitError reports that the normalized (building, unit number)
// pair already exists, carrying the existing unit for the caller to show.
type DuplicateUnitError struct {
	Existing *models.Unit
}

func (e *DuplicateUnitError) Error() string {
	return fmt.Sprintf("unit already exists: %s", e.Existing.Label())
}

// TenantAssignedError reports that a tenant name is already the occupant of
// another unit; one tenant can be tagged to only one unit.
type TenantAssignedError struct {
	TenantName string
	UnitLabel  string
}

func (e *TenantAssignedError) Error() string {
	return fmt.Sprintf("tenant %q is already tagged to %s", e.TenantName, e.UnitLabel)
}

// LeaseConflictError reports an overlapping lease on the same unit and
// carries the conflicting tenant.
type LeaseConflictError struct {
	Conflicting *models.Tenant
}

func (e *LeaseConflictError) Error() string {
	return fmt.Sprintf("unit is already occupied by %s for overlapping lease dates", e.Conflicting.TenantName)
}
