package models

import (
	"strings"

	"rental-manager-server/utils"
)

// Tenant is a lease holder. LinkedUnitID references the occupied Unit by id;
// PropertyName caches the unit label so the tenant still renders something
// when the unit reference goes stale (legacy imports, deleted units).
type Tenant struct {
	ID           string             `json:"id"`
	PropertyName string             `json:"propertyName"`
	TenantName   string             `json:"tenantName"`
	Email        string             `json:"email"`
	Mobile       string             `json:"mobile"`
	MonthlyRent  Money              `json:"monthlyRent"`
	LeaseStart   string             `json:"leaseStart"`
	LeaseEnd     string             `json:"leaseEnd"`
	Deposit      Money              `json:"deposit"`
	Notes        string             `json:"notes"`
	Documents    []Document         `json:"documents"`
	LinkedUnitID string             `json:"linkedUnitId"`
	Payments     map[string]Payment `json:"payments"`
}

// Clone returns a deep copy. The Payments map and Documents slice are the
// tenant's only reference fields; both are cloned so the copy can be read
// without holding the state lock.
func (t *Tenant) Clone() Tenant {
	out := *t
	out.Documents = append([]Document{}, t.Documents...)
	if t.Payments != nil {
		out.Payments = make(map[string]Payment, len(t.Payments))
		for monthKey, payment := range t.Payments {
			out.Payments[monthKey] = payment
		}
	}
	return out
}

// PaymentStatus returns the canonical status for a month; months with no
// record are due.
func (t *Tenant) PaymentStatus(monthKey string) string {
	if t.Payments == nil {
		return PaymentDue
	}
	payment, ok := t.Payments[monthKey]
	if !ok {
		return PaymentDue
	}
	return payment.Canonical()
}

// ActiveInMonth reports whether the lease interval intersects the full
// calendar span of the month. Unparseable lease dates fail closed.
func (t *Tenant) ActiveInMonth(monthKey string) bool {
	monthStart, monthEnd, err := utils.MonthSpan(monthKey)
	if err != nil {
		return false
	}
	leaseStart, err := utils.ParseISODate(t.LeaseStart)
	if err != nil {
		return false
	}
	leaseEnd, err := utils.ParseISODate(t.LeaseEnd)
	if err != nil {
		return false
	}
	return utils.LeasesOverlap(leaseStart, leaseEnd, monthStart, monthEnd)
}

// LeaseMonthKeys lists every month the lease covers, ascending. An
// unparseable lease yields nothing.
func (t *Tenant) LeaseMonthKeys() []string {
	start, err := utils.ParseISODate(t.LeaseStart)
	if err != nil {
		return nil
	}
	end, err := utils.ParseISODate(t.LeaseEnd)
	if err != nil {
		return nil
	}
	return utils.MonthsCoveredByLease(start, end)
}

// NameMatches compares display names the way the linking model does:
// trimmed, case-insensitive.
func (t *Tenant) NameMatches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(t.TenantName), strings.TrimSpace(name))
}
