package services

import (
	"sort"

	"rental-manager-server/models"
	"rental-manager-server/utils"
)

// Read-only rollups over the portfolio. Everything here is derived on
// demand; missing or unparseable monetary fields count as zero and no input
// can make these panic.

type OccupancyCounts struct {
	Total    int `json:"total"`
	Occupied int `json:"occupied"`
	Vacant   int `json:"vacant"`
}

type BuildingOccupancy struct {
	Building string `json:"building"`
	OccupancyCounts
}

type OccupancySummary struct {
	OccupancyCounts
	ByBuilding []BuildingOccupancy `json:"byBuilding"`
}

// OccupancySummaryOf counts units overall and per normalized building name,
// sorted by building.
func OccupancySummaryOf(state *models.AppState) OccupancySummary {
	byBuilding := map[string]*OccupancyCounts{}
	summary := OccupancySummary{ByBuilding: []BuildingOccupancy{}}
	for i := range state.Units {
		unit := &state.Units[i]
		building := utils.NormalizeUnitText(unit.BuildingName)
		counts := byBuilding[building]
		if counts == nil {
			counts = &OccupancyCounts{}
			byBuilding[building] = counts
		}
		summary.Total++
		counts.Total++
		if unit.Occupied() {
			summary.Occupied++
			counts.Occupied++
		} else {
			summary.Vacant++
			counts.Vacant++
		}
	}
	for building, counts := range byBuilding {
		summary.ByBuilding = append(summary.ByBuilding, BuildingOccupancy{Building: building, OccupancyCounts: *counts})
	}
	sort.Slice(summary.ByBuilding, func(i, j int) bool {
		return summary.ByBuilding[i].Building < summary.ByBuilding[j].Building
	})
	return summary
}

type BuildingRent struct {
	Building    string  `json:"building"`
	Expected    float64 `json:"expected"`
	Collected   float64 `json:"collected"`
	Outstanding float64 `json:"outstanding"`
	Deposit     float64 `json:"deposit"`
}

type RentSummary struct {
	Month        string         `json:"month"`
	Expected     float64        `json:"expected"`
	Collected    float64        `json:"collected"`
	Outstanding  float64        `json:"outstanding"`
	TotalDeposit float64        `json:"totalDeposit"`
	ByBuilding   []BuildingRent `json:"byBuilding"`
}

// ActiveTenantsOf lists tenants whose lease intersects the month.
func ActiveTenantsOf(state *models.AppState, monthKey string) []*models.Tenant {
	var active []*models.Tenant
	for i := range state.Tenants {
		if state.Tenants[i].ActiveInMonth(monthKey) {
			active = append(active, &state.Tenants[i])
		}
	}
	return active
}

// RentSummaryFor sums expected, collected and outstanding rent plus
// deposits for the month, overall and grouped by building. Months with no
// active tenants yield zero totals and an empty breakdown.
func RentSummaryFor(state *models.AppState, monthKey string) RentSummary {
	summary := RentSummary{Month: monthKey, ByBuilding: []BuildingRent{}}
	byBuilding := map[string]*BuildingRent{}

	for _, tenant := range ActiveTenantsOf(state, monthKey) {
		building := state.TenantBuildingName(tenant)
		bucket := byBuilding[building]
		if bucket == nil {
			bucket = &BuildingRent{Building: building}
			byBuilding[building] = bucket
		}
		rent := tenant.MonthlyRent.Float()
		summary.Expected += rent
		bucket.Expected += rent
		if tenant.PaymentStatus(monthKey) == models.PaymentPaid {
			summary.Collected += rent
			bucket.Collected += rent
		}
		deposit := tenant.Deposit.Float()
		summary.TotalDeposit += deposit
		bucket.Deposit += deposit
	}

	summary.Outstanding = summary.Expected - summary.Collected
	for _, bucket := range byBuilding {
		bucket.Outstanding = bucket.Expected - bucket.Collected
		summary.ByBuilding = append(summary.ByBuilding, *bucket)
	}
	sort.Slice(summary.ByBuilding, func(i, j int) bool {
		return summary.ByBuilding[i].Building < summary.ByBuilding[j].Building
	})
	return summary
}

// Month status values in the lease rollup. Paid and due come from the
// payment record; future flags months beyond the current real-world month.
const (
	MonthPaid   = "paid"
	MonthDue    = "due"
	MonthFuture = "future"
)

type MonthStatus struct {
	Month  string `json:"month"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

type TenantLeaseStatus struct {
	TenantID      string        `json:"tenantId"`
	TenantName    string        `json:"tenantName"`
	PropertyLabel string        `json:"propertyLabel"`
	LeaseStart    string        `json:"leaseStart"`
	LeaseEnd      string        `json:"leaseEnd"`
	Months        []MonthStatus `json:"months"`
	DueMonths     int           `json:"dueMonths"`
}

type BuildingLeaseStatus struct {
	Building  string              `json:"building"`
	DueMonths int                 `json:"dueMonths"`
	Tenants   []TenantLeaseStatus `json:"tenants"`
}

type LeaseStatusRollup struct {
	CurrentMonth string                `json:"currentMonth"`
	Buildings    []BuildingLeaseStatus `json:"buildings"`
}

// LeaseStatusRollupOf tags every lease-covered month of every tenant as
// paid, due or future relative to currentMonth, grouped by building with
// due-month counts.
func LeaseStatusRollupOf(state *models.AppState, currentMonth string) LeaseStatusRollup {
	rollup := LeaseStatusRollup{CurrentMonth: currentMonth, Buildings: []BuildingLeaseStatus{}}
	byBuilding := map[string]*BuildingLeaseStatus{}

	for i := range state.Tenants {
		tenant := &state.Tenants[i]
		building := state.TenantBuildingName(tenant)
		group := byBuilding[building]
		if group == nil {
			group = &BuildingLeaseStatus{Building: building, Tenants: []TenantLeaseStatus{}}
			byBuilding[building] = group
		}

		status := TenantLeaseStatus{
			TenantID:      tenant.ID,
			TenantName:    tenant.TenantName,
			PropertyLabel: state.TenantPropertyLabel(tenant),
			LeaseStart:    tenant.LeaseStart,
			LeaseEnd:      tenant.LeaseEnd,
			Months:        []MonthStatus{},
		}
		for _, monthKey := range tenant.LeaseMonthKeys() {
			entry := MonthStatus{Month: monthKey, Label: utils.FormatMonthShort(monthKey), Status: MonthDue}
			switch {
			case tenant.PaymentStatus(monthKey) == models.PaymentPaid:
				entry.Status = MonthPaid
			case monthKey > currentMonth:
				entry.Status = MonthFuture
			default:
				status.DueMonths++
			}
			status.Months = append(status.Months, entry)
		}
		group.DueMonths += status.DueMonths
		group.Tenants = append(group.Tenants, status)
	}

	for _, group := range byBuilding {
		rollup.Buildings = append(rollup.Buildings, *group)
	}
	sort.Slice(rollup.Buildings, func(i, j int) bool {
		return rollup.Buildings[i].Building < rollup.Buildings[j].Building
	})
	return rollup
}

// Portfolio wrappers over the pure rollups.

func (p *Portfolio) OccupancySummary() OccupancySummary {
	state := p.Snapshot()
	return OccupancySummaryOf(&state)
}

func (p *Portfolio) RentSummary(monthKey string) RentSummary {
	state := p.Snapshot()
	return RentSummaryFor(&state, utils.SanitizeMonthKey(monthKey))
}

func (p *Portfolio) LeaseStatusRollup() LeaseStatusRollup {
	state := p.Snapshot()
	return LeaseStatusRollupOf(&state, utils.CurrentMonthKey())
}
