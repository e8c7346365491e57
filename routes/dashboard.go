package routes

import (
	"github.com/kataras/iris/v12"

	"rental-manager-server/services"
	"rental-manager-server/utils"
)

// The dashboard endpoints are read-only aggregations over the shared state.

func GetOccupancy(ctx iris.Context) {
	respondData(ctx, App.OccupancySummary())
}

func GetRentSummary(ctx iris.Context) {
	monthKey := ctx.URLParam("month")
	if monthKey == "" {
		monthKey = App.ActiveMonth()
	}
	if !utils.IsValidMonthKey(monthKey) {
		utils.JSONError(ctx, iris.StatusBadRequest, "Validation Error", "month must look like YYYY-MM")
		return
	}

	respondData(ctx, App.RentSummary(monthKey))
}

func GetLeaseStatus(ctx iris.Context) {
	respondData(ctx, App.LeaseStatusRollup())
}

// GetMonthlyReport combines the per-month views into one payload for the
// printable report page.
func GetMonthlyReport(ctx iris.Context) {
	monthKey := ctx.URLParam("month")
	if monthKey == "" {
		monthKey = App.ActiveMonth()
	}
	if !utils.IsValidMonthKey(monthKey) {
		utils.JSONError(ctx, iris.StatusBadRequest, "Validation Error", "month must look like YYYY-MM")
		return
	}

	state := App.Snapshot()
	rent := services.RentSummaryFor(&state, monthKey)
	occupancy := services.OccupancySummaryOf(&state)

	type reportTenant struct {
		TenantID    string  `json:"tenantId"`
		TenantName  string  `json:"tenantName"`
		Property    string  `json:"property"`
		MonthlyRent float64 `json:"monthlyRent"`
		Status      string  `json:"status"`
	}
	tenants := []reportTenant{}
	for _, t := range services.ActiveTenantsOf(&state, monthKey) {
		tenants = append(tenants, reportTenant{
			TenantID:    t.ID,
			TenantName:  t.TenantName,
			Property:    state.TenantPropertyLabel(t),
			MonthlyRent: t.MonthlyRent.Float(),
			Status:      t.PaymentStatus(monthKey),
		})
	}

	respondData(ctx, iris.Map{
		"month":      monthKey,
		"monthLabel": utils.FormatMonth(monthKey),
		"occupancy":  occupancy,
		"rent":       rent,
		"tenants":    tenants,
	})
}
