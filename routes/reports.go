package routes

import (
	"github.com/kataras/iris/v12"

	"rental-manager-server/models"
	"rental-manager-server/utils"
)

// GetReceipt returns everything the printable rent receipt needs, already
// formatted. Only months marked paid have a receipt.
func GetReceipt(ctx iris.Context) {
	tenantID := ctx.Params().Get("id")
	monthKey := ctx.Params().Get("month")

	if !utils.IsValidMonthKey(monthKey) {
		utils.JSONError(ctx, iris.StatusBadRequest, "Validation Error", "month must look like YYYY-MM")
		return
	}

	state := App.Snapshot()
	tenant := state.TenantByID(tenantID)
	if tenant == nil {
		utils.CreateNotFound(ctx)
		return
	}

	if tenant.PaymentStatus(monthKey) != models.PaymentPaid {
		utils.JSONError(ctx, iris.StatusConflict, "Not Paid", "a receipt is only available once the month is marked paid")
		return
	}

	payment := tenant.Payments[monthKey]
	paidDate := payment.PaidDate
	if paidDate == "" {
		paidDate = utils.TodayISO()
	}

	building := state.TenantBuildingName(tenant)
	config := state.NotifyConfig
	amount := tenant.MonthlyRent.Float()

	respondData(ctx, iris.Map{
		"tenantName":      tenant.TenantName,
		"property":        state.TenantPropertyLabel(tenant),
		"mobile":          utils.DisplayMobile(tenant.Mobile),
		"month":           monthKey,
		"monthLabel":      utils.FormatMonth(monthKey),
		"amount":          amount,
		"amountFormatted": utils.FormatINR(amount),
		"amountInWords":   utils.AmountInWordsIndian(amount),
		"paidDate":        utils.FormatDateDDMMYYYY(paidDate),
		"buildingAddress": config.BuildingAddresses[utils.NormalizeUnitText(building)],
		"landlordName":    config.BuildingLandlords[utils.NormalizeUnitText(building)],
		"senderName":      config.SenderName,
	})
}
