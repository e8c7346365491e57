package routes

import (
	"github.com/kataras/iris/v12"

	"rental-manager-server/utils"
)

func MarkPaid(ctx iris.Context) {
	tenantID := ctx.Params().Get("id")
	monthKey := ctx.Params().Get("month")
	role := utils.RoleFromContext(ctx)

	result, err := App.MarkPaid(tenantID, monthKey, role, utils.TodayISO())
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	payload := iris.Map{
		"status":  result.Status,
		"payment": result.Payment,
	}
	if result.NotifyWarning != "" {
		payload["notifyWarning"] = result.NotifyWarning
	}
	respondSaved(ctx, iris.StatusOK, payload)
}

func MarkUnpaid(ctx iris.Context) {
	tenantID := ctx.Params().Get("id")
	monthKey := ctx.Params().Get("month")
	role := utils.RoleFromContext(ctx)

	payment, err := App.MarkUnpaid(tenantID, monthKey, role)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusOK, payment)
}
