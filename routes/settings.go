package routes

import (
	"github.com/kataras/iris/v12"

	"rental-manager-server/models"
	"rental-manager-server/utils"
)

func GetNotifyConfig(ctx iris.Context) {
	respondData(ctx, App.NotifyConfig())
}

func SaveNotifyConfig(ctx iris.Context) {
	var input NotifyConfigInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	config := models.NotifyConfig{
		Admins:                utils.ParseEmailList(input.Admins),
		Managers:              utils.ParseEmailList(input.Managers),
		EmailJSPublicKey:      input.EmailJSPublicKey,
		EmailJSServiceID:      input.EmailJSServiceID,
		EmailJSTemplateID:     input.EmailJSTemplateID,
		SenderName:            input.SenderName,
		ReviewSubjectTemplate: input.ReviewSubjectTemplate,
		BuildingAddresses:     input.BuildingAddresses,
		BuildingLandlords:     input.BuildingLandlords,
	}
	App.SaveNotifyConfig(config)

	respondSaved(ctx, iris.StatusOK, App.NotifyConfig())
}

func GetActiveMonth(ctx iris.Context) {
	monthKey := App.ActiveMonth()
	respondData(ctx, iris.Map{"month": monthKey, "label": utils.FormatMonth(monthKey)})
}

func SetActiveMonth(ctx iris.Context) {
	var input ActiveMonthInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := App.SetActiveMonth(input.Month); err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusOK, iris.Map{"month": App.ActiveMonth()})
}

// Admin/manager lists arrive as free text, one address per line or comma
// separated, the way the settings form collects them.
type NotifyConfigInput struct {
	Admins                string            `json:"admins"`
	Managers              string            `json:"managers"`
	EmailJSPublicKey      string            `json:"emailjsPublicKey"`
	EmailJSServiceID      string            `json:"emailjsServiceId"`
	EmailJSTemplateID     string            `json:"emailjsTemplateId"`
	SenderName            string            `json:"senderName"`
	ReviewSubjectTemplate string            `json:"reviewSubjectTemplate"`
	BuildingAddresses     map[string]string `json:"buildingAddresses"`
	BuildingLandlords     map[string]string `json:"buildingLandlords"`
}

type ActiveMonthInput struct {
	Month string `json:"month" validate:"required"`
}
