package routes

import (
	"github.com/kataras/iris/v12"

	"rental-manager-server/services"
	"rental-manager-server/utils"
)

func ListUnits(ctx iris.Context) {
	state := App.Snapshot()
	respondData(ctx, state.Units)
}

func CreateUnit(ctx iris.Context) {
	var input UnitFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	unit, err := App.SaveUnit(services.UnitInput{
		BuildingName: input.BuildingName,
		UnitNumber:   input.UnitNumber,
		Status:       input.Status,
		TenantName:   input.TenantName,
		Notes:        input.Notes,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusCreated, unit)
}

func UpdateUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input UnitFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	unit, err := App.SaveUnit(services.UnitInput{
		ID:           id,
		BuildingName: input.BuildingName,
		UnitNumber:   input.UnitNumber,
		Status:       input.Status,
		TenantName:   input.TenantName,
		Notes:        input.Notes,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusOK, unit)
}

func DeleteUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := App.RemoveUnit(id); err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusOK, iris.Map{"deleted": id})
}

func SetUnitVacant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	unit, err := App.SetUnitVacant(id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusOK, unit)
}

type UnitFormInput struct {
	BuildingName string `json:"buildingName" validate:"required,max=256"`
	UnitNumber   string `json:"unitNumber" validate:"required,max=64"`
	Status       string `json:"status" validate:"required,oneof=vacant occupied"`
	TenantName   string `json:"tenantName" validate:"max=256"`
	Notes        string `json:"notes"`
}
