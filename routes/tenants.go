package routes

import (
	"github.com/google/uuid"
	"github.com/kataras/iris/v12"

	"rental-manager-server/models"
	"rental-manager-server/services"
	"rental-manager-server/utils"
)

func ListTenants(ctx iris.Context) {
	state := App.Snapshot()
	respondData(ctx, state.Tenants)
}

func CreateTenant(ctx iris.Context) {
	var input TenantFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tenantID := uuid.NewString()
	documents, err := services.PrepareDocuments(Store.RowID, tenantID, input.Documents, 0)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	tenant, err := App.AddTenant(services.TenantInput{
		ID:           tenantID,
		TenantName:   input.TenantName,
		Email:        input.Email,
		Mobile:       input.Mobile,
		MonthlyRent:  input.MonthlyRent,
		LeaseStart:   input.LeaseStart,
		LeaseEnd:     input.LeaseEnd,
		Deposit:      input.Deposit,
		Notes:        input.Notes,
		LinkedUnitID: input.LinkedUnitID,
		Documents:    documents,
	})
	if err != nil {
		// The record was rejected after the uploads went out; clean them up.
		go services.DeleteTenantDocuments(documents)
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusCreated, tenant)
}

func UpdateTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input TenantFormInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	state := App.Snapshot()
	existing := state.TenantByID(id)
	if existing == nil {
		utils.CreateNotFound(ctx)
		return
	}

	removed := map[string]bool{}
	for _, key := range input.RemoveDocuments {
		removed[key] = true
	}
	kept := []models.Document{}
	dropped := []models.Document{}
	for _, doc := range existing.Documents {
		key := doc.Path
		if key == "" {
			key = doc.Name
		}
		if removed[key] {
			dropped = append(dropped, doc)
			continue
		}
		kept = append(kept, doc)
	}

	added, err := services.PrepareDocuments(Store.RowID, id, input.Documents, services.StoredDocumentBytes(kept))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	tenant, err := App.UpdateTenant(id, services.TenantInput{
		TenantName:   input.TenantName,
		Email:        input.Email,
		Mobile:       input.Mobile,
		MonthlyRent:  input.MonthlyRent,
		LeaseStart:   input.LeaseStart,
		LeaseEnd:     input.LeaseEnd,
		Deposit:      input.Deposit,
		Notes:        input.Notes,
		LinkedUnitID: input.LinkedUnitID,
		Documents:    append(kept, added...),
	})
	if err != nil {
		go services.DeleteTenantDocuments(added)
		handleServiceError(err, ctx)
		return
	}

	go services.DeleteTenantDocuments(dropped)
	respondSaved(ctx, iris.StatusOK, tenant)
}

func DeleteTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	if err := App.RemoveTenant(id); err != nil {
		handleServiceError(err, ctx)
		return
	}

	respondSaved(ctx, iris.StatusOK, iris.Map{"deleted": id})
}

// NotifyTenant sends the rent reminder email for one month.
func NotifyTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")
	monthKey := utils.SanitizeMonthKey(ctx.Params().Get("month"))

	state := App.Snapshot()
	tenant := state.TenantByID(id)
	if tenant == nil {
		utils.CreateNotFound(ctx)
		return
	}

	err := Notifier.SendRentReminder(state.NotifyConfig, *tenant, state.TenantPropertyLabel(tenant), monthKey)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadGateway, "Email Failed", err.Error())
		return
	}

	respondData(ctx, iris.Map{"sent": tenant.Email, "month": monthKey})
}

type TenantFormInput struct {
	TenantName      string                    `json:"tenantName" validate:"required,max=256"`
	Email           string                    `json:"email" validate:"omitempty,email"`
	Mobile          string                    `json:"mobile"`
	MonthlyRent     float64                   `json:"monthlyRent" validate:"required,gt=0"`
	LeaseStart      string                    `json:"leaseStart" validate:"required"`
	LeaseEnd        string                    `json:"leaseEnd" validate:"required"`
	Deposit         float64                   `json:"deposit" validate:"gte=0"`
	Notes           string                    `json:"notes"`
	LinkedUnitID    string                    `json:"linkedUnitId" validate:"required"`
	Documents       []services.DocumentUpload `json:"documents"`
	RemoveDocuments []string                  `json:"removeDocuments"`
}
