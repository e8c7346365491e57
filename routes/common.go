package routes

import (
	"errors"

	"github.com/kataras/iris/v12"

	"rental-manager-server/services"
	"rental-manager-server/storage"
	"rental-manager-server/utils"
)

// Package-level collaborators, wired once in main. The portfolio is the
// single state container; the store only leaks here for the shared row id
// that namespaces document uploads.
var (
	App      *services.Portfolio
	Store    *storage.StateStore
	Notifier *services.NotificationService
)

// respondSaved persists after a successful mutation and replies with the
// data envelope. Persistence failures do not undo the mutation; they
// surface as a warning in meta.
func respondSaved(ctx iris.Context, status int, data interface{}) {
	warning := ""
	if err := App.Persist(ctx.Request().Context()); err != nil {
		switch {
		case errors.Is(err, storage.ErrRemoteSyncFailed):
			warning = "Remote sync failed. Saved locally on this device."
		case errors.Is(err, storage.ErrStateTooLarge):
			warning = "Unable to save app data. Attached files are too large for local storage."
		default:
			warning = "Saving failed: " + err.Error()
		}
	}
	meta := iris.Map{}
	if warning != "" {
		meta["syncWarning"] = warning
	}
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"data": data, "meta": meta, "links": iris.Map{}})
}

func respondData(ctx iris.Context, data interface{}) {
	ctx.JSON(iris.Map{"data": data, "meta": iris.Map{}, "links": iris.Map{}})
}

// handleServiceError maps the model's error kinds onto statuses. Lease
// conflicts carry the conflicting tenant so the client can name them.
func handleServiceError(err error, ctx iris.Context) {
	var duplicate *services.DuplicateUnitError
	var assigned *services.TenantAssignedError
	var conflict *services.LeaseConflictError

	switch {
	case errors.As(err, &duplicate):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"error": "Duplicate Unit", "message": err.Error(), "existingUnit": duplicate.Existing})
	case errors.As(err, &assigned):
		utils.JSONError(ctx, iris.StatusConflict, "Tenant Already Assigned", err.Error())
	case errors.As(err, &conflict):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"error": "Lease Conflict", "message": err.Error(), "conflictingTenant": conflict.Conflicting})
	case errors.Is(err, services.ErrAlreadyPaid):
		utils.JSONError(ctx, iris.StatusConflict, "Already Paid", err.Error())
	case errors.Is(err, services.ErrInactiveLease):
		utils.JSONError(ctx, iris.StatusConflict, "Inactive Lease", err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		utils.JSONError(ctx, iris.StatusForbidden, "Permission Denied", err.Error())
	case errors.Is(err, services.ErrUnitNotFound), errors.Is(err, services.ErrTenantNotFound):
		utils.JSONError(ctx, iris.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, services.ErrDocumentTooLarge), errors.Is(err, storage.ErrStateTooLarge):
		utils.JSONError(ctx, iris.StatusRequestEntityTooLarge, "Document Too Large", err.Error())
	default:
		// Remaining kinds are input validation: bad dates, bad mobile,
		// missing unit reference and friends.
		utils.JSONError(ctx, iris.StatusBadRequest, "Validation Error", err.Error())
	}
}
