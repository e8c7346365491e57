package utils

import (
	"github.com/kataras/iris/v12"
)

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateError(status int, code, message string, ctx iris.Context) {
	JSONError(ctx, status, code, message)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "internal server error", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "resource not found", ctx)
}

// HandleValidationErrors reports a request-body read or validation failure
// as a 400 with the validator's message.
func HandleValidationErrors(err error, ctx iris.Context) {
	JSONError(ctx, iris.StatusBadRequest, "Validation Error", err.Error())
}
