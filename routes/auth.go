package routes

import (
	"os"

	"github.com/kataras/iris/v12"

	"rental-manager-server/utils"
)

// PIN-based role selection. There are no user accounts: each role has one
// configured PIN and the issued token just carries the role.

type PinLoginInput struct {
	PIN string `json:"pin" validate:"required"`
}

func rolePins() map[string]utils.Role {
	pins := map[string]utils.Role{}
	add := func(envKey, fallback string, role utils.Role) {
		pin := os.Getenv(envKey)
		if pin == "" {
			pin = fallback
		}
		pins[pin] = role
	}
	add("VIEWER_PIN", "1111", utils.RoleViewer)
	add("MANAGER_PIN", "2222", utils.RoleManager)
	add("ADMIN_PIN", "3333", utils.RoleAdmin)
	return pins
}

func PinLogin(ctx iris.Context) {
	var input PinLoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	role, ok := rolePins()[input.PIN]
	if !ok {
		utils.JSONError(ctx, iris.StatusUnauthorized, "Invalid PIN", "the PIN does not match any role")
		return
	}

	token, err := utils.CreateAccessToken(string(role), role)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken": token,
		"role":        role,
		"username":    string(role),
	})
}

func GetMe(ctx iris.Context) {
	role := utils.RoleFromContext(ctx)
	ctx.JSON(iris.Map{"role": role, "username": string(role)})
}
