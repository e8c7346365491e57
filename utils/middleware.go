package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// RoleFromContext extracts the verified role, or anonymous when the request
// carries no token.
func RoleFromContext(ctx iris.Context) Role {
	tok := jwt.Get(ctx)
	if tok == nil {
		return RoleAnonymous
	}
	claims, ok := tok.(*AccessToken)
	if !ok {
		return RoleAnonymous
	}
	return ParseRole(claims.Role)
}

// RequirePermission gates a route on the capability table.
func RequirePermission(permission Permission) iris.Handler {
	return func(ctx iris.Context) {
		role := RoleFromContext(ctx)
		if !Can(role, permission) {
			ctx.StatusCode(iris.StatusForbidden)
			ctx.JSON(iris.Map{"error": "forbidden", "message": "role " + string(role) + " cannot " + string(permission)})
			return
		}
		ctx.Values().Set("role", role)
		ctx.Next()
	}
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	if RoleFromContext(ctx) != RoleAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Next()
}
