package main

import (
	"context"
	"log"
	"os"

	"rental-manager-server/routes"
	"rental-manager-server/services"
	"rental-manager-server/storage"
	"rental-manager-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeObjectStorage()
	if storage.DB != nil {
		storage.InitializeRedis()
	}

	store := storage.NewStateStore()
	notifier := services.NewNotificationService()
	portfolio := services.NewPortfolio(store, notifier)
	if err := portfolio.Start(context.Background()); err != nil {
		log.Fatalf("❌ Failed to load app state: %v", err)
	}

	routes.App = portfolio
	routes.Store = store
	routes.Notifier = notifier

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard app (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/login", routes.PinLogin)
		auth.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
	}

	units := app.Party("/api/units")
	{
		units.Get("/", accessTokenVerifierMiddleware, routes.ListUnits)
		units.Post("/", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermUnitAdd), routes.CreateUnit)
		units.Put("/{id}", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermUnitAdd), routes.UpdateUnit)
		units.Delete("/{id}", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermUnitDelete), routes.DeleteUnit)
		units.Post("/{id}/set-vacant", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermUnitSetVacant), routes.SetUnitVacant)
	}

	tenants := app.Party("/api/tenants")
	{
		tenants.Get("/", accessTokenVerifierMiddleware, routes.ListTenants)
		tenants.Post("/", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermTenantAdd), routes.CreateTenant)
		tenants.Put("/{id}", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermTenantEdit), routes.UpdateTenant)
		tenants.Delete("/{id}", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermTenantDelete), routes.DeleteTenant)
		tenants.Post("/{id}/payments/{month}/paid", accessTokenVerifierMiddleware, routes.MarkPaid)
		tenants.Post("/{id}/payments/{month}/unpaid", accessTokenVerifierMiddleware, routes.MarkUnpaid)
		tenants.Post("/{id}/notify/{month}", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermNotifyTenant), routes.NotifyTenant)
		tenants.Get("/{id}/receipt/{month}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.GetReceipt)
	}

	dashboard := app.Party("/api/dashboard")
	{
		// The occupancy board is the public landing view.
		dashboard.Get("/occupancy", routes.GetOccupancy)
		dashboard.Get("/rent-summary", accessTokenVerifierMiddleware, routes.GetRentSummary)
		dashboard.Get("/lease-status", accessTokenVerifierMiddleware, routes.GetLeaseStatus)
		dashboard.Get("/report", accessTokenVerifierMiddleware, routes.GetMonthlyReport)
	}

	settings := app.Party("/api/settings")
	{
		settings.Get("/notify", accessTokenVerifierMiddleware, routes.GetNotifyConfig)
		settings.Put("/notify", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermManageNotifyLists), routes.SaveNotifyConfig)
		settings.Get("/active-month", accessTokenVerifierMiddleware, routes.GetActiveMonth)
		settings.Put("/active-month", accessTokenVerifierMiddleware, utils.RequirePermission(utils.PermSetActiveMonth), routes.SetActiveMonth)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":" + port)
}
