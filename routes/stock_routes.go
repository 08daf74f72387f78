package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupStockRoutes(app *fiber.App, repos *Repos) {
	controller := controllers.NewStockController(repos.Stock, repos.Pricing, repos.Substitutes)

	api := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)
	api.Get("/", controller.GetStoreStock)
	api.Post("/export", controller.ExportStock)
	api.Get("/:productId", controller.GetStock)
	api.Post("/:productId/quarantine", controller.Quarantine)
	api.Get("/:productId/substitutes", controller.GetSubstitutes)

	pricing := app.Group(config.MAIN_ROUTES+"/pricing", middleware.AuthMiddleware)
	pricing.Post("/", controller.CreatePricing)
	pricing.Put("/", controller.UpdatePricing)
	pricing.Get("/:productId/:batchNumber", controller.GetPricing)
}
