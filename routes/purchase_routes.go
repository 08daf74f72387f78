package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPurchaseRoutes(app *fiber.App, repos *Repos) {
	controller := controllers.NewPurchaseController(repos.Purchases)

	api := app.Group(config.MAIN_ROUTES+"/purchases", middleware.AuthMiddleware)
	api.Post("/", controller.CreatePurchase)
	api.Post("/upload-excel", controller.UploadPurchaseFile)
	api.Get("/:poNumber", controller.GetPurchase)
}
