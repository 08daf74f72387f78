package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSaleRoutes(app *fiber.App, ledgerDB *gorm.DB, repos *Repos) {
	controller := controllers.NewSaleController(ledgerDB, repos.Sales, repos.Sequence)

	api := app.Group(config.MAIN_ROUTES+"/sales", middleware.AuthMiddleware)
	api.Post("/", controller.CreateSale)
	api.Get("/:invoiceNumber", controller.GetSale)
}
