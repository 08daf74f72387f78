package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPartnerRoutes(app *fiber.App, masterDB *gorm.DB, repos *Repos) {
	controller := controllers.NewPartnerController(masterDB, repos.Sequence)

	manufacturers := app.Group(config.MAIN_ROUTES+"/manufacturers", middleware.AuthMiddleware)
	manufacturers.Post("/", controller.CreateManufacturer)
	manufacturers.Get("/", controller.GetAllManufacturers)
	manufacturers.Get("/:id", controller.GetManufacturerByID)

	distributors := app.Group(config.MAIN_ROUTES+"/distributors", middleware.AuthMiddleware)
	distributors.Post("/", controller.CreateDistributor)
	distributors.Get("/", controller.GetAllDistributors)
	distributors.Get("/:id", controller.GetDistributorByID)
}
