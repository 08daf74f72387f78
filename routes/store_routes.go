package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupStoreRoutes(app *fiber.App, masterDB *gorm.DB, repos *Repos) {
	controller := controllers.NewStoreController(masterDB, repos.Sequence)

	api := app.Group(config.MAIN_ROUTES+"/stores", middleware.AuthMiddleware)
	api.Post("/", controller.CreateStore)
	api.Get("/", controller.GetAllStores)
	api.Get("/:code", controller.GetStoreByCode)
}
