package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProductRoutes(app *fiber.App, masterDB *gorm.DB, repos *Repos) {
	controller := controllers.NewProductController(masterDB, repos.Sequence)

	api := app.Group(config.MAIN_ROUTES+"/products", middleware.AuthMiddleware)
	api.Post("/", controller.CreateProduct)
	api.Get("/", controller.GetAllProducts)
	api.Get("/:id", controller.GetProductByID)
	api.Put("/:id", controller.UpdateProduct)
	api.Delete("/:id", controller.DeleteProduct)
}
