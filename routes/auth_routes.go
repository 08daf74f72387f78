package routes

import (
	"pharma-app/config"
	"pharma-app/controllers"
	"pharma-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, masterDB *gorm.DB) {
	controller := controllers.NewAuthController(masterDB)

	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", controller.Login)
	api.Post("/logout", middleware.AuthMiddleware, controller.Logout)
}
