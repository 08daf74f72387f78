package main

import (
	"fmt"
	"log"

	"pharma-app/cache"
	"pharma-app/config"
	"pharma-app/controllers/idgen"
	"pharma-app/database"
	"pharma-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	app := fiber.New()

	database.EnsureDatabaseExists(config.DBMaster)
	database.EnsureDatabaseExists(config.DBLedger)

	masterDB, err := database.Open(config.DBMaster)
	if err != nil {
		log.Fatalf("Failed to connect to master database: %v", err)
	}

	ledgerDB, err := database.Open(config.DBLedger)
	if err != nil {
		log.Fatalf("Failed to connect to ledger database: %v", err)
	}

	database.MigrateMaster(masterDB)
	database.MigrateLedger(ledgerDB)
	database.RunSeeders(masterDB)

	idgen.Init()
	cache.Init()

	config.SetupCORS(app)

	repos := routes.NewRepos(masterDB, ledgerDB, config.SaleAllowPartial, config.QuarantineWindowDays)
	routes.SetupRoutes(app, masterDB, ledgerDB, repos)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
