package routes

import (
	"pharma-app/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Repos bundles the repositories shared by the route groups. Reference
// data and sequence counters live in the master DB; stock, pricing,
// purchases and sales live in the ledger DB.
type Repos struct {
	Sequence    *repositories.SequenceRepository
	Stock       *repositories.StockRepository
	Pricing     *repositories.PricingRepository
	Sales       *repositories.SaleRepository
	Purchases   *repositories.PurchaseRepository
	Substitutes *repositories.SubstituteRepository
}

func NewRepos(masterDB, ledgerDB *gorm.DB, allowPartial bool, quarantineWindowDays int) *Repos {
	sequence := repositories.NewSequenceRepository(masterDB)
	stock := repositories.NewStockRepository(ledgerDB)
	pricing := repositories.NewPricingRepository(ledgerDB)

	sales := repositories.NewSaleRepository(ledgerDB, stock, pricing)
	sales.AllowPartialFulfillment = allowPartial
	sales.QuarantineWindowDays = quarantineWindowDays

	return &Repos{
		Sequence:    sequence,
		Stock:       stock,
		Pricing:     pricing,
		Sales:       sales,
		Purchases:   repositories.NewPurchaseRepository(masterDB, ledgerDB, stock, pricing, sequence),
		Substitutes: repositories.NewSubstituteRepository(masterDB, ledgerDB, stock, pricing),
	}
}

// SetupRoutes registers every route group.
func SetupRoutes(app *fiber.App, masterDB, ledgerDB *gorm.DB, repos *Repos) {
	SetupAuthRoutes(app, masterDB)
	SetupProductRoutes(app, masterDB, repos)
	SetupPartnerRoutes(app, masterDB, repos)
	SetupStoreRoutes(app, masterDB, repos)
	SetupStockRoutes(app, repos)
	SetupPurchaseRoutes(app, repos)
	SetupSaleRoutes(app, ledgerDB, repos)
}
