package database

import (
	"log"

	"pharma-app/models"

	"gorm.io/gorm"
)

// MigrateMaster migrates the reference-data schema: users, catalog,
// partners, stores and the sequence counters.
func MigrateMaster(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Manufacturer{},
		&models.Distributor{},
		&models.StoreDetails{},
		&models.SequenceCounter{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate master database: %v", err)
	}
}

// MigrateLedger migrates the transactional schema: stock, pricing,
// purchases, sales and the processor's file log.
func MigrateLedger(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.StockRecord{},
		&models.BatchEntry{},
		&models.PricingEntry{},
		&models.PurchaseHeader{},
		&models.PurchaseDetail{},
		&models.SaleHeader{},
		&models.SaleDetail{},
		&models.SaleAllocation{},
		&models.FileLog{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate ledger database: %v", err)
	}
}
