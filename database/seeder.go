package database

import (
	"errors"
	"log"

	"pharma-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedCounters are the initial sequence values. The first issued code is
// the increment of the seed, e.g. store → ICSTR0001.
var seedCounters = map[string]string{
	models.SeqStore:        "ICSTR0000",
	models.SeqProduct:      "ICPRD00000",
	models.SeqManufacturer: "ICMFR0000",
	models.SeqDistributor:  "ICDST0000",
	models.SeqPurchaseNo:   "PO000000",
	models.SeqSaleInvoice:  "INV000000",
}

// RunSeeders populates the master DB with the admin account, the
// sequence counters and a starter store. Existing rows are left
// untouched.
func RunSeeders(db *gorm.DB) {
	seedAdminUser(db)
	seedSequenceCounters(db)
	seedDemoStore(db)
}

func seedAdminUser(db *gorm.DB) {
	var user models.User
	err := db.Where("username = ?", "admin").First(&user).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check admin user: %v", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "Administrator",
		Email:    "admin@localhost",
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
	}
}

// seedDemoStore gives a fresh install one store to log into. The admin
// user is attached to it so the token carries a usable store code.
func seedDemoStore(db *gorm.DB) {
	var store models.StoreDetails
	err := db.Where("store_code = ?", "ICSTR0001").First(&store).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check demo store: %v", err)
		return
	}

	store = models.StoreDetails{
		StoreCode: "ICSTR0001",
		StoreName: "Main Street Pharmacy",
		Status:    models.StatusActive,
	}
	if err := db.Create(&store).Error; err != nil {
		log.Printf("Failed to seed demo store: %v", err)
		return
	}

	// counter must not hand out the seeded code again
	db.Model(&models.SequenceCounter{}).
		Where("entity_name = ? AND last_code = ?", models.SeqStore, seedCounters[models.SeqStore]).
		Update("last_code", "ICSTR0001")

	db.Model(&models.User{}).
		Where("username = ?", "admin").
		Update("store_code", "ICSTR0001")
}

func seedSequenceCounters(db *gorm.DB) {
	for entity, lastCode := range seedCounters {
		var counter models.SequenceCounter
		err := db.Where("entity_name = ?", entity).First(&counter).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to check sequence counter %s: %v", entity, err)
			continue
		}

		counter = models.SequenceCounter{EntityName: entity, LastCode: lastCode}
		if err := db.Create(&counter).Error; err != nil {
			log.Printf("Failed to seed sequence counter %s: %v", entity, err)
		}
	}
}
