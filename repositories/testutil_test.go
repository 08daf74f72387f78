package repositories

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"pharma-app/controllers/idgen"
	"pharma-app/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	idgen.Init()
	os.Exit(m.Run())
}

var testDBCounter int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

// newTestDBs opens an isolated master and ledger schema pair, migrated
// and with the sequence counters seeded.
func newTestDBs(t *testing.T) (masterDB, ledgerDB *gorm.DB) {
	t.Helper()

	masterDB = openTestDB(t)
	require.NoError(t, masterDB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Manufacturer{},
		&models.Distributor{},
		&models.StoreDetails{},
		&models.SequenceCounter{},
	))

	ledgerDB = openTestDB(t)
	require.NoError(t, ledgerDB.AutoMigrate(
		&models.StockRecord{},
		&models.BatchEntry{},
		&models.PricingEntry{},
		&models.PurchaseHeader{},
		&models.PurchaseDetail{},
		&models.SaleHeader{},
		&models.SaleDetail{},
		&models.SaleAllocation{},
		&models.FileLog{},
	))

	counters := map[string]string{
		models.SeqStore:        "ICSTR0000",
		models.SeqProduct:      "ICPRD00000",
		models.SeqManufacturer: "ICMFR0000",
		models.SeqDistributor:  "ICDST0000",
		models.SeqPurchaseNo:   "PO000000",
		models.SeqSaleInvoice:  "INV000000",
	}
	for entity, last := range counters {
		require.NoError(t, masterDB.Create(&models.SequenceCounter{EntityName: entity, LastCode: last}).Error)
	}

	return masterDB, ledgerDB
}

func seedProduct(t *testing.T, db *gorm.DB, name, composition string, manufacturerID uint) *models.Product {
	t.Helper()
	product := models.Product{
		ProductCode:    "ICPRD" + fmt.Sprintf("%05d", atomic.AddInt64(&testDBCounter, 1)),
		ProductName:    name,
		Composition:    composition,
		ManufacturerID: manufacturerID,
		UnitsPerPack:   10,
		Status:         models.StatusActive,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func seedManufacturer(t *testing.T, db *gorm.DB, name string) *models.Manufacturer {
	t.Helper()
	manufacturer := models.Manufacturer{
		ManufacturerCode: "ICMFR" + fmt.Sprintf("%04d", atomic.AddInt64(&testDBCounter, 1)),
		ManufacturerName: name,
		Status:           models.StatusActive,
	}
	require.NoError(t, db.Create(&manufacturer).Error)
	return &manufacturer
}

func seedDistributor(t *testing.T, db *gorm.DB, name string) *models.Distributor {
	t.Helper()
	distributor := models.Distributor{
		DistributorCode: "ICDST" + fmt.Sprintf("%04d", atomic.AddInt64(&testDBCounter, 1)),
		DistributorName: name,
		Status:          models.StatusActive,
	}
	require.NoError(t, db.Create(&distributor).Error)
	return &distributor
}

// requireStockInvariant asserts available_stock equals the sum of the
// active batches' quantities.
func requireStockInvariant(t *testing.T, stock *StockRepository, storeCode string, productID uint) {
	t.Helper()
	record, err := stock.GetStock(storeCode, productID)
	require.NoError(t, err)

	sum := 0
	for _, batch := range record.Batches {
		if batch.Status == models.StatusActive {
			sum += batch.Quantity
		}
	}
	require.Equal(t, sum, record.AvailableStock, "available_stock must equal sum of active batch quantities")
}
