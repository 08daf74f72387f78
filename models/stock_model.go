package models

import (
	"pharma-app/types"

	"gorm.io/gorm"
)

// StockRecord is the per-(store, product) aggregate of the batch ledger.
// AvailableStock is derived state: it must always equal the sum of the
// quantities of this record's active batches.
type StockRecord struct {
	gorm.Model
	ID             types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	StoreCode      string            `json:"store_code" gorm:"index:idx_stock_store_product,unique"`
	ProductID      uint              `json:"product_id" gorm:"index:idx_stock_store_product,unique"`
	ProductName    string            `json:"product_name"`
	AvailableStock int               `json:"available_stock" gorm:"default:0"`
	Status         string            `json:"status" gorm:"default:'active'"`
	Batches        []BatchEntry      `json:"batch_details" gorm:"foreignKey:StockRecordID"`
	CreatedBy      int
	UpdatedBy      int
	DeletedBy      int
}

// BatchEntry is one dated lot of stock. ExpiryDate is month-granular and
// stored as "YYYY-MM" so that ORDER BY expiry_date is FEFO order.
type BatchEntry struct {
	gorm.Model
	StockRecordID   types.SnowflakeID `json:"stock_record_id" gorm:"index"`
	BatchNumber     string            `json:"batch_number" gorm:"not null"`
	ExpiryDate      string            `json:"expiry_date"`
	Quantity        int               `json:"quantity" gorm:"default:0"`
	PackageQuantity int               `json:"package_quantity" gorm:"default:0"`
	Status          string            `json:"status" gorm:"default:'active'"`
	CreatedBy       int
	UpdatedBy       int
}
