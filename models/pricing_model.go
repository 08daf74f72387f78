package models

import "gorm.io/gorm"

// PricingEntry is the selling price of one batch at one store. NetRate is
// derived: round2(mrp × (1 − discount_percent/100)). Selling price is
// independent of the purchase cost on the receipt that created the batch.
type PricingEntry struct {
	gorm.Model
	StoreCode       string  `json:"store_code" gorm:"index:idx_price_key"`
	ProductID       uint    `json:"product_id" gorm:"index:idx_price_key"`
	BatchNumber     string  `json:"batch_number" gorm:"index:idx_price_key"`
	MRP             float64 `json:"mrp"`
	DiscountPercent float64 `json:"discount_percent"`
	NetRate         float64 `json:"net_rate"`
	Status          string  `json:"status" gorm:"default:'active'"`
	LastUpdatedBy   int     `json:"last_updated_by"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}
