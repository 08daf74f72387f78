package models

import (
	"pharma-app/types"

	"gorm.io/gorm"
)

type PurchaseHeader struct {
	gorm.Model
	ID            types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	StoreCode     string            `json:"store_code"`
	DistributorID uint              `json:"distributor_id"`
	InvoiceNumber string            `json:"invoice_number"`
	PoNumber      string            `json:"po_number" gorm:"unique"`
	PurchaseDate  string            `json:"purchase_date"`
	TotalMRP      float64           `json:"total_mrp"`
	TotalNetRate  float64           `json:"total_net_rate"`
	TotalRate     float64           `json:"total_rate"`
	Status        string            `json:"status" gorm:"default:'active'"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}

type PurchaseDetail struct {
	gorm.Model
	PurchaseID      types.SnowflakeID `json:"purchase_id" gorm:"index"`
	PoNumber        string            `json:"po_number"`
	ProductID       uint              `json:"product_id"`
	ProductName     string            `json:"product_name"`
	ManufacturerID  uint              `json:"manufacturer_id"`
	BatchNumber     string            `json:"batch_number"`
	ExpiryDate      string            `json:"expiry_date"`
	Quantity        int               `json:"quantity"`
	PackageQuantity int               `json:"package_quantity"`
	MRP             float64           `json:"mrp"`
	Discount        float64           `json:"discount"`
	Tax             float64           `json:"tax"`
	Rate            float64           `json:"rate"`
	NetRate         float64           `json:"net_rate"`
	CreatedBy       int
	UpdatedBy       int
}
