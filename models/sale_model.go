package models

import (
	"pharma-app/types"

	"gorm.io/gorm"
)

type SaleHeader struct {
	gorm.Model
	ID            types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	StoreCode     string            `json:"store_code"`
	InvoiceNumber string            `json:"invoice_number" gorm:"unique"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	DoctorName    string            `json:"doctor_name"`
	PaymentMode   string            `json:"payment_mode"`
	TotalAmount   float64           `json:"total_amount"`
	Status        string            `json:"status" gorm:"default:'active'"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}

type SaleDetail struct {
	gorm.Model
	SaleID       types.SnowflakeID `json:"sale_id" gorm:"index"`
	ProductID    uint              `json:"product_id"`
	ProductName  string            `json:"product_name"`
	RequestedQty int               `json:"requested_qty"`
	AllocatedQty int               `json:"allocated_qty"`
	LineAmount   float64           `json:"line_amount"`
	CreatedBy    int
	UpdatedBy    int
}

// SaleAllocation records which batch supplied how much of a sale line and
// at what price. One SaleDetail fans out to one allocation per batch taken.
type SaleAllocation struct {
	gorm.Model
	SaleDetailID uint    `json:"sale_detail_id" gorm:"index"`
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	Quantity     int     `json:"batch_sale_quantity"`
	PriceApplied float64 `json:"batch_product_price"`
	CreatedBy    int
}
