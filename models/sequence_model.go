package models

import "gorm.io/gorm"

// SequenceCounter stores the last issued code per entity class, e.g.
// entity "store" → "ICSTR0007". Codes are an alphabetic prefix followed
// by a zero-padded number; issuance parses, increments and persists the
// code through a compare-and-swap update.
type SequenceCounter struct {
	gorm.Model
	EntityName string `json:"entity_name" gorm:"unique;not null"`
	LastCode   string `json:"last_code" gorm:"not null"`
}

// Entity classes with seeded counters.
const (
	SeqStore        = "store"
	SeqProduct      = "product"
	SeqManufacturer = "manufacturer"
	SeqDistributor  = "distributor"
	SeqPurchaseNo   = "purchase_order"
	SeqSaleInvoice  = "sale_invoice"
)
