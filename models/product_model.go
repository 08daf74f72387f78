package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	ProductCode    string  `json:"product_code" gorm:"unique"`
	ProductName    string  `json:"product_name" gorm:"unique" validate:"required,min=2"`
	Composition    string  `json:"composition"`
	Category       string  `json:"category"`
	ManufacturerID uint    `json:"manufacturer_id"`
	PackageUnit    string  `json:"package_unit"` // e.g. "STRIP", "BOTTLE"
	UnitsPerPack   int     `json:"units_per_pack" gorm:"default:1"`
	HSNCode        string  `json:"hsn_code"`
	GSTPercent     float64 `json:"gst_percent" gorm:"default:0"`
	Schedule       string  `json:"schedule"` // drug schedule class, e.g. "H"
	Status         string  `json:"status" gorm:"default:'active'"`
	CreatedBy      int
	UpdatedBy      int
	DeletedBy      int
}
