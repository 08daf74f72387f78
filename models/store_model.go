package models

import "gorm.io/gorm"

type StoreDetails struct {
	gorm.Model
	StoreCode string `json:"store_code" gorm:"unique"`
	StoreName string `json:"store_name" gorm:"unique"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
	Status    string `json:"status" gorm:"default:'active'"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}
