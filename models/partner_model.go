package models

import "gorm.io/gorm"

type Manufacturer struct {
	gorm.Model
	ManufacturerCode string `json:"manufacturer_code" gorm:"unique"`
	ManufacturerName string `json:"manufacturer_name" gorm:"unique"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Status           string `json:"status" gorm:"default:'active'"`
	CreatedBy        int
	UpdatedBy        int
	DeletedBy        int
}

type Distributor struct {
	gorm.Model
	DistributorCode string `json:"distributor_code" gorm:"unique"`
	DistributorName string `json:"distributor_name" gorm:"unique"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	GSTNumber       string `json:"gst_number"`
	Status          string `json:"status" gorm:"default:'active'"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}
