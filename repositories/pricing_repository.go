package repositories

import (
	"errors"
	"fmt"
	"time"

	"pharma-app/models"
	"pharma-app/utils"

	"gorm.io/gorm"
)

// PricingRepository owns per-(store, product, batch) selling prices.
type PricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// Create inserts a pricing entry for a batch. Fails with a conflict when
// an active entry already exists for the key.
func (r *PricingRepository) Create(storeCode string, productID uint, batchNumber string, mrp, discountPercent float64, userID int) (*models.PricingEntry, error) {
	if mrp < 0 {
		return nil, Validation("mrp must not be negative")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, Validation("discount percent must be between 0 and 100")
	}

	var existing int64
	if err := r.db.Model(&models.PricingEntry{}).
		Where("store_code = ? AND product_id = ? AND batch_number = ? AND status = ?",
			storeCode, productID, batchNumber, models.StatusActive).
		Count(&existing).Error; err != nil {
		return nil, Internal("failed to check pricing entry", err)
	}
	if existing > 0 {
		return nil, Conflict(fmt.Sprintf("active pricing entry already exists for batch %s", batchNumber))
	}

	entry := models.PricingEntry{
		StoreCode:       storeCode,
		ProductID:       productID,
		BatchNumber:     batchNumber,
		MRP:             utils.Round2(mrp),
		DiscountPercent: discountPercent,
		NetRate:         utils.SellingNetRate(mrp, discountPercent),
		Status:          models.StatusActive,
		LastUpdatedBy:   userID,
		CreatedBy:       userID,
		UpdatedBy:       userID,
	}

	if err := r.db.Create(&entry).Error; err != nil {
		return nil, Internal("failed to create pricing entry", err)
	}

	return &entry, nil
}

// Update replaces mrp/discount and recomputes the net rate.
func (r *PricingRepository) Update(storeCode string, productID uint, batchNumber string, mrp, discountPercent float64, userID int) (*models.PricingEntry, error) {
	if mrp < 0 {
		return nil, Validation("mrp must not be negative")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, Validation("discount percent must be between 0 and 100")
	}

	entry, err := r.Get(storeCode, productID, batchNumber)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.PricingEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"mrp":              utils.Round2(mrp),
			"discount_percent": discountPercent,
			"net_rate":         utils.SellingNetRate(mrp, discountPercent),
			"last_updated_by":  userID,
			"updated_by":       userID,
			"updated_at":       time.Now(),
		}).Error; err != nil {
		return nil, Internal("failed to update pricing entry", err)
	}

	return r.Get(storeCode, productID, batchNumber)
}

// Deactivate soft-deletes the active entry for the key.
func (r *PricingRepository) Deactivate(storeCode string, productID uint, batchNumber string, userID int) error {
	res := r.db.Model(&models.PricingEntry{}).
		Where("store_code = ? AND product_id = ? AND batch_number = ? AND status = ?",
			storeCode, productID, batchNumber, models.StatusActive).
		Updates(map[string]interface{}{
			"status":          models.StatusInactive,
			"last_updated_by": userID,
			"updated_by":      userID,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return Internal("failed to deactivate pricing entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("pricing entry not found")
	}
	return nil
}

// Get returns the active pricing entry for a batch.
func (r *PricingRepository) Get(storeCode string, productID uint, batchNumber string) (*models.PricingEntry, error) {
	var entry models.PricingEntry
	err := r.db.Where("store_code = ? AND product_id = ? AND batch_number = ? AND status = ?",
		storeCode, productID, batchNumber, models.StatusActive).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("pricing entry not found")
		}
		return nil, Internal("failed to read pricing entry", err)
	}
	return &entry, nil
}
