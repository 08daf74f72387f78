package repositories

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pharma-app/controllers/idgen"
	"pharma-app/models"
	"pharma-app/types"
	"pharma-app/utils"

	"gorm.io/gorm"
)

// StockRepository owns the per-(store, product) stock records and their
// batch lists. Every mutation of one key runs under that key's mutex for
// the whole read-modify-write, so concurrent sales and purchases on the
// same product cannot lose updates to available_stock or double-spend a
// batch. Mutations touching both the aggregate and a batch row go through
// one transaction; there is still no transaction spanning the several
// batches of a single sale.
type StockRepository struct {
	db    *gorm.DB
	locks sync.Map // "storeCode|productID" → *sync.Mutex
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) keyMutex(storeCode string, productID uint) *sync.Mutex {
	key := fmt.Sprintf("%s|%d", storeCode, productID)
	mu, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetStock returns the stock record with its batch list.
func (r *StockRepository) GetStock(storeCode string, productID uint) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.Preload("Batches").
		Where("store_code = ? AND product_id = ?", storeCode, productID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("stock record not found")
		}
		return nil, Internal("failed to read stock record", err)
	}
	return &record, nil
}

// GetStoreStock lists all active stock records of one store.
func (r *StockRepository) GetStoreStock(storeCode string) ([]models.StockRecord, error) {
	var records []models.StockRecord
	err := r.db.Preload("Batches").
		Where("store_code = ? AND status = ?", storeCode, models.StatusActive).
		Order("product_name ASC").
		Find(&records).Error
	if err != nil {
		return nil, Internal("failed to list store stock", err)
	}
	return records, nil
}

// AppendBatch adds a purchased batch. The stock record is created on the
// first purchase of a (store, product) pair, otherwise the batch is
// appended and available_stock incremented by its quantity.
func (r *StockRepository) AppendBatch(storeCode string, productID uint, productName string, batch models.BatchEntry, userID int) (*models.StockRecord, error) {
	if batch.Quantity <= 0 {
		return nil, Validation("batch quantity must be greater than zero")
	}
	expiry, err := utils.NormalizeExpiry(batch.ExpiryDate)
	if err != nil {
		return nil, Validation(err.Error())
	}
	batch.ExpiryDate = expiry

	mu := r.keyMutex(storeCode, productID)
	mu.Lock()
	defer mu.Unlock()

	return r.appendBatchLocked(storeCode, productID, productName, batch, userID)
}

func (r *StockRepository) appendBatchLocked(storeCode string, productID uint, productName string, batch models.BatchEntry, userID int) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.Where("store_code = ? AND product_id = ?", storeCode, productID).
		First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Internal("failed to read stock record", err)
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, Internal("failed to start transaction", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.StockRecord{
			ID:             types.SnowflakeID(idgen.GenerateID()),
			StoreCode:      storeCode,
			ProductID:      productID,
			ProductName:    productName,
			AvailableStock: batch.Quantity,
			Status:         models.StatusActive,
			CreatedBy:      userID,
			UpdatedBy:      userID,
		}
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return nil, Internal("failed to create stock record", err)
		}
	} else {
		var existing int64
		if err := tx.Model(&models.BatchEntry{}).
			Where("stock_record_id = ? AND batch_number = ? AND status = ?",
				record.ID, batch.BatchNumber, models.StatusActive).
			Count(&existing).Error; err != nil {
			tx.Rollback()
			return nil, Internal("failed to check batch number", err)
		}
		if existing > 0 {
			tx.Rollback()
			return nil, Conflict("batch " + batch.BatchNumber + " already exists for this product")
		}

		if err := tx.Model(&models.StockRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"available_stock": gorm.Expr("available_stock + ?", batch.Quantity),
				"updated_by":      userID,
				"updated_at":      time.Now(),
			}).Error; err != nil {
			tx.Rollback()
			return nil, Internal("failed to update available stock", err)
		}
	}

	batch.StockRecordID = record.ID
	batch.Status = models.StatusActive
	batch.CreatedBy = userID
	batch.UpdatedBy = userID
	if err := tx.Create(&batch).Error; err != nil {
		tx.Rollback()
		return nil, Internal("failed to create batch entry", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, Internal("failed to commit batch append", err)
	}

	return r.GetStock(storeCode, productID)
}

// QuarantineExpiring deactivates every active batch that is expired or
// lapses within the configured window, decrementing available_stock by
// each quarantined batch's quantity. It runs as the first step of every
// sale attempt; there is no periodic sweep, so an expiring batch stays
// nominally active until the next sale touches its product.
func (r *StockRepository) QuarantineExpiring(storeCode string, productID uint, now time.Time, windowDays int, userID int) ([]string, error) {
	mu := r.keyMutex(storeCode, productID)
	mu.Lock()
	defer mu.Unlock()

	return r.quarantineLocked(storeCode, productID, now, windowDays, userID)
}

func (r *StockRepository) quarantineLocked(storeCode string, productID uint, now time.Time, windowDays int, userID int) ([]string, error) {
	var record models.StockRecord
	err := r.db.Where("store_code = ? AND product_id = ?", storeCode, productID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("stock record not found")
		}
		return nil, Internal("failed to read stock record", err)
	}

	var batches []models.BatchEntry
	if err := r.db.Where("stock_record_id = ? AND status = ?", record.ID, models.StatusActive).
		Find(&batches).Error; err != nil {
		return nil, Internal("failed to read batch entries", err)
	}

	var quarantined []string
	for _, batch := range batches {
		if !utils.ShouldQuarantine(batch.ExpiryDate, now, windowDays) {
			continue
		}

		tx := r.db.Begin()
		if tx.Error != nil {
			return quarantined, Internal("failed to start transaction", tx.Error)
		}

		if err := tx.Model(&models.BatchEntry{}).
			Where("id = ?", batch.ID).
			Updates(map[string]interface{}{
				"status":     models.StatusInactive,
				"updated_by": userID,
				"updated_at": time.Now(),
			}).Error; err != nil {
			tx.Rollback()
			return quarantined, Internal("failed to quarantine batch", err)
		}

		if err := tx.Model(&models.StockRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"available_stock": gorm.Expr("available_stock - ?", batch.Quantity),
				"updated_by":      userID,
				"updated_at":      time.Now(),
			}).Error; err != nil {
			tx.Rollback()
			return quarantined, Internal("failed to update available stock", err)
		}

		if err := tx.Commit().Error; err != nil {
			return quarantined, Internal("failed to commit quarantine", err)
		}

		quarantined = append(quarantined, batch.BatchNumber)
	}

	return quarantined, nil
}

// Deplete takes amount units out of a named active batch. A batch drained
// to zero is deactivated and excluded from all future allocations.
func (r *StockRepository) Deplete(storeCode string, productID uint, batchNumber string, amount int, userID int) error {
	mu := r.keyMutex(storeCode, productID)
	mu.Lock()
	defer mu.Unlock()

	return r.depleteLocked(storeCode, productID, batchNumber, amount, userID)
}

func (r *StockRepository) depleteLocked(storeCode string, productID uint, batchNumber string, amount int, userID int) error {
	if amount <= 0 {
		return Validation("deplete amount must be greater than zero")
	}

	var record models.StockRecord
	err := r.db.Where("store_code = ? AND product_id = ?", storeCode, productID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("stock record not found")
		}
		return Internal("failed to read stock record", err)
	}

	var batch models.BatchEntry
	err = r.db.Where("stock_record_id = ? AND batch_number = ? AND status = ?",
		record.ID, batchNumber, models.StatusActive).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("active batch " + batchNumber + " not found")
		}
		return Internal("failed to read batch entry", err)
	}

	if amount > batch.Quantity {
		return Validation(fmt.Sprintf("cannot take %d from batch %s holding %d", amount, batchNumber, batch.Quantity))
	}

	newQty := batch.Quantity - amount
	status := models.StatusActive
	if newQty == 0 {
		status = models.StatusInactive
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return Internal("failed to start transaction", tx.Error)
	}

	if err := tx.Model(&models.BatchEntry{}).
		Where("id = ?", batch.ID).
		Updates(map[string]interface{}{
			"quantity":   newQty,
			"status":     status,
			"updated_by": userID,
			"updated_at": time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return Internal("failed to update batch entry", err)
	}

	if err := tx.Model(&models.StockRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"available_stock": gorm.Expr("available_stock - ?", amount),
			"updated_by":      userID,
			"updated_at":      time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return Internal("failed to update available stock", err)
	}

	if err := tx.Commit().Error; err != nil {
		return Internal("failed to commit depletion", err)
	}

	return nil
}

// activeBatches returns a record's active batches in FEFO order.
func (r *StockRepository) activeBatches(recordID types.SnowflakeID) ([]models.BatchEntry, error) {
	var batches []models.BatchEntry
	err := r.db.Where("stock_record_id = ? AND status = ?", recordID, models.StatusActive).
		Order("expiry_date ASC, batch_number ASC").
		Find(&batches).Error
	if err != nil {
		return nil, Internal("failed to read batch entries", err)
	}
	return batches, nil
}
