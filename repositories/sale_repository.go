package repositories

import (
	"fmt"
	"time"

	"pharma-app/models"

	"gorm.io/gorm"
)

// BatchAllocation is one batch's contribution to a sale line.
type BatchAllocation struct {
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	Quantity     int     `json:"batch_sale_quantity"`
	PriceApplied float64 `json:"batch_product_price"`
}

// SaleRepository turns a requested sale quantity into concrete batch
// deductions and priced line items.
//
// AllowPartialFulfillment controls the insufficient-stock policy: when
// true (the default) the allocator hands out whatever is available and
// returns without error; when false the shortfall is reported as a
// validation error. Either way the deductions and the quarantine sweep
// already performed stand. Batch mutations are independent writes and
// are not rolled back.
type SaleRepository struct {
	db                      *gorm.DB
	stock                   *StockRepository
	pricing                 *PricingRepository
	AllowPartialFulfillment bool
	QuarantineWindowDays    int
}

func NewSaleRepository(db *gorm.DB, stock *StockRepository, pricing *PricingRepository) *SaleRepository {
	return &SaleRepository{
		db:                      db,
		stock:                   stock,
		pricing:                 pricing,
		AllowPartialFulfillment: true,
		QuarantineWindowDays:    30,
	}
}

// Allocate consumes requested units of one product in FEFO order:
//
//  1. fetch the stock record; absent or without active batches → not found
//  2. quarantine expired/near-expiry batches (this mutates state even when
//     the sale later fails)
//  3. re-read the remaining active batches, earliest expiry first
//  4. walk the list, taking min(remaining, batch quantity) per batch; each
//     depletion is its own write, priced from the batch's pricing entry
//
// The per-key mutex is held across all four steps, so two concurrent
// sales of the same product serialize instead of double-spending batches.
func (r *SaleRepository) Allocate(storeCode string, productID uint, requested int, userID int, now time.Time) ([]BatchAllocation, *models.StockRecord, error) {
	if requested <= 0 {
		return nil, nil, Validation("sale quantity must be greater than zero")
	}

	mu := r.stock.keyMutex(storeCode, productID)
	mu.Lock()
	defer mu.Unlock()

	record, err := r.stock.GetStock(storeCode, productID)
	if err != nil {
		return nil, nil, err
	}

	hasActive := false
	for _, batch := range record.Batches {
		if batch.Status == models.StatusActive {
			hasActive = true
			break
		}
	}
	if !hasActive {
		return nil, nil, NotFound("no active stock for product " + record.ProductName)
	}

	if _, err := r.stock.quarantineLocked(storeCode, productID, now, r.QuarantineWindowDays, userID); err != nil {
		return nil, nil, err
	}

	batches, err := r.stock.activeBatches(record.ID)
	if err != nil {
		return nil, nil, err
	}

	remaining := requested
	var allocations []BatchAllocation

	for _, batch := range batches {
		if remaining < 1 {
			break
		}

		take := remaining
		if remaining > batch.Quantity {
			take = batch.Quantity
		}

		if err := r.stock.depleteLocked(storeCode, productID, batch.BatchNumber, take, userID); err != nil {
			return allocations, nil, err
		}

		entry, err := r.pricing.Get(storeCode, productID, batch.BatchNumber)
		if err != nil {
			// The depletion above is already committed; partial state
			// stands, as with every mid-allocation failure.
			return allocations, nil, err
		}

		allocations = append(allocations, BatchAllocation{
			BatchNumber:  batch.BatchNumber,
			ExpiryDate:   batch.ExpiryDate,
			Quantity:     take,
			PriceApplied: entry.NetRate,
		})
		remaining -= take
	}

	updated, err := r.stock.GetStock(storeCode, productID)
	if err != nil {
		return allocations, nil, err
	}

	if remaining > 0 && !r.AllowPartialFulfillment {
		return allocations, updated, Validation(
			fmt.Sprintf("insufficient stock: %d of %d allocated", requested-remaining, requested))
	}

	return allocations, updated, nil
}

// CreateSale allocates every line of a sale request and persists the
// invoice. Lines are committed one by one: a failure on a later line
// leaves earlier lines allocated and recorded (no cross-line rollback,
// matching the rest of the ledger).
func (r *SaleRepository) CreateSale(header *models.SaleHeader, lines []SaleLineRequest, userID int, now time.Time) ([]models.SaleDetail, [][]BatchAllocation, error) {
	if err := r.db.Create(header).Error; err != nil {
		return nil, nil, Internal("failed to create sale header", err)
	}

	var details []models.SaleDetail
	var lineAllocations [][]BatchAllocation
	total := 0.0

	for _, line := range lines {
		allocations, _, err := r.Allocate(header.StoreCode, line.ProductID, line.Quantity, userID, now)
		if err != nil {
			return details, lineAllocations, err
		}

		allocated := 0
		amount := 0.0
		for _, a := range allocations {
			allocated += a.Quantity
			amount += float64(a.Quantity) * a.PriceApplied
		}

		detail := models.SaleDetail{
			SaleID:       header.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			RequestedQty: line.Quantity,
			AllocatedQty: allocated,
			LineAmount:   amount,
			CreatedBy:    userID,
			UpdatedBy:    userID,
		}
		if err := r.db.Create(&detail).Error; err != nil {
			return details, lineAllocations, Internal("failed to create sale detail", err)
		}

		for _, a := range allocations {
			alloc := models.SaleAllocation{
				SaleDetailID: detail.ID,
				BatchNumber:  a.BatchNumber,
				ExpiryDate:   a.ExpiryDate,
				Quantity:     a.Quantity,
				PriceApplied: a.PriceApplied,
				CreatedBy:    userID,
			}
			if err := r.db.Create(&alloc).Error; err != nil {
				return details, lineAllocations, Internal("failed to create sale allocation", err)
			}
		}

		details = append(details, detail)
		lineAllocations = append(lineAllocations, allocations)
		total += amount
	}

	if err := r.db.Model(&models.SaleHeader{}).
		Where("id = ?", header.ID).
		Update("total_amount", total).Error; err != nil {
		return details, lineAllocations, Internal("failed to update sale total", err)
	}
	header.TotalAmount = total

	return details, lineAllocations, nil
}

// SaleLineRequest is one product+quantity line of a sale request.
type SaleLineRequest struct {
	ProductID   uint   `json:"product_id" validate:"required"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}
