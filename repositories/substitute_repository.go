package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharma-app/cache"
	"pharma-app/models"

	"gorm.io/gorm"
)

// Substitute is one alternative product with the batch a pharmacist
// would actually hand out and its current price.
type Substitute struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Manufacturer string  `json:"manufacturer"`
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	Quantity     int     `json:"quantity"`
	NetRate      float64 `json:"net_rate"`
}

// SubstituteRepository finds same-composition alternatives for a product
// that is out of stock or refused. Composition comes from the master DB;
// availability and price come from the ledger DB. Results are cached per
// (store, composition) for a few minutes since compositions rarely change
// faster than stock moves matter for a suggestion list.
type SubstituteRepository struct {
	masterDB *gorm.DB
	ledgerDB *gorm.DB
	stock    *StockRepository
	pricing  *PricingRepository
	CacheTTL time.Duration
}

func NewSubstituteRepository(masterDB, ledgerDB *gorm.DB, stock *StockRepository, pricing *PricingRepository) *SubstituteRepository {
	return &SubstituteRepository{
		masterDB: masterDB,
		ledgerDB: ledgerDB,
		stock:    stock,
		pricing:  pricing,
		CacheTTL: 5 * time.Minute,
	}
}

// Find lists in-stock substitutes for a product within one store. The
// product itself is excluded. Products without an active batch or without
// an active pricing entry for that batch are skipped.
func (r *SubstituteRepository) Find(ctx context.Context, storeCode string, productID uint) ([]Substitute, error) {
	var product models.Product
	err := r.masterDB.First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("product not found")
		}
		return nil, Internal("failed to read product", err)
	}
	if product.Composition == "" {
		return []Substitute{}, nil
	}

	cacheKey := fmt.Sprintf("substitute:%s:%s", storeCode, product.Composition)
	var cached []Substitute
	if cache.GetJSON(ctx, cacheKey, &cached) {
		return filterOut(cached, productID), nil
	}

	var candidates []models.Product
	if err := r.masterDB.
		Where("composition = ? AND status = ?", product.Composition, models.StatusActive).
		Order("product_name ASC").
		Find(&candidates).Error; err != nil {
		return nil, Internal("failed to list substitute candidates", err)
	}

	manufacturers := make(map[uint]string)

	substitutes := []Substitute{}
	for _, candidate := range candidates {
		record, err := r.stock.GetStock(storeCode, candidate.ID)
		if err != nil {
			if KindOf(err) == ErrKindNotFound {
				continue
			}
			return nil, err
		}

		batches, err := r.stock.activeBatches(record.ID)
		if err != nil {
			return nil, err
		}
		if len(batches) == 0 {
			continue
		}
		batch := batches[0]

		entry, err := r.pricing.Get(storeCode, candidate.ID, batch.BatchNumber)
		if err != nil {
			if KindOf(err) == ErrKindNotFound {
				continue
			}
			return nil, err
		}

		name, ok := manufacturers[candidate.ManufacturerID]
		if !ok {
			var manufacturer models.Manufacturer
			if err := r.masterDB.First(&manufacturer, candidate.ManufacturerID).Error; err == nil {
				name = manufacturer.ManufacturerName
			}
			manufacturers[candidate.ManufacturerID] = name
		}

		substitutes = append(substitutes, Substitute{
			ProductID:    candidate.ID,
			ProductName:  candidate.ProductName,
			Manufacturer: name,
			BatchNumber:  batch.BatchNumber,
			ExpiryDate:   batch.ExpiryDate,
			Quantity:     batch.Quantity,
			NetRate:      entry.NetRate,
		})
	}

	cache.SetJSON(ctx, cacheKey, substitutes, r.CacheTTL)

	return filterOut(substitutes, productID), nil
}

func filterOut(list []Substitute, productID uint) []Substitute {
	out := make([]Substitute, 0, len(list))
	for _, s := range list {
		if s.ProductID != productID {
			out = append(out, s)
		}
	}
	return out
}
