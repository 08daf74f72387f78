package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pharma-app/controllers/idgen"
	"pharma-app/models"
	"pharma-app/types"
	"pharma-app/utils"

	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/maps"
	"gorm.io/gorm"
)

// PurchaseRepository turns purchase receipts into stock batches and
// pricing entries. masterDB holds the reference data (products,
// distributors, manufacturers); ledgerDB holds the receipts themselves.
// The two stores share no transaction: a receipt is only as atomic as
// each individual write.
type PurchaseRepository struct {
	masterDB *gorm.DB
	ledgerDB *gorm.DB
	stock    *StockRepository
	pricing  *PricingRepository
	sequence *SequenceRepository
}

func NewPurchaseRepository(masterDB, ledgerDB *gorm.DB, stock *StockRepository, pricing *PricingRepository, sequence *SequenceRepository) *PurchaseRepository {
	return &PurchaseRepository{
		masterDB: masterDB,
		ledgerDB: ledgerDB,
		stock:    stock,
		pricing:  pricing,
		sequence: sequence,
	}
}

// PurchaseLineInput is one line of a purchase receipt. Discount and Tax
// are absolute purchase-cost amounts; MRP and DiscountPercent describe
// the selling price the pricing entry is derived from.
type PurchaseLineInput struct {
	ProductName     string  `json:"product_name" validate:"required"`
	BatchNumber     string  `json:"batch_number" validate:"required"`
	ExpiryDate      string  `json:"expiry_date" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	PackageQuantity int     `json:"package_quantity"`
	MRP             float64 `json:"mrp" validate:"required"`
	DiscountPercent float64 `json:"discount_percent"`
	Discount        float64 `json:"discount"`
	Tax             float64 `json:"tax"`
	Rate            float64 `json:"rate" validate:"required"`
}

// PurchaseInput is a single purchase receipt request.
type PurchaseInput struct {
	StoreCode       string              `json:"store_code" validate:"required"`
	DistributorName string              `json:"distributor_name" validate:"required"`
	InvoiceNumber   string              `json:"invoice_number" validate:"required"`
	PurchaseDate    string              `json:"purchase_date"`
	Lines           []PurchaseLineInput `json:"lines" validate:"required,min=1,dive"`
}

// CreateReceipt ingests one receipt: resolves references by exact name,
// generates the PO number, appends a stock batch and creates a pricing
// entry per line, and accumulates the bill totals. Lines are committed
// one at a time; a failure on a later line leaves earlier lines applied.
func (r *PurchaseRepository) CreateReceipt(input PurchaseInput, userID int) (*models.PurchaseHeader, []models.PurchaseDetail, error) {
	distributor, err := r.FindDistributorByName(input.DistributorName)
	if err != nil {
		return nil, nil, err
	}

	poNumber, err := r.sequence.Next(models.SeqPurchaseNo)
	if err != nil {
		return nil, nil, err
	}

	header := models.PurchaseHeader{
		ID:            types.SnowflakeID(idgen.GenerateID()),
		StoreCode:     input.StoreCode,
		DistributorID: distributor.ID,
		InvoiceNumber: input.InvoiceNumber,
		PoNumber:      poNumber,
		PurchaseDate:  input.PurchaseDate,
		Status:        models.StatusActive,
		CreatedBy:     userID,
		UpdatedBy:     userID,
	}
	if err := r.ledgerDB.Create(&header).Error; err != nil {
		return nil, nil, Internal("failed to create purchase header", err)
	}

	var details []models.PurchaseDetail
	totalMRP, totalNet, totalRate := 0.0, 0.0, 0.0

	for _, line := range input.Lines {
		detail, err := r.applyLine(&header, line, 0, userID)
		if err != nil {
			return &header, details, err
		}
		details = append(details, *detail)
		totalMRP = utils.Round2(totalMRP + detail.MRP)
		totalNet = utils.Round2(totalNet + detail.NetRate)
		totalRate = utils.Round2(totalRate + detail.Rate)
	}

	if err := r.ledgerDB.Model(&models.PurchaseHeader{}).
		Where("id = ?", header.ID).
		Updates(map[string]interface{}{
			"total_mrp":      totalMRP,
			"total_net_rate": totalNet,
			"total_rate":     totalRate,
		}).Error; err != nil {
		return &header, details, Internal("failed to update purchase totals", err)
	}
	header.TotalMRP = totalMRP
	header.TotalNetRate = totalNet
	header.TotalRate = totalRate

	return &header, details, nil
}

// applyLine resolves the product, rounds the money fields, appends the
// stock batch and creates the batch's pricing entry from the line's
// selling mrp/discount (selling price and purchase cost are independent).
func (r *PurchaseRepository) applyLine(header *models.PurchaseHeader, line PurchaseLineInput, manufacturerID uint, userID int) (*models.PurchaseDetail, error) {
	product, err := r.FindProductByName(line.ProductName)
	if err != nil {
		return nil, err
	}

	expiry, err := utils.NormalizeExpiry(line.ExpiryDate)
	if err != nil {
		return nil, Validation(err.Error())
	}

	netRate := utils.PurchaseNetRate(line.Rate, line.Discount, line.Tax)

	detail := models.PurchaseDetail{
		PurchaseID:      header.ID,
		PoNumber:        header.PoNumber,
		ProductID:       product.ID,
		ProductName:     product.ProductName,
		ManufacturerID:  manufacturerID,
		BatchNumber:     line.BatchNumber,
		ExpiryDate:      expiry,
		Quantity:        line.Quantity,
		PackageQuantity: line.PackageQuantity,
		MRP:             utils.Round2(line.MRP),
		Discount:        utils.Round2(line.Discount),
		Tax:             utils.Round2(line.Tax),
		Rate:            utils.Round2(line.Rate),
		NetRate:         netRate,
		CreatedBy:       userID,
		UpdatedBy:       userID,
	}
	if err := r.ledgerDB.Create(&detail).Error; err != nil {
		return nil, Internal("failed to create purchase detail", err)
	}

	batch := models.BatchEntry{
		BatchNumber:     line.BatchNumber,
		ExpiryDate:      expiry,
		Quantity:        line.Quantity,
		PackageQuantity: line.PackageQuantity,
	}
	if _, err := r.stock.AppendBatch(header.StoreCode, product.ID, product.ProductName, batch, userID); err != nil {
		return nil, err
	}

	if _, err := r.pricing.Create(header.StoreCode, product.ID, line.BatchNumber, line.MRP, line.DiscountPercent, userID); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (r *PurchaseRepository) FindProductByName(name string) (*models.Product, error) {
	var product models.Product
	err := r.masterDB.Where("product_name = ? AND status = ?", name, models.StatusActive).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("product " + name + " not found")
		}
		return nil, Internal("failed to read product", err)
	}
	return &product, nil
}

func (r *PurchaseRepository) FindDistributorByName(name string) (*models.Distributor, error) {
	var distributor models.Distributor
	err := r.masterDB.Where("distributor_name = ? AND status = ?", name, models.StatusActive).
		First(&distributor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("distributor " + name + " not found")
		}
		return nil, Internal("failed to read distributor", err)
	}
	return &distributor, nil
}

func (r *PurchaseRepository) FindManufacturerByName(name string) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	err := r.masterDB.Where("manufacturer_name = ? AND status = ?", name, models.StatusActive).
		First(&manufacturer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("manufacturer " + name + " not found")
		}
		return nil, Internal("failed to read manufacturer", err)
	}
	return &manufacturer, nil
}

// BulkRow is one row of the tabular purchase upload.
type BulkRow struct {
	PurchaseDate     string
	DistributorName  string
	ProductName      string
	ManufacturerName string
	BatchNumber      string
	ExpiryDate       string
	Quantity         int
	PackageQuantity  int
	MRP              float64
	Discount         float64
	Tax              float64
	Rate             float64
	InvoiceNumber    string
}

// BulkImportSummary reports what a bulk import committed before it
// finished or failed.
type BulkImportSummary struct {
	InvoicesCommitted []string `json:"invoices_committed"`
	RowsApplied       int      `json:"rows_applied"`
	FailedInvoice     string   `json:"failed_invoice,omitempty"`
	FailedRow         int      `json:"failed_row,omitempty"`
}

// ImportRows groups rows by invoice number and ingests one receipt per
// group. A failure aborts the import; groups committed before the
// failure stay committed, there is no group-level rollback.
func (r *PurchaseRepository) ImportRows(storeCode string, rows []BulkRow, userID int) (*BulkImportSummary, error) {
	summary := &BulkImportSummary{InvoicesCommitted: []string{}}
	if len(rows) == 0 {
		return summary, Validation("bulk file contains no rows")
	}

	groups := make(map[string][]BulkRow)
	for _, row := range rows {
		groups[row.InvoiceNumber] = append(groups[row.InvoiceNumber], row)
	}

	invoices := maps.Keys(groups)
	sort.Strings(invoices)

	for _, invoice := range invoices {
		group := groups[invoice]

		distributor, err := r.FindDistributorByName(group[0].DistributorName)
		if err != nil {
			summary.FailedInvoice = invoice
			return summary, err
		}

		poNumber, err := r.sequence.Next(models.SeqPurchaseNo)
		if err != nil {
			summary.FailedInvoice = invoice
			return summary, err
		}

		header := models.PurchaseHeader{
			ID:            types.SnowflakeID(idgen.GenerateID()),
			StoreCode:     storeCode,
			DistributorID: distributor.ID,
			InvoiceNumber: invoice,
			PoNumber:      poNumber,
			PurchaseDate:  group[0].PurchaseDate,
			Status:        models.StatusActive,
			CreatedBy:     userID,
			UpdatedBy:     userID,
		}
		if err := r.ledgerDB.Create(&header).Error; err != nil {
			summary.FailedInvoice = invoice
			return summary, Internal("failed to create purchase header", err)
		}

		totalMRP, totalNet, totalRate := 0.0, 0.0, 0.0
		for i, row := range group {
			manufacturer, err := r.FindManufacturerByName(row.ManufacturerName)
			if err != nil {
				summary.FailedInvoice = invoice
				summary.FailedRow = i + 1
				return summary, err
			}

			line := PurchaseLineInput{
				ProductName:     row.ProductName,
				BatchNumber:     row.BatchNumber,
				ExpiryDate:      row.ExpiryDate,
				Quantity:        row.Quantity,
				PackageQuantity: row.PackageQuantity,
				MRP:             row.MRP,
				Discount:        row.Discount,
				Tax:             row.Tax,
				Rate:            row.Rate,
			}

			detail, err := r.applyLine(&header, line, manufacturer.ID, userID)
			if err != nil {
				summary.FailedInvoice = invoice
				summary.FailedRow = i + 1
				return summary, err
			}

			summary.RowsApplied++
			totalMRP = utils.Round2(totalMRP + detail.MRP)
			totalNet = utils.Round2(totalNet + detail.NetRate)
			totalRate = utils.Round2(totalRate + detail.Rate)
		}

		if err := r.ledgerDB.Model(&models.PurchaseHeader{}).
			Where("id = ?", header.ID).
			Updates(map[string]interface{}{
				"total_mrp":      totalMRP,
				"total_net_rate": totalNet,
				"total_rate":     totalRate,
			}).Error; err != nil {
			summary.FailedInvoice = invoice
			return summary, Internal("failed to update purchase totals", err)
		}

		summary.InvoicesCommitted = append(summary.InvoicesCommitted, invoice)
	}

	return summary, nil
}

// bulkColumns maps sheet header names to row fields.
var bulkColumns = []string{
	"purchase_date", "distributor_name", "product_name", "manufacturer_name",
	"batch_number", "expiry_date", "purchase_quantity", "package_quantity",
	"purchase_mrp", "purchase_discount", "purchase_tax", "purchase_rate",
	"invoice_number",
}

// ParsePurchaseWorkbook reads the first sheet of a bulk purchase upload.
// The header row must carry the canonical column names; order is free.
func ParsePurchaseWorkbook(f *excelize.File) ([]BulkRow, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, Validation("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, Internal("failed to read workbook rows", err)
	}
	if len(rows) < 2 {
		return nil, Validation("workbook has no data rows")
	}

	colIndex := make(map[string]int)
	for i, name := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range bulkColumns {
		if _, ok := colIndex[name]; !ok {
			return nil, Validation("missing column " + name)
		}
	}

	cell := func(row []string, name string) string {
		idx := colIndex[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var out []BulkRow
	for n, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		quantity, err := strconv.Atoi(cell(row, "purchase_quantity"))
		if err != nil {
			return nil, Validation(fmt.Sprintf("row %d: invalid purchase_quantity", n+2))
		}
		packageQty, _ := strconv.Atoi(cell(row, "package_quantity"))

		money := func(name string) (float64, error) {
			raw := cell(row, name)
			if raw == "" {
				return 0, nil
			}
			return strconv.ParseFloat(raw, 64)
		}

		mrp, err := money("purchase_mrp")
		if err != nil {
			return nil, Validation(fmt.Sprintf("row %d: invalid purchase_mrp", n+2))
		}
		discount, err := money("purchase_discount")
		if err != nil {
			return nil, Validation(fmt.Sprintf("row %d: invalid purchase_discount", n+2))
		}
		tax, err := money("purchase_tax")
		if err != nil {
			return nil, Validation(fmt.Sprintf("row %d: invalid purchase_tax", n+2))
		}
		rate, err := money("purchase_rate")
		if err != nil {
			return nil, Validation(fmt.Sprintf("row %d: invalid purchase_rate", n+2))
		}

		out = append(out, BulkRow{
			PurchaseDate:     cell(row, "purchase_date"),
			DistributorName:  cell(row, "distributor_name"),
			ProductName:      cell(row, "product_name"),
			ManufacturerName: cell(row, "manufacturer_name"),
			BatchNumber:      cell(row, "batch_number"),
			ExpiryDate:       cell(row, "expiry_date"),
			Quantity:         quantity,
			PackageQuantity:  packageQty,
			MRP:              mrp,
			Discount:         discount,
			Tax:              tax,
			Rate:             rate,
			InvoiceNumber:    cell(row, "invoice_number"),
		})
	}

	return out, nil
}

// GetReceipt returns one receipt with its lines.
func (r *PurchaseRepository) GetReceipt(poNumber string) (*models.PurchaseHeader, []models.PurchaseDetail, error) {
	var header models.PurchaseHeader
	err := r.ledgerDB.Where("po_number = ?", poNumber).First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFound("purchase " + poNumber + " not found")
		}
		return nil, nil, Internal("failed to read purchase header", err)
	}

	var details []models.PurchaseDetail
	if err := r.ledgerDB.Where("purchase_id = ?", header.ID).Find(&details).Error; err != nil {
		return nil, nil, Internal("failed to read purchase details", err)
	}

	return &header, details, nil
}
