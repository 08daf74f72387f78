package repositories

import (
	"testing"

	"pharma-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newPurchaseFixture(t *testing.T) (masterDB, ledgerDB *gorm.DB, purchases *PurchaseRepository, stock *StockRepository, pricing *PricingRepository) {
	t.Helper()
	masterDB, ledgerDB = newTestDBs(t)
	stock = NewStockRepository(ledgerDB)
	pricing = NewPricingRepository(ledgerDB)
	sequence := NewSequenceRepository(masterDB)
	purchases = NewPurchaseRepository(masterDB, ledgerDB, stock, pricing, sequence)
	return masterDB, ledgerDB, purchases, stock, pricing
}

func TestCreateReceipt(t *testing.T) {
	masterDB, _, purchases, stock, pricing := newPurchaseFixture(t)

	manufacturer := seedManufacturer(t, masterDB, "Cipla")
	paracetamol := seedProduct(t, masterDB, "Paracetamol 500mg", "Paracetamol", manufacturer.ID)
	cetirizine := seedProduct(t, masterDB, "Cetirizine 10mg", "Cetirizine", manufacturer.ID)
	seedDistributor(t, masterDB, "MediSupply")

	input := PurchaseInput{
		StoreCode:       testStore,
		DistributorName: "MediSupply",
		InvoiceNumber:   "DIST-INV-77",
		PurchaseDate:    "2026-03-01",
		Lines: []PurchaseLineInput{
			{
				ProductName: "Paracetamol 500mg", BatchNumber: "P001", ExpiryDate: "06/2027",
				Quantity: 100, PackageQuantity: 10,
				MRP: 50, DiscountPercent: 10, Discount: 2, Tax: 3, Rate: 40,
			},
			{
				ProductName: "Cetirizine 10mg", BatchNumber: "C001", ExpiryDate: "2027-09",
				Quantity: 60, PackageQuantity: 6,
				MRP: 30, DiscountPercent: 0, Discount: 0, Tax: 1.5, Rate: 25,
			},
		},
	}

	header, details, err := purchases.CreateReceipt(input, 1)
	require.NoError(t, err)

	assert.Equal(t, "PO000001", header.PoNumber)
	assert.Equal(t, "DIST-INV-77", header.InvoiceNumber)
	require.Len(t, details, 2)

	// landed cost: (40-2)+3 = 41 and (25-0)+1.5 = 26.5
	assert.Equal(t, 41.0, details[0].NetRate)
	assert.Equal(t, 26.5, details[1].NetRate)
	assert.Equal(t, "2027-06", details[0].ExpiryDate)

	assert.Equal(t, 80.0, header.TotalMRP)
	assert.Equal(t, 67.5, header.TotalNetRate)
	assert.Equal(t, 65.0, header.TotalRate)

	// stock appended per line
	record, err := stock.GetStock(testStore, paracetamol.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, record.AvailableStock)
	requireStockInvariant(t, stock, testStore, paracetamol.ID)

	record, err = stock.GetStock(testStore, cetirizine.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, record.AvailableStock)

	// selling price per batch from the line's mrp/discount
	entry, err := pricing.Get(testStore, paracetamol.ID, "P001")
	require.NoError(t, err)
	assert.Equal(t, 45.0, entry.NetRate)

	entry, err = pricing.Get(testStore, cetirizine.ID, "C001")
	require.NoError(t, err)
	assert.Equal(t, 30.0, entry.NetRate)
}

func TestCreateReceiptUnknownDistributor(t *testing.T) {
	_, _, purchases, _, _ := newPurchaseFixture(t)

	_, _, err := purchases.CreateReceipt(PurchaseInput{
		StoreCode:       testStore,
		DistributorName: "Nobody",
		InvoiceNumber:   "X",
		Lines:           []PurchaseLineInput{{ProductName: "Y", BatchNumber: "B", ExpiryDate: "2027-01", Quantity: 1, MRP: 1, Rate: 1}},
	}, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestCreateReceiptUnknownProductLeavesEarlierLines(t *testing.T) {
	masterDB, _, purchases, stock, _ := newPurchaseFixture(t)

	manufacturer := seedManufacturer(t, masterDB, "Cipla")
	known := seedProduct(t, masterDB, "Known Product", "X", manufacturer.ID)
	seedDistributor(t, masterDB, "MediSupply")

	_, details, err := purchases.CreateReceipt(PurchaseInput{
		StoreCode:       testStore,
		DistributorName: "MediSupply",
		InvoiceNumber:   "INV-1",
		Lines: []PurchaseLineInput{
			{ProductName: "Known Product", BatchNumber: "B1", ExpiryDate: "2027-01", Quantity: 10, MRP: 10, Rate: 8},
			{ProductName: "Unknown Product", BatchNumber: "B2", ExpiryDate: "2027-01", Quantity: 5, MRP: 10, Rate: 8},
		},
	}, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
	assert.Len(t, details, 1)

	// line 1 is already applied, no rollback
	record, err := stock.GetStock(testStore, known.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, record.AvailableStock)
}

func bulkRow(invoice, product, batch string, qty int) BulkRow {
	return BulkRow{
		PurchaseDate:     "2026-03-01",
		DistributorName:  "MediSupply",
		ProductName:      product,
		ManufacturerName: "Cipla",
		BatchNumber:      batch,
		ExpiryDate:       "2027-06",
		Quantity:         qty,
		PackageQuantity:  qty / 10,
		MRP:              20,
		Discount:         0,
		Tax:              1,
		Rate:             15,
		InvoiceNumber:    invoice,
	}
}

func TestImportRowsGroupsByInvoice(t *testing.T) {
	masterDB, ledgerDB, purchases, stock, _ := newPurchaseFixture(t)

	manufacturer := seedManufacturer(t, masterDB, "Cipla")
	productA := seedProduct(t, masterDB, "Product A", "CompA", manufacturer.ID)
	productB := seedProduct(t, masterDB, "Product B", "CompB", manufacturer.ID)
	seedDistributor(t, masterDB, "MediSupply")

	rows := []BulkRow{
		bulkRow("INV-B", "Product B", "BB1", 30),
		bulkRow("INV-A", "Product A", "BA1", 20),
		bulkRow("INV-A", "Product B", "BB2", 10),
	}

	summary, err := purchases.ImportRows(testStore, rows, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"INV-A", "INV-B"}, summary.InvoicesCommitted)
	assert.Equal(t, 3, summary.RowsApplied)

	var headers []models.PurchaseHeader
	require.NoError(t, ledgerDB.Order("invoice_number ASC").Find(&headers).Error)
	require.Len(t, headers, 2)
	assert.Equal(t, "INV-A", headers[0].InvoiceNumber)
	assert.NotEqual(t, headers[0].PoNumber, headers[1].PoNumber)

	var details []models.PurchaseDetail
	require.NoError(t, ledgerDB.Where("purchase_id = ?", headers[0].ID).Find(&details).Error)
	assert.Len(t, details, 2)

	record, err := stock.GetStock(testStore, productA.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, record.AvailableStock)

	record, err = stock.GetStock(testStore, productB.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, record.AvailableStock)
	requireStockInvariant(t, stock, testStore, productB.ID)
}

func TestImportRowsAbortKeepsEarlierGroups(t *testing.T) {
	masterDB, _, purchases, stock, _ := newPurchaseFixture(t)

	manufacturer := seedManufacturer(t, masterDB, "Cipla")
	productA := seedProduct(t, masterDB, "Product A", "CompA", manufacturer.ID)
	seedDistributor(t, masterDB, "MediSupply")

	rows := []BulkRow{
		bulkRow("INV-A", "Product A", "BA1", 20),
		bulkRow("INV-B", "Missing Product", "BB1", 30),
	}

	summary, err := purchases.ImportRows(testStore, rows, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))

	assert.Equal(t, []string{"INV-A"}, summary.InvoicesCommitted)
	assert.Equal(t, "INV-B", summary.FailedInvoice)
	assert.Equal(t, 1, summary.FailedRow)

	// the committed group stands
	record, err := stock.GetStock(testStore, productA.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, record.AvailableStock)
}

func TestImportRowsEmpty(t *testing.T) {
	_, _, purchases, _, _ := newPurchaseFixture(t)

	_, err := purchases.ImportRows(testStore, nil, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func writeWorkbook(t *testing.T, headers []string, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, row := range rows {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	return f
}

var workbookHeaders = []string{
	"purchase_date", "distributor_name", "product_name", "manufacturer_name",
	"batch_number", "expiry_date", "purchase_quantity", "package_quantity",
	"purchase_mrp", "purchase_discount", "purchase_tax", "purchase_rate",
	"invoice_number",
}

func TestParsePurchaseWorkbook(t *testing.T) {
	f := writeWorkbook(t, workbookHeaders, [][]interface{}{
		{"2026-03-01", "MediSupply", "Product A", "Cipla", "BA1", "06/2027", 20, 2, 50, 2, 3, 40, "INV-A"},
		{"2026-03-01", "MediSupply", "Product B", "Cipla", "BB1", "2027-09", 30, 3, 30, 0, 1.5, 25, "INV-B"},
	})
	defer f.Close()

	rows, err := ParsePurchaseWorkbook(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Product A", rows[0].ProductName)
	assert.Equal(t, "BA1", rows[0].BatchNumber)
	assert.Equal(t, "06/2027", rows[0].ExpiryDate)
	assert.Equal(t, 20, rows[0].Quantity)
	assert.Equal(t, 50.0, rows[0].MRP)
	assert.Equal(t, "INV-A", rows[0].InvoiceNumber)
	assert.Equal(t, 1.5, rows[1].Tax)
}

func TestParsePurchaseWorkbookMissingColumn(t *testing.T) {
	headers := workbookHeaders[:len(workbookHeaders)-1] // drop invoice_number
	f := writeWorkbook(t, headers, [][]interface{}{
		{"2026-03-01", "MediSupply", "Product A", "Cipla", "BA1", "06/2027", 20, 2, 50, 2, 3, 40},
	})
	defer f.Close()

	_, err := ParsePurchaseWorkbook(f)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "invoice_number")
}

func TestParsePurchaseWorkbookBadQuantity(t *testing.T) {
	f := writeWorkbook(t, workbookHeaders, [][]interface{}{
		{"2026-03-01", "MediSupply", "Product A", "Cipla", "BA1", "06/2027", "many", 2, 50, 2, 3, 40, "INV-A"},
	})
	defer f.Close()

	_, err := ParsePurchaseWorkbook(f)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}
