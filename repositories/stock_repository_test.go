package repositories

import (
	"testing"
	"time"

	"pharma-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStore = "ICSTR0001"

func TestAppendBatchCreatesRecordOnFirstPurchase(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	record, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001",
		ExpiryDate:  "2027-06",
		Quantity:    50,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 50, record.AvailableStock)
	require.Len(t, record.Batches, 1)
	assert.Equal(t, "B001", record.Batches[0].BatchNumber)
	assert.Equal(t, models.StatusActive, record.Batches[0].Status)
	requireStockInvariant(t, stock, testStore, 1)
}

func TestAppendBatchIncrementsExistingRecord(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	_, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "2027-06", Quantity: 50,
	}, 1)
	require.NoError(t, err)

	record, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B002", ExpiryDate: "2027-09", Quantity: 30,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, 80, record.AvailableStock)
	assert.Len(t, record.Batches, 2)
	requireStockInvariant(t, stock, testStore, 1)
}

func TestAppendBatchNormalizesSlashExpiry(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	record, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "06/2027", Quantity: 10,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "2027-06", record.Batches[0].ExpiryDate)
}

func TestAppendBatchRejectsDuplicateActiveBatch(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	_, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "2027-06", Quantity: 50,
	}, 1)
	require.NoError(t, err)

	_, err = stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "2027-06", Quantity: 20,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindConflict, KindOf(err))
	requireStockInvariant(t, stock, testStore, 1)
}

func TestAppendBatchRejectsNonPositiveQuantity(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	_, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "2027-06", Quantity: 0,
	}, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
}

func TestDepletePartialAndFull(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	_, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "2027-06", Quantity: 50,
	}, 1)
	require.NoError(t, err)

	require.NoError(t, stock.Deplete(testStore, 1, "B001", 20, 1))

	record, err := stock.GetStock(testStore, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, record.AvailableStock)
	assert.Equal(t, 30, record.Batches[0].Quantity)
	assert.Equal(t, models.StatusActive, record.Batches[0].Status)
	requireStockInvariant(t, stock, testStore, 1)

	// draining to zero deactivates the batch
	require.NoError(t, stock.Deplete(testStore, 1, "B001", 30, 1))

	record, err = stock.GetStock(testStore, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, record.AvailableStock)
	assert.Equal(t, models.StatusInactive, record.Batches[0].Status)
	requireStockInvariant(t, stock, testStore, 1)

	// an inactive batch cannot be depleted again
	err = stock.Deplete(testStore, 1, "B001", 1, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestDepleteMoreThanBatchHolds(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	_, err := stock.AppendBatch(testStore, 1, "Paracetamol 500mg", models.BatchEntry{
		BatchNumber: "B001", ExpiryDate: "2027-06", Quantity: 10,
	}, 1)
	require.NoError(t, err)

	err = stock.Deplete(testStore, 1, "B001", 11, 1)
	require.Error(t, err)
	assert.Equal(t, ErrKindValidation, KindOf(err))
	requireStockInvariant(t, stock, testStore, 1)
}

func TestQuarantineExpiring(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, batch := range []models.BatchEntry{
		{BatchNumber: "EXPIRED", ExpiryDate: "2025-12", Quantity: 5},
		{BatchNumber: "NEAR", ExpiryDate: "2026-03", Quantity: 7},
		{BatchNumber: "GOOD", ExpiryDate: "2026-09", Quantity: 20},
	} {
		_, err := stock.AppendBatch(testStore, 1, "Amoxicillin 250mg", batch, 1)
		require.NoError(t, err)
	}

	quarantined, err := stock.QuarantineExpiring(testStore, 1, now, 30, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"EXPIRED", "NEAR"}, quarantined)

	record, err := stock.GetStock(testStore, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, record.AvailableStock)
	requireStockInvariant(t, stock, testStore, 1)

	// a second sweep finds nothing
	quarantined, err = stock.QuarantineExpiring(testStore, 1, now, 30, 1)
	require.NoError(t, err)
	assert.Empty(t, quarantined)
}

func TestActiveBatchesFEFOOrder(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	for _, batch := range []models.BatchEntry{
		{BatchNumber: "LATE", ExpiryDate: "2028-01", Quantity: 5},
		{BatchNumber: "EARLY", ExpiryDate: "2026-11", Quantity: 5},
		{BatchNumber: "MID", ExpiryDate: "2027-05", Quantity: 5},
	} {
		_, err := stock.AppendBatch(testStore, 1, "Cetirizine 10mg", batch, 1)
		require.NoError(t, err)
	}

	record, err := stock.GetStock(testStore, 1)
	require.NoError(t, err)

	batches, err := stock.activeBatches(record.ID)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, "EARLY", batches[0].BatchNumber)
	assert.Equal(t, "MID", batches[1].BatchNumber)
	assert.Equal(t, "LATE", batches[2].BatchNumber)
}

func TestGetStockNotFound(t *testing.T) {
	_, ledgerDB := newTestDBs(t)
	stock := NewStockRepository(ledgerDB)

	_, err := stock.GetStock(testStore, 999)
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}
