package repositories

import (
	"testing"

	"pharma-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ICSTR0000", "ICSTR0001"},
		{"ICSTR0007", "ICSTR0008"},
		{"ICSTR0099", "ICSTR0100"},
		{"PO000009", "PO000010"},
		{"AB99", "AB100"}, // width grows on overflow
		{"INV000000", "INV000001"},
	}
	for _, tc := range cases {
		got, err := NextCode(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextCodeMalformed(t *testing.T) {
	for _, in := range []string{"", "0007", "ICSTR", "IC-STR0007", "ICSTR0007X"} {
		_, err := NextCode(in)
		assert.Error(t, err, in)
		assert.Equal(t, ErrKindValidation, KindOf(err))
	}
}

func TestSequenceNextIssuesUniqueCodes(t *testing.T) {
	masterDB, _ := newTestDBs(t)
	sequence := NewSequenceRepository(masterDB)

	seen := make(map[string]bool)
	var last string
	for i := 0; i < 10; i++ {
		code, err := sequence.Next(models.SeqStore)
		require.NoError(t, err)
		require.False(t, seen[code], "code %s issued twice", code)
		seen[code] = true
		last = code
	}
	assert.Equal(t, "ICSTR0010", last)

	var counter models.SequenceCounter
	require.NoError(t, masterDB.Where("entity_name = ?", models.SeqStore).First(&counter).Error)
	assert.Equal(t, "ICSTR0010", counter.LastCode)
}

func TestSequenceNextUnknownEntity(t *testing.T) {
	masterDB, _ := newTestDBs(t)
	sequence := NewSequenceRepository(masterDB)

	_, err := sequence.Next("no_such_entity")
	require.Error(t, err)
	assert.Equal(t, ErrKindNotFound, KindOf(err))
}

func TestSequenceCountersIndependent(t *testing.T) {
	masterDB, _ := newTestDBs(t)
	sequence := NewSequenceRepository(masterDB)

	po, err := sequence.Next(models.SeqPurchaseNo)
	require.NoError(t, err)
	assert.Equal(t, "PO000001", po)

	inv, err := sequence.Next(models.SeqSaleInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV000001", inv)

	po, err = sequence.Next(models.SeqPurchaseNo)
	require.NoError(t, err)
	assert.Equal(t, "PO000002", po)
}
