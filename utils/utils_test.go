package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.0, Round2(10.004))
	assert.Equal(t, 0.0, Round2(0))
}

func TestSellingNetRate(t *testing.T) {
	assert.Equal(t, 90.0, SellingNetRate(100, 10))
	assert.Equal(t, 100.0, SellingNetRate(100, 0))
	assert.Equal(t, 0.0, SellingNetRate(100, 100))
	assert.Equal(t, 84.15, SellingNetRate(99, 15))
}

func TestPurchaseNetRate(t *testing.T) {
	assert.Equal(t, 95.0, PurchaseNetRate(100, 10, 5))
	assert.Equal(t, 100.0, PurchaseNetRate(100, 0, 0))
}

func TestNormalizeExpiry(t *testing.T) {
	got, err := NormalizeExpiry("2026-08")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08", got)

	got, err = NormalizeExpiry("08/2026")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08", got)

	got, err = NormalizeExpiry(" 01/2027 ")
	assert.NoError(t, err)
	assert.Equal(t, "2027-01", got)

	_, err = NormalizeExpiry("Aug 2026")
	assert.Error(t, err)

	_, err = NormalizeExpiry("")
	assert.Error(t, err)
}

func TestExpiryTime(t *testing.T) {
	got, err := ExpiryTime("2026-08")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC), got)

	// February, non-leap year
	got, err = ExpiryTime("2026-02")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), got)

	_, err = ExpiryTime("garbage")
	assert.Error(t, err)
}

func TestShouldQuarantine(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// already expired
	assert.True(t, ShouldQuarantine("2025-12", now, 30))
	// lapses 31 Mar, 21 days out
	assert.True(t, ShouldQuarantine("2026-03", now, 30))
	// lapses 30 Apr, 51 days out
	assert.False(t, ShouldQuarantine("2026-04", now, 30))
	assert.False(t, ShouldQuarantine("2026-09", now, 30))
	// bad data counts as expired
	assert.True(t, ShouldQuarantine("bogus", now, 30))
}
