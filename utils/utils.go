package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SellingNetRate derives the selling price of a batch from its MRP and
// discount percent.
func SellingNetRate(mrp, discountPercent float64) float64 {
	return Round2(mrp * (1 - discountPercent/100))
}

// PurchaseNetRate derives the landed cost of a purchase line. Discount is
// an absolute amount here, not a percent.
func PurchaseNetRate(rate, discount, tax float64) float64 {
	return Round2((rate - discount) + tax)
}

// Batch expiry is tracked at month granularity and stored as "YYYY-MM"
// so that lexical order matches chronological order in SQL.
const expiryLayout = "2006-01"

// NormalizeExpiry accepts "YYYY-MM" or "MM/YYYY" and returns the stored
// form. Distributor invoices use the slash form.
func NormalizeExpiry(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(expiryLayout, s); err == nil {
		return t.Format(expiryLayout), nil
	}
	if t, err := time.Parse("01/2006", s); err == nil {
		return t.Format(expiryLayout), nil
	}
	return "", fmt.Errorf("unparseable expiry date %q", raw)
}

// ExpiryTime returns the instant a stored expiry value lapses: the end of
// its month. A batch marked 2026-08 is sellable through 31 Aug 2026.
func ExpiryTime(expiry string) (time.Time, error) {
	t, err := time.Parse(expiryLayout, expiry)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable expiry date %q", expiry)
	}
	return t.AddDate(0, 1, 0).Add(-time.Second), nil
}

// ShouldQuarantine reports whether a batch with the given stored expiry is
// already expired or lapses within windowDays of now. Unparseable values
// count as expired so bad data cannot keep selling.
func ShouldQuarantine(expiry string, now time.Time, windowDays int) bool {
	t, err := ExpiryTime(expiry)
	if err != nil {
		return true
	}
	if t.Before(now) {
		return true
	}
	return t.Sub(now) <= time.Duration(windowDays)*24*time.Hour
}
