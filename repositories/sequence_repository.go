package repositories

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"pharma-app/models"

	"gorm.io/gorm"
)

// SequenceRepository issues business codes (store codes, PO numbers, sale
// invoice numbers). A code is an alphabetic prefix plus a zero-padded
// number, e.g. ICSTR0007. The counter row always holds the last issued
// code; issuance is a compare-and-swap update so two concurrent callers
// can never be handed the same code.
type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

var codePattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

const maxCASAttempts = 5

// Next returns the next code for the given entity class.
func (r *SequenceRepository) Next(entityName string) (string, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		var counter models.SequenceCounter
		if err := r.db.Where("entity_name = ?", entityName).First(&counter).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", NotFound("sequence counter not found for entity " + entityName)
			}
			return "", Internal("failed to read sequence counter", err)
		}

		next, err := NextCode(counter.LastCode)
		if err != nil {
			return "", err
		}

		// Swap only if nobody got there first.
		res := r.db.Model(&models.SequenceCounter{}).
			Where("entity_name = ? AND last_code = ?", entityName, counter.LastCode).
			Update("last_code", next)
		if res.Error != nil {
			return "", Internal("failed to update sequence counter", res.Error)
		}
		if res.RowsAffected == 1 {
			return next, nil
		}
	}
	return "", Internal("sequence counter contention for entity "+entityName, nil)
}

// NextCode increments the numeric suffix of a code, preserving the digit
// width. The width grows when the suffix overflows: AB99 → AB100.
func NextCode(code string) (string, error) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return "", Validation(fmt.Sprintf("malformed sequence code %q", code))
	}
	prefix, digits := m[1], m[2]

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", Validation(fmt.Sprintf("malformed sequence code %q", code))
	}

	return fmt.Sprintf("%s%0*d", prefix, len(digits), n+1), nil
}
