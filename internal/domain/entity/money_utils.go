package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ParsePrice validates a decimal string and returns it with exactly two decimal places.
// Amounts never pass through float64.
func ParsePrice(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidAmount)
	}
	if !d.Equal(d.Truncate(MaxDecimalPlaces)) {
		return decimal.Decimal{}, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	return NormalizePrice(d), nil
}

// NormalizePrice rescales d to two decimal places so equal amounts compare equal structurally
func NormalizePrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(MaxDecimalPlaces)
}

// FormatPrice renders an amount with exactly two decimal places
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(MaxDecimalPlaces)
}

// FormatNullPrice renders an optional amount, empty when unset
func FormatNullPrice(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return FormatPrice(d.Decimal)
}
