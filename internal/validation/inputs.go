package validation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// ParseStartingInventory parses a whole, non-negative bar count.
// Thousands separators are accepted.
func ParseStartingInventory(raw string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, apperrors.NewInputError("starting_inventory", "starting inventory is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.NewInputError("starting_inventory", "starting inventory must be a whole number of bars").
			WithContext("value", raw)
	}
	if n < 0 {
		return 0, apperrors.NewInputError("starting_inventory", "starting inventory must not be negative").
			WithContext("value", n)
	}
	return n, nil
}

// ParseProcessingFee parses a non-negative amount with at most two decimal
// places. A leading "$" and thousands separators are accepted.
func ParseProcessingFee(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, apperrors.NewInputError("payment_processing_fee", "payment processing fee is required")
	}
	fee, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.NewInputError("payment_processing_fee", "payment processing fee must be a number").
			WithContext("value", raw)
	}
	if fee.IsNegative() {
		return decimal.Zero, apperrors.NewInputError("payment_processing_fee", "payment processing fee must not be negative").
			WithContext("value", raw)
	}
	if !fee.Equal(fee.Round(2)) {
		return decimal.Zero, apperrors.NewInputError("payment_processing_fee", "payment processing fee must have at most two decimal places").
			WithContext("value", raw)
	}
	return fee.Round(2), nil
}

// ValidatePeriodInputs checks the operator-supplied scalars before they reach
// the summarizer.
func ValidatePeriodInputs(in domain.PeriodInputs) error {
	return Struct(in)
}
