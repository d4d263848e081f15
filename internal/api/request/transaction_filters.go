package request

import (
	"fmt"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/validation"
)

// ValidBVTransactionTypes contains the allowed transaction type filter values.
var ValidBVTransactionTypes = map[string]bool{
	model.BVTransactionSelfUpdate: true,
	model.BVTransactionLegUpdate:  true,
}

// ParseBVTransactionFilters extracts and validates transaction listing
// filters from query parameters. All parameters are optional.
//
// Validation rules:
//   - userId / purchaseId: must be valid UUIDs when present
//   - type: must be self_bv_update or leg_update
//   - from / to: YYYY-MM-DD or RFC3339; from must not be after to
//
// Returns an error if any parameter fails validation.
func ParseBVTransactionFilters(userIDParam, purchaseIDParam, typeParam, fromParam, toParam string) (model.BVTransactionFilter, error) {
	filter := model.BVTransactionFilter{}

	if userIDParam != "" {
		if err := validation.ValidateUUID(userIDParam); err != nil {
			return filter, fmt.Errorf("invalid userId: %w", err)
		}
		filter.UserID = userIDParam
	}

	if purchaseIDParam != "" {
		if err := validation.ValidateUUID(purchaseIDParam); err != nil {
			return filter, fmt.Errorf("invalid purchaseId: %w", err)
		}
		filter.PurchaseID = purchaseIDParam
	}

	if typeParam != "" {
		if !ValidBVTransactionTypes[typeParam] {
			return filter, fmt.Errorf("invalid type: %s", typeParam)
		}
		filter.Type = typeParam
	}

	if fromParam != "" {
		from, err := parseFilterTime(fromParam)
		if err != nil {
			return filter, fmt.Errorf("invalid from format: %w", err)
		}
		filter.From = from
	}

	if toParam != "" {
		to, err := parseFilterTime(toParam)
		if err != nil {
			return filter, fmt.Errorf("invalid to format: %w", err)
		}
		// A date-only upper bound is inclusive of that whole day.
		if len(toParam) == len("2006-01-02") {
			to = to.AddDate(0, 0, 1).Add(-time.Second)
		}
		filter.To = to
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return filter, validation.ErrInvalidDateRange
	}

	return filter, nil
}

// parseFilterTime parses a filter timestamp in date or RFC3339 format.
func parseFilterTime(value string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
