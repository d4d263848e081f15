package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/validation"
)

// CreatePurchaseRequest is the payload the checkout subsystem posts to
// trigger BV propagation. PurchaseID is optional: when supplied it acts as
// an idempotency key, so checkout retries never double-apply. MonthID is
// derived from Date (or the current time) when omitted.
type CreatePurchaseRequest struct {
	PurchaseID string  `json:"purchaseId,omitempty"`
	BuyerID    string  `json:"buyerId"`
	BVAmount   float64 `json:"bvAmount"`
	MonthID    int     `json:"monthId,omitempty"`
	Date       string  `json:"date,omitempty"`
}

// Validate checks the request payload.
//
// Required fields:
//   - buyerId: must be a valid UUID
//   - bvAmount: must be positive
//
// Optional fields:
//   - purchaseId: must be a valid UUID when present
//   - date: must be in YYYY-MM-DD format when present
//   - monthId: must be non-negative
func (r CreatePurchaseRequest) Validate() error {
	if err := validation.ValidateUUID(r.BuyerID); err != nil {
		return fmt.Errorf("buyerId: %w", err)
	}

	if r.PurchaseID != "" {
		if err := validation.ValidateUUID(r.PurchaseID); err != nil {
			return fmt.Errorf("purchaseId: %w", err)
		}
	}

	if r.BVAmount <= 0 {
		return fmt.Errorf("bvAmount must be positive, got %f", r.BVAmount)
	}

	if strings.TrimSpace(r.Date) != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	if r.MonthID < 0 {
		return fmt.Errorf("monthId must be non-negative, got %d", r.MonthID)
	}

	return nil
}
