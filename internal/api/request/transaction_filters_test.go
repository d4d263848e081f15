package request_test

import (
	"errors"
	"testing"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/api/request"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/validation"

	"github.com/google/uuid"
)

func TestParseBVTransactionFilters(t *testing.T) {
	userID := uuid.New().String()
	purchaseID := uuid.New().String()

	t.Run("AllEmpty", func(t *testing.T) {
		filter, err := request.ParseBVTransactionFilters("", "", "", "", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter != (model.BVTransactionFilter{}) {
			t.Errorf("Expected zero filter, got %+v", filter)
		}
	})

	t.Run("AllSet", func(t *testing.T) {
		filter, err := request.ParseBVTransactionFilters(userID, purchaseID, model.BVTransactionLegUpdate, "2026-01-01", "2026-06-30")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.UserID != userID || filter.PurchaseID != purchaseID {
			t.Errorf("Unexpected IDs in filter: %+v", filter)
		}
		if filter.Type != model.BVTransactionLegUpdate {
			t.Errorf("Expected type %s, got %s", model.BVTransactionLegUpdate, filter.Type)
		}
	})

	t.Run("DateOnlyUpperBoundIsInclusive", func(t *testing.T) {
		filter, err := request.ParseBVTransactionFilters("", "", "", "", "2026-03-15")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
		if !filter.To.Equal(want) {
			t.Errorf("Expected inclusive end of day %v, got %v", want, filter.To)
		}
	})

	t.Run("RFC3339Bounds", func(t *testing.T) {
		filter, err := request.ParseBVTransactionFilters("", "", "", "2026-03-15T08:00:00Z", "2026-03-15T17:00:00Z")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.From.Hour() != 8 || filter.To.Hour() != 17 {
			t.Errorf("Expected timestamps preserved, got from %v to %v", filter.From, filter.To)
		}
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		if _, err := request.ParseBVTransactionFilters("not-a-uuid", "", "", "", ""); err == nil {
			t.Error("Expected an error for invalid userId")
		}
	})

	t.Run("InvalidType", func(t *testing.T) {
		if _, err := request.ParseBVTransactionFilters("", "", "wallet_credit", "", ""); err == nil {
			t.Error("Expected an error for unknown type")
		}
	})

	t.Run("InvalidDateFormat", func(t *testing.T) {
		if _, err := request.ParseBVTransactionFilters("", "", "", "15-03-2026", ""); err == nil {
			t.Error("Expected an error for malformed from date")
		}
	})

	t.Run("FromAfterTo", func(t *testing.T) {
		_, err := request.ParseBVTransactionFilters("", "", "", "2026-06-01", "2026-01-01")
		if !errors.Is(err, validation.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})
}

func TestCreatePurchaseRequest_Validate(t *testing.T) {
	valid := request.CreatePurchaseRequest{
		BuyerID:  uuid.New().String(),
		BVAmount: 1000,
	}

	t.Run("Valid", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("ValidWithOptionals", func(t *testing.T) {
		req := valid
		req.PurchaseID = uuid.New().String()
		req.Date = "2026-03-15"
		req.MonthID = 2026*12 + 3
		if err := req.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(r *request.CreatePurchaseRequest)
	}{
		{"MissingBuyer", func(r *request.CreatePurchaseRequest) { r.BuyerID = "" }},
		{"BadBuyerUUID", func(r *request.CreatePurchaseRequest) { r.BuyerID = "abc" }},
		{"BadPurchaseUUID", func(r *request.CreatePurchaseRequest) { r.PurchaseID = "abc" }},
		{"ZeroBV", func(r *request.CreatePurchaseRequest) { r.BVAmount = 0 }},
		{"NegativeBV", func(r *request.CreatePurchaseRequest) { r.BVAmount = -10 }},
		{"BadDate", func(r *request.CreatePurchaseRequest) { r.Date = "March 15" }},
		{"NegativeMonthID", func(r *request.CreatePurchaseRequest) { r.MonthID = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}
