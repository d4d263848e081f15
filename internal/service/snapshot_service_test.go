package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/testutil"
)

func TestSnapshotService_GetUserBVSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	pair := testutil.BuildBinaryPair(t, db)
	propagation := testutil.NewTestPropagationService(t, db)
	snapshotService := testutil.NewTestSnapshotService(t, db)

	t.Run("UnknownUser", func(t *testing.T) {
		if _, err := snapshotService.GetUserBVSnapshot(ctx, testutil.MakeID()); !errors.Is(err, apperrors.ErrNodeNotFound) {
			t.Errorf("Expected ErrNodeNotFound, got %v", err)
		}
	})

	t.Run("PlacedUserWithoutEvents", func(t *testing.T) {
		snapshot, err := snapshotService.GetUserBVSnapshot(ctx, pair.Right.ID)
		if err != nil {
			t.Fatalf("GetUserBVSnapshot failed: %v", err)
		}
		if snapshot.Lifetime.UserID != pair.Right.ID {
			t.Errorf("Expected zeroed ledger for user %s, got %s", pair.Right.ID, snapshot.Lifetime.UserID)
		}
		if snapshot.Lifetime.TeamBV() != 0 {
			t.Errorf("Expected zero teamBv, got %f", snapshot.Lifetime.TeamBV())
		}
		if len(snapshot.Transactions) != 0 {
			t.Errorf("Expected no transactions, got %d", len(snapshot.Transactions))
		}
	})

	t.Run("AfterPropagation", func(t *testing.T) {
		purchase := testutil.NewPurchase(pair.Left.ID).WithBV(1000).Build(t, db)
		if _, err := propagation.ProcessPurchase(ctx, purchase.ID); err != nil {
			t.Fatalf("ProcessPurchase failed: %v", err)
		}

		snapshot, err := snapshotService.GetUserBVSnapshot(ctx, pair.A.ID)
		if err != nil {
			t.Fatalf("GetUserBVSnapshot failed: %v", err)
		}

		if !almostEqual(snapshot.Lifetime.LeftBV, 1000) {
			t.Errorf("Expected leftBv 1000, got %f", snapshot.Lifetime.LeftBV)
		}
		if len(snapshot.Monthly) != 1 {
			t.Errorf("Expected 1 monthly row, got %d", len(snapshot.Monthly))
		}
		if len(snapshot.Transactions) != 1 {
			t.Errorf("Expected 1 audit row for A, got %d", len(snapshot.Transactions))
		}
		if !almostEqual(snapshot.DirectIncomeTotal, 100) {
			t.Errorf("Expected directIncomeTotal 100, got %f", snapshot.DirectIncomeTotal)
		}
	})
}

func TestSnapshotService_ListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	pair := testutil.BuildBinaryPair(t, db)
	propagation := testutil.NewTestPropagationService(t, db)
	snapshotService := testutil.NewTestSnapshotService(t, db)

	purchase := testutil.NewPurchase(pair.Left.ID).WithBV(1000).Build(t, db)
	if _, err := propagation.ProcessPurchase(ctx, purchase.ID); err != nil {
		t.Fatalf("ProcessPurchase failed: %v", err)
	}

	t.Run("FilterByType", func(t *testing.T) {
		transactions, err := snapshotService.ListTransactions(ctx, model.BVTransactionFilter{Type: model.BVTransactionSelfUpdate})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(transactions) != 1 {
			t.Fatalf("Expected 1 self update, got %d", len(transactions))
		}
		if transactions[0].UserID != pair.Left.ID {
			t.Errorf("Expected self update for buyer %s, got %s", pair.Left.ID, transactions[0].UserID)
		}
	})

	t.Run("FilterByPurchase", func(t *testing.T) {
		transactions, err := snapshotService.ListTransactions(ctx, model.BVTransactionFilter{PurchaseID: purchase.ID})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(transactions) != 2 {
			t.Errorf("Expected 2 rows (self + hop), got %d", len(transactions))
		}
	})

	t.Run("InvalidDateRange", func(t *testing.T) {
		filter := model.BVTransactionFilter{
			From: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		if _, err := snapshotService.ListTransactions(ctx, filter); !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})
}

func TestSnapshotService_ExportTransactionsCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	pair := testutil.BuildBinaryPair(t, db)
	propagation := testutil.NewTestPropagationService(t, db)
	snapshotService := testutil.NewTestSnapshotService(t, db)

	purchase := testutil.NewPurchase(pair.Left.ID).WithBV(1000).Build(t, db)
	if _, err := propagation.ProcessPurchase(ctx, purchase.ID); err != nil {
		t.Fatalf("ProcessPurchase failed: %v", err)
	}

	var buf bytes.Buffer
	if err := snapshotService.ExportTransactionsCSV(ctx, &buf, model.BVTransactionFilter{PurchaseID: purchase.ID}); err != nil {
		t.Fatalf("ExportTransactionsCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	header := records[0]
	if header[0] != "id" || header[3] != "type" || header[len(header)-1] != "created_at" {
		t.Errorf("Unexpected CSV header: %v", header)
	}
	for _, record := range records[1:] {
		if len(record) != len(header) {
			t.Errorf("Expected %d columns, got %d", len(header), len(record))
		}
		if record[1] != purchase.ID {
			t.Errorf("Expected purchase_id %s, got %s", purchase.ID, record[1])
		}
	}
}
