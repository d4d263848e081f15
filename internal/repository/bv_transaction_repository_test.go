package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
	"github.com/growplan/Commission-Engine-Backend/internal/testutil"
)

func insertTransaction(t *testing.T, repo *repository.BVTransactionRepository, record model.BVTransaction) model.BVTransaction {
	t.Helper()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := repo.Insert(context.Background(), &record); err != nil {
		t.Fatalf("Failed to insert bv transaction: %v", err)
	}
	return record
}

func TestBVTransactionRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewBVTransactionRepository(db)

	userA := testutil.MakeID()
	userB := testutil.MakeID()
	pair := testutil.BuildBinaryPair(t, db)

	purchase1 := testutil.NewPurchase(pair.Left.ID).Build(t, db)
	purchase2 := testutil.NewPurchase(pair.Right.ID).Build(t, db)

	day1 := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)

	insertTransaction(t, repo, model.BVTransaction{
		PurchaseID: purchase1.ID, UserID: userA,
		Type: model.BVTransactionSelfUpdate, Leg: model.LegNone,
		BVAmount: 1000, CreatedAt: day1,
	})
	insertTransaction(t, repo, model.BVTransaction{
		PurchaseID: purchase1.ID, UserID: userB,
		Type: model.BVTransactionLegUpdate, Leg: model.LegLeft,
		BVAmount: 1000, NewLeftBV: 1000, CreatedAt: day1,
	})
	insertTransaction(t, repo, model.BVTransaction{
		PurchaseID: purchase2.ID, UserID: userB,
		Type: model.BVTransactionLegUpdate, Leg: model.LegRight,
		BVAmount: 500, NewRightBV: 500, CreatedAt: day2,
	})

	t.Run("NoFilter", func(t *testing.T) {
		transactions, err := repo.List(ctx, model.BVTransactionFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(transactions) != 3 {
			t.Errorf("Expected 3 rows, got %d", len(transactions))
		}
	})

	t.Run("ByUser", func(t *testing.T) {
		transactions, err := repo.List(ctx, model.BVTransactionFilter{UserID: userB})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(transactions) != 2 {
			t.Errorf("Expected 2 rows for user, got %d", len(transactions))
		}
	})

	t.Run("ByPurchaseAndType", func(t *testing.T) {
		transactions, err := repo.List(ctx, model.BVTransactionFilter{
			PurchaseID: purchase1.ID,
			Type:       model.BVTransactionLegUpdate,
		})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(transactions) != 1 {
			t.Fatalf("Expected 1 row, got %d", len(transactions))
		}
		if transactions[0].Leg != model.LegLeft {
			t.Errorf("Expected left leg row, got %s", transactions[0].Leg)
		}
	})

	t.Run("ByDateRange", func(t *testing.T) {
		transactions, err := repo.List(ctx, model.BVTransactionFilter{
			From: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(transactions) != 1 {
			t.Fatalf("Expected 1 row in range, got %d", len(transactions))
		}
		if transactions[0].PurchaseID != purchase2.ID {
			t.Errorf("Expected the day-2 row, got purchase %s", transactions[0].PurchaseID)
		}
	})

	t.Run("OldestFirst", func(t *testing.T) {
		transactions, err := repo.List(ctx, model.BVTransactionFilter{UserID: userB})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(transactions) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(transactions))
		}
		if !transactions[0].CreatedAt.Before(transactions[1].CreatedAt) {
			t.Error("Expected rows ordered oldest first")
		}
	})
}
