package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
	"github.com/growplan/Commission-Engine-Backend/internal/testutil"
	"github.com/growplan/Commission-Engine-Backend/internal/worker"
)

func TestPropagationRetrier_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	pair := testutil.BuildBinaryPair(t, db)
	propagation := testutil.NewTestPropagationService(t, db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	stale := time.Now().UTC().Add(-time.Hour)

	t.Run("CompletesPendingBatch", func(t *testing.T) {
		p1 := testutil.NewPurchase(pair.Left.ID).WithBV(1000).WithCreatedAt(stale).Build(t, db)
		p2 := testutil.NewPurchase(pair.Right.ID).WithBV(1000).WithCreatedAt(stale).Build(t, db)

		retrier := worker.NewPropagationRetrier(purchaseRepo, propagation, time.Minute, 100, 2)
		count, err := retrier.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2 completed purchases, got %d", count)
		}

		for _, id := range []string{p1.ID, p2.ID} {
			purchase, err := purchaseRepo.Get(ctx, id)
			if err != nil {
				t.Fatalf("Failed to get purchase: %v", err)
			}
			if purchase.Status != model.PurchaseStatusCompleted {
				t.Errorf("Expected purchase %s completed, got %s", id, purchase.Status)
			}
		}
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		retrier := worker.NewPropagationRetrier(purchaseRepo, propagation, time.Minute, 100, 2)
		count, err := retrier.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected nothing to retry, got %d", count)
		}
	})

	t.Run("GracePeriodSkipsFreshPurchases", func(t *testing.T) {
		fresh := testutil.NewPurchase(pair.Left.ID).WithBV(1000).Build(t, db)

		retrier := worker.NewPropagationRetrier(purchaseRepo, propagation, time.Hour, 100, 2)
		count, err := retrier.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected fresh purchase to be skipped, got %d completed", count)
		}

		purchase, err := purchaseRepo.Get(ctx, fresh.ID)
		if err != nil {
			t.Fatalf("Failed to get purchase: %v", err)
		}
		if purchase.Status != model.PurchaseStatusPending {
			t.Errorf("Expected purchase still pending, got %s", purchase.Status)
		}

		// Next run with no grace picks it up.
		retrier = worker.NewPropagationRetrier(purchaseRepo, propagation, 0, 100, 2)
		if count, err = retrier.Run(ctx); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 completed purchase after grace elapsed, got %d", count)
		}
	})

	t.Run("BrokenPurchaseDoesNotAbortBatch", func(t *testing.T) {
		broken := testutil.NewPurchase(testutil.MakeID()).WithCreatedAt(stale).Build(t, db)
		good := testutil.NewPurchase(pair.Left.ID).WithBV(1000).WithCreatedAt(stale).Build(t, db)

		retrier := worker.NewPropagationRetrier(purchaseRepo, propagation, time.Minute, 100, 1)
		count, err := retrier.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 completed purchase, got %d", count)
		}

		purchase, err := purchaseRepo.Get(ctx, broken.ID)
		if err != nil {
			t.Fatalf("Failed to get purchase: %v", err)
		}
		if purchase.Status != model.PurchaseStatusPending {
			t.Errorf("Expected broken purchase left pending, got %s", purchase.Status)
		}

		purchase, err = purchaseRepo.Get(ctx, good.ID)
		if err != nil {
			t.Fatalf("Failed to get purchase: %v", err)
		}
		if purchase.Status != model.PurchaseStatusCompleted {
			t.Errorf("Expected good purchase completed, got %s", purchase.Status)
		}
	})
}
