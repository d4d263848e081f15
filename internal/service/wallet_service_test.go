package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/testutil"
)

func TestWalletService_Credit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	walletService := testutil.NewTestWalletService(t, db)

	userID := testutil.MakeID()

	t.Run("EarningsOnlyIncome", func(t *testing.T) {
		entry, err := walletService.Credit(ctx, userID, 250, model.IncomeMatching, testutil.MakeID())
		if err != nil {
			t.Fatalf("Credit failed: %v", err)
		}

		if entry.BalanceBefore != 0 || entry.BalanceAfter != 0 {
			t.Errorf("Matching income must not touch balance, got before %f after %f",
				entry.BalanceBefore, entry.BalanceAfter)
		}
		if entry.EarnedBefore != 0 || entry.EarnedAfter != 250 {
			t.Errorf("Expected earnings 0 -> 250, got %f -> %f", entry.EarnedBefore, entry.EarnedAfter)
		}
	})

	t.Run("BalanceAffectingIncome", func(t *testing.T) {
		entry, err := walletService.Credit(ctx, userID, 100, model.IncomeAdminTopup, testutil.MakeID())
		if err != nil {
			t.Fatalf("Credit failed: %v", err)
		}

		if entry.BalanceAfter != 100 {
			t.Errorf("Expected balance 100 after topup, got %f", entry.BalanceAfter)
		}
		if entry.EarnedAfter != 350 {
			t.Errorf("Expected cumulative earnings 350, got %f", entry.EarnedAfter)
		}
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		for _, amount := range []float64{0, -50} {
			if _, err := walletService.Credit(ctx, userID, amount, model.IncomeDirect, testutil.MakeID()); !errors.Is(err, apperrors.ErrNonPositiveCredit) {
				t.Errorf("Expected ErrNonPositiveCredit for %f, got %v", amount, err)
			}
		}
	})

	t.Run("Statement", func(t *testing.T) {
		statement, err := walletService.GetStatement(ctx, userID)
		if err != nil {
			t.Fatalf("GetStatement failed: %v", err)
		}

		if statement.Wallet.Balance != 100 {
			t.Errorf("Expected balance 100, got %f", statement.Wallet.Balance)
		}
		if statement.Wallet.TotalEarned != 350 {
			t.Errorf("Expected totalEarned 350, got %f", statement.Wallet.TotalEarned)
		}
		if len(statement.Entries) != 2 {
			t.Fatalf("Expected 2 ledger entries, got %d", len(statement.Entries))
		}

		// Snapshots chain: the topup entry starts where the matching credit ended.
		for _, entry := range statement.Entries {
			if entry.IncomeType == model.IncomeAdminTopup && entry.EarnedBefore != 250 {
				t.Errorf("Expected topup earnedBefore 250, got %f", entry.EarnedBefore)
			}
		}
	})
}

func TestWalletService_GetStatement_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	walletService := testutil.NewTestWalletService(t, db)

	if _, err := walletService.GetStatement(context.Background(), testutil.MakeID()); !errors.Is(err, apperrors.ErrWalletNotFound) {
		t.Errorf("Expected ErrWalletNotFound, got %v", err)
	}
}
