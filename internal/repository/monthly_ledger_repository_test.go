package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
	"github.com/growplan/Commission-Engine-Backend/internal/testutil"
)

func TestMonthlyLedgerRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewMonthlyLedgerRepository(db)

	userID := testutil.MakeID()
	march := 2026*12 + 3

	t.Run("GetOrCreateSetsPeriodBoundaries", func(t *testing.T) {
		ledger, err := repo.GetOrCreate(ctx, userID, march)
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}

		wantStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		wantEnd := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
		if !ledger.PeriodStart.Equal(wantStart) {
			t.Errorf("Expected period start %v, got %v", wantStart, ledger.PeriodStart)
		}
		if !ledger.PeriodEnd.Equal(wantEnd) {
			t.Errorf("Expected period end %v, got %v", wantEnd, ledger.PeriodEnd)
		}
	})

	t.Run("GetOrCreateIsIdempotent", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, userID, march)
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		second, err := repo.GetOrCreate(ctx, userID, march)
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("Expected the same row, got %s and %s", first.ID, second.ID)
		}
	})

	t.Run("AddVolumeAccumulatesPerLeg", func(t *testing.T) {
		if err := repo.AddVolume(ctx, userID, march, model.LegLeft, 1000, 1000); err != nil {
			t.Fatalf("AddVolume failed: %v", err)
		}
		if err := repo.AddVolume(ctx, userID, march, model.LegRight, 400, 0); err != nil {
			t.Fatalf("AddVolume failed: %v", err)
		}

		ledger, err := repo.GetOrCreate(ctx, userID, march)
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if ledger.MonthBVLeft != 1000 {
			t.Errorf("Expected monthBvLeft 1000, got %f", ledger.MonthBVLeft)
		}
		if ledger.MonthBVRight != 400 {
			t.Errorf("Expected monthBvRight 400, got %f", ledger.MonthBVRight)
		}
		if ledger.MonthBVDirects != 1000 {
			t.Errorf("Expected monthBvDirects 1000, got %f", ledger.MonthBVDirects)
		}
	})

	t.Run("AddVolumeRejectsNoLeg", func(t *testing.T) {
		if err := repo.AddVolume(ctx, userID, march, model.LegNone, 100, 0); err == nil {
			t.Error("Expected an error for leg none")
		}
	})

	t.Run("ListByUserOrderedByMonth", func(t *testing.T) {
		if _, err := repo.GetOrCreate(ctx, userID, march+1); err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}

		ledgers, err := repo.ListByUser(ctx, userID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(ledgers) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(ledgers))
		}
		if ledgers[0].MonthID != march || ledgers[1].MonthID != march+1 {
			t.Errorf("Expected months %d, %d in order, got %d, %d",
				march, march+1, ledgers[0].MonthID, ledgers[1].MonthID)
		}
	})
}
