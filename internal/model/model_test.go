package model_test

import (
	"testing"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

func TestMonthIDFor(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"January", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 2026*12 + 1},
		{"December", time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC), 2026*12 + 12},
		{"MidMonth", time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC), 2025*12 + 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.MonthIDFor(tt.date); got != tt.want {
				t.Errorf("Expected monthId %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMonthPeriod(t *testing.T) {
	t.Run("RoundTripsWithMonthIDFor", func(t *testing.T) {
		date := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
		start, end := model.MonthPeriod(model.MonthIDFor(date))

		if start != time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC) {
			t.Errorf("Unexpected period start %v", start)
		}
		if end != time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC) {
			t.Errorf("Unexpected period end %v", end)
		}
	})

	t.Run("DecemberDoesNotSpill", func(t *testing.T) {
		start, end := model.MonthPeriod(2025*12 + 12)
		if start.Month() != time.December || start.Year() != 2025 {
			t.Errorf("Unexpected period start %v", start)
		}
		if end.Day() != 31 || end.Month() != time.December {
			t.Errorf("Unexpected period end %v", end)
		}
	})
}

func TestLifetimeLedger_TeamBV(t *testing.T) {
	ledger := model.LifetimeLedger{SelfBV: 500, LeftBV: 1000, RightBV: 300}
	if got := ledger.TeamBV(); got != 1300 {
		t.Errorf("Expected teamBv 1300 (self BV excluded), got %f", got)
	}
}

func TestIncomeType_AffectsBalance(t *testing.T) {
	earningsOnly := []model.IncomeType{model.IncomeDirect, model.IncomeMatching, model.IncomeRankBonus}
	for _, it := range earningsOnly {
		if it.AffectsBalance() {
			t.Errorf("Expected %s to be earnings-only", it)
		}
	}

	balanceAffecting := []model.IncomeType{model.IncomeAdminTopup, model.IncomeRefund}
	for _, it := range balanceAffecting {
		if !it.AffectsBalance() {
			t.Errorf("Expected %s to affect balance", it)
		}
	}
}
