package model

import "time"

// LifetimeLedger is the cumulative per-user BV ledger, created lazily on the
// first event that touches the user. SelfBV never feeds leg totals or
// matching; DirectsBV is a parallel bucket used for fund eligibility, not
// matching income.
//
// Invariants maintained by the propagation engine after every hop:
//
//	MatchingBV == min(LeftBV, RightBV)
//	CarryForwardLeft + MatchingBV == LeftBV
//	CarryForwardRight + MatchingBV == RightBV
//	MatchingBV never decreases; Rank never moves backward.
type LifetimeLedger struct {
	UserID            string    `json:"userId"`
	SelfBV            float64   `json:"selfBv"`
	LeftBV            float64   `json:"leftBv"`
	RightBV           float64   `json:"rightBv"`
	DirectsBV         float64   `json:"directsBv"`
	MatchingBV        float64   `json:"matchingBv"`
	CarryForwardLeft  float64   `json:"carryForwardLeft"`
	CarryForwardRight float64   `json:"carryForwardRight"`
	DiffIncome        float64   `json:"diffIncome"`
	Rank              int       `json:"rank"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TeamBV is the rank-qualification metric: the sum of both leg totals.
// Self purchases are excluded.
func (l *LifetimeLedger) TeamBV() float64 {
	return l.LeftBV + l.RightBV
}

// MonthlyLedger is an independent per-calendar-month accumulator, created
// lazily per (user, month). It is never derived from or reconciled against
// the lifetime ledger.
type MonthlyLedger struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	MonthID        int       `json:"monthId"`
	PeriodStart    time.Time `json:"periodStart"`
	PeriodEnd      time.Time `json:"periodEnd"`
	MonthBVLeft    float64   `json:"monthBvLeft"`
	MonthBVRight   float64   `json:"monthBvRight"`
	MonthBVDirects float64   `json:"monthBvDirects"`
}
