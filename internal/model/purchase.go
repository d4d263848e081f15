package model

import "time"

// Purchase statuses. A purchase stays pending until its full BV propagation
// walk has committed; the retry worker picks up anything left pending.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
)

// Purchase is the engine's sole trigger, produced by the external checkout
// flow. Immutable once created, except for the propagation bookkeeping
// fields (Status, PropagatedUpTo, CompletedAt).
type Purchase struct {
	ID             string     `json:"id"`
	BuyerID        string     `json:"buyerId"`
	BVAmount       float64    `json:"bvAmount"`
	MonthID        int        `json:"monthId"`
	Status         string     `json:"status"`
	PropagatedUpTo *string    `json:"propagatedUpTo,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// MonthIDFor encodes a calendar month as year*12 + month, the key used by
// the monthly ledgers.
func MonthIDFor(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

// MonthPeriod returns the first and last calendar day of the month encoded
// in monthID, in UTC.
func MonthPeriod(monthID int) (start, end time.Time) {
	year := (monthID - 1) / 12
	month := time.Month(monthID - year*12)
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}
