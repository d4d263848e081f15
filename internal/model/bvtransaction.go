package model

import "time"

// BVTransaction types.
const (
	BVTransactionSelfUpdate = "self_bv_update"
	BVTransactionLegUpdate  = "leg_update"
)

// BVTransaction is the append-only audit row written for every node touched
// by a purchase, plus one self_bv_update row for the buyer. It is the system
// of record for "why did this payout happen" and is never mutated after
// insert.
type BVTransaction struct {
	ID                string      `json:"id"`
	PurchaseID        string      `json:"purchaseId"`
	UserID            string      `json:"userId"`
	Type              string      `json:"type"`
	Leg               LegPosition `json:"leg"`
	BVAmount          float64     `json:"bvAmount"`
	PrevLeftBV        float64     `json:"prevLeftBv"`
	NewLeftBV         float64     `json:"newLeftBv"`
	PrevRightBV       float64     `json:"prevRightBv"`
	NewRightBV        float64     `json:"newRightBv"`
	PrevMatchingBV    float64     `json:"prevMatchingBv"`
	NewMatchingBV     float64     `json:"newMatchingBv"`
	NewMatch          float64     `json:"newMatch"`
	CarryForwardLeft  float64     `json:"carryForwardLeft"`
	CarryForwardRight float64     `json:"carryForwardRight"`
	Rank              int         `json:"rank"`
	Percentage        float64     `json:"percentage"`
	DiffIncome        float64     `json:"diffIncome"`
	DirectIncome      float64     `json:"directIncome"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// BVTransactionFilter narrows transaction listings for reporting consumers.
// Zero values mean "no constraint".
type BVTransactionFilter struct {
	UserID     string
	PurchaseID string
	Type       string
	From       time.Time
	To         time.Time
}
