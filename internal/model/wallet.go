package model

import "time"

// IncomeType classifies a wallet credit. Plan payouts are earnings-only:
// they raise cumulative earnings without touching the spendable balance.
// Administrative credits affect both.
type IncomeType string

// Known income types.
const (
	IncomeDirect     IncomeType = "direct_income"
	IncomeMatching   IncomeType = "matching_income"
	IncomeRankBonus  IncomeType = "rank_bonus"
	IncomeAdminTopup IncomeType = "admin_topup"
	IncomeRefund     IncomeType = "refund"
)

// AffectsBalance reports whether a credit of this type raises the spendable
// balance in addition to cumulative earnings.
func (t IncomeType) AffectsBalance() bool {
	switch t {
	case IncomeAdminTopup, IncomeRefund:
		return true
	default:
		return false
	}
}

// Wallet holds a user's spendable balance and cumulative earnings as
// distinct fields. Created lazily on first credit.
type Wallet struct {
	UserID      string  `json:"userId"`
	Balance     float64 `json:"balance"`
	TotalEarned float64 `json:"totalEarned"`
}

// WalletLedgerEntry is the append-only audit row for a single wallet credit,
// with before/after snapshots of both wallet fields.
type WalletLedgerEntry struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Amount        float64    `json:"amount"`
	IncomeType    IncomeType `json:"incomeType"`
	BalanceBefore float64    `json:"balanceBefore"`
	BalanceAfter  float64    `json:"balanceAfter"`
	EarnedBefore  float64    `json:"earnedBefore"`
	EarnedAfter   float64    `json:"earnedAfter"`
	ReferenceID   string     `json:"referenceId"`
	CreatedAt     time.Time  `json:"createdAt"`
}
