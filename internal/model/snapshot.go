package model

// BVSnapshot is the read-only projection served to reporting consumers:
// the lifetime ledger, all monthly rows, the transaction history and the
// cumulative direct income for one user.
type BVSnapshot struct {
	Lifetime          LifetimeLedger  `json:"lifetime"`
	Monthly           []MonthlyLedger `json:"monthly"`
	Transactions      []BVTransaction `json:"transactions"`
	DirectIncomeTotal float64         `json:"directIncomeTotal"`
}

// WalletStatement pairs a wallet with its full entry history.
type WalletStatement struct {
	Wallet  Wallet              `json:"wallet"`
	Entries []WalletLedgerEntry `json:"entries"`
}
