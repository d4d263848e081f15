package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrNodeNotFound indicates that a user has no placement in the binary tree.
	ErrNodeNotFound = errors.New("tree node not found")

	// ErrUnknownBuyer indicates that a purchase references a buyer with no tree placement.
	ErrUnknownBuyer = errors.New("unknown buyer")

	// ErrAncestorNotFound indicates that an ancestor referenced by a parent pointer
	// could not be loaded mid-walk. Distinct from reaching the tree root, which is
	// a normal termination.
	ErrAncestorNotFound = errors.New("ancestor not found")

	// ErrPurchaseNotFound indicates that a purchase with the given ID does not exist.
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrLedgerNotFound indicates that no lifetime ledger row exists for the user.
	ErrLedgerNotFound = errors.New("lifetime ledger not found")

	// ErrWalletNotFound indicates that no wallet exists for the user.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrRankNotFound indicates that a rank index is outside the configured rank table.
	ErrRankNotFound = errors.New("rank not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidBVAmount indicates a purchase with a zero or negative BV amount.
	ErrInvalidBVAmount = errors.New("bv amount must be positive")

	// ErrNonPositiveCredit indicates a wallet credit with a zero or negative amount.
	ErrNonPositiveCredit = errors.New("credit amount must be positive")

	// ErrInvalidMonthID indicates a month ID that does not encode a calendar month.
	ErrInvalidMonthID = errors.New("invalid month ID")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToRetrieveSnapshot     = errors.New("failed to retrieve BV snapshot")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve BV transactions")
	ErrFailedToRetrieveMonthly      = errors.New("failed to retrieve monthly ledgers")
	ErrFailedToRetrieveWallet       = errors.New("failed to retrieve wallet")
	ErrFailedToRetrieveAchievements = errors.New("failed to retrieve rank achievements")
	ErrFailedToRetrieveRanks        = errors.New("failed to retrieve rank table")
	ErrFailedToCreatePurchase       = errors.New("failed to create purchase")
	ErrFailedToExportTransactions   = errors.New("failed to export BV transactions")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrMaxDepthExceeded indicates the ancestor walk exceeded its depth guard,
	// which can only happen when parent pointers form a cycle.
	ErrMaxDepthExceeded = errors.New("ancestor walk exceeded maximum depth")

	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a non-root node with no leg position relative to its parent).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
