package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// DefaultSponsorPercentage is the direct-income rate used by test engines.
const DefaultSponsorPercentage = 0.10

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.New().String()
}

// NewTestWalletService builds a WalletService over the test database.
func NewTestWalletService(t *testing.T, db *sql.DB) *service.WalletService {
	t.Helper()

	return service.NewWalletService(repository.NewWalletRepository(db))
}

// NewTestRankService builds a RankService over the test database.
func NewTestRankService(t *testing.T, db *sql.DB) *service.RankService {
	t.Helper()

	return service.NewRankService(
		repository.NewRankRepository(db),
		repository.NewTreeRepository(db),
		NewTestWalletService(t, db),
	)
}

// NewTestPropagationService builds the full propagation engine over the test
// database with the default sponsor percentage.
func NewTestPropagationService(t *testing.T, db *sql.DB) *service.PropagationService {
	t.Helper()

	return service.NewPropagationService(
		db,
		repository.NewTreeRepository(db),
		repository.NewPurchaseRepository(db),
		repository.NewLifetimeLedgerRepository(db),
		repository.NewMonthlyLedgerRepository(db),
		repository.NewBVTransactionRepository(db),
		NewTestRankService(t, db),
		NewTestWalletService(t, db),
		DefaultSponsorPercentage,
	)
}

// NewTestPurchaseService builds a PurchaseService wired to a full engine.
func NewTestPurchaseService(t *testing.T, db *sql.DB) *service.PurchaseService {
	t.Helper()

	return service.NewPurchaseService(
		repository.NewPurchaseRepository(db),
		repository.NewTreeRepository(db),
		NewTestPropagationService(t, db),
	)
}

// NewTestSnapshotService builds a SnapshotService over the test database.
func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		repository.NewTreeRepository(db),
		repository.NewLifetimeLedgerRepository(db),
		repository.NewMonthlyLedgerRepository(db),
		repository.NewBVTransactionRepository(db),
		repository.NewWalletRepository(db),
	)
}
