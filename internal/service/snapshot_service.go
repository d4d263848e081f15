package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
)

// SnapshotService serves the read-only projections consumed by reporting:
// per-user BV snapshots, filterable transaction listings and CSV export.
// No business logic lives here; everything is a projection over the ledger
// stores and the audit log.
type SnapshotService struct {
	treeRepo        *repository.TreeRepository
	ledgerRepo      *repository.LifetimeLedgerRepository
	monthlyRepo     *repository.MonthlyLedgerRepository
	transactionRepo *repository.BVTransactionRepository
	walletRepo      *repository.WalletRepository
}

// NewSnapshotService creates a new SnapshotService with the provided repository dependencies.
func NewSnapshotService(
	treeRepo *repository.TreeRepository,
	ledgerRepo *repository.LifetimeLedgerRepository,
	monthlyRepo *repository.MonthlyLedgerRepository,
	transactionRepo *repository.BVTransactionRepository,
	walletRepo *repository.WalletRepository,
) *SnapshotService {
	return &SnapshotService{
		treeRepo:        treeRepo,
		ledgerRepo:      ledgerRepo,
		monthlyRepo:     monthlyRepo,
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
	}
}

// GetUserBVSnapshot assembles the full BV view for one user: lifetime
// ledger, monthly rows, transaction history and cumulative direct income.
// A user with a tree placement but no events yet gets a zeroed snapshot.
func (s *SnapshotService) GetUserBVSnapshot(ctx context.Context, userID string) (model.BVSnapshot, error) {
	if _, err := s.treeRepo.GetNode(ctx, userID); err != nil {
		return model.BVSnapshot{}, err
	}

	lifetime, err := s.ledgerRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrLedgerNotFound) {
			return model.BVSnapshot{}, err
		}
		lifetime = model.LifetimeLedger{UserID: userID}
	}

	monthly, err := s.monthlyRepo.ListByUser(ctx, userID)
	if err != nil {
		return model.BVSnapshot{}, err
	}

	transactions, err := s.transactionRepo.List(ctx, model.BVTransactionFilter{UserID: userID})
	if err != nil {
		return model.BVSnapshot{}, err
	}

	directTotal, err := s.walletRepo.SumByType(ctx, userID, model.IncomeDirect)
	if err != nil {
		return model.BVSnapshot{}, err
	}

	return model.BVSnapshot{
		Lifetime:          lifetime,
		Monthly:           monthly,
		Transactions:      transactions,
		DirectIncomeTotal: directTotal,
	}, nil
}

// ListTransactions returns audit rows matching the filter.
func (s *SnapshotService) ListTransactions(ctx context.Context, filter model.BVTransactionFilter) ([]model.BVTransaction, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, fmt.Errorf("%w: %s after %s", apperrors.ErrInvalidDateRange,
			filter.From.Format("2006-01-02"), filter.To.Format("2006-01-02"))
	}
	return s.transactionRepo.List(ctx, filter)
}

// ListMonthlyLedgers returns all monthly rows for a user.
func (s *SnapshotService) ListMonthlyLedgers(ctx context.Context, userID string) ([]model.MonthlyLedger, error) {
	return s.monthlyRepo.ListByUser(ctx, userID)
}

// ExportTransactionsCSV writes audit rows matching the filter as CSV.
func (s *SnapshotService) ExportTransactionsCSV(ctx context.Context, w io.Writer, filter model.BVTransactionFilter) error {
	transactions, err := s.ListTransactions(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"id", "purchase_id", "user_id", "type", "leg", "bv_amount",
		"prev_left_bv", "new_left_bv", "prev_right_bv", "new_right_bv",
		"prev_matching_bv", "new_matching_bv", "new_match",
		"carry_forward_left", "carry_forward_right",
		"rank", "percentage", "diff_income", "direct_income", "created_at",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range transactions {
		record := []string{
			t.ID, t.PurchaseID, t.UserID, t.Type, string(t.Leg),
			formatAmount(t.BVAmount),
			formatAmount(t.PrevLeftBV), formatAmount(t.NewLeftBV),
			formatAmount(t.PrevRightBV), formatAmount(t.NewRightBV),
			formatAmount(t.PrevMatchingBV), formatAmount(t.NewMatchingBV),
			formatAmount(t.NewMatch),
			formatAmount(t.CarryForwardLeft), formatAmount(t.CarryForwardRight),
			strconv.Itoa(t.Rank), formatAmount(t.Percentage),
			formatAmount(t.DiffIncome), formatAmount(t.DirectIncome),
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
