package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
)

// WalletService handles wallet crediting and statement retrieval.
//
// Plan payouts (direct, matching, rank bonus) are earnings-only: they raise
// cumulative earnings without touching the spendable balance. Administrative
// credits raise both. Every credit appends an immutable ledger entry with
// before/after snapshots of both fields.
type WalletService struct {
	walletRepo *repository.WalletRepository
}

// NewWalletService creates a new WalletService with the provided repository dependencies.
func NewWalletService(walletRepo *repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// WithTx returns a copy of the service whose writes join the given transaction.
func (s *WalletService) WithTx(tx *sql.Tx) *WalletService {
	return &WalletService{walletRepo: s.walletRepo.WithTx(tx)}
}

// Credit applies a single credit to a user's wallet, lazily creating the
// wallet, and appends the audit entry. referenceID ties the entry back to
// the purchase or promotion that caused it.
func (s *WalletService) Credit(ctx context.Context, userID string, amount float64, incomeType model.IncomeType, referenceID string) (model.WalletLedgerEntry, error) {
	if amount <= 0 {
		return model.WalletLedgerEntry{}, fmt.Errorf("%w: %f", apperrors.ErrNonPositiveCredit, amount)
	}

	wallet, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return model.WalletLedgerEntry{}, err
	}

	entry := model.WalletLedgerEntry{
		ID:            uuid.New().String(),
		UserID:        userID,
		Amount:        amount,
		IncomeType:    incomeType,
		BalanceBefore: wallet.Balance,
		EarnedBefore:  wallet.TotalEarned,
		ReferenceID:   referenceID,
		CreatedAt:     time.Now().UTC(),
	}

	wallet.TotalEarned += amount
	if incomeType.AffectsBalance() {
		wallet.Balance += amount
	}
	entry.BalanceAfter = wallet.Balance
	entry.EarnedAfter = wallet.TotalEarned

	if err := s.walletRepo.Save(ctx, &wallet); err != nil {
		return model.WalletLedgerEntry{}, err
	}
	if err := s.walletRepo.InsertEntry(ctx, &entry); err != nil {
		return model.WalletLedgerEntry{}, err
	}

	return entry, nil
}

// GetStatement returns a user's wallet with its full entry history.
func (s *WalletService) GetStatement(ctx context.Context, userID string) (model.WalletStatement, error) {
	wallet, err := s.walletRepo.Get(ctx, userID)
	if err != nil {
		return model.WalletStatement{}, err
	}

	entries, err := s.walletRepo.ListEntries(ctx, userID)
	if err != nil {
		return model.WalletStatement{}, err
	}

	return model.WalletStatement{Wallet: wallet, Entries: entries}, nil
}
