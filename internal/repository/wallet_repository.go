package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

// WalletRepository provides data access methods for the wallet table and the
// append-only wallet_ledger_entry log.
type WalletRepository struct {
	db DBTX
}

// NewWalletRepository creates a new WalletRepository with the provided database connection.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *WalletRepository) WithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{db: tx}
}

// Get retrieves a user's wallet.
// Returns apperrors.ErrWalletNotFound if no wallet exists yet.
func (s *WalletRepository) Get(ctx context.Context, userID string) (model.Wallet, error) {
	var w model.Wallet
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, balance, total_earned FROM wallet WHERE user_id = ?`, userID).
		Scan(&w.UserID, &w.Balance, &w.TotalEarned)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Wallet{}, fmt.Errorf("%w: %s", apperrors.ErrWalletNotFound, userID)
	}
	if err != nil {
		return model.Wallet{}, fmt.Errorf("failed to scan wallet results: %w", err)
	}
	return w, nil
}

// GetOrCreate retrieves a user's wallet, lazily creating a zeroed row on first credit.
func (s *WalletRepository) GetOrCreate(ctx context.Context, userID string) (model.Wallet, error) {
	insertQuery := `
		INSERT INTO wallet (user_id) VALUES (?)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, insertQuery, userID); err != nil {
		return model.Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
	}
	return s.Get(ctx, userID)
}

// Save persists the wallet's balance and cumulative earnings.
func (s *WalletRepository) Save(ctx context.Context, w *model.Wallet) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE wallet SET balance = ?, total_earned = ? WHERE user_id = ?`,
		w.Balance, w.TotalEarned, w.UserID)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrWalletNotFound, w.UserID)
	}

	return nil
}

// InsertEntry appends one wallet audit row.
func (s *WalletRepository) InsertEntry(ctx context.Context, e *model.WalletLedgerEntry) error {
	query := `
		INSERT INTO wallet_ledger_entry (
			id, user_id, amount, income_type,
			balance_before, balance_after, earned_before, earned_after,
			reference_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Amount, string(e.IncomeType),
		e.BalanceBefore, e.BalanceAfter, e.EarnedBefore, e.EarnedAfter,
		e.ReferenceID, e.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert wallet ledger entry: %w", err)
	}

	return nil
}

// ListEntries returns a user's wallet audit rows, oldest first.
func (s *WalletRepository) ListEntries(ctx context.Context, userID string) ([]model.WalletLedgerEntry, error) {
	query := `
		SELECT id, user_id, amount, income_type,
		       balance_before, balance_after, earned_before, earned_after,
		       reference_id, created_at
		FROM wallet_ledger_entry
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet_ledger_entry table: %w", err)
	}
	defer rows.Close()

	entries := []model.WalletLedgerEntry{}
	for rows.Next() {
		var e model.WalletLedgerEntry
		var incomeType, createdAtStr string

		err := rows.Scan(
			&e.ID, &e.UserID, &e.Amount, &incomeType,
			&e.BalanceBefore, &e.BalanceAfter, &e.EarnedBefore, &e.EarnedAfter,
			&e.ReferenceID, &createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet_ledger_entry results: %w", err)
		}

		e.IncomeType = model.IncomeType(incomeType)
		if e.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet_ledger_entry table: %w", err)
	}

	return entries, nil
}

// SumByType returns the total credited to a user for one income type.
func (s *WalletRepository) SumByType(ctx context.Context, userID string, incomeType model.IncomeType) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM wallet_ledger_entry WHERE user_id = ? AND income_type = ?`,
		userID, string(incomeType)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum wallet ledger entries: %w", err)
	}
	return total.Float64, nil
}
