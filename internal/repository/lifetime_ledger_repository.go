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

// LifetimeLedgerRepository provides data access methods for the lifetime_ledger table.
type LifetimeLedgerRepository struct {
	db DBTX
}

// NewLifetimeLedgerRepository creates a new LifetimeLedgerRepository with the provided database connection.
func NewLifetimeLedgerRepository(db *sql.DB) *LifetimeLedgerRepository {
	return &LifetimeLedgerRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *LifetimeLedgerRepository) WithTx(tx *sql.Tx) *LifetimeLedgerRepository {
	return &LifetimeLedgerRepository{db: tx}
}

// Get retrieves the lifetime ledger for a user.
// Returns apperrors.ErrLedgerNotFound if no row exists yet.
func (s *LifetimeLedgerRepository) Get(ctx context.Context, userID string) (model.LifetimeLedger, error) {
	query := `
		SELECT user_id, self_bv, left_bv, right_bv, directs_bv, matching_bv,
		       carry_forward_left, carry_forward_right, diff_income, rank,
		       created_at, updated_at
		FROM lifetime_ledger
		WHERE user_id = ?
	`

	var l model.LifetimeLedger
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&l.UserID,
		&l.SelfBV,
		&l.LeftBV,
		&l.RightBV,
		&l.DirectsBV,
		&l.MatchingBV,
		&l.CarryForwardLeft,
		&l.CarryForwardRight,
		&l.DiffIncome,
		&l.Rank,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LifetimeLedger{}, fmt.Errorf("%w: %s", apperrors.ErrLedgerNotFound, userID)
	}
	if err != nil {
		return model.LifetimeLedger{}, fmt.Errorf("failed to scan lifetime_ledger results: %w", err)
	}

	if l.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.LifetimeLedger{}, err
	}
	if l.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.LifetimeLedger{}, err
	}

	return l, nil
}

// GetOrCreate retrieves the lifetime ledger for a user, lazily creating a
// zeroed row on first touch.
func (s *LifetimeLedgerRepository) GetOrCreate(ctx context.Context, userID string) (model.LifetimeLedger, error) {
	insertQuery := `
		INSERT INTO lifetime_ledger (user_id, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING
	`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, insertQuery, userID, now, now); err != nil {
		return model.LifetimeLedger{}, fmt.Errorf("failed to create lifetime ledger: %w", err)
	}

	return s.Get(ctx, userID)
}

// Save persists all mutable fields of a lifetime ledger.
func (s *LifetimeLedgerRepository) Save(ctx context.Context, l *model.LifetimeLedger) error {
	query := `
		UPDATE lifetime_ledger
		SET self_bv = ?, left_bv = ?, right_bv = ?, directs_bv = ?,
		    matching_bv = ?, carry_forward_left = ?, carry_forward_right = ?,
		    diff_income = ?, rank = ?, updated_at = ?
		WHERE user_id = ?
	`

	l.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query,
		l.SelfBV, l.LeftBV, l.RightBV, l.DirectsBV,
		l.MatchingBV, l.CarryForwardLeft, l.CarryForwardRight,
		l.DiffIncome, l.Rank, l.UpdatedAt.Format(time.RFC3339),
		l.UserID)
	if err != nil {
		return fmt.Errorf("failed to update lifetime ledger: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrLedgerNotFound, l.UserID)
	}

	return nil
}
