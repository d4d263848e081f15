package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

// MonthlyLedgerRepository provides data access methods for the monthly_ledger
// table: one independent accumulator row per (user, calendar month).
type MonthlyLedgerRepository struct {
	db DBTX
}

// NewMonthlyLedgerRepository creates a new MonthlyLedgerRepository with the provided database connection.
func NewMonthlyLedgerRepository(db *sql.DB) *MonthlyLedgerRepository {
	return &MonthlyLedgerRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *MonthlyLedgerRepository) WithTx(tx *sql.Tx) *MonthlyLedgerRepository {
	return &MonthlyLedgerRepository{db: tx}
}

// GetOrCreate retrieves the monthly ledger for (userID, monthID), lazily
// creating it with period boundaries derived from the calendar month the
// monthID encodes.
func (s *MonthlyLedgerRepository) GetOrCreate(ctx context.Context, userID string, monthID int) (model.MonthlyLedger, error) {
	start, end := model.MonthPeriod(monthID)

	insertQuery := `
		INSERT INTO monthly_ledger (id, user_id, month_id, period_start, period_end)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, month_id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, insertQuery,
		uuid.New().String(), userID, monthID,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return model.MonthlyLedger{}, fmt.Errorf("failed to create monthly ledger: %w", err)
	}

	return s.get(ctx, userID, monthID)
}

func (s *MonthlyLedgerRepository) get(ctx context.Context, userID string, monthID int) (model.MonthlyLedger, error) {
	query := `
		SELECT id, user_id, month_id, period_start, period_end,
		       month_bv_left, month_bv_right, month_bv_directs
		FROM monthly_ledger
		WHERE user_id = ? AND month_id = ?
	`

	return scanMonthlyLedger(s.db.QueryRowContext(ctx, query, userID, monthID))
}

// AddVolume adds BV to one leg accumulator of the (userID, monthID) row, and
// optionally to the directs bucket. The row must already exist.
func (s *MonthlyLedgerRepository) AddVolume(ctx context.Context, userID string, monthID int, leg model.LegPosition, amount, directsAmount float64) error {
	var legColumn string
	switch leg {
	case model.LegLeft:
		legColumn = "month_bv_left"
	case model.LegRight:
		legColumn = "month_bv_right"
	default:
		return fmt.Errorf("cannot add monthly volume to leg %q", leg)
	}

	query := fmt.Sprintf(`
		UPDATE monthly_ledger
		SET %s = %s + ?, month_bv_directs = month_bv_directs + ?
		WHERE user_id = ? AND month_id = ?
	`, legColumn, legColumn)

	if _, err := s.db.ExecContext(ctx, query, amount, directsAmount, userID, monthID); err != nil {
		return fmt.Errorf("failed to update monthly ledger: %w", err)
	}

	return nil
}

// ListByUser returns all monthly ledger rows for a user, oldest month first.
func (s *MonthlyLedgerRepository) ListByUser(ctx context.Context, userID string) ([]model.MonthlyLedger, error) {
	query := `
		SELECT id, user_id, month_id, period_start, period_end,
		       month_bv_left, month_bv_right, month_bv_directs
		FROM monthly_ledger
		WHERE user_id = ?
		ORDER BY month_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly_ledger table: %w", err)
	}
	defer rows.Close()

	ledgers := []model.MonthlyLedger{}
	for rows.Next() {
		ml, err := scanMonthlyLedger(rows)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, ml)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly_ledger table: %w", err)
	}

	return ledgers, nil
}

func scanMonthlyLedger(row scanner) (model.MonthlyLedger, error) {
	var ml model.MonthlyLedger
	var startStr, endStr string

	err := row.Scan(
		&ml.ID,
		&ml.UserID,
		&ml.MonthID,
		&startStr,
		&endStr,
		&ml.MonthBVLeft,
		&ml.MonthBVRight,
		&ml.MonthBVDirects,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MonthlyLedger{}, err
	}
	if err != nil {
		return model.MonthlyLedger{}, fmt.Errorf("failed to scan monthly_ledger results: %w", err)
	}

	if ml.PeriodStart, err = ParseTime(startStr); err != nil {
		return model.MonthlyLedger{}, err
	}
	if ml.PeriodEnd, err = ParseTime(endStr); err != nil {
		return model.MonthlyLedger{}, err
	}

	return ml, nil
}
