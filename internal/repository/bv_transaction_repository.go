package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

// BVTransactionRepository provides data access methods for the append-only
// bv_transaction audit log. Rows are never updated or deleted.
type BVTransactionRepository struct {
	db DBTX
}

// NewBVTransactionRepository creates a new BVTransactionRepository with the provided database connection.
func NewBVTransactionRepository(db *sql.DB) *BVTransactionRepository {
	return &BVTransactionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *BVTransactionRepository) WithTx(tx *sql.Tx) *BVTransactionRepository {
	return &BVTransactionRepository{db: tx}
}

// Insert appends one audit row.
func (s *BVTransactionRepository) Insert(ctx context.Context, t *model.BVTransaction) error {
	query := `
		INSERT INTO bv_transaction (
			id, purchase_id, user_id, type, leg, bv_amount,
			prev_left_bv, new_left_bv, prev_right_bv, new_right_bv,
			prev_matching_bv, new_matching_bv, new_match,
			carry_forward_left, carry_forward_right,
			rank, percentage, diff_income, direct_income, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.PurchaseID, t.UserID, t.Type, string(t.Leg), t.BVAmount,
		t.PrevLeftBV, t.NewLeftBV, t.PrevRightBV, t.NewRightBV,
		t.PrevMatchingBV, t.NewMatchingBV, t.NewMatch,
		t.CarryForwardLeft, t.CarryForwardRight,
		t.Rank, t.Percentage, t.DiffIncome, t.DirectIncome,
		t.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert bv transaction: %w", err)
	}

	return nil
}

// List retrieves audit rows matching the filter, oldest first.
// Zero-valued filter fields are ignored.
func (s *BVTransactionRepository) List(ctx context.Context, filter model.BVTransactionFilter) ([]model.BVTransaction, error) {
	query := `
		SELECT id, purchase_id, user_id, type, leg, bv_amount,
		       prev_left_bv, new_left_bv, prev_right_bv, new_right_bv,
		       prev_matching_bv, new_matching_bv, new_match,
		       carry_forward_left, carry_forward_right,
		       rank, percentage, diff_income, direct_income, created_at
		FROM bv_transaction
		WHERE 1 = 1
	`

	var args []any
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.PurchaseID != "" {
		query += " AND purchase_id = ?"
		args = append(args, filter.PurchaseID)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if !filter.From.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.To.UTC().Format(time.RFC3339))
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bv_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.BVTransaction{}
	for rows.Next() {
		var t model.BVTransaction
		var leg, createdAtStr string

		err := rows.Scan(
			&t.ID, &t.PurchaseID, &t.UserID, &t.Type, &leg, &t.BVAmount,
			&t.PrevLeftBV, &t.NewLeftBV, &t.PrevRightBV, &t.NewRightBV,
			&t.PrevMatchingBV, &t.NewMatchingBV, &t.NewMatch,
			&t.CarryForwardLeft, &t.CarryForwardRight,
			&t.Rank, &t.Percentage, &t.DiffIncome, &t.DirectIncome,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bv_transaction results: %w", err)
		}

		t.Leg = model.LegPosition(leg)
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bv_transaction table: %w", err)
	}

	return transactions, nil
}
