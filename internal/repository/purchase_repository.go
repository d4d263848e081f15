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

// PurchaseRepository provides data access methods for the purchase table,
// including the propagation bookkeeping fields the retry worker depends on.
type PurchaseRepository struct {
	db DBTX
}

// NewPurchaseRepository creates a new PurchaseRepository with the provided database connection.
func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *PurchaseRepository) WithTx(tx *sql.Tx) *PurchaseRepository {
	return &PurchaseRepository{db: tx}
}

// Insert stores a new purchase in pending state.
func (s *PurchaseRepository) Insert(ctx context.Context, p *model.Purchase) error {
	query := `
		INSERT INTO purchase (id, buyer_id, bv_amount, month_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.BuyerID, p.BVAmount, p.MonthID, p.Status, p.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	return nil
}

// Get retrieves a purchase by ID.
// Returns apperrors.ErrPurchaseNotFound if no such purchase exists.
func (s *PurchaseRepository) Get(ctx context.Context, purchaseID string) (model.Purchase, error) {
	query := `
		SELECT id, buyer_id, bv_amount, month_id, status, propagated_up_to, created_at, completed_at
		FROM purchase
		WHERE id = ?
	`

	p, err := scanPurchase(s.db.QueryRowContext(ctx, query, purchaseID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Purchase{}, fmt.Errorf("%w: %s", apperrors.ErrPurchaseNotFound, purchaseID)
	}
	return p, err
}

// ListPending returns purchases still pending that were created before the
// cutoff, oldest first. Used by the propagation retry job.
func (s *PurchaseRepository) ListPending(ctx context.Context, cutoff time.Time, limit int) ([]model.Purchase, error) {
	query := `
		SELECT id, buyer_id, bv_amount, month_id, status, propagated_up_to, created_at, completed_at
		FROM purchase
		WHERE status = ? AND created_at <= ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query,
		model.PurchaseStatusPending, cutoff.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase table: %w", err)
	}
	defer rows.Close()

	purchases := []model.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase table: %w", err)
	}

	return purchases, nil
}

// SetPropagatedUpTo records how far up the ancestor chain propagation has
// reached for the purchase.
func (s *PurchaseRepository) SetPropagatedUpTo(ctx context.Context, purchaseID, ancestorID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE purchase SET propagated_up_to = ? WHERE id = ?`, ancestorID, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to update propagation cursor: %w", err)
	}
	return nil
}

// MarkCompleted transitions a purchase to completed and stamps the completion time.
func (s *PurchaseRepository) MarkCompleted(ctx context.Context, purchaseID string, completedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE purchase SET status = ?, completed_at = ? WHERE id = ?`,
		model.PurchaseStatusCompleted, completedAt.UTC().Format(time.RFC3339), purchaseID)
	if err != nil {
		return fmt.Errorf("failed to mark purchase completed: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row scanner) (model.Purchase, error) {
	var p model.Purchase
	var propagatedUpTo sql.NullString
	var createdAtStr string
	var completedAtStr sql.NullString

	err := row.Scan(
		&p.ID,
		&p.BuyerID,
		&p.BVAmount,
		&p.MonthID,
		&p.Status,
		&propagatedUpTo,
		&createdAtStr,
		&completedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Purchase{}, err
	}
	if err != nil {
		return model.Purchase{}, fmt.Errorf("failed to scan purchase table results: %w", err)
	}

	if propagatedUpTo.Valid {
		p.PropagatedUpTo = &propagatedUpTo.String
	}

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Purchase{}, err
	}
	if completedAtStr.Valid {
		completedAt, err := ParseTime(completedAtStr.String)
		if err != nil {
			return model.Purchase{}, err
		}
		p.CompletedAt = &completedAt
	}

	return p, nil
}
