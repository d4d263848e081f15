package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"context"

	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

// TreeRepository provides read access to the binary tree registry.
// Topology is owned by the user-management subsystem; the only write this
// repository exposes is the current rank, persisted on promotion.
type TreeRepository struct {
	db DBTX
}

// NewTreeRepository creates a new TreeRepository with the provided database connection.
func NewTreeRepository(db *sql.DB) *TreeRepository {
	return &TreeRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *TreeRepository) WithTx(tx *sql.Tx) *TreeRepository {
	return &TreeRepository{db: tx}
}

// GetNode retrieves a single tree node by user ID.
// Returns apperrors.ErrNodeNotFound if the user has no tree placement.
func (s *TreeRepository) GetNode(ctx context.Context, userID string) (model.TreeNode, error) {
	query := `
		SELECT id, parent_id, sponsor_id, leg_position, level, current_rank, is_root
		FROM tree_node
		WHERE id = ?
	`

	var node model.TreeNode
	var parentID, sponsorID sql.NullString
	var legPosition string

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&node.ID,
		&parentID,
		&sponsorID,
		&legPosition,
		&node.Level,
		&node.CurrentRank,
		&node.IsRoot,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TreeNode{}, fmt.Errorf("%w: %s", apperrors.ErrNodeNotFound, userID)
	}
	if err != nil {
		return model.TreeNode{}, fmt.Errorf("failed to query tree_node table: %w", err)
	}

	if parentID.Valid {
		node.ParentID = &parentID.String
	}
	if sponsorID.Valid {
		node.SponsorID = &sponsorID.String
	}
	node.LegPosition = model.LegPosition(legPosition)

	return node, nil
}

// UpdateRank persists a promoted rank on the node.
func (s *TreeRepository) UpdateRank(ctx context.Context, userID string, rank int) error {
	result, err := s.db.ExecContext(ctx, `UPDATE tree_node SET current_rank = ? WHERE id = ?`, rank, userID)
	if err != nil {
		return fmt.Errorf("failed to update tree_node rank: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNodeNotFound, userID)
	}

	return nil
}
