package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

// RankRepository provides read access to the configured rank table and
// append access to the rank_achievement log.
type RankRepository struct {
	db DBTX
}

// NewRankRepository creates a new RankRepository with the provided database connection.
func NewRankRepository(db *sql.DB) *RankRepository {
	return &RankRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (s *RankRepository) WithTx(tx *sql.Tx) *RankRepository {
	return &RankRepository{db: tx}
}

// ListRanks returns all ranks ordered by ascending minimum team BV.
func (s *RankRepository) ListRanks(ctx context.Context) ([]model.Rank, error) {
	query := `
		SELECT rank_index, name, min_team_bv, percentage, promotion_bonus
		FROM rank
		ORDER BY min_team_bv ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank table: %w", err)
	}
	defer rows.Close()

	ranks := []model.Rank{}
	for rows.Next() {
		var r model.Rank
		if err := rows.Scan(&r.Index, &r.Name, &r.MinTeamBV, &r.Percentage, &r.PromotionBonus); err != nil {
			return nil, fmt.Errorf("failed to scan rank table results: %w", err)
		}
		ranks = append(ranks, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rank table: %w", err)
	}

	return ranks, nil
}

// InsertAchievement appends one promotion record.
func (s *RankRepository) InsertAchievement(ctx context.Context, a *model.RankAchievement) error {
	query := `
		INSERT INTO rank_achievement (id, user_id, rank, team_bv, left_bv, right_bv, bonus, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Rank, a.TeamBV, a.LeftBV, a.RightBV, a.Bonus,
		a.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert rank achievement: %w", err)
	}

	return nil
}

// ListAchievements returns all promotions for a user in the order they happened.
func (s *RankRepository) ListAchievements(ctx context.Context, userID string) ([]model.RankAchievement, error) {
	query := `
		SELECT id, user_id, rank, team_bv, left_bv, right_bv, bonus, created_at
		FROM rank_achievement
		WHERE user_id = ?
		ORDER BY rank ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank_achievement table: %w", err)
	}
	defer rows.Close()

	achievements := []model.RankAchievement{}
	for rows.Next() {
		var a model.RankAchievement
		var createdAtStr string

		err := rows.Scan(&a.ID, &a.UserID, &a.Rank, &a.TeamBV, &a.LeftBV, &a.RightBV, &a.Bonus, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rank_achievement results: %w", err)
		}

		if a.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		achievements = append(achievements, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rank_achievement table: %w", err)
	}

	return achievements, nil
}
