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

// RankService evaluates rank qualification against the ordered rank table
// and persists promotions. Ranks only ever move forward.
type RankService struct {
	rankRepo      *repository.RankRepository
	treeRepo      *repository.TreeRepository
	walletService *WalletService
}

// NewRankService creates a new RankService with the provided dependencies.
func NewRankService(
	rankRepo *repository.RankRepository,
	treeRepo *repository.TreeRepository,
	walletService *WalletService,
) *RankService {
	return &RankService{
		rankRepo:      rankRepo,
		treeRepo:      treeRepo,
		walletService: walletService,
	}
}

// WithTx returns a copy of the service whose writes join the given transaction.
func (s *RankService) WithTx(tx *sql.Tx) *RankService {
	return &RankService{
		rankRepo:      s.rankRepo.WithTx(tx),
		treeRepo:      s.treeRepo.WithTx(tx),
		walletService: s.walletService.WithTx(tx),
	}
}

// Evaluate finds the highest rank whose threshold the ledger's team BV meets.
// On an advance it persists the new rank on the tree node and the ledger,
// records a RankAchievement with the BV figures at the moment of promotion,
// and credits the one-time promotion bonus. Re-evaluation at a rank already
// held is a no-op; the rank never moves backward.
//
// The held rank is the higher of the ledger's rank and the tree registry's
// current_rank: the registry owns node creation and may seed a rank before
// the ledger's first lazy touch, and that seed must never be demoted or
// paid below its percentage.
//
// Returns the rank held after evaluation and whether a promotion occurred.
// The ledger's Rank field is updated in place; the caller owns persisting
// the ledger itself.
func (s *RankService) Evaluate(ctx context.Context, ledger *model.LifetimeLedger) (model.Rank, bool, error) {
	ranks, err := s.rankRepo.ListRanks(ctx)
	if err != nil {
		return model.Rank{}, false, err
	}
	if len(ranks) == 0 {
		return model.Rank{}, false, fmt.Errorf("%w: rank table is empty", apperrors.ErrRankNotFound)
	}

	teamBV := ledger.TeamBV()
	qualified := ranks[0]
	for _, r := range ranks {
		if r.MinTeamBV <= teamBV {
			qualified = r
		}
	}

	node, err := s.treeRepo.GetNode(ctx, ledger.UserID)
	if err != nil {
		return model.Rank{}, false, err
	}
	if node.CurrentRank > ledger.Rank {
		ledger.Rank = node.CurrentRank
	}

	held, err := rankByIndex(ranks, ledger.Rank)
	if err != nil {
		return model.Rank{}, false, err
	}

	if qualified.Index <= held.Index {
		return held, false, nil
	}

	// Promotion: node first, so the percentage lookup that follows in the
	// same propagation hop sees the new rank.
	if err := s.treeRepo.UpdateRank(ctx, ledger.UserID, qualified.Index); err != nil {
		return model.Rank{}, false, err
	}
	ledger.Rank = qualified.Index

	achievement := model.RankAchievement{
		ID:        uuid.New().String(),
		UserID:    ledger.UserID,
		Rank:      qualified.Index,
		TeamBV:    teamBV,
		LeftBV:    ledger.LeftBV,
		RightBV:   ledger.RightBV,
		Bonus:     qualified.PromotionBonus,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.rankRepo.InsertAchievement(ctx, &achievement); err != nil {
		return model.Rank{}, false, err
	}

	if qualified.PromotionBonus > 0 {
		if _, err := s.walletService.Credit(ctx, ledger.UserID, qualified.PromotionBonus, model.IncomeRankBonus, achievement.ID); err != nil {
			return model.Rank{}, false, err
		}
	}

	return qualified, true, nil
}

// ListRanks returns the configured rank table.
func (s *RankService) ListRanks(ctx context.Context) ([]model.Rank, error) {
	return s.rankRepo.ListRanks(ctx)
}

// ListAchievements returns a user's promotion history.
func (s *RankService) ListAchievements(ctx context.Context, userID string) ([]model.RankAchievement, error) {
	return s.rankRepo.ListAchievements(ctx, userID)
}

func rankByIndex(ranks []model.Rank, index int) (model.Rank, error) {
	for _, r := range ranks {
		if r.Index == index {
			return r, nil
		}
	}
	return model.Rank{}, fmt.Errorf("%w: index %d", apperrors.ErrRankNotFound, index)
}
