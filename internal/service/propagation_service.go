package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
)

// maxWalkDepth bounds the ancestor walk. Parent pointers are supposed to form
// a tree; hitting this guard means they form a cycle.
const maxWalkDepth = 10000

// PropagationService owns the per-purchase BV propagation walk: buyer self
// BV, sponsor direct income, then one hop per ancestor applying leg
// increments, match recomputation, rank re-evaluation and income crediting.
//
// The whole walk for one purchase runs inside a single immediate database
// transaction, so concurrent purchases over overlapping ancestor paths
// serialize at the database and a mid-walk failure leaves no partial state.
type PropagationService struct {
	db                *sql.DB
	treeRepo          *repository.TreeRepository
	purchaseRepo      *repository.PurchaseRepository
	ledgerRepo        *repository.LifetimeLedgerRepository
	monthlyRepo       *repository.MonthlyLedgerRepository
	transactionRepo   *repository.BVTransactionRepository
	rankService       *RankService
	walletService     *WalletService
	sponsorPercentage float64
}

// NewPropagationService creates a new PropagationService with the provided dependencies.
func NewPropagationService(
	db *sql.DB,
	treeRepo *repository.TreeRepository,
	purchaseRepo *repository.PurchaseRepository,
	ledgerRepo *repository.LifetimeLedgerRepository,
	monthlyRepo *repository.MonthlyLedgerRepository,
	transactionRepo *repository.BVTransactionRepository,
	rankService *RankService,
	walletService *WalletService,
	sponsorPercentage float64,
) *PropagationService {
	return &PropagationService{
		db:                db,
		treeRepo:          treeRepo,
		purchaseRepo:      purchaseRepo,
		ledgerRepo:        ledgerRepo,
		monthlyRepo:       monthlyRepo,
		transactionRepo:   transactionRepo,
		rankService:       rankService,
		walletService:     walletService,
		sponsorPercentage: sponsorPercentage,
	}
}

// hopContext carries the transaction-scoped collaborators for one walk.
type hopContext struct {
	purchases     *repository.PurchaseRepository
	trees         *repository.TreeRepository
	ledgers       *repository.LifetimeLedgerRepository
	monthly       *repository.MonthlyLedgerRepository
	transactions  *repository.BVTransactionRepository
	rankService   *RankService
	walletService *WalletService
}

// ProcessPurchase runs the full propagation walk for one purchase.
// Replaying a completed purchase is a no-op that returns the purchase as-is,
// which makes the retry job safe. Any failure rolls the entire walk back and
// leaves the purchase pending.
func (s *PropagationService) ProcessPurchase(ctx context.Context, purchaseID string) (model.Purchase, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("failed to begin propagation transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	hc := hopContext{
		purchases:     s.purchaseRepo.WithTx(tx),
		trees:         s.treeRepo.WithTx(tx),
		ledgers:       s.ledgerRepo.WithTx(tx),
		monthly:       s.monthlyRepo.WithTx(tx),
		transactions:  s.transactionRepo.WithTx(tx),
		rankService:   s.rankService.WithTx(tx),
		walletService: s.walletService.WithTx(tx),
	}

	purchase, err := hc.purchases.Get(ctx, purchaseID)
	if err != nil {
		return model.Purchase{}, err
	}

	// Idempotency guard: a completed purchase must never double-apply.
	if purchase.Status == model.PurchaseStatusCompleted {
		return purchase, nil
	}

	if purchase.BVAmount <= 0 {
		return model.Purchase{}, fmt.Errorf("%w: purchase %s", apperrors.ErrInvalidBVAmount, purchase.ID)
	}

	buyer, err := hc.trees.GetNode(ctx, purchase.BuyerID)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownBuyer, purchase.BuyerID)
	}

	if err := s.applySelfAndSponsor(ctx, hc, &purchase, buyer); err != nil {
		return model.Purchase{}, err
	}

	if err := s.walkAncestors(ctx, hc, &purchase, buyer); err != nil {
		return model.Purchase{}, err
	}

	now := time.Now().UTC()
	if err := hc.purchases.MarkCompleted(ctx, purchase.ID, now); err != nil {
		return model.Purchase{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Purchase{}, fmt.Errorf("failed to commit propagation transaction: %w", err)
	}

	purchase.Status = model.PurchaseStatusCompleted
	purchase.CompletedAt = &now
	log.Printf("purchase %s propagated (buyer %s, bv %.2f)", purchase.ID, purchase.BuyerID, purchase.BVAmount)

	return purchase, nil
}

// applySelfAndSponsor updates the buyer's own ledger and pays the flat
// sponsor commission. Self BV never feeds leg totals or matching; sponsor
// income is independent of tree position.
func (s *PropagationService) applySelfAndSponsor(ctx context.Context, hc hopContext, purchase *model.Purchase, buyer model.TreeNode) error {
	ledger, err := hc.ledgers.GetOrCreate(ctx, buyer.ID)
	if err != nil {
		return err
	}

	ledger.SelfBV += purchase.BVAmount
	if err := hc.ledgers.Save(ctx, &ledger); err != nil {
		return err
	}

	var directIncome float64
	if buyer.SponsorID != nil {
		directIncome = purchase.BVAmount * s.sponsorPercentage
		if directIncome > 0 {
			if _, err := hc.walletService.Credit(ctx, *buyer.SponsorID, directIncome, model.IncomeDirect, purchase.ID); err != nil {
				return err
			}
		}
	}

	record := model.BVTransaction{
		ID:                uuid.New().String(),
		PurchaseID:        purchase.ID,
		UserID:            buyer.ID,
		Type:              model.BVTransactionSelfUpdate,
		Leg:               model.LegNone,
		BVAmount:          purchase.BVAmount,
		PrevLeftBV:        ledger.LeftBV,
		NewLeftBV:         ledger.LeftBV,
		PrevRightBV:       ledger.RightBV,
		NewRightBV:        ledger.RightBV,
		PrevMatchingBV:    ledger.MatchingBV,
		NewMatchingBV:     ledger.MatchingBV,
		CarryForwardLeft:  ledger.CarryForwardLeft,
		CarryForwardRight: ledger.CarryForwardRight,
		Rank:              ledger.Rank,
		DirectIncome:      directIncome,
		CreatedAt:         time.Now().UTC(),
	}

	return hc.transactions.Insert(ctx, &record)
}

// walkAncestors climbs the parent chain from the buyer, applying one hop per
// ancestor in strict child-to-root order. The walk stops at a node with no
// parent or at the root sentinel; the root itself is never processed.
func (s *PropagationService) walkAncestors(ctx context.Context, hc hopContext, purchase *model.Purchase, buyer model.TreeNode) error {
	child := buyer
	for depth := 0; child.ParentID != nil; depth++ {
		if depth >= maxWalkDepth {
			return fmt.Errorf("%w: purchase %s at user %s", apperrors.ErrMaxDepthExceeded, purchase.ID, child.ID)
		}

		ancestor, err := hc.trees.GetNode(ctx, *child.ParentID)
		if err != nil {
			return fmt.Errorf("%w: parent %s of %s", apperrors.ErrAncestorNotFound, *child.ParentID, child.ID)
		}
		if ancestor.IsRoot {
			break
		}

		if err := s.applyHop(ctx, hc, purchase, buyer, ancestor, child); err != nil {
			return err
		}

		if err := hc.purchases.SetPropagatedUpTo(ctx, purchase.ID, ancestor.ID); err != nil {
			return err
		}

		child = ancestor
	}

	return nil
}

// applyHop applies one ancestor update: leg increment (lifetime + monthly),
// directs bucket, match and carry-forward recomputation, rank re-evaluation
// before the percentage lookup, audit row, and matching income credit.
func (s *PropagationService) applyHop(ctx context.Context, hc hopContext, purchase *model.Purchase, buyer, ancestor, child model.TreeNode) error {
	ledger, err := hc.ledgers.GetOrCreate(ctx, ancestor.ID)
	if err != nil {
		return err
	}

	prev := ledger

	switch child.LegPosition {
	case model.LegLeft:
		ledger.LeftBV += purchase.BVAmount
	case model.LegRight:
		ledger.RightBV += purchase.BVAmount
	default:
		return fmt.Errorf("%w: node %s has no leg position under %s", apperrors.ErrDataInconsistency, child.ID, ancestor.ID)
	}

	isDirect := buyer.SponsorID != nil && *buyer.SponsorID == ancestor.ID
	if isDirect {
		ledger.DirectsBV += purchase.BVAmount
	}

	var directsAmount float64
	if isDirect {
		directsAmount = purchase.BVAmount
	}
	if _, err := hc.monthly.GetOrCreate(ctx, ancestor.ID, purchase.MonthID); err != nil {
		return err
	}
	if err := hc.monthly.AddVolume(ctx, ancestor.ID, purchase.MonthID, child.LegPosition, purchase.BVAmount, directsAmount); err != nil {
		return err
	}

	matching := min(ledger.LeftBV, ledger.RightBV)
	newMatch := max(0, matching-ledger.MatchingBV)
	ledger.MatchingBV = matching
	ledger.CarryForwardLeft = ledger.LeftBV - matching
	ledger.CarryForwardRight = ledger.RightBV - matching

	// Rank re-evaluation must precede the percentage lookup so a threshold
	// crossed by this very purchase pays out at the new rank.
	heldRank, _, err := hc.rankService.Evaluate(ctx, &ledger)
	if err != nil {
		return err
	}

	diffIncome := newMatch * heldRank.Percentage
	ledger.DiffIncome += diffIncome

	if err := hc.ledgers.Save(ctx, &ledger); err != nil {
		return err
	}

	record := model.BVTransaction{
		ID:                uuid.New().String(),
		PurchaseID:        purchase.ID,
		UserID:            ancestor.ID,
		Type:              model.BVTransactionLegUpdate,
		Leg:               child.LegPosition,
		BVAmount:          purchase.BVAmount,
		PrevLeftBV:        prev.LeftBV,
		NewLeftBV:         ledger.LeftBV,
		PrevRightBV:       prev.RightBV,
		NewRightBV:        ledger.RightBV,
		PrevMatchingBV:    prev.MatchingBV,
		NewMatchingBV:     ledger.MatchingBV,
		NewMatch:          newMatch,
		CarryForwardLeft:  ledger.CarryForwardLeft,
		CarryForwardRight: ledger.CarryForwardRight,
		Rank:              heldRank.Index,
		Percentage:        heldRank.Percentage,
		DiffIncome:        diffIncome,
		CreatedAt:         time.Now().UTC(),
	}
	if err := hc.transactions.Insert(ctx, &record); err != nil {
		return err
	}

	if diffIncome > 0 {
		if _, err := hc.walletService.Credit(ctx, ancestor.ID, diffIncome, model.IncomeMatching, purchase.ID); err != nil {
			return err
		}
	}

	return nil
}
