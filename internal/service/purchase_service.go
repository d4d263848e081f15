package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/growplan/Commission-Engine-Backend/internal/apperrors"
	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
)

// PurchaseService is the checkout-facing boundary: it records purchases and
// hands them to the propagation engine. A purchase whose propagation fails
// stays pending ("purchase recorded, compensation pending") and is picked up
// by the retry worker.
type PurchaseService struct {
	purchaseRepo *repository.PurchaseRepository
	treeRepo     *repository.TreeRepository
	propagation  *PropagationService
}

// NewPurchaseService creates a new PurchaseService with the provided dependencies.
func NewPurchaseService(
	purchaseRepo *repository.PurchaseRepository,
	treeRepo *repository.TreeRepository,
	propagation *PropagationService,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		treeRepo:     treeRepo,
		propagation:  propagation,
	}
}

// CreatePurchase validates and records a purchase, then propagates it
// synchronously. The returned purchase reflects the propagation outcome:
// completed on success, pending when propagation will be retried.
//
// When the caller supplies a purchase ID that already exists, the purchase
// is re-propagated idempotently instead of duplicated.
func (s *PurchaseService) CreatePurchase(ctx context.Context, purchaseID, buyerID string, bvAmount float64, monthID int, createdAt time.Time) (model.Purchase, error) {
	if bvAmount <= 0 {
		return model.Purchase{}, fmt.Errorf("%w: %f", apperrors.ErrInvalidBVAmount, bvAmount)
	}

	if _, err := s.treeRepo.GetNode(ctx, buyerID); err != nil {
		if errors.Is(err, apperrors.ErrNodeNotFound) {
			return model.Purchase{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownBuyer, buyerID)
		}
		return model.Purchase{}, err
	}

	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if monthID == 0 {
		monthID = model.MonthIDFor(createdAt)
	}
	if monthID < 0 {
		return model.Purchase{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidMonthID, monthID)
	}

	if purchaseID == "" {
		purchaseID = uuid.New().String()
	} else if existing, err := s.purchaseRepo.Get(ctx, purchaseID); err == nil {
		// Replay from the checkout subsystem: never double-record.
		return s.propagate(ctx, existing)
	}

	purchase := model.Purchase{
		ID:        purchaseID,
		BuyerID:   buyerID,
		BVAmount:  bvAmount,
		MonthID:   monthID,
		Status:    model.PurchaseStatusPending,
		CreatedAt: createdAt,
	}
	if err := s.purchaseRepo.Insert(ctx, &purchase); err != nil {
		return model.Purchase{}, err
	}

	return s.propagate(ctx, purchase)
}

// GetPurchase retrieves a purchase by ID.
func (s *PurchaseService) GetPurchase(ctx context.Context, purchaseID string) (model.Purchase, error) {
	return s.purchaseRepo.Get(ctx, purchaseID)
}

func (s *PurchaseService) propagate(ctx context.Context, purchase model.Purchase) (model.Purchase, error) {
	processed, err := s.propagation.ProcessPurchase(ctx, purchase.ID)
	if err != nil {
		log.Printf("propagation for purchase %s deferred to retry: %v", purchase.ID, err)
		return purchase, nil
	}
	return processed, nil
}
