// Package worker contains the background job that retries BV propagation for
// purchases left pending by a failed or interrupted walk.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
	"github.com/growplan/Commission-Engine-Backend/internal/repository"
	"github.com/growplan/Commission-Engine-Backend/internal/service"
)

// PropagationRetrier periodically reprocesses pending purchases. Safe to run
// concurrently with live traffic: replaying a completed purchase is a no-op
// and each walk is atomic.
type PropagationRetrier struct {
	purchaseRepo *repository.PurchaseRepository
	propagation  *service.PropagationService
	grace        time.Duration
	batchLimit   int
	concurrency  int
}

// NewPropagationRetrier creates a new PropagationRetrier.
// grace keeps freshly-created purchases out of the batch so the synchronous
// path gets a chance to finish first.
func NewPropagationRetrier(
	purchaseRepo *repository.PurchaseRepository,
	propagation *service.PropagationService,
	grace time.Duration,
	batchLimit int,
	concurrency int,
) *PropagationRetrier {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PropagationRetrier{
		purchaseRepo: purchaseRepo,
		propagation:  propagation,
		grace:        grace,
		batchLimit:   batchLimit,
		concurrency:  concurrency,
	}
}

// Run processes one batch of pending purchases and returns how many
// propagated successfully. Individual failures are logged and left pending
// for the next run rather than aborting the batch.
func (r *PropagationRetrier) Run(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-r.grace)
	pending, err := r.purchaseRepo.ListPending(ctx, cutoff, r.batchLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending purchases: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	completed := make(chan string, len(pending))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, p := range pending {
		p := p
		g.Go(func() error {
			processed, err := r.propagation.ProcessPurchase(ctx, p.ID)
			if err != nil {
				log.Printf("retry of purchase %s failed: %v", p.ID, err)
				return nil
			}
			if processed.Status == model.PurchaseStatusCompleted {
				completed <- processed.ID
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	close(completed)

	count := 0
	for range completed {
		count++
	}
	if count > 0 {
		log.Printf("propagation retry completed %d of %d pending purchases", count, len(pending))
	}

	return count, nil
}
