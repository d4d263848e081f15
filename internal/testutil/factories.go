package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/growplan/Commission-Engine-Backend/internal/model"
)

// TreeNodeBuilder provides a fluent interface for creating test tree nodes.
//
// Example usage:
//
//	root := testutil.NewTreeNode().Root().Build(t, db)
//	a := testutil.NewTreeNode().UnderLeft(root).Build(t, db)
//	b := testutil.NewTreeNode().UnderRight(a).SponsoredBy(a.ID).Build(t, db)
type TreeNodeBuilder struct {
	ID          string
	ParentID    *string
	SponsorID   *string
	LegPosition model.LegPosition
	Level       int
	CurrentRank int
	IsRoot      bool
}

// NewTreeNode creates a TreeNodeBuilder with sensible defaults.
func NewTreeNode() *TreeNodeBuilder {
	return &TreeNodeBuilder{
		ID:          MakeID(),
		LegPosition: model.LegNone,
	}
}

// WithID sets a custom ID.
func (b *TreeNodeBuilder) WithID(id string) *TreeNodeBuilder {
	b.ID = id
	return b
}

// Root marks the node as the tree-root sentinel.
func (b *TreeNodeBuilder) Root() *TreeNodeBuilder {
	b.IsRoot = true
	return b
}

// UnderLeft places the node on the parent's left leg.
func (b *TreeNodeBuilder) UnderLeft(parent model.TreeNode) *TreeNodeBuilder {
	parentID := parent.ID
	b.ParentID = &parentID
	b.LegPosition = model.LegLeft
	b.Level = parent.Level + 1
	return b
}

// UnderRight places the node on the parent's right leg.
func (b *TreeNodeBuilder) UnderRight(parent model.TreeNode) *TreeNodeBuilder {
	parentID := parent.ID
	b.ParentID = &parentID
	b.LegPosition = model.LegRight
	b.Level = parent.Level + 1
	return b
}

// WithParentID sets a raw parent pointer without adjusting leg or level.
func (b *TreeNodeBuilder) WithParentID(parentID string, leg model.LegPosition) *TreeNodeBuilder {
	b.ParentID = &parentID
	b.LegPosition = leg
	return b
}

// SponsoredBy sets the sponsor, which may differ from the parent.
func (b *TreeNodeBuilder) SponsoredBy(sponsorID string) *TreeNodeBuilder {
	b.SponsorID = &sponsorID
	return b
}

// WithRank sets the starting rank index.
func (b *TreeNodeBuilder) WithRank(rank int) *TreeNodeBuilder {
	b.CurrentRank = rank
	return b
}

// Build creates the tree node in the database and returns it.
func (b *TreeNodeBuilder) Build(t *testing.T, db *sql.DB) model.TreeNode {
	t.Helper()

	query := `
		INSERT INTO tree_node (id, parent_id, sponsor_id, leg_position, level, current_rank, is_root)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.ParentID, b.SponsorID, string(b.LegPosition), b.Level, b.CurrentRank, b.IsRoot)
	if err != nil {
		t.Fatalf("Failed to create test tree node: %v", err)
	}

	return model.TreeNode{
		ID:          b.ID,
		ParentID:    b.ParentID,
		SponsorID:   b.SponsorID,
		LegPosition: b.LegPosition,
		Level:       b.Level,
		CurrentRank: b.CurrentRank,
		IsRoot:      b.IsRoot,
	}
}

// PurchaseBuilder provides a fluent interface for creating test purchases.
//
// Example usage:
//
//	purchase := testutil.NewPurchase(buyer.ID).WithBV(1000).Build(t, db)
type PurchaseBuilder struct {
	ID        string
	BuyerID   string
	BVAmount  float64
	MonthID   int
	Status    string
	CreatedAt time.Time
}

// NewPurchase creates a PurchaseBuilder with sensible defaults.
func NewPurchase(buyerID string) *PurchaseBuilder {
	now := time.Now().UTC()
	return &PurchaseBuilder{
		ID:        MakeID(),
		BuyerID:   buyerID,
		BVAmount:  1000,
		MonthID:   model.MonthIDFor(now),
		Status:    model.PurchaseStatusPending,
		CreatedAt: now,
	}
}

// WithID sets a custom ID.
func (b *PurchaseBuilder) WithID(id string) *PurchaseBuilder {
	b.ID = id
	return b
}

// WithBV sets the BV amount.
func (b *PurchaseBuilder) WithBV(bv float64) *PurchaseBuilder {
	b.BVAmount = bv
	return b
}

// WithMonthID sets the month bucket.
func (b *PurchaseBuilder) WithMonthID(monthID int) *PurchaseBuilder {
	b.MonthID = monthID
	return b
}

// WithCreatedAt sets the creation time.
func (b *PurchaseBuilder) WithCreatedAt(createdAt time.Time) *PurchaseBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the purchase in the database and returns it.
func (b *PurchaseBuilder) Build(t *testing.T, db *sql.DB) model.Purchase {
	t.Helper()

	query := `
		INSERT INTO purchase (id, buyer_id, bv_amount, month_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.BuyerID, b.BVAmount, b.MonthID, b.Status, b.CreatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test purchase: %v", err)
	}

	return model.Purchase{
		ID:        b.ID,
		BuyerID:   b.BuyerID,
		BVAmount:  b.BVAmount,
		MonthID:   b.MonthID,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

// BinaryPair is the canonical two-leg fixture: a root, a head node A under
// it, and A's left/right children B and C, each sponsored by A.
type BinaryPair struct {
	Root  model.TreeNode
	A     model.TreeNode
	Left  model.TreeNode
	Right model.TreeNode
}

// BuildBinaryPair creates the fixture in the database.
func BuildBinaryPair(t *testing.T, db *sql.DB) BinaryPair {
	t.Helper()

	root := NewTreeNode().Root().Build(t, db)
	a := NewTreeNode().UnderLeft(root).Build(t, db)
	left := NewTreeNode().UnderLeft(a).SponsoredBy(a.ID).Build(t, db)
	right := NewTreeNode().UnderRight(a).SponsoredBy(a.ID).Build(t, db)

	return BinaryPair{Root: root, A: a, Left: left, Right: right}
}
