package model

// LegPosition identifies which leg of its parent a node occupies in the binary tree.
type LegPosition string

// Valid leg positions. The root carries LegNone.
const (
	LegLeft  LegPosition = "left"
	LegRight LegPosition = "right"
	LegNone  LegPosition = "none"
)

// TreeNode is a read-only view of a user's placement in the binary tree,
// owned by the user-management subsystem. The engine never mutates topology;
// the only field it writes is CurrentRank, on promotion.
type TreeNode struct {
	ID          string      `json:"id"`
	ParentID    *string     `json:"parentId"`
	SponsorID   *string     `json:"sponsorId"`
	LegPosition LegPosition `json:"legPosition"`
	Level       int         `json:"level"`
	CurrentRank int         `json:"currentRank"`
	IsRoot      bool        `json:"isRoot"`
}
