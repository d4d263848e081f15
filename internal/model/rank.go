package model

import "time"

// Rank is one tier of the compensation plan. Ranks are stored ordered by
// ascending MinTeamBV; Index is the position in that order and is what the
// tree and ledgers reference.
type Rank struct {
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	MinTeamBV      float64 `json:"minTeamBv"`
	Percentage     float64 `json:"percentage"`
	PromotionBonus float64 `json:"promotionBonus"`
}

// RankAchievement records a single promotion event: the rank reached and the
// team/leg BV at the moment of promotion. Created once per promotion, never
// updated.
type RankAchievement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Rank      int       `json:"rank"`
	TeamBV    float64   `json:"teamBv"`
	LeftBV    float64   `json:"leftBv"`
	RightBV   float64   `json:"rightBv"`
	Bonus     float64   `json:"bonus"`
	CreatedAt time.Time `json:"createdAt"`
}
