package elo

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/q1anyun/chess-tms/internal/chess"
)

const (
	DefaultKFactor     = 32
	DefaultRatingFloor = 0
)

// Engine computes logistic Elo updates. It is pure: persistence of the
// returned history records is the caller's job, so the match decision and
// the rating change can be committed in one transaction.
type Engine struct {
	k     int
	floor int
}

// NewEngine returns an engine with the given K-factor and rating floor.
// Non-positive k falls back to DefaultKFactor; a negative floor falls
// back to DefaultRatingFloor.
func NewEngine(k, floor int) *Engine {
	if k <= 0 {
		k = DefaultKFactor
	}
	if floor < 0 {
		floor = DefaultRatingFloor
	}
	return &Engine{k: k, floor: floor}
}

func (e *Engine) KFactor() int {
	return e.k
}

// ExpectedScore returns the probability of the first player beating the
// second under the logistic Elo model.
func (e *Engine) ExpectedScore(ra, rb int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(rb-ra)/400.0))
}

type Result struct {
	WinnerDelta     int
	LoserDelta      int
	WinnerNewRating int
	LoserNewRating  int

	// History holds the WIN record for the winner followed by the LOSS
	// record for the loser, both stamped with the same instant.
	History [2]chess.EloHistory
}

// ApplyResult computes new ratings for a decided match. Identical rating
// inputs always produce identical deltas.
func (e *Engine) ApplyResult(winnerID, loserID uuid.UUID, winnerRating, loserRating int, now time.Time) Result {
	ew := e.ExpectedScore(winnerRating, loserRating)
	el := 1.0 - ew

	newW := winnerRating + int(math.Round(float64(e.k)*(1.0-ew)))
	newL := loserRating + int(math.Round(float64(e.k)*(0.0-el)))

	if newW < e.floor {
		newW = e.floor
	}
	if newL < e.floor {
		newL = e.floor
	}

	return Result{
		WinnerDelta:     newW - winnerRating,
		LoserDelta:      newL - loserRating,
		WinnerNewRating: newW,
		LoserNewRating:  newL,
		History: [2]chess.EloHistory{
			{
				ID:        uuid.New(),
				PlayerID:  winnerID,
				OldRating: winnerRating,
				NewRating: newW,
				Reason:    chess.RatingWin,
				CreatedAt: now,
			},
			{
				ID:        uuid.New(),
				PlayerID:  loserID,
				OldRating: loserRating,
				NewRating: newL,
				Reason:    chess.RatingLoss,
				CreatedAt: now,
			},
		},
	}
}
