package chess

import (
	"time"

	"github.com/google/uuid"
)

type RatingReason string

const (
	RatingWin    RatingReason = "WIN"
	RatingLoss   RatingReason = "LOSS"
	RatingManual RatingReason = "MANUAL"
)

// EloHistory is an append-only record of a single rating change.
// For a given player the records chain: each OldRating equals the
// previous record's NewRating, or the registration rating for the
// first record.
type EloHistory struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	PlayerID  uuid.UUID    `db:"player_id" json:"player_id"`
	OldRating int          `db:"old_rating" json:"old_rating"`
	NewRating int          `db:"new_rating" json:"new_rating"`
	Reason    RatingReason `db:"reason" json:"reason"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
