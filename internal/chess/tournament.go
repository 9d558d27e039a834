package chess

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	Name       string           `db:"name" json:"name"`
	GameTypeID int              `db:"game_type_id" json:"game_type_id"`
	Status     TournamentStatus `db:"status" json:"status"`

	// CurrentRound is 0 until the bracket is generated, then strictly
	// increasing and gap-free up to TotalRounds.
	CurrentRound int `db:"current_round" json:"current_round"`
	TotalRounds  int `db:"total_rounds" json:"total_rounds"`

	WinnerID  *uuid.UUID `db:"winner_id" json:"winner_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

func (t *Tournament) FinalRound() bool {
	return t.TotalRounds > 0 && t.CurrentRound >= t.TotalRounds
}
