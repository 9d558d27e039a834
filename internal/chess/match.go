package chess

import (
	"time"

	"github.com/google/uuid"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	GameTypeID   int       `db:"game_type_id" json:"game_type_id"`

	// Position in the tournament for reconstructing the bracket
	Round      int `db:"round" json:"round"`
	MatchOrder int `db:"match_order" json:"match_order"`

	Player1ID *uuid.UUID `db:"player1_id" json:"player1_id,omitempty"`
	Player2ID *uuid.UUID `db:"player2_id" json:"player2_id,omitempty"`

	WinnerID *uuid.UUID `db:"winner_id" json:"winner_id,omitempty"`
	LoserID  *uuid.UUID `db:"loser_id" json:"loser_id,omitempty"`

	// A bye has a single participant in slot 1 and is decided at creation.
	IsBye bool `db:"is_bye" json:"is_bye"`

	DecidedAt *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Decided reports whether the match has left the pending state.
// A decided match is immutable.
func (m *Match) Decided() bool {
	return m.WinnerID != nil
}

func (m *Match) HasPlayer(id uuid.UUID) bool {
	if m.Player1ID != nil && *m.Player1ID == id {
		return true
	}
	return m.Player2ID != nil && *m.Player2ID == id
}

// Opponent returns the other participant of the match, or nil for a bye.
func (m *Match) Opponent(id uuid.UUID) *uuid.UUID {
	if m.Player1ID != nil && *m.Player1ID == id {
		return m.Player2ID
	}
	if m.Player2ID != nil && *m.Player2ID == id {
		return m.Player1ID
	}
	return nil
}
