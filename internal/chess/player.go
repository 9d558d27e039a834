package chess

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`

	Rating int `db:"rating" json:"rating"`

	// InitialRating is the rating at registration, the anchor for
	// replaying the player's rating history.
	InitialRating int `db:"initial_rating" json:"initial_rating"`

	Wins          int `db:"wins" json:"wins"`
	Losses        int `db:"losses" json:"losses"`
	MatchesPlayed int `db:"matches_played" json:"matches_played"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
