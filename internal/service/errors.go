package service

import (
	"errors"

	"github.com/q1anyun/chess-tms/internal/pairing"
)

// Sentinel errors shared across services and the HTTP error mapping.
// Every failure the engine can report maps to exactly one of these, so
// the boundary layer translates by errors.Is without inspecting text.
var (
	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrInsufficientPlayers = errors.New("at least two players are required to generate a bracket")

	// Missing resources
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrGameTypeNotFound   = errors.New("game type not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrUnknownPlayer      = errors.New("player rating could not be resolved")

	// Conflicts
	ErrMatchAlreadyDecided  = errors.New("match has already been decided")
	ErrPlayerNotInMatch     = errors.New("player is not a participant of this match")
	ErrBracketAlreadyExists = errors.New("bracket has already been generated for this tournament")
	ErrRoundIncomplete      = errors.New("current round still has pending matches")
	ErrTournamentComplete   = errors.New("tournament is already complete")

	// Swiss pairing failure, surfaced from the pairing package
	ErrPairingExhausted = pairing.ErrPairingExhausted
)
