package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/chess"
	"github.com/q1anyun/chess-tms/internal/store"
)

type PlayerService struct {
	db      *sqlx.DB
	players *store.PlayerStore
	history *store.EloStore
}

func NewPlayerService(db *sqlx.DB, playerStore *store.PlayerStore, eloStore *store.EloStore) *PlayerService {
	return &PlayerService{db: db, players: playerStore, history: eloStore}
}

func (s *PlayerService) RegisterPlayer(ctx context.Context, name string, rating int) (*chess.Player, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if rating < 0 {
		return nil, fmt.Errorf("%w: rating must not be negative", ErrValidationFailed)
	}

	player := &chess.Player{
		ID:            uuid.New(),
		Name:          name,
		Rating:        rating,
		InitialRating: rating,
	}
	if err := s.players.CreatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*chess.Player, error) {
	player, err := s.players.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("load player: %w", err)
	}
	return player, nil
}

// GetRatingHistory returns a player's rating changes in creation order,
// starting from the registration rating.
func (s *PlayerService) GetRatingHistory(ctx context.Context, id string) ([]chess.EloHistory, error) {
	if _, err := s.GetPlayer(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.history.ListHistoryByPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}
