package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/chess"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	getPlayerQuery = "SELECT * FROM players WHERE id = ?"

	createPlayerQuery = `
		INSERT INTO players (id, name, rating, initial_rating) VALUES
		(:id, :name, :rating, :initial_rating)
	`
	applyRatingQuery = `
		UPDATE players SET
		rating = ?,
		wins = wins + ?,
		losses = losses + ?,
		matches_played = matches_played + 1
		WHERE id = ?
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, player *chess.Player) error {
	_, err := s.db.NamedExecContext(ctx, createPlayerQuery, player)
	return err
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id string) (*chess.Player, error) {
	var player chess.Player
	err := s.db.GetContext(ctx, &player, getPlayerQuery, id)
	return &player, err
}

func (s *PlayerStore) GetPlayerTx(ctx context.Context, tx *sqlx.Tx, id string) (*chess.Player, error) {
	var player chess.Player
	err := tx.GetContext(ctx, &player, getPlayerQuery, id)
	return &player, err
}

func (s *PlayerStore) GetPlayers(ctx context.Context, ids []string) ([]chess.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM players WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var players []chess.Player
	err = s.db.SelectContext(ctx, &players, s.db.Rebind(query), args...)
	return players, err
}

func (s *PlayerStore) GetPlayersTx(ctx context.Context, tx *sqlx.Tx, ids []string) ([]chess.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM players WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var players []chess.Player
	err = tx.SelectContext(ctx, &players, tx.Rebind(query), args...)
	return players, err
}

// ApplyRatingChange moves a player's rating to newRating and bumps the
// win/loss counters. Called in the same transaction as the match decision
// and the history append.
func (s *PlayerStore) ApplyRatingChange(ctx context.Context, tx *sqlx.Tx, playerID string, newRating int, won bool) error {
	wins, losses := 0, 1
	if won {
		wins, losses = 1, 0
	}
	_, err := tx.ExecContext(ctx, applyRatingQuery, newRating, wins, losses, playerID)
	return err
}
