package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/chess"
)

// EloStore is the append-only home of rating history. Records are never
// updated or deleted.
type EloStore struct {
	db *sqlx.DB
}

func NewEloStore(db *sqlx.DB) *EloStore {
	return &EloStore{db: db}
}

func (s *EloStore) AppendHistory(ctx context.Context, tx *sqlx.Tx, records []chess.EloHistory) error {
	if len(records) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO elo_history (id, player_id, old_rating, new_rating, reason, created_at)
        VALUES (:id, :player_id, :old_rating, :new_rating, :reason, :created_at)`, records)
	return err
}

// ListHistoryByPlayer returns a player's rating history in creation
// order, the audit/replay feed.
func (s *EloStore) ListHistoryByPlayer(ctx context.Context, playerID string) ([]chess.EloHistory, error) {
	var records []chess.EloHistory
	err := s.db.SelectContext(ctx, &records,
		"SELECT * FROM elo_history WHERE player_id = ? ORDER BY created_at ASC, rowid ASC", playerID)
	return records, err
}
