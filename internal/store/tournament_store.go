package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/chess"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tournament *chess.Tournament) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, game_type_id, status, current_round, total_rounds)
        VALUES (:id, :name, :game_type_id, :status, :current_round, :total_rounds)`, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*chess.Tournament, error) {
	var tournament chess.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id string) (*chess.Tournament, error) {
	var tournament chess.Tournament
	err := tx.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

// UpdateTournamentState persists the mutable progress fields: status,
// round counters and winner.
func (s *TournamentStore) UpdateTournamentState(ctx context.Context, tx *sqlx.Tx, tournament *chess.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET
        game_type_id = :game_type_id,
        status = :status,
        current_round = :current_round,
        total_rounds = :total_rounds,
        winner_id = :winner_id
        WHERE id = :id`, tournament)
	return err
}

func (s *TournamentStore) GetGameType(ctx context.Context, id int) (*chess.GameType, error) {
	var gt chess.GameType
	err := s.db.GetContext(ctx, &gt, "SELECT * FROM game_types WHERE id = ?", id)
	return &gt, err
}

func (s *TournamentStore) GetGameTypeTx(ctx context.Context, tx *sqlx.Tx, id int) (*chess.GameType, error) {
	var gt chess.GameType
	err := tx.GetContext(ctx, &gt, "SELECT * FROM game_types WHERE id = ?", id)
	return &gt, err
}

func (s *TournamentStore) ListGameTypes(ctx context.Context) ([]chess.GameType, error) {
	var gts []chess.GameType
	err := s.db.SelectContext(ctx, &gts, "SELECT * FROM game_types ORDER BY id ASC")
	return gts, err
}

const insertMatchQuery = `INSERT INTO matches (id, tournament_id, game_type_id, round, match_order, player1_id, player2_id, winner_id, loser_id, is_bye, decided_at)
    VALUES (:id, :tournament_id, :game_type_id, :round, :match_order, :player1_id, :player2_id, :winner_id, :loser_id, :is_bye, :decided_at)`

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []chess.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, insertMatchQuery, matches)
	return err
}

// InsertRoundMatches inserts the matches of one round only if the round
// does not exist yet. Callers racing to generate the same round observe
// inserted=false and read back the winner's rows, so generation is
// idempotent.
func (s *TournamentStore) InsertRoundMatches(ctx context.Context, tx *sqlx.Tx, tournamentID string, round int, matches []chess.Match) (inserted bool, err error) {
	var existing int
	err = tx.GetContext(ctx, &existing,
		"SELECT COUNT(*) FROM matches WHERE tournament_id = ? AND round = ?", tournamentID, round)
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}
	if err := s.CreateMatches(ctx, tx, matches); err != nil {
		return false, err
	}
	return true, nil
}

func (s *TournamentStore) GetMatch(ctx context.Context, id string) (*chess.Match, error) {
	var match chess.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	return &match, err
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id string) (*chess.Match, error) {
	var match chess.Match
	err := tx.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	return &match, err
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID string) ([]chess.Match, error) {
	var matches []chess.Match
	err := s.db.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]chess.Match, error) {
	var matches []chess.Match
	err := tx.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) GetRoundMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID string, round int) ([]chess.Match, error) {
	var matches []chess.Match
	err := tx.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE tournament_id = ? AND round = ? ORDER BY match_order ASC", tournamentID, round)
	return matches, err
}

func (s *TournamentStore) CountPendingInRoundTx(ctx context.Context, tx *sqlx.Tx, tournamentID string, round int) (int, error) {
	var pending int
	err := tx.GetContext(ctx, &pending,
		"SELECT COUNT(*) FROM matches WHERE tournament_id = ? AND round = ? AND winner_id IS NULL", tournamentID, round)
	return pending, err
}

// DecideMatch records the winner of a pending match. The WHERE guard on
// winner_id makes decided matches immutable at the storage layer; a zero
// row count means the match was already decided.
func (s *TournamentStore) DecideMatch(ctx context.Context, tx *sqlx.Tx, match *chess.Match) (decided bool, err error) {
	res, err := tx.NamedExecContext(ctx, `UPDATE matches SET
        winner_id = :winner_id,
        loser_id = :loser_id,
        decided_at = :decided_at
        WHERE id = :id AND winner_id IS NULL`, match)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
