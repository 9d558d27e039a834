package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/chess"
	"github.com/q1anyun/chess-tms/internal/elo"
	"github.com/q1anyun/chess-tms/internal/pairing"
	"github.com/q1anyun/chess-tms/internal/store"
)

// MatchService is the advancement state machine: it moves matches from
// pending to decided, applies the rating update, and drives round
// progression. The sequence {decide, completion check, next-round
// generation} is serialized per tournament so racing decisions of a
// round's last matches produce exactly one generation.
type MatchService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	players *store.PlayerStore
	history *store.EloStore
	engine  *elo.Engine

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewMatchService(db *sqlx.DB, tournamentStore *store.TournamentStore, playerStore *store.PlayerStore, eloStore *store.EloStore, engine *elo.Engine) *MatchService {
	return &MatchService{
		db:      db,
		store:   tournamentStore,
		players: playerStore,
		history: eloStore,
		engine:  engine,
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *MatchService) tournamentLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *MatchService) GetMatch(ctx context.Context, id string) (*chess.Match, error) {
	match, err := s.store.GetMatch(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("load match: %w", err)
	}
	return match, nil
}

func (s *MatchService) GetMatchesByTournament(ctx context.Context, tournamentID string) ([]chess.Match, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	matches, err := s.store.GetMatches(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	return matches, nil
}

// AdvanceWinner decides a pending match. The decision, both rating
// history records and the player rating updates commit as one
// transaction; if the decision completes the round, the next round is
// generated (or the tournament completed) inside the same transaction.
func (s *MatchService) AdvanceWinner(ctx context.Context, matchID, winnerID uuid.UUID) (*chess.Match, error) {
	peek, err := s.GetMatch(ctx, matchID.String())
	if err != nil {
		return nil, err
	}

	lock := s.tournamentLock(peek.TournamentID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID.String())
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if match.Decided() {
		return nil, ErrMatchAlreadyDecided
	}
	if !match.HasPlayer(winnerID) {
		return nil, ErrPlayerNotInMatch
	}
	loserID := match.Opponent(winnerID)

	now := time.Now().UTC()
	match.WinnerID = &winnerID
	match.LoserID = loserID
	match.DecidedAt = &now

	decided, err := s.store.DecideMatch(ctx, tx, match)
	if err != nil {
		return nil, fmt.Errorf("decide match: %w", err)
	}
	if !decided {
		return nil, ErrMatchAlreadyDecided
	}

	if loserID != nil {
		if err := s.applyRating(ctx, tx, winnerID, *loserID, now); err != nil {
			return nil, err
		}
	}

	pending, err := s.store.CountPendingInRoundTx(ctx, tx, match.TournamentID.String(), match.Round)
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	if pending == 0 {
		tournament, err := s.store.GetTournamentTx(ctx, tx, match.TournamentID.String())
		if err != nil {
			return nil, fmt.Errorf("load tournament: %w", err)
		}
		if tournament.FinalRound() {
			if err := s.completeTournament(ctx, tx, tournament, winnerID); err != nil {
				return nil, err
			}
		} else if _, err := s.generateRoundTx(ctx, tx, tournament, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return match, nil
}

// applyRating reads both rating snapshots, runs the Elo update and
// persists history plus new ratings, all on the decision transaction.
func (s *MatchService) applyRating(ctx context.Context, tx *sqlx.Tx, winnerID, loserID uuid.UUID, now time.Time) error {
	players, err := s.players.GetPlayersTx(ctx, tx, []string{winnerID.String(), loserID.String()})
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	ratings := make(map[uuid.UUID]int, len(players))
	for _, p := range players {
		ratings[p.ID] = p.Rating
	}
	winnerRating, okW := ratings[winnerID]
	loserRating, okL := ratings[loserID]
	if !okW || !okL {
		return ErrUnknownPlayer
	}

	res := s.engine.ApplyResult(winnerID, loserID, winnerRating, loserRating, now)

	if err := s.history.AppendHistory(ctx, tx, res.History[:]); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if err := s.players.ApplyRatingChange(ctx, tx, winnerID.String(), res.WinnerNewRating, true); err != nil {
		return fmt.Errorf("update winner rating: %w", err)
	}
	if err := s.players.ApplyRatingChange(ctx, tx, loserID.String(), res.LoserNewRating, false); err != nil {
		return fmt.Errorf("update loser rating: %w", err)
	}
	return nil
}

// GenerateNextRound explicitly builds round N+1 once round N is fully
// decided. The advancement path calls the same generation internally, so
// an explicit call after an implicit generation is a no-op returning the
// existing matches.
func (s *MatchService) GenerateNextRound(ctx context.Context, tournamentID uuid.UUID) ([]chess.Match, error) {
	lock := s.tournamentLock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	if tournament.Status == chess.TournamentCompleted || tournament.FinalRound() {
		return nil, ErrTournamentComplete
	}
	if tournament.CurrentRound == 0 {
		return nil, fmt.Errorf("%w: bracket has not been generated", ErrValidationFailed)
	}

	pending, err := s.store.CountPendingInRoundTx(ctx, tx, tournamentID.String(), tournament.CurrentRound)
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	if pending > 0 {
		return nil, ErrRoundIncomplete
	}

	matches, err := s.generateRoundTx(ctx, tx, tournament, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return matches, nil
}

// generateRoundTx builds round CurrentRound+1 from decided results.
// Callers must hold the tournament lock and have verified the current
// round is complete.
func (s *MatchService) generateRoundTx(ctx context.Context, tx *sqlx.Tx, tournament *chess.Tournament, now time.Time) ([]chess.Match, error) {
	gameType, err := s.store.GetGameTypeTx(ctx, tx, tournament.GameTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameTypeNotFound
		}
		return nil, fmt.Errorf("load game type: %w", err)
	}

	var slots []pairing.Slot
	switch gameType.Format {
	case chess.FormatSingleElimination:
		current, err := s.store.GetRoundMatchesTx(ctx, tx, tournament.ID.String(), tournament.CurrentRound)
		if err != nil {
			return nil, fmt.Errorf("load round %d: %w", tournament.CurrentRound, err)
		}
		winners := make([]uuid.UUID, 0, len(current))
		for _, m := range current {
			winners = append(winners, *m.WinnerID)
		}
		slots = pairing.PairWinners(winners)
	case chess.FormatSwiss:
		standings, played, byes, err := s.swissStateTx(ctx, tx, tournament)
		if err != nil {
			return nil, err
		}
		slots, err = pairing.PairSwissRound(standings, played, byes)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported bracket format %q", ErrValidationFailed, gameType.Format)
	}

	nextRound := tournament.CurrentRound + 1
	matches := buildRoundMatches(tournament.ID, gameType.ID, nextRound, slots, now)

	inserted, err := s.store.InsertRoundMatches(ctx, tx, tournament.ID.String(), nextRound, matches)
	if err != nil {
		return nil, fmt.Errorf("insert round %d: %w", nextRound, err)
	}
	if !inserted {
		// Race loser: the round already exists, return it unchanged.
		return s.store.GetRoundMatchesTx(ctx, tx, tournament.ID.String(), nextRound)
	}

	tournament.CurrentRound = nextRound
	if err := s.store.UpdateTournamentState(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("update tournament: %w", err)
	}
	return matches, nil
}

// completeTournament marks the tournament finished and records the
// overall winner: the final match's winner for elimination, the top
// standing for Swiss.
func (s *MatchService) completeTournament(ctx context.Context, tx *sqlx.Tx, tournament *chess.Tournament, finalWinner uuid.UUID) error {
	gameType, err := s.store.GetGameTypeTx(ctx, tx, tournament.GameTypeID)
	if err != nil {
		return fmt.Errorf("load game type: %w", err)
	}

	champion := finalWinner
	if gameType.Format == chess.FormatSwiss {
		standings, _, _, err := s.swissStateTx(ctx, tx, tournament)
		if err != nil {
			return err
		}
		pairing.SortStandings(standings)
		champion = standings[0].PlayerID
	}

	tournament.Status = chess.TournamentCompleted
	tournament.WinnerID = &champion
	if err := s.store.UpdateTournamentState(ctx, tx, tournament); err != nil {
		return fmt.Errorf("complete tournament: %w", err)
	}
	return nil
}

// swissStateTx derives the Swiss inputs from decided matches: per-player
// scores (byes count as wins), the prior-opponent set and the prior-bye
// set. Ratings reflect the snapshot as of this transaction.
func (s *MatchService) swissStateTx(ctx context.Context, tx *sqlx.Tx, tournament *chess.Tournament) ([]pairing.Standing, map[string]bool, map[uuid.UUID]bool, error) {
	matches, err := s.store.GetMatchesTx(ctx, tx, tournament.ID.String())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load matches: %w", err)
	}

	var roster []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	scores := make(map[uuid.UUID]int)
	played := make(map[string]bool)
	byes := make(map[uuid.UUID]bool)

	for _, m := range matches {
		for _, p := range []*uuid.UUID{m.Player1ID, m.Player2ID} {
			if p != nil && !seen[*p] {
				seen[*p] = true
				roster = append(roster, *p)
			}
		}
		if !m.Decided() {
			continue
		}
		if m.Player1ID != nil && m.Player2ID != nil {
			played[pairing.RematchKey(*m.Player1ID, *m.Player2ID)] = true
		}
		scores[*m.WinnerID]++
		if m.IsBye {
			byes[*m.WinnerID] = true
		}
	}

	ids := make([]string, len(roster))
	for i, id := range roster {
		ids[i] = id.String()
	}
	players, err := s.players.GetPlayersTx(ctx, tx, ids)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load roster ratings: %w", err)
	}
	ratings := make(map[uuid.UUID]int, len(players))
	for _, p := range players {
		ratings[p.ID] = p.Rating
	}

	standings := make([]pairing.Standing, 0, len(roster))
	for _, id := range roster {
		rating, ok := ratings[id]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		standings = append(standings, pairing.Standing{PlayerID: id, Score: scores[id], Rating: rating})
	}
	return standings, played, byes, nil
}
