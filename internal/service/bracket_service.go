package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/chess"
	"github.com/q1anyun/chess-tms/internal/pairing"
	"github.com/q1anyun/chess-tms/internal/store"
	"golang.org/x/sync/errgroup"
)

type BracketService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	players *store.PlayerStore
}

func NewBracketService(db *sqlx.DB, tournamentStore *store.TournamentStore, playerStore *store.PlayerStore) *BracketService {
	return &BracketService{db: db, store: tournamentStore, players: playerStore}
}

func (s *BracketService) CreateTournament(ctx context.Context, name string, gameTypeID int) (*chess.Tournament, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if _, err := s.store.GetGameType(ctx, gameTypeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameTypeNotFound
		}
		return nil, fmt.Errorf("load game type %d: %w", gameTypeID, err)
	}

	tournament := &chess.Tournament{
		ID:         uuid.New(),
		Name:       name,
		GameTypeID: gameTypeID,
		Status:     chess.TournamentDraft,
	}
	if err := s.store.CreateTournament(ctx, tournament); err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	return tournament, nil
}

func (s *BracketService) ListGameTypes(ctx context.Context) ([]chess.GameType, error) {
	return s.store.ListGameTypes(ctx)
}

type TournamentData struct {
	Tournament *chess.Tournament
	Matches    []chess.Match
	Players    []chess.Player
}

func (s *BracketService) GetTournamentData(ctx context.Context, id string) (*TournamentData, error) {
	var (
		tournament *chess.Tournament
		matches    []chess.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.store.GetTournament(gCtx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("load tournament: %w", err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		ms, err := s.store.GetMatches(gCtx, id)
		if err != nil {
			return fmt.Errorf("load matches: %w", err)
		}
		matches = ms
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	players, err := s.players.GetPlayers(ctx, participantIDs(matches))
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}

	return &TournamentData{Tournament: tournament, Matches: matches, Players: players}, nil
}

// GenerateInitialMatches builds round 1 for a tournament from the given
// roster. gameTypeID may be zero to use the tournament's configured game
// type. Regeneration of an existing bracket is rejected.
func (s *BracketService) GenerateInitialMatches(ctx context.Context, tournamentID uuid.UUID, gameTypeID int, roster []uuid.UUID) ([]chess.Match, error) {
	if len(roster) < 2 {
		return nil, ErrInsufficientPlayers
	}
	seen := make(map[uuid.UUID]bool, len(roster))
	for _, id := range roster {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate roster entry %s", ErrValidationFailed, id)
		}
		seen[id] = true
	}

	tournament, err := s.store.GetTournament(ctx, tournamentID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	if tournament.Status == chess.TournamentCompleted {
		return nil, ErrTournamentComplete
	}
	if gameTypeID == 0 {
		gameTypeID = tournament.GameTypeID
	}
	gameType, err := s.store.GetGameType(ctx, gameTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameTypeNotFound
		}
		return nil, fmt.Errorf("load game type %d: %w", gameTypeID, err)
	}
	if len(roster) < gameType.MinPlayers {
		return nil, fmt.Errorf("%w: %s requires at least %d players, got %d",
			ErrInsufficientPlayers, gameType.Name, gameType.MinPlayers, len(roster))
	}

	seeds, err := s.resolveSeeds(ctx, roster)
	if err != nil {
		return nil, err
	}

	totalRounds := pairing.EliminationRounds(len(roster))
	if gameType.Format == chess.FormatSwiss {
		totalRounds = gameType.SwissRounds
		if limit := pairing.MaxSwissRounds(len(roster)); totalRounds > limit {
			totalRounds = limit
		}
		if totalRounds < 1 {
			totalRounds = 1
		}
	}

	now := time.Now().UTC()
	matches := buildRoundMatches(tournament.ID, gameType.ID, 1, pairing.SeedInitialRound(seeds), now)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted, err := s.store.InsertRoundMatches(ctx, tx, tournament.ID.String(), 1, matches)
	if err != nil {
		return nil, fmt.Errorf("insert round 1: %w", err)
	}
	if !inserted {
		return nil, ErrBracketAlreadyExists
	}

	tournament.GameTypeID = gameType.ID
	tournament.Status = chess.TournamentStarted
	tournament.CurrentRound = 1
	tournament.TotalRounds = totalRounds
	if err := s.store.UpdateTournamentState(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("update tournament: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return matches, nil
}

// resolveSeeds loads a rating snapshot for each roster entry, preserving
// roster order.
func (s *BracketService) resolveSeeds(ctx context.Context, roster []uuid.UUID) ([]pairing.Seed, error) {
	ids := make([]string, len(roster))
	for i, id := range roster {
		ids[i] = id.String()
	}
	players, err := s.players.GetPlayers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	ratings := make(map[uuid.UUID]int, len(players))
	for _, p := range players {
		ratings[p.ID] = p.Rating
	}

	seeds := make([]pairing.Seed, len(roster))
	for i, id := range roster {
		rating, ok := ratings[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		seeds[i] = pairing.Seed{PlayerID: id, Rating: rating}
	}
	return seeds, nil
}

// buildRoundMatches turns pairings into match rows. Byes are decided at
// creation: the sole participant wins, with no rating impact.
func buildRoundMatches(tournamentID uuid.UUID, gameTypeID, round int, slots []pairing.Slot, now time.Time) []chess.Match {
	matches := make([]chess.Match, len(slots))
	for i, slot := range slots {
		p1 := slot.Player1ID
		m := chess.Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			GameTypeID:   gameTypeID,
			Round:        round,
			MatchOrder:   i + 1,
			Player1ID:    &p1,
			Player2ID:    slot.Player2ID,
		}
		if slot.IsBye() {
			decidedAt := now
			m.IsBye = true
			m.WinnerID = &p1
			m.DecidedAt = &decidedAt
		}
		matches[i] = m
	}
	return matches
}

func participantIDs(matches []chess.Match) []string {
	seen := make(map[uuid.UUID]bool)
	var ids []string
	for _, m := range matches {
		for _, p := range []*uuid.UUID{m.Player1ID, m.Player2ID} {
			if p != nil && !seen[*p] {
				seen[*p] = true
				ids = append(ids, p.String())
			}
		}
	}
	return ids
}
