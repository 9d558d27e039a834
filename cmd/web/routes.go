package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/q1anyun/chess-tms/internal/elo"
	"github.com/q1anyun/chess-tms/internal/httputil"
	"github.com/q1anyun/chess-tms/internal/service"
	"github.com/q1anyun/chess-tms/internal/store"
)

func newRouter(database *sqlx.DB, engine *elo.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	tournamentStore := store.NewTournamentStore(database)
	playerStore := store.NewPlayerStore(database)
	eloStore := store.NewEloStore(database)

	bracketService := service.NewBracketService(database, tournamentStore, playerStore)
	matchService := service.NewMatchService(database, tournamentStore, playerStore, eloStore, engine)
	playerService := service.NewPlayerService(database, playerStore, eloStore)

	r.Get("/game-types", func(w http.ResponseWriter, r *http.Request) {
		gameTypes, err := bracketService.ListGameTypes(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to list game types", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, gameTypes)
	})

	r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name   string `json:"name"`
			Rating int    `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		player, err := playerService.RegisterPlayer(r.Context(), req.Name, req.Rating)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, player)
	})

	r.Get("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
		player, err := playerService.GetPlayer(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, player)
	})

	r.Get("/players/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		records, err := playerService.GetRatingHistory(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, records)
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name       string `json:"name"`
			GameTypeID int    `json:"game_type_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		tournament, err := bracketService.CreateTournament(r.Context(), req.Name, req.GameTypeID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, tournament)
	})

	r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		data, err := bracketService.GetTournamentData(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, data)
	})

	r.Post("/tournaments/{id}/bracket", func(w http.ResponseWriter, r *http.Request) {
		tournamentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		var req struct {
			GameTypeID int         `json:"game_type_id"`
			PlayerIDs  []uuid.UUID `json:"player_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		matches, err := bracketService.GenerateInitialMatches(r.Context(), tournamentID, req.GameTypeID, req.PlayerIDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, matches)
	})

	r.Get("/tournaments/{id}/matches", func(w http.ResponseWriter, r *http.Request) {
		matches, err := matchService.GetMatchesByTournament(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, matches)
	})

	r.Post("/tournaments/{id}/rounds", func(w http.ResponseWriter, r *http.Request) {
		tournamentID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		matches, err := matchService.GenerateNextRound(r.Context(), tournamentID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, matches)
	})

	r.Get("/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
		match, err := matchService.GetMatch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, match)
	})

	r.Post("/matches/{id}/advance", func(w http.ResponseWriter, r *http.Request) {
		matchID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid match ID", err)
			return
		}
		var req struct {
			WinnerID uuid.UUID `json:"winner_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		match, err := matchService.AdvanceWinner(r.Context(), matchID, req.WinnerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, match)
	})

	return r
}

// writeServiceError maps each sentinel error to its stable HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrInsufficientPlayers):
		httputil.BadRequest(w, err.Error(), err)
	case errors.Is(err, service.ErrTournamentNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrGameTypeNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrUnknownPlayer):
		httputil.NotFound(w, err.Error(), err)
	case errors.Is(err, service.ErrMatchAlreadyDecided),
		errors.Is(err, service.ErrPlayerNotInMatch),
		errors.Is(err, service.ErrBracketAlreadyExists),
		errors.Is(err, service.ErrRoundIncomplete),
		errors.Is(err, service.ErrTournamentComplete),
		errors.Is(err, service.ErrPairingExhausted):
		httputil.Conflict(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, "Unexpected error", err)
	}
}
