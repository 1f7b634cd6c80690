package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/tourney-engine/internal/bracket"
	"github.com/AdamBeresnev/tourney-engine/internal/httputil"
	"github.com/AdamBeresnev/tourney-engine/internal/live"
	"github.com/AdamBeresnev/tourney-engine/internal/middleware"
	"github.com/AdamBeresnev/tourney-engine/internal/service"
	"github.com/AdamBeresnev/tourney-engine/internal/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type createTournamentRequest struct {
	Name         string                `json:"name"`
	Type         string                `json:"type"`
	Rounds       int                   `json:"rounds"`
	Participants []service.PlayerInput `json:"participants"`
}

type resolveMatchRequest struct {
	WinnerID int `json:"winner_id"`
}

type runTournamentRequest struct {
	Seed int64 `json:"seed"`
}

func newRouter(database *sqlx.DB, hub *live.Hub) http.Handler {
	tournamentStore := store.NewTournamentStore(database)
	engines := service.NewEngines(tournamentStore)
	tournamentService := service.NewTournamentService(database, tournamentStore, engines)
	matchService := service.NewMatchService(database, tournamentStore, engines, hub)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		typ, err := bracket.ParseTournamentType(req.Type)
		if err != nil {
			httputil.BadRequest(w, err.Error(), nil)
			return
		}

		id, err := tournamentService.CreateTournament(r.Context(), req.Name, typ, req.Participants, req.Rounds)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
	})

	r.Get("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		rows, err := tournamentService.ListTournaments(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to list tournaments", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, rows)
	})

	r.Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		data, err := tournamentService.GetTournamentData(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, data)
	})

	r.Get("/tournaments/{id}/standings", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		standings, err := tournamentService.Standings(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, standings)
	})

	r.Get("/tournaments/{id}/matches", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		list, err := matchService.ListMatches(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	})

	r.Post("/tournaments/{id}/matches/{matchID}/resolve", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
		if err != nil {
			httputil.BadRequest(w, "Invalid match ID", err)
			return
		}
		var req resolveMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		res, err := matchService.ResolveMatch(r.Context(), id, matchID, req.WinnerID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	})

	r.Post("/tournaments/{id}/run", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		// the body is optional, an absent seed means a clock-based one
		var req runTournamentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		out, err := matchService.RunTournament(r.Context(), id, req.Seed)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, out)
	})

	r.Get("/tournaments/{id}/live", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		if _, err := tournamentStore.GetTournament(r.Context(), id); err != nil {
			writeDomainError(w, r, err)
			return
		}
		live.ServeWS(hub, w, r, id)
	})

	return r
}

// writeDomainError maps the engine and store sentinels onto HTTP
// statuses. Anything unmatched is a server fault.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, bracket.ErrUnknownMatch):
		httputil.NotFound(w, err.Error(), nil)
	case errors.Is(err, bracket.ErrInvalidRoster), errors.Is(err, bracket.ErrInvalidWinner):
		httputil.BadRequest(w, err.Error(), nil)
	case errors.Is(err, bracket.ErrMatchResolved),
		errors.Is(err, bracket.ErrRoundNotComplete),
		errors.Is(err, bracket.ErrTournamentComplete):
		httputil.Conflict(w, err.Error(), nil)
	default:
		requestID, _ := middleware.GetRequestIDFromContext(r.Context())
		slog.Error("request failed", "request_id", requestID, "error", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
