package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/challenge"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/player"
	"github.com/longsangsabo/sabo-pool-v1-98-sub002/internal/tournament"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) CreateChallengeHandler() http.HandlerFunc {
	type request struct {
		ChallengerID string `json:"challengerId"`
		OpponentID   string `json:"opponentId"`
		WagerPoints  int    `json:"wagerPoints"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ChallengerID == "" || req.OpponentID == "" || req.ChallengerID == req.OpponentID {
			http.Error(w, "challengerId and opponentId must be two distinct players", http.StatusBadRequest)
			return
		}
		if req.WagerPoints <= 0 {
			http.Error(w, "wagerPoints must be positive", http.StatusBadRequest)
			return
		}
		if !s.Players.IsKnownPlayer(req.ChallengerID) || !s.Players.IsKnownPlayer(req.OpponentID) {
			http.Error(w, "Unknown player", http.StatusNotFound)
			return
		}

		match, err := s.Matches.Create(req.ChallengerID, req.OpponentID, req.WagerPoints)
		if err != nil {
			log.Error("Failed to create challenge match", "error", err)
			http.Error(w, "Failed to create challenge", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) ResolveChallengeHandler() http.HandlerFunc {
	type request struct {
		MatchID     string `json:"matchId"`
		WinnerID    string `json:"winnerId"`
		LoserID     string `json:"loserId"`
		WagerPoints int    `json:"wagerPoints"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		// The wager defaults to the one agreed at creation time.
		if req.WagerPoints == 0 {
			match, err := s.Matches.Get(req.MatchID)
			if err != nil {
				s.writeChallengeError(w, req.MatchID, err)
				return
			}
			req.WagerPoints = match.WagerPoints
		}

		result, err := s.Resolver.Resolve(req.MatchID, req.WinnerID, req.LoserID, req.WagerPoints)
		if err != nil {
			s.writeChallengeError(w, req.MatchID, err)
			return
		}

		winner, werr := s.Players.Get(result.WinnerID)
		loser, lerr := s.Players.Get(result.LoserID)
		if werr == nil && lerr == nil {
			if err := s.Notifier.SendChallengeResult(result, winner, loser, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send challenge result notification", "error", err, "matchID", req.MatchID)
			}
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// writeChallengeError maps resolver errors onto the API's status codes. An
// already-resolved match answers 409 carrying the settled match so the caller
// can see the prior outcome.
func (s *Server) writeChallengeError(w http.ResponseWriter, matchID string, err error) {
	switch {
	case errors.Is(err, challenge.ErrInvalidWager), errors.Is(err, challenge.ErrNotParticipant):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, challenge.ErrNotFound), errors.Is(err, player.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, challenge.ErrAlreadyResolved):
		if match, gerr := s.Matches.Get(matchID); gerr == nil {
			respondJSON(w, http.StatusConflict, match)
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error("Failed to resolve challenge", "error", err, "matchID", matchID)
		http.Error(w, "Failed to resolve challenge", http.StatusInternalServerError)
	}
}

func (s *Server) CalculateTournamentHandler() http.HandlerFunc {
	type response struct {
		Position       int    `json:"position"`
		PlayerRank     string `json:"player_rank"`
		TournamentType string `json:"tournament_type"`
		Points         int    `json:"points"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		position, err := strconv.Atoi(r.URL.Query().Get("position"))
		if err != nil {
			http.Error(w, "position must be an integer", http.StatusBadRequest)
			return
		}
		playerRank := r.URL.Query().Get("rank")
		tournamentType := r.URL.Query().Get("type")

		points, err := s.Awarder.Calculate(position, playerRank, tournamentType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, response{
			Position:       position,
			PlayerRank:     playerRank,
			TournamentType: tournamentType,
			Points:         points,
		})
	}
}

func (s *Server) AwardTournamentHandler() http.HandlerFunc {
	type request struct {
		TournamentID   string `json:"tournamentId"`
		PlayerID       string `json:"playerId"`
		Position       int    `json:"position"`
		PlayerRank     string `json:"playerRank"`
		TournamentType string `json:"tournamentType"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.TournamentID == "" || req.PlayerID == "" {
			http.Error(w, "tournamentId and playerId are required", http.StatusBadRequest)
			return
		}

		p, err := s.Players.Get(req.PlayerID)
		if err != nil {
			if errors.Is(err, player.ErrNotFound) {
				http.Error(w, "Unknown player", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load player", http.StatusInternalServerError)
			return
		}
		// The caller may pin the rank the player held at tournament time.
		if req.PlayerRank == "" {
			req.PlayerRank = p.RankCode
		}

		award, err := s.Awarder.Award(req.TournamentID, req.PlayerID, req.Position, req.PlayerRank, req.TournamentType)
		if err != nil {
			if errors.Is(err, tournament.ErrInvalidPosition) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to award tournament points", "error", err, "tournamentID", req.TournamentID, "playerID", req.PlayerID)
			http.Error(w, "Failed to award tournament points", http.StatusInternalServerError)
			return
		}

		if !award.Duplicate {
			if err := s.Notifier.SendTournamentAward(award, p, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send tournament award notification", "error", err, "tournamentID", req.TournamentID)
			}
		}

		// A duplicate award still answers 200, carrying the prior amount.
		respondJSON(w, http.StatusOK, award)
	}
}

func (s *Server) SeasonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Season.Current(time.Now()))
	}
}

func (s *Server) SeasonResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.Season.Reset(r.Context(), time.Now())
		if err != nil {
			log.Error("Season reset failed", "error", err, "archived", result.ArchivedCount)
			http.Error(w, "Season reset failed", http.StatusInternalServerError)
			return
		}

		if !result.Skipped {
			if err := s.Notifier.SendSeasonResetSummary(result, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send season reset notification", "error", err)
			}
		}
		respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerId")
		if playerID == "" {
			http.Error(w, "playerId is required", http.StatusBadRequest)
			return
		}

		stats, err := s.Season.Stats(playerID, time.Now())
		if err != nil {
			if errors.Is(err, player.ErrNotFound) {
				http.Error(w, "Unknown player", http.StatusNotFound)
				return
			}
			log.Error("Failed to compute player stats", "error", err, "playerID", playerID)
			http.Error(w, "Failed to compute player stats", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.GetAll()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		entries, err := s.Ledger.Leaderboard(limit)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}

		// broadcast=true additionally pushes the standings to the club channel.
		if r.URL.Query().Get("broadcast") == "true" {
			if err := s.Notifier.SendLeaderboard(entries, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to broadcast leaderboard", "error", err)
			}
		}
		respondJSON(w, http.StatusOK, entries)
	}
}
