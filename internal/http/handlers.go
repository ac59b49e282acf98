package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sondagsholdet/courtmix/internal/league"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// PlayersHandler lists players on GET and registers one on POST.
func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			players, err := s.Store.GetAllPlayers()
			if err != nil {
				s.writeError(w, err)
				return
			}
			writeJSON(w, players)
		case http.MethodPost:
			var req struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			player, err := s.Store.AddPlayer(req.Name)
			if err != nil {
				s.writeError(w, err)
				return
			}
			writeJSON(w, player)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// AttendanceHandler records attendance on POST and lists the present players
// for a date on GET. Players may be referenced by id or by name.
func (s *Server) AttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			date := r.URL.Query().Get("date")
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			players, err := s.Store.GetPresent(date)
			if err != nil {
				s.writeError(w, err)
				return
			}
			writeJSON(w, players)
		case http.MethodPost:
			var req struct {
				Date      string   `json:"date"`
				PlayerIDs []string `json:"player_ids"`
				Names     []string `json:"names"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if req.Date == "" {
				req.Date = time.Now().Format("2006-01-02")
			}
			ids := req.PlayerIDs
			for _, name := range req.Names {
				player, err := s.Store.GetPlayerByName(name)
				if err != nil {
					s.writeError(w, fmt.Errorf("%q: %w", name, err))
					return
				}
				ids = append(ids, player.ID)
			}
			if err := s.Store.RecordAttendance(req.Date, ids); err != nil {
				s.writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Recorded attendance for %d players on %s\n", len(ids), req.Date)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// PlanRoundHandler creates the next round for a date from the recorded
// attendance and announces it.
func (s *Server) PlanRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Date   string `json:"date"`
			Courts int    `json:"courts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Date == "" {
			req.Date = time.Now().Format("2006-01-02")
		}

		start := time.Now()
		round, err := s.Store.PlanRound(req.Date, req.Courts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.Metrics.IncRoundsPlanned()
		s.Metrics.ObservePlanningDuration(time.Since(start).Seconds())

		if err := s.Notifier.SendRoundPlanned(round, s.playerNames(), isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce round", "round", round.Index, "error", err)
		}
		writeJSON(w, round)
	}
}

// RoundHandler returns a round by index, or the open round when no index is
// given.
func (s *Server) RoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			round *league.Round
			err   error
		)
		if indexStr := r.URL.Query().Get("index"); indexStr != "" {
			index, convErr := strconv.Atoi(indexStr)
			if convErr != nil {
				http.Error(w, "invalid round index", http.StatusBadRequest)
				return
			}
			round, err = s.Store.GetRound(index)
		} else {
			round, err = s.Store.GetOpenRound()
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, round)
	}
}

// RecordWinnerHandler sets the winning side of one match in the open round.
func (s *Server) RecordWinnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			RoundIndex int   `json:"round_index"`
			MatchID    int64 `json:"match_id"`
			Side       int   `json:"side"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.Store.RecordWinner(req.RoundIndex, req.MatchID, req.Side); err != nil {
			s.writeError(w, err)
			return
		}
		s.Metrics.IncWinnersRecorded()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Winner recorded.")
	}
}

// CloseRoundHandler commits a finished round to the archive and announces
// the updated table.
func (s *Server) CloseRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			RoundIndex int `json:"round_index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.Store.CloseRound(req.RoundIndex); err != nil {
			s.writeError(w, err)
			return
		}
		s.Metrics.IncRoundsClosed()

		round, err := s.Store.GetRound(req.RoundIndex)
		if err != nil {
			s.writeError(w, err)
			return
		}
		table, err := s.Engine.Standings()
		if err != nil {
			log.Error("Failed to compute standings for announcement", "error", err)
		} else if err := s.Notifier.SendRoundClosed(round, table, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce round close", "round", round.Index, "error", err)
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Round %d closed.\n", req.RoundIndex)
	}
}

// ArchiveHandler lists archived matches with optional player/kind/date
// filters; format=csv streams the whole archive as CSV.
func (s *Server) ArchiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="archive.csv"`)
			if err := s.Store.ExportArchiveCSV(w); err != nil {
				log.Error("Failed to export archive CSV", "error", err)
			}
			return
		}

		filter := league.ArchiveFilter{
			PlayerID: q.Get("player"),
			Kind:     league.MatchKind(q.Get("kind")),
			FromDate: q.Get("from"),
			ToDate:   q.Get("to"),
		}
		matches, err := s.Store.GetArchive(filter)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, matches)
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.Engine.Standings()
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, table)
	}
}

// RivalBadgeHandler returns the league's closest rivalry, or null when no
// pair has enough shared matches yet.
func (s *Server) RivalBadgeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		badge, err := s.Engine.RivalBadge()
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, badge)
	}
}

func (s *Server) PlayerRivalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rivals, err := s.Engine.PlayerRivals()
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, rivals)
	}
}

func (s *Server) MVPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		mvps, err := s.Engine.NightMVP(date)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, mvps)
	}
}

func (s *Server) BackupExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="courtmix.db"`)
		if err := s.Backup.Export(w); err != nil {
			log.Error("Failed to export backup", "error", err)
		}
	}
}

func (s *Server) BackupImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.Backup.Import(r.Body); err != nil {
			log.Error("Backup import rejected", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Backup imported.")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
	}
}

// playerNames builds the id to display-name map used by announcements.
func (s *Server) playerNames() map[string]string {
	names := make(map[string]string)
	players, err := s.Store.GetAllPlayers()
	if err != nil {
		log.Error("Failed to load player names", "error", err)
		return names
	}
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeError maps league errors to 4xx responses so the caller always gets
// an actionable reason; anything unrecognized is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var incomplete *league.IncompleteResultsError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, league.ErrRoundAlreadyOpen):
		status = http.StatusConflict
	case errors.Is(err, league.ErrUnknownRound),
		errors.Is(err, league.ErrUnknownMatch),
		errors.Is(err, league.ErrUnknownPlayer):
		status = http.StatusNotFound
	case errors.Is(err, league.ErrEmptyRoster),
		errors.Is(err, league.ErrNoCourts),
		errors.Is(err, league.ErrInvalidCourtCount),
		errors.Is(err, league.ErrInvalidSide),
		errors.Is(err, league.ErrRoundClosed),
		errors.Is(err, league.ErrEmptyPlayerName):
		status = http.StatusBadRequest
	case errors.As(err, &incomplete):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}
