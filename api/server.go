package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lukelarue/losiento/game/gameerr"
	"github.com/lukelarue/losiento/game/projection"
	"github.com/lukelarue/losiento/game/selector"
	"github.com/lukelarue/losiento/game/session"
	"github.com/lukelarue/losiento/game/store"
	"github.com/lukelarue/losiento/game/turn"
)

// Server is the HTTP surface of §6: a thin mux-routed layer over
// game/session, game/turn, and game/projection.
type Server struct {
	store   store.Store
	session *session.Manager
	turn    *turn.Coordinator
	router  *mux.Router
}

// NewServer builds a Server backed by s, using the Turn Coordinator's
// default bot-visibility delay.
func NewServer(s store.Store) *Server {
	return NewServerWithDelay(s, 0)
}

// NewServerWithDelay builds a Server backed by s whose bot-visibility gate
// uses botVisibilityDelay, per a deployment's game/config.ServerConfig. A
// zero botVisibilityDelay falls back to the Coordinator's own default.
func NewServerWithDelay(s store.Store, botVisibilityDelay time.Duration) *Server {
	coord := turn.NewCoordinator(s)
	if botVisibilityDelay > 0 {
		coord = turn.NewCoordinatorWithDelay(s, botVisibilityDelay)
	}
	srv := &Server{
		store:   s,
		session: session.NewManager(s),
		turn:    coord,
		router:  mux.NewRouter(),
	}
	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/host", s.handleHost).Methods("POST")
	api.HandleFunc("/joinable", s.handleJoinable).Methods("GET")
	api.HandleFunc("/join", s.handleJoin).Methods("POST")
	api.HandleFunc("/leave", s.handleLeave).Methods("POST")
	api.HandleFunc("/kick", s.handleKick).Methods("POST")
	api.HandleFunc("/configureSeat", s.handleConfigureSeat).Methods("POST")
	api.HandleFunc("/start", s.handleStart).Methods("POST")
	api.HandleFunc("/state", s.handleState).Methods("GET")
	api.HandleFunc("/legalMovers", s.handleLegalMovers).Methods("GET")
	api.HandleFunc("/play", s.handlePlay).Methods("POST")
	api.HandleFunc("/botStep", s.handleBotStep).Methods("POST")
	api.HandleFunc("/rejoin", s.handleRejoin).Methods("POST")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// statusForKind maps §7's stable error kinds to HTTP status codes.
func statusForKind(kind gameerr.Kind) int {
	switch kind {
	case gameerr.KindNotFound, gameerr.KindNoActiveGame:
		return http.StatusNotFound
	case gameerr.KindConflict:
		return http.StatusConflict
	case gameerr.KindNotHost, gameerr.KindNotYourTurn, gameerr.KindNotInGame:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func respondError(w http.ResponseWriter, err error) {
	if ge, ok := err.(*gameerr.GameError); ok {
		respondJSON(w, statusForKind(ge.Kind), map[string]interface{}{
			"error": map[string]string{"kind": string(ge.Kind), "message": ge.Message},
		})
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]string{"kind": "internal", "message": err.Error()},
	})
}

// userID reads caller identity off the request, per this package's doc.go:
// an X-User-Id header first, then a userId query parameter.
func userID(r *http.Request) (string, error) {
	if v := r.Header.Get("X-User-Id"); v != "" {
		return v, nil
	}
	if v := r.URL.Query().Get("userId"); v != "" {
		return v, nil
	}
	return "", gameerr.New(gameerr.KindInvalidState, "missing caller identity (X-User-Id header or userId query parameter)")
}

// host/join/leave/kick/configureSeat/start handlers

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		MaxSeats    int    `json:"maxSeats"`
		DisplayName string `json:"displayName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	rec, err := s.session.Host(uid, req.DisplayName, req.MaxSeats)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, projection.ToClient(rec, uid))
}

func (s *Server) handleJoinable(w http.ResponseWriter, r *http.Request) {
	games, err := s.session.ListJoinable()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		GameID      string `json:"gameId"`
		DisplayName string `json:"displayName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	rec, err := s.session.Join(uid, req.GameID, req.DisplayName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	if err := s.session.Leave(uid, req.GameID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		GameID    string `json:"gameId"`
		SeatIndex int    `json:"seatIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	rec, err := s.session.Kick(uid, req.GameID, req.SeatIndex)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

func (s *Server) handleConfigureSeat(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		GameID    string `json:"gameId"`
		SeatIndex int    `json:"seatIndex"`
		IsBot     bool   `json:"isBot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	rec, err := s.session.ConfigureSeat(uid, req.GameID, req.SeatIndex, req.IsBot)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	rec, err := s.session.Start(uid, req.GameID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

func (s *Server) handleRejoin(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rec, err := s.session.Rejoin(uid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

// state/legalMovers/play/botStep handlers

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	gameID, ok, err := s.store.GetActiveGame(uid)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok || gameID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rec, err := s.store.GetGame(gameID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

func (s *Server) handleLegalMovers(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "gameId query parameter is required"))
		return
	}

	rec, err := s.store.GetGame(gameID)
	if err != nil {
		respondError(w, err)
		return
	}
	preview, err := projection.LegalMoversPreview(rec, uid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		GameID  string            `json:"gameId"`
		Payload selector.Payload  `json:"payload"`
		Second  *selector.Payload `json:"second,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "invalid request body"))
		return
	}

	rec, err := s.turn.PlayHuman(uid, req.GameID, turn.Payload{Primary: req.Payload, Second: req.Second})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "gameId query parameter is required"))
		return
	}
	if _, err := s.store.GetGame(gameID); err != nil {
		respondError(w, err)
		return
	}

	query := r.URL.Query()
	opts := turn.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}
	if v := query.Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if v := query.Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if v := query.Get("order"); v == "asc" || v == "desc" {
		opts.Order = v
	}

	history, err := s.turn.History(gameID, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleBotStep(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r) // botStep is not seat-scoped to a caller; identity is only used for the response's viewerSeatIndex.
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		respondError(w, gameerr.New(gameerr.KindInvalidState, "gameId query parameter is required"))
		return
	}

	rec, err := s.turn.BotStep(gameID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.ToClient(rec, uid))
}
