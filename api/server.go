package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
	"github.com/wricardo/mcp-training/escaperoom/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service        service.GameService
	hub            *websocket.Hub
	router         *mux.Router
	handler        http.Handler
	logger         *slog.Logger
	allowedOrigins []string
}

// Option configures the server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins sets the CORS allowed origins. The default allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates a new API server. hub may be nil, in which case no
// WebSocket endpoint is served and no updates are pushed.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service:        gameService,
		hub:            hub,
		router:         mux.NewRouter(),
		logger:         slog.Default(),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	s.handler = CORS(s.allowedOrigins)(s.router)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Game
	s.router.HandleFunc("/session", s.handleCreateSession).Methods("POST")
	s.router.HandleFunc("/session/{id}/state", s.handleGetState).Methods("GET")
	s.router.HandleFunc("/session/{id}/solve/{puzzleId}", s.handleSolve).Methods("POST")
	s.router.HandleFunc("/session/{id}/hint/{puzzleId}", s.handleHint).Methods("GET")

	// Legacy paths
	legacy := s.router.PathPrefix("/api/game").Subrouter()
	legacy.HandleFunc("/new", s.handleCreateSession).Methods("POST")
	legacy.HandleFunc("/state/{id}", s.handleGetState).Methods("GET")
	legacy.HandleFunc("/solve/{id}/{puzzleId}", s.handleSolve).Methods("POST")
	legacy.HandleFunc("/hint/{id}/{puzzleId}", s.handleHint).Methods("GET")

	// Catalog and listings
	s.router.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	s.router.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and engine errors to HTTP responses
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "Game session not found")
	case errors.Is(err, engine.ErrPuzzleNotFound):
		respondError(w, http.StatusNotFound, "Puzzle not found")
	case errors.Is(err, service.ErrRoomNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrGameCompleted):
		respondError(w, http.StatusBadRequest, "Game already completed")
	case errors.Is(err, engine.ErrPuzzleAlreadySolved):
		respondError(w, http.StatusBadRequest, "Puzzle already solved")
	default:
		s.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeOptionalBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeOptionalBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Game Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID string `json:"room_id,omitempty"`
	}

	if err := decodeOptionalBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req.RoomID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.logger.Info("session created", "session", info.SessionID, "room", info.RoomID)
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	view, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	puzzleID := vars["puzzleId"]

	var req struct {
		Solution string `json:"solution"`
	}

	if err := decodeOptionalBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Solve(r.Context(), sessionID, puzzleID, req.Solution)
	if err != nil {
		s.logger.Debug("solve rejected", "session", sessionID, "puzzle", puzzleID, "error", err)
		s.respondServiceError(w, r, err)
		return
	}

	s.logger.Info("solve attempt",
		"session", sessionID,
		"puzzle", puzzleID,
		"success", result.Success,
		"completed", result.GameCompleted)

	s.broadcastState(r, sessionID)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	puzzleID := vars["puzzleId"]

	result, err := s.service.Hint(r.Context(), sessionID, puzzleID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.logger.Info("hint used", "session", sessionID, "puzzle", puzzleID, "hints_used", result.HintsUsed)

	s.broadcastState(r, sessionID)
	respondJSON(w, http.StatusOK, result)
}

// broadcastState pushes the current view to the session's WebSocket clients
func (s *Server) broadcastState(r *http.Request, sessionID string) {
	if s.hub == nil {
		return
	}

	view, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		s.logger.Warn("failed to load state for broadcast", "session", sessionID, "error", err)
		return
	}

	s.hub.BroadcastToSession(view.SessionID, view)
}

// Listing Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	total := len(sessions)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session parameter required")
		return
	}

	view, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.hub.ServeWS(w, r, view.SessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
