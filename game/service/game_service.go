package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRoomNotFound    = errors.New("room not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, roomID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionSummary, error)

	// Game Operations
	GetState(ctx context.Context, sessionID string) (*engine.View, error)
	Solve(ctx context.Context, sessionID, puzzleID, solution string) (*engine.SolveResult, error)
	Hint(ctx context.Context, sessionID, puzzleID string) (*engine.HintResult, error)

	// Rooms
	ListRooms(ctx context.Context) ([]*RoomInfo, error)
}

// SessionManager defines session storage operations. Update runs fn with
// exclusive access to one session; other sessions are not blocked.
type SessionManager interface {
	Create(room *engine.Room, now time.Time) (*Session, error)
	Update(id string, fn func(*Session) error) error
	Range(fn func(*Session))
	Count() int
}

// ConfigManager provides the immutable room catalog
type ConfigManager interface {
	LoadRoom(id string) (*engine.Room, error)
	ListRooms() []*RoomInfo
	GetDefault() *engine.Room
}

// Session represents an active game session
type Session struct {
	ID             string
	Room           *engine.Room
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
