package service

import (
	"time"

	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

// SessionInfo is returned when a session is created
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	TimeLimit int    `json:"time_limit"`
	RoomID    string `json:"room_id"`
}

// SessionSummary provides an overview of a session for listings
type SessionSummary struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"room_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	TimeRemaining  int       `json:"time_remaining"`
	PuzzlesSolved  int       `json:"puzzles_solved"`
	TotalPuzzles   int       `json:"total_puzzles"`
	HintsUsed      int       `json:"hints_used"`
	Completed      bool      `json:"completed"`
	Success        bool      `json:"success"`
}

// RoomInfo provides information about a room in the catalog
type RoomInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit"`
	Puzzles     int    `json:"puzzles"`
	Items       int    `json:"items"`
	Source      string `json:"source"` // "builtin" or the file name
}

// NewRoomInfo summarizes a room
func NewRoomInfo(room *engine.Room, source string) *RoomInfo {
	return &RoomInfo{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		TimeLimit:   room.TimeLimit,
		Puzzles:     len(room.Puzzles),
		Items:       len(room.Items),
		Source:      source,
	}
}
