package engine

import "time"

const (
	// DefaultTimeLimit is the session time limit in seconds when a room does not set one.
	DefaultTimeLimit = 30 * 60

	// HiddenDescription replaces the description of items that have not been found.
	HiddenDescription = "???"

	// Validation constants
	MaxTimeLimit = 24 * 60 * 60
	MaxPuzzles   = 100
	MaxItems     = 100
)

// PuzzleDefinition describes a single puzzle in a room.
// A puzzle with prerequisites is the exit door and has no solution of its own.
type PuzzleDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Solution    string   `json:"solution,omitempty" yaml:"solution,omitempty"`
	Requires    []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	Hint        string   `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// IsDoor reports whether the puzzle is opened by prerequisites instead of a solution.
func (p PuzzleDefinition) IsDoor() bool {
	return len(p.Requires) > 0
}

// ItemDefinition describes an item hidden at a puzzle
type ItemDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Location    string `json:"location" yaml:"location"`
}

// Messages holds the player-facing texts of a room. Empty fields fall back to defaults.
type Messages struct {
	Welcome    string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Solved     string `json:"solved,omitempty" yaml:"solved,omitempty"`
	ItemFound  string `json:"item_found,omitempty" yaml:"item_found,omitempty"`
	Incorrect  string `json:"incorrect,omitempty" yaml:"incorrect,omitempty"`
	DoorLocked string `json:"door_locked,omitempty" yaml:"door_locked,omitempty"`
	Victory    string `json:"victory,omitempty" yaml:"victory,omitempty"`
	NoHint     string `json:"no_hint,omitempty" yaml:"no_hint,omitempty"`
}

// Room is the catalog a session is played against. Puzzles and items keep
// their definition order, which is the order items are revealed in.
type Room struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	TimeLimit   int                `json:"time_limit" yaml:"time_limit"`
	Puzzles     []PuzzleDefinition `json:"puzzles" yaml:"puzzles"`
	Items       []ItemDefinition   `json:"items" yaml:"items"`
	Messages    Messages           `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Progress is the mutable record of a single play-through
type Progress struct {
	SessionID string          `json:"session_id"`
	RoomID    string          `json:"room_id"`
	StartTime time.Time       `json:"start_time"`
	Puzzles   map[string]bool `json:"puzzles"`
	Items     map[string]bool `json:"items"`
	HintsUsed int             `json:"hints_used"`
	Completed bool            `json:"completed"`
	Success   bool            `json:"success"`
}

// PuzzleView is the client view of one puzzle
type PuzzleView struct {
	Solved      bool   `json:"solved"`
	Description string `json:"description"`
}

// ItemView is the client view of one item. Description is HiddenDescription until found.
type ItemView struct {
	Found       bool   `json:"found"`
	Description string `json:"description"`
}

// View is the derived state returned to clients
type View struct {
	SessionID     string                `json:"session_id"`
	RoomID        string                `json:"room_id"`
	TimeRemaining int                   `json:"time_remaining"`
	Puzzles       map[string]PuzzleView `json:"puzzles"`
	Items         map[string]ItemView   `json:"items"`
	HintsUsed     int                   `json:"hints_used"`
	Completed     bool                  `json:"completed"`
	Success       bool                  `json:"success"`
}

// SolveResult is the outcome of a solve attempt that was not rejected.
// Success is false for wrong answers and a locked door.
type SolveResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ItemFound     string   `json:"item_found,omitempty"`
	ItemsFound    []string `json:"items_found,omitempty"`
	GameCompleted bool     `json:"game_completed,omitempty"`
	Remaining     []string `json:"remaining,omitempty"` // unsolved door prerequisites
}

// HintResult is the outcome of a hint request
type HintResult struct {
	Hint      string `json:"hint"`
	HintsUsed int    `json:"hints_used"`
}
