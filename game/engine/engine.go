package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrGameCompleted       = errors.New("game already completed")
	ErrPuzzleAlreadySolved = errors.New("puzzle already solved")
)

// Engine provides the main interface for game operations
type Engine interface {
	// State
	View(now time.Time) *View
	GetProgress() *Progress
	SetProgress(progress *Progress) error
	TimeRemaining(now time.Time) time.Duration
	IsCompleted() bool
	IsSuccess() bool

	// Puzzle operations
	Solve(puzzleID, attempt string, now time.Time) (*SolveResult, error)
	Hint(puzzleID string) (*HintResult, error)

	// Configuration
	GetRoom() *Room
}

// GameEngine implements the Engine interface
type GameEngine struct {
	room     *Room
	progress *Progress
}

// NewEngine creates a new game engine for a fresh session started at now
func NewEngine(room *Room, sessionID string, now time.Time) (*GameEngine, error) {
	if err := ValidateRoom(room); err != nil {
		return nil, err
	}

	return &GameEngine{
		room:     room,
		progress: NewProgress(sessionID, room, now),
	}, nil
}

// NewProgress returns a record with every puzzle unsolved and every item hidden
func NewProgress(sessionID string, room *Room, now time.Time) *Progress {
	p := &Progress{
		SessionID: sessionID,
		RoomID:    room.ID,
		StartTime: now,
		Puzzles:   make(map[string]bool, len(room.Puzzles)),
		Items:     make(map[string]bool, len(room.Items)),
	}
	for _, puzzle := range room.Puzzles {
		p.Puzzles[puzzle.ID] = false
	}
	for _, item := range room.Items {
		p.Items[item.ID] = false
	}
	return p
}

// GetProgress returns the session record
func (e *GameEngine) GetProgress() *Progress {
	return e.progress
}

// SetProgress replaces the session record
func (e *GameEngine) SetProgress(progress *Progress) error {
	if progress == nil {
		return fmt.Errorf("progress cannot be nil")
	}
	if progress.RoomID != e.room.ID {
		return fmt.Errorf("progress belongs to room %q, engine runs %q", progress.RoomID, e.room.ID)
	}
	e.progress = progress
	return nil
}

// GetRoom returns the room the engine runs
func (e *GameEngine) GetRoom() *Room {
	return e.room
}

// IsCompleted returns whether the game has ended
func (e *GameEngine) IsCompleted() bool {
	return e.progress.Completed
}

// IsSuccess returns whether the game ended with an escape
func (e *GameEngine) IsSuccess() bool {
	return e.progress.Completed && e.progress.Success
}

// TimeRemaining returns the time left before the limit, never negative
func (e *GameEngine) TimeRemaining(now time.Time) time.Duration {
	remaining := e.room.TimeLimitDuration() - now.Sub(e.progress.StartTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// expire ends the game in defeat once the time limit has passed
func (e *GameEngine) expire(now time.Time) {
	if e.progress.Completed {
		return
	}
	if e.TimeRemaining(now) <= 0 {
		e.progress.Completed = true
		e.progress.Success = false
	}
}

// View derives the client view. Observing an expired session completes it.
func (e *GameEngine) View(now time.Time) *View {
	e.expire(now)

	view := &View{
		SessionID:     e.progress.SessionID,
		RoomID:        e.room.ID,
		TimeRemaining: int(e.TimeRemaining(now) / time.Second),
		Puzzles:       make(map[string]PuzzleView, len(e.room.Puzzles)),
		Items:         make(map[string]ItemView, len(e.room.Items)),
		HintsUsed:     e.progress.HintsUsed,
		Completed:     e.progress.Completed,
		Success:       e.IsSuccess(),
	}

	for _, puzzle := range e.room.Puzzles {
		view.Puzzles[puzzle.ID] = PuzzleView{
			Solved:      e.progress.Puzzles[puzzle.ID],
			Description: puzzle.Description,
		}
	}

	for _, item := range e.room.Items {
		found := e.progress.Items[item.ID]
		description := HiddenDescription
		if found {
			description = item.Description
		}
		view.Items[item.ID] = ItemView{Found: found, Description: description}
	}

	return view
}

// Solve attempts a puzzle. Completed games and solved puzzles are rejected
// with ErrGameCompleted and ErrPuzzleAlreadySolved; wrong answers and a
// locked door return a result with Success false and change nothing.
func (e *GameEngine) Solve(puzzleID, attempt string, now time.Time) (*SolveResult, error) {
	puzzle, err := e.room.Puzzle(puzzleID)
	if err != nil {
		return nil, err
	}

	e.expire(now)

	if e.progress.Completed {
		return nil, ErrGameCompleted
	}
	if e.progress.Puzzles[puzzle.ID] {
		return nil, ErrPuzzleAlreadySolved
	}

	msgs := e.room.messages()

	if puzzle.IsDoor() {
		return e.openDoor(puzzle, msgs), nil
	}

	if !strings.EqualFold(attempt, puzzle.Solution) {
		return &SolveResult{Success: false, Message: msgs.Incorrect}, nil
	}

	e.progress.Puzzles[puzzle.ID] = true

	found := e.revealItemsAt(puzzle.ID)
	if len(found) == 0 {
		return &SolveResult{Success: true, Message: msgs.Solved}, nil
	}

	ids := make([]string, 0, len(found))
	descriptions := make([]string, 0, len(found))
	for _, item := range found {
		ids = append(ids, item.ID)
		descriptions = append(descriptions, item.Description)
	}

	return &SolveResult{
		Success:    true,
		Message:    formatItemFound(msgs.ItemFound, strings.Join(descriptions, ", ")),
		ItemFound:  ids[0],
		ItemsFound: ids,
	}, nil
}

// openDoor completes the game when every prerequisite is solved
func (e *GameEngine) openDoor(door *PuzzleDefinition, msgs Messages) *SolveResult {
	var remaining []string
	for _, req := range door.Requires {
		if !e.progress.Puzzles[req] {
			remaining = append(remaining, req)
		}
	}

	if len(remaining) > 0 {
		return &SolveResult{
			Success:   false,
			Message:   msgs.DoorLocked,
			Remaining: remaining,
		}
	}

	e.progress.Puzzles[door.ID] = true
	e.progress.Completed = true
	e.progress.Success = true

	return &SolveResult{
		Success:       true,
		Message:       msgs.Victory,
		GameCompleted: true,
	}
}

// revealItemsAt marks every hidden item at the puzzle as found
func (e *GameEngine) revealItemsAt(puzzleID string) []ItemDefinition {
	var found []ItemDefinition
	for _, item := range e.room.ItemsAt(puzzleID) {
		if e.progress.Items[item.ID] {
			continue
		}
		e.progress.Items[item.ID] = true
		found = append(found, item)
	}
	return found
}

// Hint returns the hint for a puzzle. Every successful call counts, including
// after the game has ended.
func (e *GameEngine) Hint(puzzleID string) (*HintResult, error) {
	puzzle, err := e.room.Puzzle(puzzleID)
	if err != nil {
		return nil, err
	}

	e.progress.HintsUsed++

	hint := puzzle.Hint
	if hint == "" {
		hint = e.room.messages().NoHint
	}

	return &HintResult{
		Hint:      hint,
		HintsUsed: e.progress.HintsUsed,
	}, nil
}

func formatItemFound(template, descriptions string) string {
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, descriptions)
	}
	return template + " " + descriptions
}
