package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrItemNotFound   = errors.New("item not found")
)

const (
	defaultWelcome    = "New game started"
	defaultSolved     = "Puzzle solved!"
	defaultItemFound  = "Puzzle solved! You found: %s"
	defaultIncorrect  = "Incorrect solution. Try again."
	defaultDoorLocked = "You need to solve all puzzles before opening the door."
	defaultVictory    = "Congratulations! You've escaped the room!"
	defaultNoHint     = "No hint available for this puzzle."
)

// ClassicRoom returns the built-in room: a safe, a bookshelf and a computer
// guarding the exit door.
func ClassicRoom() *Room {
	return &Room{
		ID:          "classic",
		Name:        "Classic Study",
		Description: "A locked study with a safe, a bookshelf and a computer.",
		TimeLimit:   DefaultTimeLimit,
		Puzzles: []PuzzleDefinition{
			{
				ID:          "safe",
				Description: "A locked safe with a 4-digit combination.",
				Solution:    "1234",
				Hint:        "Look for a 4-digit code hidden in the room. Maybe check the bookshelf?",
			},
			{
				ID:          "bookshelf",
				Description: "A bookshelf with colored books that need to be arranged.",
				Solution:    "red,blue,green",
				Hint:        "The colors need to be arranged in a specific order. Look for a pattern elsewhere.",
			},
			{
				ID:          "computer",
				Description: "A locked computer that needs a password.",
				Solution:    "password",
				Hint:        "The password might be written down somewhere. Have you checked all items?",
			},
			{
				ID:          "door",
				Description: "The exit door. Requires all other puzzles to be solved.",
				Requires:    []string{"safe", "bookshelf", "computer"},
				Hint:        "You need to solve all other puzzles first.",
			},
		},
		Items: []ItemDefinition{
			{ID: "key", Location: "safe", Description: "A small golden key."},
			{ID: "note", Location: "bookshelf", Description: "A handwritten note with a clue."},
			{ID: "usb_drive", Location: "computer", Description: "A USB drive with important data."},
		},
	}
}

// ValidateRoom validates a room definition for correctness and playability
func ValidateRoom(room *Room) error {
	if room == nil {
		return fmt.Errorf("room validation: room is required")
	}
	if room.ID == "" {
		return fmt.Errorf("room validation: id is required")
	}
	if room.Name == "" {
		return fmt.Errorf("room validation: name is required")
	}
	if room.TimeLimit <= 0 || room.TimeLimit > MaxTimeLimit {
		return fmt.Errorf("room validation: time_limit must be between 1 and %d seconds, got %d", MaxTimeLimit, room.TimeLimit)
	}

	if len(room.Puzzles) == 0 {
		return fmt.Errorf("room validation: at least one puzzle is required")
	}
	if len(room.Puzzles) > MaxPuzzles {
		return fmt.Errorf("room validation: at most %d puzzles are allowed, got %d", MaxPuzzles, len(room.Puzzles))
	}
	if len(room.Items) > MaxItems {
		return fmt.Errorf("room validation: at most %d items are allowed, got %d", MaxItems, len(room.Items))
	}

	puzzles := make(map[string]*PuzzleDefinition, len(room.Puzzles))
	doors := 0
	for i := range room.Puzzles {
		p := &room.Puzzles[i]
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("room validation: puzzle %d has no id", i+1)
		}
		if _, dup := puzzles[p.ID]; dup {
			return fmt.Errorf("room validation: duplicate puzzle id %q", p.ID)
		}
		if p.Description == "" {
			return fmt.Errorf("room validation: puzzle %q has no description", p.ID)
		}
		if p.IsDoor() {
			doors++
			if p.Solution != "" {
				return fmt.Errorf("room validation: door %q must not have a solution", p.ID)
			}
		} else if p.Solution == "" {
			return fmt.Errorf("room validation: puzzle %q has no solution", p.ID)
		}
		puzzles[p.ID] = p
	}

	if doors != 1 {
		return fmt.Errorf("room validation: exactly one door puzzle is required, got %d", doors)
	}

	for _, p := range room.Puzzles {
		for _, req := range p.Requires {
			target, ok := puzzles[req]
			if !ok {
				return fmt.Errorf("room validation: door %q requires unknown puzzle %q", p.ID, req)
			}
			if target.IsDoor() {
				return fmt.Errorf("room validation: door %q cannot require itself", p.ID)
			}
		}
	}

	items := make(map[string]bool, len(room.Items))
	for i, item := range room.Items {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("room validation: item %d has no id", i+1)
		}
		if items[item.ID] {
			return fmt.Errorf("room validation: duplicate item id %q", item.ID)
		}
		if item.Description == "" {
			return fmt.Errorf("room validation: item %q has no description", item.ID)
		}
		if _, ok := puzzles[item.Location]; !ok {
			return fmt.Errorf("room validation: item %q is located at unknown puzzle %q", item.ID, item.Location)
		}
		items[item.ID] = true
	}

	return nil
}

// Puzzle returns the puzzle definition with the given id
func (r *Room) Puzzle(id string) (*PuzzleDefinition, error) {
	for i := range r.Puzzles {
		if r.Puzzles[i].ID == id {
			return &r.Puzzles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPuzzleNotFound, id)
}

// Item returns the item definition with the given id
func (r *Room) Item(id string) (*ItemDefinition, error) {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// Door returns the exit door, or nil for an invalid room
func (r *Room) Door() *PuzzleDefinition {
	for i := range r.Puzzles {
		if r.Puzzles[i].IsDoor() {
			return &r.Puzzles[i]
		}
	}
	return nil
}

// ItemsAt returns the items hidden at a puzzle in definition order
func (r *Room) ItemsAt(puzzleID string) []ItemDefinition {
	var items []ItemDefinition
	for _, item := range r.Items {
		if item.Location == puzzleID {
			items = append(items, item)
		}
	}
	return items
}

// TimeLimitDuration returns the time limit as a duration
func (r *Room) TimeLimitDuration() time.Duration {
	return time.Duration(r.TimeLimit) * time.Second
}

// messages returns the room messages with defaults filled in
func (r *Room) messages() Messages {
	m := r.Messages
	if m.Welcome == "" {
		m.Welcome = defaultWelcome
	}
	if m.Solved == "" {
		m.Solved = defaultSolved
	}
	if m.ItemFound == "" {
		m.ItemFound = defaultItemFound
	}
	if m.Incorrect == "" {
		m.Incorrect = defaultIncorrect
	}
	if m.DoorLocked == "" {
		m.DoorLocked = defaultDoorLocked
	}
	if m.Victory == "" {
		m.Victory = defaultVictory
	}
	if m.NoHint == "" {
		m.NoHint = defaultNoHint
	}
	return m
}

// WelcomeMessage returns the message shown when a session starts
func (r *Room) WelcomeMessage() string {
	return r.messages().Welcome
}
