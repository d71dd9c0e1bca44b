// Command analyze prints quick, human-readable heuristics about the rooms a
// server would load: the built-in room plus any files in the rooms directory
// given as the first argument. It summarizes time limit, puzzle and item
// counts, hint coverage, puzzles the door does not need, and replays the
// shortest escape against the engine.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/escaperoom/game/config"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

// RoomAnalysis holds the figures printed for one room.
type RoomAnalysis struct {
	ID              string
	Name            string
	TimeLimit       int
	Puzzles         int
	Items           int
	Door            string
	Prerequisites   []string
	Optional        []string
	WithoutHint     []string
	ItemsByLocation map[string][]string
	MinSolves       int
	Escapable       bool
	WalkthroughErr  string
}

func main() {
	dir := ""
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := run(dir, os.Stdout); err != nil {
		fmt.Printf("Error loading rooms: %v\n", err)
		os.Exit(1)
	}
}

// run analyzes every room the manager loads from dir
func run(dir string, w io.Writer) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	for _, info := range manager.ListRooms() {
		room, err := manager.LoadRoom(info.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", room.ID)
		printAnalysis(w, analyzeRoom(room))
	}
	return nil
}

// analyzeRoom gathers statistics and plays the shortest escape
func analyzeRoom(room *engine.Room) RoomAnalysis {
	a := RoomAnalysis{
		ID:              room.ID,
		Name:            room.Name,
		TimeLimit:       room.TimeLimit,
		Puzzles:         len(room.Puzzles),
		Items:           len(room.Items),
		ItemsByLocation: make(map[string][]string),
	}

	door := room.Door()
	required := make(map[string]bool)
	if door != nil {
		a.Door = door.ID
		a.Prerequisites = door.Requires
		for _, id := range door.Requires {
			required[id] = true
		}
	}

	for _, p := range room.Puzzles {
		if p.Hint == "" {
			a.WithoutHint = append(a.WithoutHint, p.ID)
		}
		if !p.IsDoor() && !required[p.ID] {
			a.Optional = append(a.Optional, p.ID)
		}
	}

	for _, item := range room.Items {
		a.ItemsByLocation[item.Location] = append(a.ItemsByLocation[item.Location], item.ID)
	}

	a.MinSolves, a.Escapable, a.WalkthroughErr = walkthrough(room)
	return a
}

// walkthrough solves only the door prerequisites, then opens the door
func walkthrough(room *engine.Room) (int, bool, string) {
	now := time.Now()
	e, err := engine.NewEngine(room, "analysis", now)
	if err != nil {
		return 0, false, err.Error()
	}

	door := room.Door()
	if door == nil {
		return 0, false, "room has no door"
	}

	solves := 0
	for _, id := range door.Requires {
		p, err := room.Puzzle(id)
		if err != nil {
			return solves, false, err.Error()
		}
		result, err := e.Solve(p.ID, p.Solution, now)
		if err != nil {
			return solves, false, err.Error()
		}
		if !result.Success {
			return solves, false, fmt.Sprintf("solution for %s rejected", p.ID)
		}
		solves++
	}

	result, err := e.Solve(door.ID, "", now)
	if err != nil {
		return solves, false, err.Error()
	}
	solves++
	if !result.GameCompleted || !e.IsSuccess() {
		return solves, false, fmt.Sprintf("door stayed locked: %s", strings.Join(result.Remaining, ", "))
	}
	return solves, true, ""
}

func printAnalysis(w io.Writer, a RoomAnalysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Time Limit: %d:%02d\n", a.TimeLimit/60, a.TimeLimit%60)
	fmt.Fprintf(w, "Puzzles: %d\n", a.Puzzles)
	fmt.Fprintf(w, "Items: %d\n", a.Items)
	fmt.Fprintf(w, "Door: %s (requires %s)\n", a.Door, strings.Join(a.Prerequisites, ", "))

	for _, p := range a.Prerequisites {
		if items := a.ItemsByLocation[p]; len(items) > 0 {
			fmt.Fprintf(w, "   %s reveals %s\n", p, strings.Join(items, ", "))
		}
	}

	if len(a.Optional) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d puzzles are not needed to escape: %s\n", len(a.Optional), strings.Join(a.Optional, ", "))
	} else {
		fmt.Fprintf(w, "✅ Every puzzle leads to the door\n")
	}

	if len(a.WithoutHint) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d puzzles have no hint: %s\n", len(a.WithoutHint), strings.Join(a.WithoutHint, ", "))
	} else {
		fmt.Fprintf(w, "✅ Every puzzle has a hint\n")
	}

	if a.Escapable {
		fmt.Fprintf(w, "✅ Escapable in %d solves\n", a.MinSolves)
	} else {
		fmt.Fprintf(w, "⚠️  CRITICAL: walkthrough failed after %d solves: %s\n", a.MinSolves, a.WalkthroughErr)
	}
}
