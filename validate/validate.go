// Command validate provides a small CLI that validates escape room files
// (.json, .yaml, .yml) in a rooms directory (default "rooms"). It checks:
//   - File syntax and required fields
//   - Unique puzzle and item ids
//   - Exactly one door, whose prerequisites are existing puzzles
//   - Every item is hidden at an existing puzzle
//   - Time limit bounds
//   - Room ids are unique across files
//
// It also warns about puzzles without hints and puzzles the door does not require.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/escaperoom/game/config"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info is only filled for valid files.
type ValidationResult struct {
	File     string
	RoomID   string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// validateRoomFile loads and validates a single room file
func validateRoomFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	room, err := config.ReadRoomFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.RoomID = room.ID

	result.Warnings = append(result.Warnings, roomWarnings(room)...)

	door := room.Door()
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Room: %s (%s)", room.Name, room.ID),
		fmt.Sprintf("✓ Time limit: %ds", room.TimeLimit),
		fmt.Sprintf("✓ Puzzles: %d", len(room.Puzzles)),
		fmt.Sprintf("✓ Items: %d", len(room.Items)),
		fmt.Sprintf("✓ Door: %s requires %s", door.ID, strings.Join(door.Requires, ", ")),
	)

	return result
}

// roomWarnings reports playable but suspicious parts of a valid room
func roomWarnings(room *engine.Room) []string {
	var warnings []string

	required := make(map[string]bool)
	for _, id := range room.Door().Requires {
		required[id] = true
	}

	for _, p := range room.Puzzles {
		if p.Hint == "" {
			warnings = append(warnings, fmt.Sprintf("Puzzle %q has no hint", p.ID))
		}
		if !p.IsDoor() && !required[p.ID] {
			warnings = append(warnings, fmt.Sprintf("Puzzle %q is not required by the door", p.ID))
		}
	}

	return warnings
}

// validateDir validates every room file in dir and writes a report to w.
// It returns false if any file is invalid or two files share a room id.
func validateDir(dir string, w io.Writer) (bool, error) {
	files, err := config.RoomFiles(dir)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "No room files found in %s\n", dir)
		return true, nil
	}

	allValid := true
	seen := make(map[string]string)

	for _, file := range files {
		result := validateRoomFile(file)

		if result.Valid {
			if prev, dup := seen[result.RoomID]; dup {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Room id %q already defined in %s", result.RoomID, prev))
			} else {
				seen[result.RoomID] = result.File
			}
		}

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			for _, warning := range result.Warnings {
				fmt.Fprintln(w, "  ⚠️  "+warning)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All rooms are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some rooms have errors")
	}

	return allValid, nil
}

// main validates the directory given as the first argument, or "rooms",
// exiting with non-zero status if any room is invalid.
func main() {
	dir := "rooms"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ok, err := validateDir(dir, os.Stdout)
	if err != nil {
		fmt.Printf("Error finding room files: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
