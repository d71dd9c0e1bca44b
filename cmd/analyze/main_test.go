package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

func TestAnalyzeRoom_Classic(t *testing.T) {
	a := analyzeRoom(engine.ClassicRoom())

	assert.Equal(t, "classic", a.ID)
	assert.Equal(t, 4, a.Puzzles)
	assert.Equal(t, 3, a.Items)
	assert.Equal(t, "door", a.Door)
	assert.Equal(t, []string{"safe", "bookshelf", "computer"}, a.Prerequisites)
	assert.Empty(t, a.Optional)
	assert.Empty(t, a.WithoutHint)
	assert.Equal(t, []string{"key"}, a.ItemsByLocation["safe"])
	assert.True(t, a.Escapable, a.WalkthroughErr)
	assert.Equal(t, 4, a.MinSolves)
}

func TestAnalyzeRoom_OptionalPuzzle(t *testing.T) {
	room := &engine.Room{
		ID:        "side",
		Name:      "Side Quest",
		TimeLimit: 90,
		Puzzles: []engine.PuzzleDefinition{
			{ID: "main", Description: "Main lock", Solution: "a", Hint: "a"},
			{ID: "extra", Description: "Extra lock", Solution: "b"},
			{ID: "exit", Description: "Exit", Requires: []string{"main"}},
		},
	}

	a := analyzeRoom(room)

	assert.Equal(t, []string{"extra"}, a.Optional)
	assert.Equal(t, []string{"extra", "exit"}, a.WithoutHint)
	assert.True(t, a.Escapable)
	assert.Equal(t, 2, a.MinSolves)
}

func TestAnalyzeRoom_NoDoor(t *testing.T) {
	room := &engine.Room{
		ID:        "broken",
		Name:      "Broken",
		TimeLimit: 60,
		Puzzles: []engine.PuzzleDefinition{
			{ID: "a", Description: "A", Solution: "x"},
		},
	}

	a := analyzeRoom(room)

	assert.False(t, a.Escapable)
	assert.NotEmpty(t, a.WalkthroughErr)
}

func TestPrintAnalysis(t *testing.T) {
	var out bytes.Buffer
	printAnalysis(&out, analyzeRoom(engine.ClassicRoom()))

	s := out.String()
	assert.Contains(t, s, "Name: Classic Study")
	assert.Contains(t, s, "Time Limit: 30:00")
	assert.Contains(t, s, "Door: door (requires safe, bookshelf, computer)")
	assert.Contains(t, s, "safe reveals key")
	assert.Contains(t, s, "✅ Escapable in 4 solves")
}

func TestRun(t *testing.T) {
	t.Run("built-in only", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run("", &out))
		assert.Contains(t, out.String(), "=== Analyzing classic ===")
	})

	t.Run("rooms directory", func(t *testing.T) {
		dir := t.TempDir()
		room := `name: Cellar
time_limit: 300
puzzles:
  - id: barrel
    description: A barrel with a combination lock.
    solution: "42"
  - id: stairs
    description: The stairs up.
    requires: [barrel]
items:
  - id: lantern
    location: barrel
    description: An oil lantern.
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cellar.yaml"), []byte(room), 0644))

		var out bytes.Buffer
		require.NoError(t, run(dir, &out))
		assert.Contains(t, out.String(), "=== Analyzing cellar ===")
		assert.Contains(t, out.String(), "barrel reveals lantern")
		assert.Contains(t, out.String(), "puzzles have no hint: barrel, stairs")
	})

	t.Run("missing directory", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, run("/non/existent/rooms", &out))
	})
}
