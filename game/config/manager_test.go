package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

const labYAML = `id: lab
name: Abandoned Lab
description: A dusty laboratory.
time_limit: 900
puzzles:
  - id: terminal
    description: A humming terminal asks for a passphrase.
    solution: entropy
    hint: Read the whiteboard.
  - id: cabinet
    description: A cabinet with a dial lock.
    solution: "42"
  - id: exit
    description: A blast door.
    requires: [terminal, cabinet]
items:
  - id: badge
    location: terminal
    description: An access badge.
`

const vaultJSON = `{
  "name": "Bank Vault",
  "puzzles": [
    {"id": "dial", "description": "A heavy dial.", "solution": "left-right-left"},
    {"id": "gate", "description": "The vault gate.", "requires": ["dial"]}
  ],
  "items": []
}`

func writeRoomFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestNewManager_BuiltinOnly(t *testing.T) {
	manager, err := NewManager("")
	require.NoError(t, err)

	room, err := manager.LoadRoom("classic")
	require.NoError(t, err)
	assert.Equal(t, "classic", room.ID)
	assert.Same(t, room, manager.GetDefault())

	rooms := manager.ListRooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "builtin", rooms[0].Source)
	assert.Equal(t, 4, rooms[0].Puzzles)
	assert.Equal(t, 3, rooms[0].Items)
}

func TestNewManager_MissingDirectory(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewManager_LoadsRoomFiles(t *testing.T) {
	dir := t.TempDir()
	writeRoomFile(t, dir, "lab.yaml", labYAML)
	writeRoomFile(t, dir, "vault.json", vaultJSON)
	writeRoomFile(t, dir, "README.md", "not a room")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("yaml room", func(t *testing.T) {
		room, err := manager.LoadRoom("lab")
		require.NoError(t, err)
		assert.Equal(t, "Abandoned Lab", room.Name)
		assert.Equal(t, 900, room.TimeLimit)
		assert.Equal(t, []string{"terminal", "cabinet"}, room.Door().Requires)
		assert.Equal(t, "42", room.Puzzles[1].Solution)
	})

	t.Run("json room gets id and time limit defaults", func(t *testing.T) {
		room, err := manager.LoadRoom("vault")
		require.NoError(t, err)
		assert.Equal(t, "vault", room.ID)
		assert.Equal(t, engine.DefaultTimeLimit, room.TimeLimit)
	})

	t.Run("list is sorted with sources", func(t *testing.T) {
		rooms := manager.ListRooms()
		require.Len(t, rooms, 3)
		assert.Equal(t, "classic", rooms[0].ID)
		assert.Equal(t, "builtin", rooms[0].Source)
		assert.Equal(t, "lab", rooms[1].ID)
		assert.Equal(t, "lab.yaml", rooms[1].Source)
		assert.Equal(t, "vault", rooms[2].ID)
		assert.Equal(t, "vault.json", rooms[2].Source)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := manager.LoadRoom("missing")
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("default is still classic", func(t *testing.T) {
		assert.Equal(t, "classic", manager.GetDefault().ID)
	})
}

func TestNewManager_FileReplacesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeRoomFile(t, dir, "classic.yaml", labYAML[len("id: lab\n"):])

	manager, err := NewManager(dir)
	require.NoError(t, err)

	room := manager.GetDefault()
	assert.Equal(t, "classic", room.ID)
	assert.Equal(t, "Abandoned Lab", room.Name)
	assert.Len(t, manager.ListRooms(), 1)
}

func TestNewManager_InvalidRooms(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "malformed yaml",
			file:    "broken.yaml",
			content: "puzzles: [unclosed",
		},
		{
			name:    "malformed json",
			file:    "broken.json",
			content: `{"name": `,
		},
		{
			name: "no door",
			file: "doorless.json",
			content: `{"name": "Doorless", "puzzles": [
				{"id": "a", "description": "A", "solution": "x"}]}`,
		},
		{
			name: "item at unknown puzzle",
			file: "lost.yaml",
			content: `name: Lost
puzzles:
  - id: a
    description: A
    solution: x
  - id: door
    description: Door
    requires: [a]
items:
  - id: coin
    location: nowhere
    description: A coin.
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeRoomFile(t, dir, tt.file, tt.content)

			_, err := NewManager(dir)
			assert.ErrorIs(t, err, ErrInvalidRoom)
			assert.Contains(t, err.Error(), tt.file)
		})
	}
}

func TestNewManager_DuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeRoomFile(t, dir, "a.yaml", labYAML)
	writeRoomFile(t, dir, "b.yaml", labYAML)

	_, err := NewManager(dir)
	assert.ErrorIs(t, err, ErrInvalidRoom)
}

func TestReadRoomFile(t *testing.T) {
	dir := t.TempDir()
	writeRoomFile(t, dir, "lab.yml", labYAML)

	room, err := ReadRoomFile(filepath.Join(dir, "lab.yml"))
	require.NoError(t, err)
	assert.Equal(t, "lab", room.ID)
	assert.Len(t, room.ItemsAt("terminal"), 1)

	_, err = ReadRoomFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestRoomFiles(t *testing.T) {
	dir := t.TempDir()
	writeRoomFile(t, dir, "b.json", vaultJSON)
	writeRoomFile(t, dir, "a.YAML", labYAML)
	writeRoomFile(t, dir, "notes.txt", "ignore")

	files, err := RoomFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.YAML"), filepath.Join(dir, "b.json")}, files)
}
