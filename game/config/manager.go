package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
	"gopkg.in/yaml.v3"
)

var (
	ErrRoomNotFound = service.ErrRoomNotFound
	ErrInvalidRoom  = errors.New("invalid room")
)

const (
	// DefaultRoomID is the room used when a session is created without one
	DefaultRoomID = "classic"

	sourceBuiltin = "builtin"
)

type roomEntry struct {
	room   *engine.Room
	source string
}

// Manager is the read-only room catalog. Every room is loaded and validated
// up front, so lookups need no locking.
type Manager struct {
	roomsDir string
	rooms    map[string]*roomEntry
}

// NewManager builds the catalog from the built-in rooms plus every room file
// in roomsDir. An empty roomsDir loads the built-in rooms only.
func NewManager(roomsDir string) (*Manager, error) {
	m := &Manager{
		roomsDir: roomsDir,
		rooms: map[string]*roomEntry{
			DefaultRoomID: {room: engine.ClassicRoom(), source: sourceBuiltin},
		},
	}

	if roomsDir == "" {
		return m, nil
	}

	if _, err := os.Stat(roomsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("rooms directory does not exist: %s", roomsDir)
	}

	files, err := RoomFiles(roomsDir)
	if err != nil {
		return nil, err
	}

	fromFiles := make(map[string]string)
	for _, path := range files {
		room, err := ReadRoomFile(path)
		if err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		if prev, dup := fromFiles[room.ID]; dup {
			return nil, fmt.Errorf("%w: room id %q defined in both %s and %s", ErrInvalidRoom, room.ID, prev, name)
		}
		fromFiles[room.ID] = name

		// A file may replace a built-in room of the same id.
		m.rooms[room.ID] = &roomEntry{room: room, source: name}
	}

	return m, nil
}

// RoomFiles returns the room files in dir, sorted by name
func RoomFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rooms directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isRoomFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

func isRoomFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadRoomFile parses and validates a JSON or YAML room file. The room id
// defaults to the file name without extension, and the time limit to
// engine.DefaultTimeLimit.
func ReadRoomFile(path string) (*engine.Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read room file: %w", err)
	}

	var room engine.Room
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &room)
	default:
		err = json.Unmarshal(data, &room)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse: %v", ErrInvalidRoom, filepath.Base(path), err)
	}

	if room.ID == "" {
		base := filepath.Base(path)
		room.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if room.TimeLimit == 0 {
		room.TimeLimit = engine.DefaultTimeLimit
	}

	if err := engine.ValidateRoom(&room); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoom, filepath.Base(path), err)
	}

	return &room, nil
}

// LoadRoom returns the room with the given id
func (m *Manager) LoadRoom(id string) (*engine.Room, error) {
	entry, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return entry.room, nil
}

// ListRooms returns a summary of every room, sorted by id
func (m *Manager) ListRooms() []*service.RoomInfo {
	rooms := make([]*service.RoomInfo, 0, len(m.rooms))
	for _, entry := range m.rooms {
		rooms = append(rooms, service.NewRoomInfo(entry.room, entry.source))
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})

	return rooms
}

// GetDefault returns the default room
func (m *Manager) GetDefault() *engine.Room {
	return m.rooms[DefaultRoomID].room
}

// RoomsDir returns the directory the catalog was loaded from
func (m *Manager) RoomsDir() string {
	return m.roomsDir
}
