package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

// gameServiceImpl implements the GameService interface. It holds no lock of
// its own: per-session exclusion is the session manager's job.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	now      func() time.Time
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithClock overrides the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		s.now = now
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session in the given room, or the default room when roomID is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, roomID string) (*SessionInfo, error) {
	room, err := s.resolveRoom(roomID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(room, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SessionInfo{
		SessionID: session.ID,
		Message:   room.WelcomeMessage(),
		TimeLimit: room.TimeLimit,
		RoomID:    room.ID,
	}, nil
}

// resolveRoom loads a room, listing the available ones when it does not exist
func (s *gameServiceImpl) resolveRoom(roomID string) (*engine.Room, error) {
	if roomID == "" {
		return s.configs.GetDefault(), nil
	}

	room, err := s.configs.LoadRoom(roomID)
	if err == nil {
		return room, nil
	}

	if errors.Is(err, ErrRoomNotFound) {
		var ids []string
		for _, info := range s.configs.ListRooms() {
			ids = append(ids, info.ID)
		}
		return nil, fmt.Errorf("%w: '%s'. Available rooms: %s", ErrRoomNotFound, roomID, strings.Join(ids, ", "))
	}

	return nil, fmt.Errorf("failed to load room %s: %w", roomID, err)
}

// GetState returns the session view. An expired session is completed as a side effect.
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.View, error) {
	var view *engine.View

	err := s.sessions.Update(sessionID, func(sess *Session) error {
		now := s.now()
		sess.LastAccessedAt = now
		view = sess.Engine.View(now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// Solve attempts a puzzle solution
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID, puzzleID, solution string) (*engine.SolveResult, error) {
	var result *engine.SolveResult

	err := s.sessions.Update(sessionID, func(sess *Session) error {
		now := s.now()
		sess.LastAccessedAt = now

		r, err := sess.Engine.Solve(puzzleID, solution, now)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Hint returns a hint for a puzzle and counts it against the session
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID, puzzleID string) (*engine.HintResult, error) {
	var result *engine.HintResult

	err := s.sessions.Update(sessionID, func(sess *Session) error {
		sess.LastAccessedAt = s.now()

		r, err := sess.Engine.Hint(puzzleID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListSessions returns a summary of every session, newest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionSummary, error) {
	result := make([]*SessionSummary, 0, s.sessions.Count())
	now := s.now()

	s.sessions.Range(func(sess *Session) {
		view := sess.Engine.View(now)

		solved := 0
		for _, p := range view.Puzzles {
			if p.Solved {
				solved++
			}
		}

		result = append(result, &SessionSummary{
			ID:             sess.ID,
			RoomID:         sess.Room.ID,
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			TimeRemaining:  view.TimeRemaining,
			PuzzlesSolved:  solved,
			TotalPuzzles:   len(view.Puzzles),
			HintsUsed:      view.HintsUsed,
			Completed:      view.Completed,
			Success:        view.Success,
		})
	})

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// ListRooms returns the room catalog
func (s *gameServiceImpl) ListRooms(ctx context.Context) ([]*RoomInfo, error) {
	return s.configs.ListRooms(), nil
}
