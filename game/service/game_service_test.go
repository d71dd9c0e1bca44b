package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/escaperoom/game/config"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
	"github.com/wricardo/mcp-training/escaperoom/game/session"
)

// fakeClock is a settable clock shared with the service under test
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupService(t *testing.T) (service.GameService, *fakeClock) {
	t.Helper()

	configs, err := config.NewManager("")
	require.NoError(t, err)

	clock := newFakeClock()
	svc := service.NewGameService(session.NewManager(), configs, service.WithClock(clock.Now))
	return svc, clock
}

func newSession(t *testing.T, svc service.GameService) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)
	return info.SessionID
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	t.Run("default room", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)

		assert.NotEmpty(t, info.SessionID)
		assert.Equal(t, "New game started", info.Message)
		assert.Equal(t, 1800, info.TimeLimit)
		assert.Equal(t, "classic", info.RoomID)
	})

	t.Run("explicit room", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "classic")
		require.NoError(t, err)
		assert.Equal(t, "classic", info.RoomID)
	})

	t.Run("unknown room lists available rooms", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "atlantis")
		require.ErrorIs(t, err, service.ErrRoomNotFound)
		assert.Contains(t, err.Error(), "atlantis")
		assert.Contains(t, err.Error(), "Available rooms: classic")
	})

	t.Run("successive sessions are distinct", func(t *testing.T) {
		a, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)
		b, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)
		assert.NotEqual(t, a.SessionID, b.SessionID)
	})
}

func TestGameService_GetState(t *testing.T) {
	svc, clock := setupService(t)
	ctx := context.Background()
	id := newSession(t, svc)

	t.Run("fresh session", func(t *testing.T) {
		view, err := svc.GetState(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, id, view.SessionID)
		assert.Equal(t, 1800, view.TimeRemaining)
		assert.Len(t, view.Puzzles, 4)
		assert.Len(t, view.Items, 3)
		for itemID, item := range view.Items {
			assert.False(t, item.Found, itemID)
			assert.Equal(t, engine.HiddenDescription, item.Description, itemID)
		}
		assert.False(t, view.Completed)
	})

	t.Run("time remaining is truncated", func(t *testing.T) {
		clock.Advance(90*time.Second + 400*time.Millisecond)
		view, err := svc.GetState(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1709, view.TimeRemaining)
	})

	t.Run("case-insensitive session id", func(t *testing.T) {
		_, err := svc.GetState(ctx, strings.ToUpper(id))
		assert.NoError(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.GetState(ctx, "does-not-exist")
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})
}

func TestGameService_Timeout(t *testing.T) {
	svc, clock := setupService(t)
	ctx := context.Background()
	id := newSession(t, svc)

	_, err := svc.Solve(ctx, id, "safe", "1234")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)

	view, err := svc.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TimeRemaining)
	assert.True(t, view.Completed)
	assert.False(t, view.Success)
	assert.True(t, view.Puzzles["safe"].Solved)

	_, err = svc.Solve(ctx, id, "bookshelf", "red,blue,green")
	assert.ErrorIs(t, err, engine.ErrGameCompleted)

	// Hints still count after the game ends.
	hint, err := svc.Hint(ctx, id, "computer")
	require.NoError(t, err)
	assert.Equal(t, 1, hint.HintsUsed)
}

func TestGameService_SolveExpiresWithoutObservation(t *testing.T) {
	svc, clock := setupService(t)
	ctx := context.Background()
	id := newSession(t, svc)

	clock.Advance(30 * time.Minute)

	_, err := svc.Solve(ctx, id, "safe", "1234")
	assert.ErrorIs(t, err, engine.ErrGameCompleted)
}

func TestGameService_Solve(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	id := newSession(t, svc)

	t.Run("wrong answer changes nothing", func(t *testing.T) {
		result, err := svc.Solve(ctx, id, "safe", "0000")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Incorrect solution. Try again.", result.Message)

		view, err := svc.GetState(ctx, id)
		require.NoError(t, err)
		assert.False(t, view.Puzzles["safe"].Solved)
	})

	t.Run("door before prerequisites", func(t *testing.T) {
		result, err := svc.Solve(ctx, id, "door", "")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "You need to solve all puzzles before opening the door.", result.Message)
		assert.Equal(t, []string{"safe", "bookshelf", "computer"}, result.Remaining)
	})

	t.Run("correct answer reveals item", func(t *testing.T) {
		result, err := svc.Solve(ctx, id, "safe", "1234")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "key", result.ItemFound)
		assert.Equal(t, "Puzzle solved! You found: A small golden key.", result.Message)

		view, err := svc.GetState(ctx, id)
		require.NoError(t, err)
		assert.True(t, view.Items["key"].Found)
		assert.Equal(t, "A small golden key.", view.Items["key"].Description)
	})

	t.Run("already solved", func(t *testing.T) {
		_, err := svc.Solve(ctx, id, "safe", "1234")
		assert.ErrorIs(t, err, engine.ErrPuzzleAlreadySolved)
	})

	t.Run("case-insensitive answer", func(t *testing.T) {
		result, err := svc.Solve(ctx, id, "computer", "PassWord")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "usb_drive", result.ItemFound)
	})

	t.Run("unknown puzzle", func(t *testing.T) {
		_, err := svc.Solve(ctx, id, "fireplace", "x")
		assert.ErrorIs(t, err, engine.ErrPuzzleNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Solve(ctx, "missing", "safe", "1234")
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})

	t.Run("door opens after all prerequisites", func(t *testing.T) {
		_, err := svc.Solve(ctx, id, "bookshelf", "red,blue,green")
		require.NoError(t, err)

		result, err := svc.Solve(ctx, id, "door", "anything")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.GameCompleted)
		assert.Equal(t, "Congratulations! You've escaped the room!", result.Message)

		view, err := svc.GetState(ctx, id)
		require.NoError(t, err)
		assert.True(t, view.Completed)
		assert.True(t, view.Success)
	})

	t.Run("completed game rejects further attempts", func(t *testing.T) {
		_, err := svc.Solve(ctx, id, "door", "")
		assert.ErrorIs(t, err, engine.ErrGameCompleted)
	})
}

func TestGameService_Hint(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	id := newSession(t, svc)

	first, err := svc.Hint(ctx, id, "safe")
	require.NoError(t, err)
	assert.Equal(t, "Look for a 4-digit code hidden in the room. Maybe check the bookshelf?", first.Hint)
	assert.Equal(t, 1, first.HintsUsed)

	second, err := svc.Hint(ctx, id, "safe")
	require.NoError(t, err)
	assert.Equal(t, first.Hint, second.Hint)
	assert.Equal(t, 2, second.HintsUsed)

	_, err = svc.Hint(ctx, id, "nope")
	assert.ErrorIs(t, err, engine.ErrPuzzleNotFound)

	_, err = svc.Hint(ctx, "missing", "safe")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	view, err := svc.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, view.HintsUsed)
}

func TestGameService_SessionsAreIsolated(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	a := newSession(t, svc)
	b := newSession(t, svc)

	_, err := svc.Solve(ctx, a, "safe", "1234")
	require.NoError(t, err)
	_, err = svc.Hint(ctx, a, "safe")
	require.NoError(t, err)

	view, err := svc.GetState(ctx, b)
	require.NoError(t, err)
	assert.False(t, view.Puzzles["safe"].Solved)
	assert.Equal(t, 0, view.HintsUsed)
}

func TestGameService_ConcurrentHints(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	id := newSession(t, svc)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Hint(ctx, id, "bookshelf")
		}()
	}
	wg.Wait()

	view, err := svc.GetState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, n, view.HintsUsed)
}

func TestGameService_ListSessions(t *testing.T) {
	svc, clock := setupService(t)
	ctx := context.Background()

	older := newSession(t, svc)
	clock.Advance(time.Minute)
	newer := newSession(t, svc)

	_, err := svc.Solve(ctx, older, "safe", "1234")
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, newer, sessions[0].ID)
	assert.Equal(t, older, sessions[1].ID)
	assert.Equal(t, 1, sessions[1].PuzzlesSolved)
	assert.Equal(t, 4, sessions[1].TotalPuzzles)
	assert.Equal(t, 1740, sessions[1].TimeRemaining)
	assert.Equal(t, "classic", sessions[0].RoomID)
}

func TestGameService_ListRooms(t *testing.T) {
	svc, _ := setupService(t)

	rooms, err := svc.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "classic", rooms[0].ID)
}
