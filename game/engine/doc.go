// Package engine provides the core game logic for the Escape Room Game.
//
// The engine package implements the puzzle mechanics including:
//   - Room definitions: puzzles, items, hints and the time limit
//   - Room validation
//   - Per-session progress tracking
//   - Solution checking, item discovery and the exit door
//   - Lazy timeout detection
//
// Core Types:
//
// Room is the immutable catalog of puzzles and items a session is played
// against. Progress is the mutable record of one play-through. GameEngine
// binds the two and implements the Engine interface.
//
// Usage:
//
//	room := engine.ClassicRoom()
//
//	gameEngine, err := engine.NewEngine(room, sessionID, time.Now())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameEngine.Solve("safe", "1234", time.Now())
//	view := gameEngine.View(time.Now())
//
// Game Rules:
//
// Every puzzle except the door is solved by submitting its solution
// (compared case-insensitively). Solving a puzzle reveals the items hidden
// at it. The door opens once all of its prerequisite puzzles are solved,
// which ends the game in victory. When the time limit runs out the game
// ends in defeat the next time the session is observed.
//
// GameEngine is not safe for concurrent use; callers serialize access per
// session.
package engine
