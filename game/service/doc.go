// Package service provides the business logic layer for the Escape Room Game.
//
// The service package implements:
//   - Multi-session game management
//   - Room selection from the catalog
//   - Solve and hint processing
//   - Session summaries for listings
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager stores sessions and serializes access to each one.
// ConfigManager provides the read-only room catalog.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine instance; every operation
// runs inside SessionManager.Update so that two requests for the same session
// never interleave, while requests for different sessions proceed in parallel.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("rooms")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Solve(ctx, info.SessionID, "safe", "1234")
//
// Errors:
//
// ErrSessionNotFound and ErrRoomNotFound are defined here and re-exported by
// the session and config packages. Puzzle errors come from the engine package.
package service
