// Package api provides HTTP REST API handlers for the Escape Room Game.
//
// The api package implements:
//   - Session creation, state, solve and hint endpoints
//   - Room and session listings
//   - WebSocket upgrade handling
//   - CORS for browser clients
//
// Endpoints:
//
// Game:
//   - POST /session - Create a session; optional body {"room_id": "..."}
//   - GET /session/{id}/state - Current view of the session
//   - POST /session/{id}/solve/{puzzleId} - Attempt a puzzle; body {"solution": "..."}
//   - GET /session/{id}/hint/{puzzleId} - Get a hint; every call counts
//
// The same operations are also served under /api/game/new,
// /api/game/state/{id}, /api/game/solve/{id}/{puzzleId} and
// /api/game/hint/{id}/{puzzleId}.
//
// Listings:
//   - GET /rooms - Room catalog
//   - GET /sessions - Session summaries, newest first; optional ?limit=N
//   - GET /health - Liveness
//
// Live updates:
//   - GET /ws?session={id} - WebSocket pushing the view after each solve and hint
//
// Responses:
//
// A wrong answer or a locked door is a normal 200 response with
// "success": false. Errors are returned as JSON:
//
//	{"error": "Game session not found"}
//
// Status codes:
//   - 404: unknown session, puzzle or room
//   - 400: game already completed, puzzle already solved, malformed body
//   - 500: anything else
//
// Usage:
//
//	server := api.NewServer(gameService, hub,
//		api.WithLogger(logger),
//		api.WithAllowedOrigins([]string{"*"}),
//	)
//	http.ListenAndServe(":8080", server)
package api
