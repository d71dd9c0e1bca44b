// Package websocket provides WebSocket transport for the Escape Room Game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after solve attempts and hints
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns all
// WebSocket connections. Registration, removal and fan-out all run on the
// hub's Run goroutine. Each client has a read pump and a write pump.
//
// Message Protocol:
//
// Connections are push-only. After every state change the server sends:
//
//	{"session_id": "...", "event": "state_update", "view": {...}}
//
// where view has the same shape as GET /session/{id}/state.
//
// Session Integration:
//
// Clients pass their session ID as a query parameter (?session=<id>) when
// connecting. Session IDs are matched case-insensitively.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithLogger(logger))
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, view)
//
// Back-pressure:
//
// Broadcasts are queued and never block the caller. When the queue is full
// the update is dropped and logged. A client whose send buffer is full is
// disconnected.
package websocket
