// Package mcp provides a Model Context Protocol server for the Escape Room Game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - A thin proxy to the REST API
//
// MCP Tools:
//   - create_session: Start a session, optionally in a given room
//   - game_state: Puzzles, items, time remaining and hints used
//   - solve_puzzle: Submit an answer for a puzzle
//   - get_hint: Get a hint for a puzzle
//   - list_rooms: Room catalog
//   - list_sessions: Session summaries
//   - game_instructions: Full rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer()) for local MCP clients
//   - HTTP: the main server forwards POST /mcp bodies to HandleMessage
//
// Every tool call becomes one REST request, so the MCP surface always
// reflects the same sessions as the HTTP API. API errors are returned as
// tool errors carrying the API's error message.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
