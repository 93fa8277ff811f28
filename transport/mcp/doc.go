// Package mcp exposes the 2048 game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON response is rendered as compact text.
//
// MCP Tools:
//   - create_session: Create a new session, optionally from a layout
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - start_game: Spawn the two starting tiles
//   - restart_game: Return to the initial grid and idle status
//   - game_state: Get the board, score and status
//   - move: Execute a single slide
//   - bulk_move: Execute a sequence of slides
//   - move_history: Retrieve move history with pagination
//   - list_layouts: List available starting layouts
//   - game_instructions: Rules and strategy hints
//
// Transport Modes:
//
// The same MCPServer can be served two ways:
//   - Stdio: server.ServeStdio for local MCP clients
//   - HTTP: server.NewStreamableHTTPServer mounted at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
