// Package websocket pushes live 2048 board updates to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection has a read goroutine and a
// write goroutine; the hub's own goroutine owns the client registry.
//
// Message Protocol:
//
// The server only writes. Each frame is one JSON Message:
//
//	{"session_id": "ab12", "event": "move", "game_state": {...}}
//
// Incoming frames are read and discarded so ping/pong keeps working.
//
// Session Integration:
//
// Clients pick a session with the ?session= query parameter. Updates are
// delivered only to clients of the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	server := api.NewServer(gameService, hub)
//
// The hub satisfies api.Notifier, so every state change made through the
// REST API reaches connected clients.
package websocket
