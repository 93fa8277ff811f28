// Package api provides the HTTP REST API for the 2048 game server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"layout_id": "classic"}, optional)
//   - GET /api/sessions - List sessions (?sort=accessed|created|score&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/start - Spawn the starting tiles and begin play
//   - POST /api/sessions/{id}/restart - Back to the initial layout, idle
//   - POST /api/sessions/{id}/move - {"direction": "left"}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["left", "up"]}
//   - GET /api/sessions/{id}/history - Move history (?page=&limit=&order=)
//
// Layouts:
//   - GET /api/layouts - List starting layouts
//   - POST /api/layouts - Save a layout
//   - GET /api/layouts/{name} - Get a layout
//
// Other:
//   - GET /healthz - Liveness
//   - GET /ws?session={id} - WebSocket state stream
//
// Directions are left, right, up and down in any case; the browser key
// names ArrowLeft and friends are accepted too.
//
// Move responses carry success, game_state, events and a step record
// (dir, score_before, score_after, merges, spawned, max_tile, status). A move
// that does not change the board returns 200 with success false.
//
// Bulk move responses add requested_moves, moves_executed, steps,
// stop_reason_code (no_change|not_playing|win|lose|invalid_direction),
// stopped_on_move (1-based), truncated/limit and score_delta.
//
// Error Handling:
//
// Errors are returned as JSON with a matching HTTP status:
//
//	{"error": "session ab12: session not found"}
//
// After every state change the server calls each registered Notifier, which
// is how the websocket hub and the NATS publisher see updates.
package api
