// Package service provides the business logic layer for the 2048 game server.
//
// The service package implements:
//   - Multi-session game management
//   - Starting layout loading and saving
//   - Single and bulk move processing with event extraction
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LayoutManager loads, lists and saves starting layouts.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine instance; the service
// holds a lock around every engine call, since engines are not safe for
// concurrent use.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	layoutMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, layoutMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.Start(ctx, info.ID)
//	result, err := gameService.Move(ctx, info.ID, "left")
//
// Bulk Moves:
//
// BulkMove runs up to MaxBulkMoves moves and stops at the first one
// that is rejected or that ends the game. The stop is reported as a machine
// readable code: no_change, not_playing, win, lose or invalid_direction.
package service
