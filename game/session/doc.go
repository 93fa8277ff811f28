// Package session provides in-memory session management for 2048 games.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session expiry by inactivity
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine.GameEngine, built from the
// starting layout it was created with, plus creation and last access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated from
// crypto/rand. Lookups are case-insensitive.
//
// Concurrency:
//
// The manager guards its session map with a sync.RWMutex. It does not lock
// individual engines; the game service serializes operations on them.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", layout)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for more than a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Sessions live only in memory and are lost when the process exits.
package session
