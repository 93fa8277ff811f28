// Package nats publishes 2048 game state changes to a NATS broker.
//
// Every change made through the REST API (start, restart, move) becomes one
// JSON Envelope on the subject <prefix>.<session>.state:
//
//	{"id": "uuid", "session_id": "ab12", "event": "move", "timestamp": 1700000000000, "game_state": {...}}
//
// Subscribers can follow one session or all of them with a wildcard such as
// game2048.sessions.*.state.
//
// Usage:
//
//	pub, err := nats.Connect("nats://localhost:4222", "game2048.sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pub.Close()
//
//	server := api.NewServer(gameService, hub, pub)
package nats
