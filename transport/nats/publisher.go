package nats

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// DefaultSubjectPrefix is used when no prefix is configured
const DefaultSubjectPrefix = "game2048.sessions"

// Conn is the part of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Envelope is the JSON payload published for every state change
type Envelope struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Event     string            `json:"event"`
	Timestamp int64             `json:"timestamp"`
	GameState *engine.GameState `json:"game_state"`
}

// Publisher fans game state changes out to a NATS broker
type Publisher struct {
	conn   Conn
	prefix string
	now    func() time.Time
}

// Connect dials the broker and returns a publisher on top of it
func Connect(url, prefix string) (*Publisher, error) {
	opts := []natsgo.Option{
		natsgo.Name("game2048"),
		natsgo.Timeout(10 * time.Second),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.MaxReconnects(5),
	}

	nc, err := natsgo.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return NewPublisher(nc, prefix), nil
}

// NewPublisher wraps an existing connection
func NewPublisher(conn Conn, prefix string) *Publisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		now:    time.Now,
	}
}

// Subject returns the subject state changes of a session are published on
func (p *Publisher) Subject(sessionID string) string {
	return fmt.Sprintf("%s.%s.state", p.prefix, strings.ToLower(sessionID))
}

// Publish sends one envelope for a state change
func (p *Publisher) Publish(sessionID, event string, state *engine.GameState) error {
	envelope := Envelope{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Event:     event,
		Timestamp: p.now().UnixMilli(),
		GameState: state,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if err := p.conn.Publish(p.Subject(sessionID), data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.Subject(sessionID), err)
	}
	return nil
}

// Notify publishes and logs failures; it satisfies api.Notifier
func (p *Publisher) Notify(sessionID, event string, state *engine.GameState) {
	if err := p.Publish(sessionID, event, state); err != nil {
		log.Printf("NATS publish error: %v", err)
	}
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
