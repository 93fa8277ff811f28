package nats

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

type published struct {
	subject string
	data    []byte
}

// fakeConn records published messages
type fakeConn struct {
	messages   []published
	publishErr error
	drained    bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.messages = append(f.messages, published{subject: subject, data: data})
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNewPublisher_Prefix(t *testing.T) {
	tests := []struct {
		prefix   string
		expected string
	}{
		{"", "game2048.sessions.ab12.state"},
		{"arcade", "arcade.ab12.state"},
		{".arcade.games.", "arcade.games.ab12.state"},
	}

	for _, test := range tests {
		t.Run(test.prefix, func(t *testing.T) {
			p := NewPublisher(&fakeConn{}, test.prefix)
			if got := p.Subject("AB12"); got != test.expected {
				t.Errorf("Expected subject %s, got %s", test.expected, got)
			}
		})
	}
}

func TestPublisher_Publish(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, "")
	p.now = func() time.Time { return time.UnixMilli(1700000000123) }

	state := &engine.GameState{
		Grid:   engine.Grid{{4, 0, 0, 0}},
		Score:  4,
		Status: engine.StatusPlaying,
	}

	if err := p.Publish("ab12", "move", state); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(conn.messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(conn.messages))
	}
	msg := conn.messages[0]
	if msg.subject != "game2048.sessions.ab12.state" {
		t.Errorf("Unexpected subject %s", msg.subject)
	}

	var envelope Envelope
	if err := json.Unmarshal(msg.data, &envelope); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if _, err := uuid.Parse(envelope.ID); err != nil {
		t.Errorf("Expected a UUID envelope id, got %q", envelope.ID)
	}
	if envelope.SessionID != "ab12" || envelope.Event != "move" {
		t.Errorf("Unexpected envelope: %+v", envelope)
	}
	if envelope.Timestamp != 1700000000123 {
		t.Errorf("Unexpected timestamp %d", envelope.Timestamp)
	}
	if envelope.GameState.Grid[0][0] != 4 || envelope.GameState.Status != engine.StatusPlaying {
		t.Error("Game state not carried in envelope")
	}
}

func TestPublisher_UniqueIDs(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, "")

	p.Notify("ab12", "start", &engine.GameState{})
	p.Notify("ab12", "move", &engine.GameState{})

	var a, b Envelope
	json.Unmarshal(conn.messages[0].data, &a)
	json.Unmarshal(conn.messages[1].data, &b)
	if a.ID == b.ID {
		t.Error("Expected distinct envelope ids")
	}
}

func TestPublisher_PublishError(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("connection closed")}
	p := NewPublisher(conn, "")

	err := p.Publish("ab12", "move", &engine.GameState{})
	if err == nil || !errors.Is(err, conn.publishErr) {
		t.Errorf("Expected wrapped publish error, got %v", err)
	}

	// Notify swallows the error
	p.Notify("ab12", "move", &engine.GameState{})
}

func TestPublisher_Close(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, "")
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !conn.drained {
		t.Error("Expected connection to be drained")
	}
}
