package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func createTestLayout() *engine.Layout {
	return &engine.Layout{
		Name:        "test",
		Description: "Test layout",
		Grid: [][]int{
			{2, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 4, 0},
			{0, 0, 0, 0},
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	layout := createTestLayout()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", layout)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Fatal("Expected engine to be initialized")
		}
		if session.Engine.GetStatus() != engine.StatusIdle {
			t.Errorf("Expected new session to be idle, got %s", session.Engine.GetStatus())
		}
		if session.Engine.GetState()[2][2] != 4 {
			t.Error("Expected engine grid to come from the layout")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", layout)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("nil layout gives empty board", func(t *testing.T) {
		session, err := manager.Create("blank", nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.Engine.GetState() != (engine.Grid{}) {
			t.Error("Expected empty board")
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", layout)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", layout)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid session ID", func(t *testing.T) {
		_, err := manager.Create("has space", layout)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid layout", func(t *testing.T) {
		bad := &engine.Layout{Name: "bad", Grid: [][]int{{3, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}}
		_, err := manager.Create("invalid-test", bad)
		if !errors.Is(err, engine.ErrInvalidGrid) {
			t.Errorf("Expected ErrInvalidGrid, got %v", err)
		}
	})
}

func TestManager_EngineOptions(t *testing.T) {
	manager := NewManager(engine.WithRandom(rand.New(rand.NewPCG(1, 1))))
	other := NewManager(engine.WithRandom(rand.New(rand.NewPCG(1, 1))))

	a, _ := manager.Create("a", nil)
	b, _ := other.Create("b", nil)
	a.Engine.Start()
	b.Engine.Start()

	if a.Engine.GetState() != b.Engine.GetState() {
		t.Error("Expected identically seeded engines to spawn identical starting tiles")
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestLayout())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the same session instance")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("missing")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_ListAndDelete(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("s%d", i), nil); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}

	if err := manager.Delete("S1"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected deleted session to be gone")
	}
	if err := manager.Delete("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if manager.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", manager.Count())
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", nil)

	session.LastAccessedAt = time.Now().Add(-time.Hour)
	before := session.LastAccessedAt

	if err := manager.UpdateLastAccessed("TOUCH"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected last accessed time to advance")
	}

	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	stale, _ := manager.Create("stale", nil)
	manager.Create("fresh", nil)

	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected stale session to be removed")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Error("Expected fresh session to remain")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%02d", i)
			if _, err := manager.Create(id, nil); err != nil {
				t.Errorf("Failed to create session %s: %v", id, err)
				return
			}
			manager.Get(id)
			manager.UpdateLastAccessed(id)
			manager.List()
		}(i)
	}

	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}
