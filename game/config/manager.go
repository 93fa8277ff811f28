package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

var (
	// ErrLayoutNotFound matches service.ErrLayoutNotFound with errors.Is
	ErrLayoutNotFound = service.ErrLayoutNotFound
	ErrInvalidLayout  = errors.New("invalid layout")
)

// DefaultLayoutName is the layout preferred as the default
const DefaultLayoutName = "classic"

// layoutExtensions are tried in order when resolving a layout name
var layoutExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles starting layout loading and caching
type Manager struct {
	layoutDir     string
	defaultLayout *engine.Layout
	defaultID     string // empty when the built-in board is the default
	layouts       map[string]*engine.Layout
	mu            sync.RWMutex
}

// NewManager creates a new layout manager
func NewManager(layoutDir string) (*Manager, error) {
	if _, err := os.Stat(layoutDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("layout directory does not exist: %s", layoutDir)
	}

	m := &Manager{
		layoutDir: layoutDir,
		layouts:   make(map[string]*engine.Layout),
	}

	m.loadDefaultLayout()

	return m, nil
}

// LoadLayout loads a layout by name; the name may carry its file extension
func (m *Manager) LoadLayout(name string) (*engine.Layout, error) {
	id := layoutID(name)

	m.mu.RLock()
	if layout, exists := m.layouts[id]; exists {
		m.mu.RUnlock()
		return layout, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if layout, exists := m.layouts[id]; exists {
		return layout, nil
	}

	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	layout, err := engine.ParseLayout(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	if err := engine.ValidateLayout(layout); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}

	m.layouts[id] = layout
	return layout, nil
}

// ListLayouts returns information about all valid layouts in the directory
func (m *Manager) ListLayouts() ([]*service.LayoutInfo, error) {
	entries, err := os.ReadDir(m.layoutDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout directory: %w", err)
	}

	var layouts []*service.LayoutInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !hasLayoutExtension(entry.Name()) {
			continue
		}

		id := layoutID(entry.Name())
		if seen[id] {
			continue
		}

		layout, err := m.LoadLayout(entry.Name())
		if err != nil {
			// Skip invalid layouts
			continue
		}
		seen[id] = true

		info := &service.LayoutInfo{
			Filename:    entry.Name(),
			LayoutID:    id,
			Name:        layout.Name,
			Description: layout.Description,
		}
		if g, err := engine.GridFromRows(layout.Grid); err == nil {
			info.Tiles = engine.Size*engine.Size - engine.CountEmpty(g)
			info.MaxTile = engine.MaxTile(g)
		}
		layouts = append(layouts, info)
	}

	sort.Slice(layouts, func(i, j int) bool {
		return layouts[i].LayoutID < layouts[j].LayoutID
	})

	return layouts, nil
}

// GetDefault returns the default layout
func (m *Manager) GetDefault() *engine.Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLayout
}

// RefreshCache drops cached layouts and re-reads the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.layouts = make(map[string]*engine.Layout)
	m.mu.Unlock()

	m.loadDefaultLayout()
}

// SaveLayout validates a layout and writes it to disk as JSON
func (m *Manager) SaveLayout(name string, layout *engine.Layout) error {
	if err := engine.ValidateLayout(layout); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}

	id := layoutID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || id == ".." {
		return fmt.Errorf("%w: bad layout name %q", ErrInvalidLayout, name)
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	path := filepath.Join(m.layoutDir, id+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}

	m.mu.Lock()
	m.layouts[id] = layout
	if id == m.defaultID || id == DefaultLayoutName {
		m.defaultLayout = layout
		m.defaultID = id
	}
	m.mu.Unlock()

	return nil
}

// loadDefaultLayout picks classic, else the first valid layout, else the empty board
func (m *Manager) loadDefaultLayout() {
	id := DefaultLayoutName
	layout, err := m.LoadLayout(DefaultLayoutName)
	if err != nil {
		layouts, listErr := m.ListLayouts()
		if listErr == nil && len(layouts) > 0 {
			id = layouts[0].LayoutID
			layout, err = m.LoadLayout(layouts[0].Filename)
		}
	}
	if err != nil || layout == nil {
		id = ""
		layout = createEmptyLayout()
	}

	m.mu.Lock()
	m.defaultLayout = layout
	m.defaultID = id
	m.mu.Unlock()
}

// resolve finds the file backing a layout name
func (m *Manager) resolve(name string) (string, error) {
	if hasLayoutExtension(name) {
		path := filepath.Join(m.layoutDir, filepath.Base(name))
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
		}
		return path, nil
	}

	for _, ext := range layoutExtensions {
		path := filepath.Join(m.layoutDir, filepath.Base(name)+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
}

func hasLayoutExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range layoutExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// layoutID strips any layout extension from a name or filename
func layoutID(name string) string {
	if hasLayoutExtension(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// createEmptyLayout returns the classic empty board
func createEmptyLayout() *engine.Layout {
	return &engine.Layout{
		Name:        DefaultLayoutName,
		Description: "Classic 2048 on an empty board",
	}
}
