// Package app provides application lifecycle management, state, and events.
package app

import (
	"fmt"
	"sync"

	"via-stitcher/internal/board"
	"via-stitcher/internal/stitch"
	"via-stitcher/ui/prefs"
)

// State holds the application state: the open board document, the current
// stitch settings, and the UI event bus.
type State struct {
	mu sync.RWMutex

	// Document
	BoardPath string
	Board     *board.Board
	Modified  bool

	// Current stitch settings, seeded from preferences
	Params stitch.Params

	// Zone selection (IDs)
	selected map[string]bool

	Prefs *prefs.Prefs

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventBoardLoaded EventType = iota
	EventBoardSaved
	EventViasChanged
	EventSelectionChanged
	EventParamsChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with an empty board.
func NewState(p *prefs.Prefs) *State {
	return &State{
		Board:     board.New("untitled"),
		Params:    p.StitchParams(),
		Prefs:     p,
		selected:  make(map[string]bool),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// LoadBoard opens a board document from the specified path.
func (s *State) LoadBoard(path string) error {
	b, err := board.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Board = b
	s.BoardPath = path
	s.Modified = false
	s.selected = make(map[string]bool)
	s.mu.Unlock()

	s.Emit(EventBoardLoaded, path)
	return nil
}

// SaveBoard writes the board document to the specified path.
func (s *State) SaveBoard(path string) error {
	s.mu.RLock()
	b := s.Board
	s.mu.RUnlock()

	if err := b.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.BoardPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventBoardSaved, path)
	return nil
}

// SetParams replaces the current stitch settings and persists them.
func (s *State) SetParams(p stitch.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.Params = p
	s.mu.Unlock()

	s.Prefs.SetStitchParams(p)
	if err := s.Prefs.Save(); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	s.Emit(EventParamsChanged, p)
	return nil
}

// CurrentParams returns a copy of the current stitch settings.
func (s *State) CurrentParams() stitch.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Params
}

// SetZoneSelected toggles a zone in the current selection.
func (s *State) SetZoneSelected(zoneID string, selected bool) {
	s.mu.Lock()
	if selected {
		s.selected[zoneID] = true
	} else {
		delete(s.selected, zoneID)
	}
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, zoneID)
}

// ClearSelection deselects all zones.
func (s *State) ClearSelection() {
	s.mu.Lock()
	s.selected = make(map[string]bool)
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, nil)
}

// ZoneSelected reports whether a zone is selected.
func (s *State) ZoneSelected(zoneID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[zoneID]
}

// SelectedZones returns the selected zones in document order. With nothing
// selected it returns all zones, matching the convention of stitching the
// whole board by default.
func (s *State) SelectedZones() []*board.Zone {
	s.mu.RLock()
	sel := make(map[string]bool, len(s.selected))
	for id := range s.selected {
		sel[id] = true
	}
	b := s.Board
	s.mu.RUnlock()

	zones := b.Zones()
	if len(sel) == 0 {
		return zones
	}
	var out []*board.Zone
	for _, z := range zones {
		if sel[z.ID] {
			out = append(out, z)
		}
	}
	return out
}

// Stitch runs the via stitcher over the selected zones with the current
// settings and marks the document modified.
func (s *State) Stitch() (*stitch.Result, error) {
	zones := s.SelectedZones()
	if len(zones) == 0 {
		return nil, fmt.Errorf("board has no zones")
	}

	s.mu.RLock()
	runner := stitch.NewRunner(s.Board)
	params := s.Params
	s.mu.RUnlock()

	res, err := runner.Stitch(zones, params)
	if err != nil {
		return nil, err
	}
	if res.Created > 0 {
		s.SetModified(true)
		s.Emit(EventViasChanged, res)
	}
	return res, nil
}

// Clear removes stitched vias from the selected zones with the current
// settings and marks the document modified.
func (s *State) Clear() (int, error) {
	zones := s.SelectedZones()
	if len(zones) == 0 {
		return 0, fmt.Errorf("board has no zones")
	}

	s.mu.RLock()
	runner := stitch.NewRunner(s.Board)
	params := s.Params
	s.mu.RUnlock()

	removed, err := runner.Clear(zones, params)
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		s.SetModified(true)
		s.Emit(EventViasChanged, removed)
	}
	return removed, nil
}
