// Package board provides the in-memory board document: nets, copper zones,
// vias, and groups. It stands in for the host PCB editor's object model and
// is the write side consumed by the stitch runner.
package board

import (
	"fmt"
	"strings"
	"sync"

	"via-stitcher/pkg/geometry"
)

// Net is an entry in the board's net table.
type Net struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Board holds the complete board document.
type Board struct {
	mu sync.RWMutex

	// Document metadata
	Name string

	// Net table indexed both ways
	nets       []Net
	netsByName map[string]Net

	// Zones in document order
	zones []*Zone

	// Vias indexed by ID
	vias    map[string]*Via
	viaIDs  []string // insertion order
	nextVia int

	// Groups in creation order
	groups []*Group
}

// New creates an empty board document with only the unconnected net.
func New(name string) *Board {
	b := &Board{
		Name:       name,
		netsByName: make(map[string]Net),
		vias:       make(map[string]*Via),
	}
	// Net code 0 is the conventional "no net".
	b.addNetLocked(Net{Code: 0, Name: ""})
	return b
}

func (b *Board) addNetLocked(n Net) {
	b.nets = append(b.nets, n)
	b.netsByName[n.Name] = n
}

// AddNet registers a named net and returns it. Re-adding an existing name
// returns the existing entry.
func (b *Board) AddNet(name string) Net {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n, ok := b.netsByName[name]; ok {
		return n
	}
	n := Net{Code: len(b.nets), Name: name}
	b.addNetLocked(n)
	return n
}

// NetByName looks up a net by name.
func (b *Board) NetByName(name string) (Net, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, ok := b.netsByName[name]
	return n, ok
}

// NetName returns the name for a net code, or "" if unknown.
func (b *Board) NetName(code int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, n := range b.nets {
		if n.Code == code {
			return n.Name
		}
	}
	return ""
}

// Nets returns a copy of the net table.
func (b *Board) Nets() []Net {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Net, len(b.nets))
	copy(out, b.nets)
	return out
}

// NetNames returns all non-empty net names in table order.
func (b *Board) NetNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var names []string
	for _, n := range b.nets {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	return names
}

// AddZone appends a zone to the document.
func (b *Board) AddZone(z *Zone) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if z.ID == "" {
		z.ID = fmt.Sprintf("zone-%03d", len(b.zones)+1)
	}
	b.zones = append(b.zones, z)
}

// Zones returns the zones in document order.
func (b *Board) Zones() []*Zone {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Zone, len(b.zones))
	copy(out, b.zones)
	return out
}

// Zone returns the zone with the given ID, or nil.
func (b *Board) Zone(id string) *Zone {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, z := range b.zones {
		if z.ID == id {
			return z
		}
	}
	return nil
}

// AddVia creates a via at the given position and adds it to the document.
func (b *Board) AddVia(pos geometry.Point2D, diameter, drill float64, netCode int) *Via {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextVia++
	id := fmt.Sprintf("via-%03d", b.nextVia)
	for b.vias[id] != nil {
		b.nextVia++
		id = fmt.Sprintf("via-%03d", b.nextVia)
	}
	v := &Via{
		ID:       id,
		Position: pos,
		Diameter: diameter,
		Drill:    drill,
		NetCode:  netCode,
	}
	b.vias[v.ID] = v
	b.viaIDs = append(b.viaIDs, v.ID)
	return v
}

// Vias returns all vias in insertion order.
func (b *Board) Vias() []*Via {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Via, 0, len(b.viaIDs))
	for _, id := range b.viaIDs {
		out = append(out, b.vias[id])
	}
	return out
}

// Via returns the via with the given ID, or nil.
func (b *Board) Via(id string) *Via {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.vias[id]
}

// ViaCount returns the number of vias on the board.
func (b *Board) ViaCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.vias)
}

// RemoveVia deletes a via and detaches it from any group.
// Returns false if no such via exists.
func (b *Board) RemoveVia(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.vias[id]; !ok {
		return false
	}
	delete(b.vias, id)
	for i, vid := range b.viaIDs {
		if vid == id {
			b.viaIDs = append(b.viaIDs[:i], b.viaIDs[i+1:]...)
			break
		}
	}
	for _, g := range b.groups {
		g.RemoveMember(id)
	}
	return true
}

// AddGroup creates a named group over the given via IDs.
func (b *Board) AddGroup(name string, viaIDs []string) *Group {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := &Group{Name: name, ViaIDs: append([]string(nil), viaIDs...)}
	b.groups = append(b.groups, g)
	return g
}

// Groups returns the groups in creation order.
func (b *Board) Groups() []*Group {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Group, len(b.groups))
	copy(out, b.groups)
	return out
}

// GroupNames returns the names of all groups.
func (b *Board) GroupNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, len(b.groups))
	for i, g := range b.groups {
		names[i] = g.Name
	}
	return names
}

// GroupsWithPrefix returns the groups whose name starts with prefix.
func (b *Board) GroupsWithPrefix(prefix string) []*Group {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Group
	for _, g := range b.groups {
		if strings.HasPrefix(g.Name, prefix) {
			out = append(out, g)
		}
	}
	return out
}

// RemoveEmptyGroups drops groups whose membership has become empty.
// Returns the number of groups removed.
func (b *Board) RemoveEmptyGroups() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.groups[:0]
	removed := 0
	for _, g := range b.groups {
		if len(g.ViaIDs) == 0 {
			removed++
			continue
		}
		kept = append(kept, g)
	}
	b.groups = kept
	return removed
}
