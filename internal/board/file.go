package board

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileVersion is the current .vsboard document version.
const FileVersion = 1

// File is the on-disk representation of a board document (.vsboard).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Nets   []Net    `json:"nets"`
	Zones  []*Zone  `json:"zones"`
	Vias   []*Via   `json:"vias,omitempty"`
	Groups []*Group `json:"groups,omitempty"`
}

// Load reads a board document from a .vsboard file.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Version > FileVersion {
		return nil, fmt.Errorf("unsupported board file version %d", f.Version)
	}

	b := New(f.Name)
	for _, n := range f.Nets {
		if n.Name != "" {
			b.AddNet(n.Name)
		}
	}
	for _, z := range f.Zones {
		b.AddZone(z)
	}
	for _, v := range f.Vias {
		restored := b.AddVia(v.Position, v.Diameter, v.Drill, v.NetCode)
		// Preserve the stored ID so group membership survives the round trip.
		b.mu.Lock()
		delete(b.vias, restored.ID)
		restored.ID = v.ID
		b.vias[v.ID] = restored
		b.viaIDs[len(b.viaIDs)-1] = v.ID
		b.mu.Unlock()
	}
	for _, g := range f.Groups {
		b.AddGroup(g.Name, g.ViaIDs)
	}
	return b, nil
}

// Save writes the board document to a .vsboard file.
func (b *Board) Save(path string) error {
	b.mu.RLock()
	f := File{
		Version:  FileVersion,
		Name:     b.Name,
		Modified: time.Now(),
		Nets:     append([]Net(nil), b.nets...),
		Zones:    append([]*Zone(nil), b.zones...),
		Groups:   append([]*Group(nil), b.groups...),
	}
	for _, id := range b.viaIDs {
		f.Vias = append(f.Vias, b.vias[id])
	}
	b.mu.RUnlock()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
