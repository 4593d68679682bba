package board

import (
	"via-stitcher/pkg/geometry"
)

// Zone represents a filled copper region. Its outline polygon (outer ring
// plus optional hole rings) is the boundary used for via placement.
type Zone struct {
	ID      string           `json:"id"`
	Layer   string           `json:"layer"` // e.g. "F.Cu", "B.Cu"
	NetCode int              `json:"net_code"`
	Outline geometry.Polygon `json:"outline"`
}

// BoundingBox returns the bounding box of the zone outline.
func (z *Zone) BoundingBox() geometry.Rect {
	return z.Outline.BoundingBox()
}

// Contains tests whether a point lies inside the zone copper
// (inside the outer ring, outside every hole).
func (z *Zone) Contains(p geometry.Point2D) bool {
	return z.Outline.Contains(p)
}

// Via represents a plated through-hole via.
type Via struct {
	ID       string           `json:"id"`
	Position geometry.Point2D `json:"position"`
	Diameter float64          `json:"diameter"` // outer pad diameter, mm
	Drill    float64          `json:"drill"`    // drill diameter, mm
	NetCode  int              `json:"net_code"`
}

// Group is a named collection of vias, mirroring the host editor's
// group objects so stitched vias can be selected and cleared together.
type Group struct {
	Name   string   `json:"name"`
	ViaIDs []string `json:"via_ids"`
}

// Contains reports whether the group holds the given via ID.
func (g *Group) Contains(viaID string) bool {
	for _, id := range g.ViaIDs {
		if id == viaID {
			return true
		}
	}
	return false
}

// RemoveMember drops a via ID from the group if present.
func (g *Group) RemoveMember(viaID string) bool {
	for i, id := range g.ViaIDs {
		if id == viaID {
			g.ViaIDs = append(g.ViaIDs[:i], g.ViaIDs[i+1:]...)
			return true
		}
	}
	return false
}
