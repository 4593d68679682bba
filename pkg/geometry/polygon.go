package geometry

import "math"

// Ring is a closed polygon boundary given as an ordered vertex list.
// The closing edge from the last vertex back to the first is implicit.
type Ring []Point2D

// SignedArea returns the signed area of the ring (positive for
// counter-clockwise winding). Uses the shoelace formula.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Area returns the absolute area enclosed by the ring.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// BoundingBox returns the axis-aligned bounding box of the ring.
func (r Ring) BoundingBox() Rect {
	return BoundingBox(r)
}

// Contains tests if a point is inside the ring using ray casting.
func (r Ring) Contains(p Point2D) bool {
	if len(r) < 3 {
		return false
	}

	inside := false
	n := len(r)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := r[i], r[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// EdgeDistance returns the minimum distance from p to any edge of the ring.
func (r Ring) EdgeDistance(p Point2D) float64 {
	if len(r) == 0 {
		return math.Inf(1)
	}
	if len(r) == 1 {
		return p.Distance(r[0])
	}

	minDist := math.Inf(1)
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		d := PointSegmentDistance(p, r[i], r[j])
		if d < minDist {
			minDist = d
		}
	}
	return minDist
}

// IsConvex returns true if the ring vertices form a convex polygon.
// The ring is assumed to be simple (non-self-intersecting).
func (r Ring) IsConvex() bool {
	if len(r) < 3 {
		return false
	}

	n := len(r)
	var sign int

	for i := 0; i < n; i++ {
		cross := crossProduct(r[i], r[(i+1)%n], r[(i+2)%n])

		if cross != 0 {
			currentSign := 1
			if cross < 0 {
				currentSign = -1
			}

			if sign == 0 {
				sign = currentSign
			} else if currentSign != sign {
				return false
			}
		}
	}

	return true
}

// Polygon is a multiply-connected region: an outer ring plus zero or more
// hole rings. Hole rings are assumed to lie strictly inside the outer ring
// and not overlap each other.
type Polygon struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// NewPolygon creates a polygon from an outer ring with no holes.
func NewPolygon(outer Ring) Polygon {
	return Polygon{Outer: outer}
}

// BoundingBox returns the bounding box of the outer ring.
func (pg Polygon) BoundingBox() Rect {
	return pg.Outer.BoundingBox()
}

// Area returns the outer ring area minus the hole areas.
func (pg Polygon) Area() float64 {
	a := pg.Outer.Area()
	for _, h := range pg.Holes {
		a -= h.Area()
	}
	return a
}

// Contains tests if a point is inside the outer ring and outside all holes.
func (pg Polygon) Contains(p Point2D) bool {
	if !pg.Outer.Contains(p) {
		return false
	}
	for _, h := range pg.Holes {
		if h.Contains(p) {
			return false
		}
	}
	return true
}

// EdgeDistance returns the minimum distance from p to any boundary edge,
// considering both the outer ring and every hole ring.
func (pg Polygon) EdgeDistance(p Point2D) float64 {
	minDist := pg.Outer.EdgeDistance(p)
	for _, h := range pg.Holes {
		if d := h.EdgeDistance(p); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// PointSegmentDistance returns the distance from p to the segment a-b.
func PointSegmentDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamping to the endpoints.
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(closest)
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
