package stitch

import (
	"fmt"
	"hash/fnv"
	"math"

	"via-stitcher/internal/drc"
	"via-stitcher/pkg/geometry"
)

// pitchTol absorbs floating-point loss in exact-pitch packings: a staggered
// layout with equal pitches places neighbors at mathematically exactly the
// spacing distance.
const pitchTol = 1e-9

// jitterFraction is the maximum candidate perturbation relative to pitch.
const jitterFraction = 0.2

// PlanSpec is the pure-geometry input to Plan. Distances are in the same
// units as the outline coordinates.
type PlanSpec struct {
	HSpacing float64 // horizontal center-to-center pitch, > 0
	VSpacing float64 // vertical center-to-center pitch, > 0
	HOffset  float64 // grid origin shift
	VOffset  float64

	// EdgeClearance is the minimum distance from a candidate center to any
	// boundary edge (outer ring or hole ring), >= 0.
	EdgeClearance float64

	Pattern Pattern
	Jitter  bool
}

// Plan computes via center positions inside the outline.
//
// Candidates are generated by the selected pattern over the outer ring's
// bounding box and accepted when they lie inside the outer ring, outside
// every hole, at least EdgeClearance from every boundary edge, and at least
// the pitch away from every previously accepted point. Candidates are
// visited in a fixed scan order, so identical inputs always produce the
// identical sequence.
//
// An empty result means the zone is valid but too small for any via at the
// given spacing and clearance; it is not an error.
func Plan(outline geometry.Polygon, spec PlanSpec) ([]geometry.Point2D, error) {
	if spec.HSpacing <= 0 || spec.VSpacing <= 0 {
		return nil, fmt.Errorf("%w: spacing must be positive, got %gx%g",
			ErrInvalidParameters, spec.HSpacing, spec.VSpacing)
	}
	if spec.EdgeClearance < 0 {
		return nil, fmt.Errorf("%w: edge clearance must not be negative, got %g",
			ErrInvalidParameters, spec.EdgeClearance)
	}
	if len(outline.Outer) < 3 {
		return nil, fmt.Errorf("%w: boundary has %d points, need at least 3",
			ErrInvalidParameters, len(outline.Outer))
	}
	if outline.Outer.Area() == 0 {
		return nil, fmt.Errorf("%w: outer ring encloses no area", ErrDegenerateBoundary)
	}
	if spec.Pattern == "" {
		spec.Pattern = PatternGrid
	}
	if _, err := ParsePattern(string(spec.Pattern)); err != nil {
		return nil, err
	}

	pl := &planner{
		outline:  outline,
		spec:     spec,
		bbox:     outline.BoundingBox(),
		minPitch: math.Min(spec.HSpacing, spec.VSpacing),
		index:    drc.NewIndex(nil),
	}

	switch spec.Pattern {
	case PatternStaggered:
		pl.scanStaggered()
	case PatternBoundary:
		pl.scanBoundary()
	case PatternSpiral:
		pl.scanSpiral()
	default:
		pl.scanGrid()
	}
	return pl.accepted, nil
}

// planner carries the acceptance state for one Plan call.
type planner struct {
	outline  geometry.Polygon
	spec     PlanSpec
	bbox     geometry.Rect
	minPitch float64

	index    *drc.Index
	accepted []geometry.Point2D
}

// accept runs the candidate through the containment, clearance, and pitch
// tests, recording it when all pass.
func (pl *planner) accept(p geometry.Point2D) {
	if !pl.outline.Contains(p) {
		return
	}
	if pl.spec.EdgeClearance > 0 && pl.outline.EdgeDistance(p) < pl.spec.EdgeClearance-pitchTol {
		return
	}
	if pl.index.TooClose(p, pl.minPitch*(1-pitchTol)) {
		return
	}
	pl.index.Insert(p)
	pl.accepted = append(pl.accepted, p)
}

// gridOrigin returns the first candidate position: inset from the bounding
// box corner by the clearance plus half a pitch, then shifted by the
// configured offsets.
func (pl *planner) gridOrigin() geometry.Point2D {
	return geometry.Point2D{
		X: pl.bbox.X + pl.spec.EdgeClearance + pl.spec.HSpacing/2 + pl.spec.HOffset,
		Y: pl.bbox.Y + pl.spec.EdgeClearance + pl.spec.VSpacing/2 + pl.spec.VOffset,
	}
}

// scanGrid visits a square grid row-major, top-left to bottom-right.
func (pl *planner) scanGrid() {
	origin := pl.gridOrigin()
	maxX := pl.bbox.X + pl.bbox.Width
	maxY := pl.bbox.Y + pl.bbox.Height

	for row := 0; ; row++ {
		y := origin.Y + float64(row)*pl.spec.VSpacing
		if y > maxY {
			break
		}
		for col := 0; ; col++ {
			x := origin.X + float64(col)*pl.spec.HSpacing
			if x > maxX {
				break
			}
			pl.accept(pl.jitter(geometry.Point2D{X: x, Y: y}, row, col))
		}
	}
}

// scanStaggered visits a hexagonally packed grid: rows are vSpacing*sqrt(3)/2
// apart and every other row is shifted by half the horizontal pitch, so
// equal pitches give each point six neighbors at exactly the spacing.
func (pl *planner) scanStaggered() {
	origin := pl.gridOrigin()
	rowPitch := pl.spec.VSpacing * math.Sqrt(3) / 2
	maxX := pl.bbox.X + pl.bbox.Width
	maxY := pl.bbox.Y + pl.bbox.Height

	for row := 0; ; row++ {
		y := origin.Y + float64(row)*rowPitch
		if y > maxY {
			break
		}
		shift := 0.0
		if row%2 == 1 {
			shift = pl.spec.HSpacing / 2
		}
		for col := 0; ; col++ {
			x := origin.X + shift + float64(col)*pl.spec.HSpacing
			if x > maxX {
				break
			}
			pl.accept(pl.jitter(geometry.Point2D{X: x, Y: y}, row, col))
		}
	}
}

// scanBoundary walks the outer ring's perimeter, sampling every hSpacing of
// arc length and pushing each sample inward, perpendicular to its edge, by
// the clearance.
func (pl *planner) scanBoundary() {
	ring := pl.outline.Outer
	n := len(ring)
	carry := 0.0
	sample := 0

	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		edgeLen := a.Distance(b)
		if edgeLen == 0 {
			continue
		}
		dx := (b.X - a.X) / edgeLen
		dy := (b.Y - a.Y) / edgeLen

		t := carry
		for ; t < edgeLen; t += pl.spec.HSpacing {
			on := geometry.Point2D{X: a.X + dx*t, Y: a.Y + dy*t}
			if c, ok := pl.inward(on, dx, dy); ok {
				pl.accept(pl.jitter(c, 0, sample))
			}
			sample++
		}
		carry = t - edgeLen
	}
}

// inward offsets a boundary sample perpendicular to the edge direction
// (dx, dy), picking the side that lands inside the copper.
func (pl *planner) inward(on geometry.Point2D, dx, dy float64) (geometry.Point2D, bool) {
	off := pl.spec.EdgeClearance
	if off == 0 {
		off = pl.minPitch / 2
	}
	left := geometry.Point2D{X: on.X - dy*off, Y: on.Y + dx*off}
	if pl.outline.Contains(left) {
		return left, true
	}
	right := geometry.Point2D{X: on.X + dy*off, Y: on.Y - dx*off}
	if pl.outline.Contains(right) {
		return right, true
	}
	return geometry.Point2D{}, false
}

// scanSpiral winds an Archimedean spiral outward from the bounding box
// center until it leaves the box.
func (pl *planner) scanSpiral() {
	center := pl.bbox.Center()
	maxRadius := pl.bbox.MinDimension()/2 + pl.minPitch

	// First candidate sits at the center itself.
	sample := 0
	pl.accept(pl.jitter(center, 0, sample))

	theta := 0.0
	for {
		radius := pl.spec.EdgeClearance + pl.spec.HSpacing*theta/(2*math.Pi)
		if radius > maxRadius {
			break
		}
		sample++
		p := geometry.Point2D{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		}
		pl.accept(pl.jitter(p, 0, sample))

		// Advance by roughly one pitch of arc length.
		theta += pl.spec.HSpacing / math.Max(radius, pl.spec.HSpacing)
	}
}

// jitter perturbs a candidate by up to jitterFraction of the pitch. The
// offset is a pure function of the candidate's grid cell, so planning stays
// reproducible run to run.
func (pl *planner) jitter(p geometry.Point2D, row, col int) geometry.Point2D {
	if !pl.spec.Jitter {
		return p
	}
	return geometry.Point2D{
		X: p.X + (cellNoise(row, col, 0)*2-1)*jitterFraction*pl.spec.HSpacing,
		Y: p.Y + (cellNoise(row, col, 1)*2-1)*jitterFraction*pl.spec.VSpacing,
	}
}

// cellNoise hashes a grid cell and axis to a float in [0, 1).
func cellNoise(row, col, axis int) float64 {
	h := fnv.New64a()
	var buf [24]byte
	putInt64(buf[0:8], int64(row))
	putInt64(buf[8:16], int64(col))
	putInt64(buf[16:24], int64(axis))
	h.Write(buf[:])
	return float64(h.Sum64()>>11) / float64(1<<53)
}

func putInt64(b []byte, v int64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
