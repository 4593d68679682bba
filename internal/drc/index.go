// Package drc provides minimum-clearance checks against existing via
// positions using a nearest-neighbor index.
package drc

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"via-stitcher/pkg/geometry"
)

// Index answers "is anything within radius r of this point" queries over a
// growing set of 2D positions.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// NewIndex builds an index over the given points.
func NewIndex(points []geometry.Point2D) *Index {
	pts := make(kdtree.Points, len(points))
	for i, p := range points {
		pts[i] = kdtree.Point{p.X, p.Y}
	}
	return &Index{
		tree: kdtree.New(pts, false),
		n:    len(points),
	}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int {
	return ix.n
}

// Insert adds a point to the index.
func (ix *Index) Insert(p geometry.Point2D) {
	ix.tree.Insert(kdtree.Point{p.X, p.Y}, false)
	ix.n++
}

// TooClose reports whether any indexed point lies strictly closer than r
// to p. Points at exactly distance r do not count as too close.
func (ix *Index) TooClose(p geometry.Point2D, r float64) bool {
	if ix.n == 0 {
		return false
	}
	// kdtree.Point.Distance is the squared Euclidean distance.
	_, distSq := ix.tree.Nearest(kdtree.Point{p.X, p.Y})
	return distSq < r*r
}

// NearestDistance returns the distance from p to the closest indexed point,
// or +Inf if the index is empty.
func (ix *Index) NearestDistance(p geometry.Point2D) float64 {
	if ix.n == 0 {
		return math.Inf(1)
	}
	_, distSq := ix.tree.Nearest(kdtree.Point{p.X, p.Y})
	return math.Sqrt(distSq)
}
