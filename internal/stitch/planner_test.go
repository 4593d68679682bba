package stitch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"via-stitcher/pkg/geometry"
)

func squareRing(x, y, size float64) geometry.Ring {
	return geometry.Ring{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func gridSpec(spacing, clearance float64) PlanSpec {
	return PlanSpec{
		HSpacing:      spacing,
		VSpacing:      spacing,
		EdgeClearance: clearance,
		Pattern:       PatternGrid,
	}
}

// checkPlacement asserts the three geometric guarantees: containment,
// edge clearance, and pairwise pitch.
func checkPlacement(t *testing.T, outline geometry.Polygon, points []geometry.Point2D, spacing, clearance float64) {
	t.Helper()
	for i, p := range points {
		assert.Truef(t, outline.Contains(p), "point %d (%v) outside copper", i, p)
		assert.GreaterOrEqualf(t, outline.EdgeDistance(p), clearance-1e-9,
			"point %d (%v) violates edge clearance", i, p)
		for j := i + 1; j < len(points); j++ {
			assert.GreaterOrEqualf(t, p.Distance(points[j]), spacing-1e-9,
				"points %d and %d closer than pitch", i, j)
		}
	}
}

func TestPlanSquareScenario(t *testing.T) {
	// 10x10 square, spacing 2, clearance 0.5: a regular 5x5 grid starting
	// at (1.5, 1.5), everything within [0.5, 9.5] on each axis.
	outline := geometry.NewPolygon(squareRing(0, 0, 10))
	points, err := Plan(outline, gridSpec(2, 0.5))
	require.NoError(t, err)
	require.Len(t, points, 25)

	assert.InDelta(t, 1.5, points[0].X, 1e-9)
	assert.InDelta(t, 1.5, points[0].Y, 1e-9)

	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, 0.5)
		assert.LessOrEqual(t, p.X, 9.5)
		assert.GreaterOrEqual(t, p.Y, 0.5)
		assert.LessOrEqual(t, p.Y, 9.5)
	}

	// Row-major: the second point is one horizontal pitch to the right.
	assert.InDelta(t, 3.5, points[1].X, 1e-9)
	assert.InDelta(t, 1.5, points[1].Y, 1e-9)

	checkPlacement(t, outline, points, 2, 0.5)
}

func TestPlanRespectsHoles(t *testing.T) {
	outline := geometry.Polygon{
		Outer: squareRing(0, 0, 20),
		Holes: []geometry.Ring{squareRing(8, 8, 4)},
	}
	points, err := Plan(outline, gridSpec(2, 0.5))
	require.NoError(t, err)
	require.NotEmpty(t, points)

	hole := outline.Holes[0]
	for _, p := range points {
		assert.False(t, hole.Contains(p), "point %v inside hole", p)
	}
	checkPlacement(t, outline, points, 2, 0.5)
}

func TestPlanDeterministic(t *testing.T) {
	outline := geometry.Polygon{
		Outer: geometry.Ring{
			{X: 0, Y: 0}, {X: 30, Y: 5}, {X: 25, Y: 28}, {X: 3, Y: 22},
		},
		Holes: []geometry.Ring{squareRing(10, 10, 5)},
	}

	for _, pattern := range Patterns() {
		for _, jitter := range []bool{false, true} {
			spec := gridSpec(2, 0.5)
			spec.Pattern = pattern
			spec.Jitter = jitter

			first, err := Plan(outline, spec)
			require.NoError(t, err)
			second, err := Plan(outline, spec)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("pattern %s jitter %v not deterministic (-first +second):\n%s",
					pattern, jitter, diff)
			}
		}
	}
}

func TestPlanTooSmallZoneYieldsEmpty(t *testing.T) {
	// Valid boundary, but smaller than spacing + 2*clearance in both
	// dimensions: no via fits, and that is not an error.
	outline := geometry.NewPolygon(squareRing(0, 0, 1))
	points, err := Plan(outline, gridSpec(2, 0.5))
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestPlanInvalidSpacing(t *testing.T) {
	outline := geometry.NewPolygon(squareRing(0, 0, 10))

	_, err := Plan(outline, gridSpec(0, 0.5))
	assert.ErrorIs(t, err, ErrInvalidParameters)

	_, err = Plan(outline, gridSpec(-1, 0.5))
	assert.ErrorIs(t, err, ErrInvalidParameters)

	_, err = Plan(outline, gridSpec(2, -0.1))
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestPlanTwoPointBoundary(t *testing.T) {
	outline := geometry.NewPolygon(geometry.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}})
	_, err := Plan(outline, gridSpec(2, 0.5))
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestPlanDegenerateBoundary(t *testing.T) {
	// Three collinear points have three vertices but zero area.
	outline := geometry.NewPolygon(geometry.Ring{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
	})
	_, err := Plan(outline, gridSpec(2, 0.5))
	assert.ErrorIs(t, err, ErrDegenerateBoundary)
}

func TestPlanUnknownPattern(t *testing.T) {
	outline := geometry.NewPolygon(squareRing(0, 0, 10))
	spec := gridSpec(2, 0.5)
	spec.Pattern = Pattern("diagonal")
	_, err := Plan(outline, spec)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestPlanStaggered(t *testing.T) {
	outline := geometry.NewPolygon(squareRing(0, 0, 20))
	spec := gridSpec(2, 0.5)
	spec.Pattern = PatternStaggered

	points, err := Plan(outline, spec)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	checkPlacement(t, outline, points, 2, 0.5)

	// Hexagonal packing fits more rows than the square grid.
	gridPoints, err := Plan(outline, gridSpec(2, 0.5))
	require.NoError(t, err)
	assert.Greater(t, len(points), len(gridPoints))
}

func TestPlanBoundary(t *testing.T) {
	outline := geometry.NewPolygon(squareRing(0, 0, 20))
	spec := gridSpec(2, 1)
	spec.Pattern = PatternBoundary

	points, err := Plan(outline, spec)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	checkPlacement(t, outline, points, 2, 1)

	// Boundary points hug the inset outline: all at clearance distance.
	for _, p := range points {
		assert.InDelta(t, 1.0, outline.EdgeDistance(p), 1e-6)
	}
}

func TestPlanSpiral(t *testing.T) {
	outline := geometry.NewPolygon(squareRing(0, 0, 20))
	spec := gridSpec(2, 0.5)
	spec.Pattern = PatternSpiral

	points, err := Plan(outline, spec)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	checkPlacement(t, outline, points, 2, 0.5)

	// Spiral starts at the zone center.
	assert.InDelta(t, 10.0, points[0].X, 1e-9)
	assert.InDelta(t, 10.0, points[0].Y, 1e-9)
}

func TestPlanJitterStaysValid(t *testing.T) {
	outline := geometry.Polygon{
		Outer: squareRing(0, 0, 20),
		Holes: []geometry.Ring{squareRing(4, 4, 3)},
	}
	spec := gridSpec(2, 0.5)
	spec.Jitter = true

	points, err := Plan(outline, spec)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	checkPlacement(t, outline, points, 2, 0.5)

	// Jitter actually moves points off the regular lattice.
	plain, err := Plan(outline, gridSpec(2, 0.5))
	require.NoError(t, err)
	require.NotEmpty(t, plain)
	assert.NotEqual(t, plain[0], points[0])
}

func TestPlanOffsetsShiftOrigin(t *testing.T) {
	outline := geometry.NewPolygon(squareRing(0, 0, 10))
	spec := gridSpec(2, 0.5)
	spec.HOffset = 0.5
	spec.VOffset = 0.25

	points, err := Plan(outline, spec)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	assert.InDelta(t, 2.0, points[0].X, 1e-9)
	assert.InDelta(t, 1.75, points[0].Y, 1e-9)
	checkPlacement(t, outline, points, 2, 0.5)
}

func TestPlanConcaveOutline(t *testing.T) {
	// L-shape: no points may land in the notch.
	outline := geometry.NewPolygon(geometry.Ring{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 20},
	})
	points, err := Plan(outline, gridSpec(2, 0.5))
	require.NoError(t, err)
	require.NotEmpty(t, points)
	checkPlacement(t, outline, points, 2, 0.5)

	for _, p := range points {
		inNotch := p.X > 10 && p.Y > 10
		assert.Falsef(t, inNotch, "point %v in the notch", p)
	}
}
