package stitch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"via-stitcher/internal/board"
	"via-stitcher/pkg/geometry"
)

func testBoard(t *testing.T) (*board.Board, *board.Zone) {
	t.Helper()
	b := board.New("test")
	gnd := b.AddNet("GND")
	b.AddNet("VCC")

	z := &board.Zone{
		Layer:   "F.Cu",
		NetCode: gnd.Code,
		Outline: geometry.NewPolygon(squareRing(0, 0, 10)),
	}
	b.AddZone(z)
	return b, z
}

func fixedClock(r *Runner) {
	stamp := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	r.now = func() time.Time { return stamp }
}

func stitchParams() Params {
	p := DefaultParams()
	p.HSpacing = 2
	p.VSpacing = 2
	p.EdgeClearance = 0.5
	return p
}

func TestStitchCreatesVias(t *testing.T) {
	b, z := testBoard(t)
	r := NewRunner(b)
	fixedClock(r)

	res, err := r.Stitch([]*board.Zone{z}, stitchParams())
	require.NoError(t, err)

	// 10x10 zone, pitch 2, center clearance 0.5+0.3=0.8.
	assert.Equal(t, res.Created, b.ViaCount())
	assert.Positive(t, res.Created)
	assert.Zero(t, res.Rejected)
	assert.Equal(t, res.Candidates, res.Created)

	gnd, _ := b.NetByName("GND")
	for _, v := range b.Vias() {
		assert.Equal(t, gnd.Code, v.NetCode)
		assert.InDelta(t, 0.6, v.Diameter, 1e-9)
		assert.InDelta(t, 0.3, v.Drill, 1e-9)
		assert.True(t, z.Contains(v.Position))
	}
}

func TestStitchGroupsPerNet(t *testing.T) {
	b, z := testBoard(t)
	vcc, _ := b.NetByName("VCC")
	z2 := &board.Zone{
		Layer:   "B.Cu",
		NetCode: vcc.Code,
		Outline: geometry.NewPolygon(squareRing(20, 0, 10)),
	}
	b.AddZone(z2)

	r := NewRunner(b)
	fixedClock(r)

	p := stitchParams()
	p.UseZoneNet = true
	res, err := r.Stitch([]*board.Zone{z, z2}, p)
	require.NoError(t, err)

	require.Len(t, res.Groups, 2)
	assert.Contains(t, res.Groups[0], "ViaStitching - GND_")
	assert.Contains(t, res.Groups[1], "ViaStitching - VCC_")

	groups := b.Groups()
	require.Len(t, groups, 2)
	total := len(groups[0].ViaIDs) + len(groups[1].ViaIDs)
	assert.Equal(t, res.Created, total)
	assert.Equal(t, res.PerNet["GND"], len(groups[0].ViaIDs))
	assert.Equal(t, res.PerNet["VCC"], len(groups[1].ViaIDs))
}

func TestStitchGroupNameCollision(t *testing.T) {
	b, z := testBoard(t)
	gnd, _ := b.NetByName("GND")
	z2 := &board.Zone{
		Layer:   "B.Cu",
		NetCode: gnd.Code,
		Outline: geometry.NewPolygon(squareRing(20, 0, 10)),
	}
	b.AddZone(z2)

	r := NewRunner(b)
	fixedClock(r)

	first, err := r.Stitch([]*board.Zone{z}, stitchParams())
	require.NoError(t, err)
	require.Len(t, first.Groups, 1)

	// Same frozen clock, same net: the second run must uniquify its
	// group name.
	second, err := r.Stitch([]*board.Zone{z2}, stitchParams())
	require.NoError(t, err)
	require.Len(t, second.Groups, 1)
	assert.Equal(t, first.Groups[0]+"_1", second.Groups[0])
}

func TestStitchAvoidsExistingVias(t *testing.T) {
	b, z := testBoard(t)
	r := NewRunner(b)
	fixedClock(r)

	params := stitchParams()
	first, err := r.Stitch([]*board.Zone{z}, params)
	require.NoError(t, err)
	require.Positive(t, first.Created)

	// A second pass finds every position occupied.
	second, err := r.Stitch([]*board.Zone{z}, params)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, second.Candidates, second.Rejected)
	assert.Equal(t, first.Created, b.ViaCount())
}

func TestStitchUnknownNet(t *testing.T) {
	b, z := testBoard(t)
	r := NewRunner(b)

	p := stitchParams()
	p.NetName = "AGND"
	_, err := r.Stitch([]*board.Zone{z}, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AGND")
	assert.Zero(t, b.ViaCount(), "failed run must not mutate the board")
}

func TestStitchInvalidParams(t *testing.T) {
	b, z := testBoard(t)
	r := NewRunner(b)

	p := stitchParams()
	p.DrillSize = p.ViaSize // drill must stay below via size
	_, err := r.Stitch([]*board.Zone{z}, p)
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestStitchNoZones(t *testing.T) {
	b, _ := testBoard(t)
	r := NewRunner(b)
	_, err := r.Stitch(nil, stitchParams())
	assert.Error(t, err)
}

func TestClearRemovesStitchedVias(t *testing.T) {
	b, z := testBoard(t)
	gnd, _ := b.NetByName("GND")

	// A manually placed via on the same net, inside the zone.
	manual := b.AddVia(geometry.Point2D{X: 5, Y: 5}, 0.8, 0.4, gnd.Code)

	r := NewRunner(b)
	fixedClock(r)

	res, err := r.Stitch([]*board.Zone{z}, stitchParams())
	require.NoError(t, err)
	require.Positive(t, res.Created)

	removed, err := r.Clear([]*board.Zone{z}, stitchParams())
	require.NoError(t, err)
	assert.Equal(t, res.Created, removed)

	// The manual via survives and the stitching groups are gone.
	require.Equal(t, 1, b.ViaCount())
	assert.NotNil(t, b.Via(manual.ID))
	assert.Empty(t, b.Groups())
}

func TestClearAllNetVias(t *testing.T) {
	b, z := testBoard(t)
	gnd, _ := b.NetByName("GND")
	vcc, _ := b.NetByName("VCC")

	b.AddVia(geometry.Point2D{X: 5, Y: 5}, 0.8, 0.4, gnd.Code)
	b.AddVia(geometry.Point2D{X: 6, Y: 6}, 0.8, 0.4, vcc.Code)
	outside := b.AddVia(geometry.Point2D{X: 50, Y: 50}, 0.8, 0.4, gnd.Code)

	r := NewRunner(b)
	p := stitchParams()
	p.ClearPluginOnly = false

	removed, err := r.Clear([]*board.Zone{z}, p)
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "only the in-zone GND via goes")
	assert.NotNil(t, b.Via(outside.ID))
}
