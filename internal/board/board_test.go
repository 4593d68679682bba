package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"via-stitcher/pkg/geometry"
)

func rect(x, y, w, h float64) geometry.Polygon {
	return geometry.NewPolygon(geometry.Ring{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	})
}

func TestNetTable(t *testing.T) {
	b := New("net-test")

	gnd := b.AddNet("GND")
	assert.Equal(t, 1, gnd.Code, "code 0 is reserved for no-net")

	again := b.AddNet("GND")
	assert.Equal(t, gnd, again, "re-adding a net returns the existing entry")

	vcc := b.AddNet("VCC")
	assert.Equal(t, 2, vcc.Code)

	n, ok := b.NetByName("VCC")
	require.True(t, ok)
	assert.Equal(t, vcc, n)

	_, ok = b.NetByName("AGND")
	assert.False(t, ok)

	assert.Equal(t, "GND", b.NetName(1))
	assert.Equal(t, "", b.NetName(99))
	assert.Equal(t, []string{"GND", "VCC"}, b.NetNames())
}

func TestZoneIDs(t *testing.T) {
	b := New("zone-test")
	z1 := &Zone{Layer: "F.Cu", Outline: rect(0, 0, 10, 10)}
	z2 := &Zone{ID: "shield", Layer: "B.Cu", Outline: rect(0, 0, 5, 5)}
	b.AddZone(z1)
	b.AddZone(z2)

	assert.Equal(t, "zone-001", z1.ID)
	assert.Equal(t, "shield", z2.ID, "explicit IDs are kept")
	assert.Same(t, z2, b.Zone("shield"))
	assert.Nil(t, b.Zone("missing"))
	assert.Len(t, b.Zones(), 2)
}

func TestViaLifecycle(t *testing.T) {
	b := New("via-test")

	v1 := b.AddVia(geometry.Point2D{X: 1, Y: 1}, 0.6, 0.3, 1)
	v2 := b.AddVia(geometry.Point2D{X: 2, Y: 2}, 0.6, 0.3, 1)
	assert.Equal(t, "via-001", v1.ID)
	assert.Equal(t, "via-002", v2.ID)
	assert.Equal(t, 2, b.ViaCount())

	b.AddGroup("pair", []string{v1.ID, v2.ID})

	require.True(t, b.RemoveVia(v1.ID))
	assert.False(t, b.RemoveVia(v1.ID), "second removal is a no-op")
	assert.Nil(t, b.Via(v1.ID))
	assert.Equal(t, 1, b.ViaCount())

	// Removal detaches the via from its group.
	g := b.Groups()[0]
	assert.Equal(t, []string{v2.ID}, g.ViaIDs)

	require.True(t, b.RemoveVia(v2.ID))
	assert.Equal(t, 1, b.RemoveEmptyGroups())
	assert.Empty(t, b.Groups())
}

func TestGroupQueries(t *testing.T) {
	b := New("group-test")
	b.AddGroup("ViaStitching - GND_20250314092653", []string{"via-001"})
	b.AddGroup("manual fence", []string{"via-002"})

	assert.Equal(t,
		[]string{"ViaStitching - GND_20250314092653", "manual fence"},
		b.GroupNames())

	stitched := b.GroupsWithPrefix("ViaStitching")
	require.Len(t, stitched, 1)
	assert.True(t, stitched[0].Contains("via-001"))
	assert.False(t, stitched[0].Contains("via-002"))
}

func TestFileRoundTrip(t *testing.T) {
	b := New("round-trip")
	gnd := b.AddNet("GND")
	b.AddNet("VCC")

	outline := geometry.Polygon{
		Outer: geometry.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Holes: []geometry.Ring{{{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 4, Y: 6}}},
	}
	b.AddZone(&Zone{Layer: "F.Cu", NetCode: gnd.Code, Outline: outline})

	v1 := b.AddVia(geometry.Point2D{X: 1, Y: 1}, 0.6, 0.3, gnd.Code)
	v2 := b.AddVia(geometry.Point2D{X: 2, Y: 1}, 0.6, 0.3, gnd.Code)
	b.AddGroup("ViaStitching - GND_20250314092653", []string{v1.ID, v2.ID})

	path := filepath.Join(t.TempDir(), "test.vsboard")
	require.NoError(t, b.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, b.Name, loaded.Name)
	if diff := cmp.Diff(b.Nets(), loaded.Nets()); diff != "" {
		t.Errorf("net table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(b.Zones(), loaded.Zones()); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(b.Vias(), loaded.Vias()); diff != "" {
		t.Errorf("vias mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(b.Groups(), loaded.Groups()); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	// Via IDs survive, so new vias must not collide with restored ones.
	v3 := loaded.AddVia(geometry.Point2D{X: 3, Y: 1}, 0.6, 0.3, gnd.Code)
	assert.NotEqual(t, v1.ID, v3.ID)
	assert.NotEqual(t, v2.ID, v3.ID)
	assert.Equal(t, 3, loaded.ViaCount())
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.vsboard")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "name": "x"}`), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "version")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.vsboard"))
	assert.Error(t, err)
}
