package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"via-stitcher/internal/stitch"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	p := LoadFile(filepath.Join(t.TempDir(), "preferences.json"))
	assert.Equal(t, stitch.DefaultParams(), p.StitchParams())
	assert.Equal(t, 0.0, p.Float("anything"))
	assert.Equal(t, "", p.String("anything"))
	assert.True(t, p.Bool("anything", true))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "preferences.json")

	p := LoadFile(path)
	p.SetFloat("zoom", 2.5)
	p.SetString("last_board", "/tmp/board.vsboard")
	p.SetBool("dark_mode", true)
	require.NoError(t, p.Save())

	q := LoadFile(path)
	assert.Equal(t, 2.5, q.Float("zoom"))
	assert.Equal(t, "/tmp/board.vsboard", q.String("last_board"))
	assert.True(t, q.Bool("dark_mode", false))
}

func TestStitchParamsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	want := stitch.DefaultParams()
	want.ViaSize = 0.8
	want.DrillSize = 0.4
	want.HSpacing = 2.54
	want.VSpacing = 2.54
	want.Pattern = stitch.PatternStaggered
	want.Jitter = true
	want.NetName = "AGND"
	want.UseZoneNet = true

	p := LoadFile(path)
	p.SetStitchParams(want)
	require.NoError(t, p.Save())

	got := LoadFile(path).StitchParams()
	assert.Equal(t, want, got)
}

func TestStitchParamsInvalidFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	// Hand-edited file with a broken spacing and an unknown pattern.
	data := `{"h_spacing_mm": -1, "pattern": "diamond"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	got := LoadFile(path).StitchParams()
	assert.Equal(t, stitch.DefaultParams(), got)
}

func TestCorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFile(path)
	assert.Equal(t, stitch.DefaultParams(), p.StitchParams())
}
