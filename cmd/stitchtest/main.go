// Command stitchtest runs the via stitcher on a board file and outputs
// results, optionally rendering the stitched board to a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"via-stitcher/internal/board"
	"via-stitcher/internal/render"
	"via-stitcher/internal/stitch"
)

func main() {
	boardPath := flag.String("board", "", "Path to board file (.vsboard)")
	outPath := flag.String("out", "", "Render the stitched board to this PNG")
	savePath := flag.String("save", "", "Write the stitched board to this .vsboard")
	pattern := flag.String("pattern", "", "Placement pattern: grid, staggered, boundary, spiral")
	net := flag.String("net", "", "Target net name (overrides saved setting)")
	hSpacing := flag.Float64("hspacing", 0, "Horizontal spacing in mm (0 = default)")
	vSpacing := flag.Float64("vspacing", 0, "Vertical spacing in mm (0 = default)")
	clearance := flag.Float64("clearance", -1, "Edge clearance in mm (-1 = default)")
	jitter := flag.Bool("jitter", false, "Randomize via positions")
	clear := flag.Bool("clear", false, "Clear stitched vias instead of creating them")
	flag.Parse()

	if *boardPath == "" {
		fmt.Println("Usage: stitchtest -board <path.vsboard> [-pattern grid] [-net GND] [-out preview.png]")
		os.Exit(1)
	}

	b, err := board.Load(*boardPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load board: %v\n", err)
		os.Exit(1)
	}
	zones := b.Zones()
	fmt.Printf("Loaded %s: %d nets, %d zones, %d vias\n",
		*boardPath, len(b.Nets()), len(zones), b.ViaCount())

	params := stitch.DefaultParams()
	if *pattern != "" {
		p, err := stitch.ParsePattern(*pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		params.Pattern = p
	}
	if *net != "" {
		params.NetName = *net
	}
	if *hSpacing > 0 {
		params.HSpacing = *hSpacing
	}
	if *vSpacing > 0 {
		params.VSpacing = *vSpacing
	}
	if *clearance >= 0 {
		params.EdgeClearance = *clearance
	}
	params.Jitter = *jitter

	fmt.Printf("\nSettings:\n")
	fmt.Printf("  Via: %.2f mm (drill %.2f mm)\n", params.ViaSize, params.DrillSize)
	fmt.Printf("  Spacing: %.2f x %.2f mm, edge clearance %.2f mm\n",
		params.HSpacing, params.VSpacing, params.EdgeClearance)
	fmt.Printf("  Pattern: %s (jitter %v)\n", params.Pattern, params.Jitter)
	fmt.Printf("  Net: %s (use zone net %v)\n", params.NetName, params.UseZoneNet)

	runner := stitch.NewRunner(b)

	if *clear {
		removed, err := runner.Clear(zones, params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nRemoved %d vias\n", removed)
	} else {
		res, err := runner.Stitch(zones, params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stitch failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\nStitched %d vias (%d candidates, %d rejected by clearance)\n",
			res.Created, res.Candidates, res.Rejected)
		for net, count := range res.PerNet {
			fmt.Printf("  %-16s %d\n", net, count)
		}
		for _, g := range res.Groups {
			fmt.Printf("  group %s\n", g)
		}
	}

	if *savePath != "" {
		if err := b.Save(*savePath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save board: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved board to %s\n", *savePath)
	}

	if *outPath != "" {
		img := render.Render(b, nil, render.DefaultOptions())
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered preview to %s\n", *outPath)
	}
}
