// Package render rasterizes a board document into an RGBA image for the
// preview canvas and the headless test tool.
package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"via-stitcher/internal/board"
	"via-stitcher/pkg/geometry"
)

// Options configures board rendering.
type Options struct {
	Width  int // output width in pixels
	Height int // output height in pixels
	Margin int // blank border around the board, pixels

	ViaOutlineWidth int  // via outline width in pixels
	FillVias        bool // fill via pads or just outline them

	Background color.RGBA
	ZoneFill   color.RGBA
	ZoneEdge   color.RGBA
	ViaFill    color.RGBA
	ViaEdge    color.RGBA
	Highlight  color.RGBA // selected zone outline
}

// DefaultOptions returns the stock dark-background render settings.
func DefaultOptions() Options {
	return Options{
		Width:           800,
		Height:          600,
		Margin:          20,
		ViaOutlineWidth: 1,
		FillVias:        true,
		Background:      color.RGBA{R: 24, G: 26, B: 30, A: 255},
		ZoneFill:        color.RGBA{R: 140, G: 70, B: 30, A: 255},
		ZoneEdge:        color.RGBA{R: 200, G: 120, B: 60, A: 255},
		ViaFill:         color.RGBA{R: 220, G: 220, B: 220, A: 255},
		ViaEdge:         color.RGBA{R: 90, G: 90, B: 90, A: 255},
		Highlight:       color.RGBA{R: 255, G: 220, B: 60, A: 255},
	}
}

// Transform maps board millimeters to image pixels.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Apply converts a board coordinate to pixel coordinates.
func (t Transform) Apply(p geometry.Point2D) (int, int) {
	return int(math.Round(p.X*t.Scale + t.OffsetX)),
		int(math.Round(p.Y*t.Scale + t.OffsetY))
}

// FitTransform computes the transform that fits the given board bounds into
// a w x h pixel image with the given margin.
func FitTransform(bounds geometry.Rect, w, h, margin int) Transform {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Transform{Scale: 1}
	}
	availW := float64(w - 2*margin)
	availH := float64(h - 2*margin)
	scale := math.Min(availW/bounds.Width, availH/bounds.Height)

	// Center the board in the image.
	ox := float64(margin) + (availW-bounds.Width*scale)/2 - bounds.X*scale
	oy := float64(margin) + (availH-bounds.Height*scale)/2 - bounds.Y*scale
	return Transform{Scale: scale, OffsetX: ox, OffsetY: oy}
}

// BoardBounds returns the union of all zone bounding boxes, or a unit
// square for an empty board.
func BoardBounds(b *board.Board) geometry.Rect {
	zones := b.Zones()
	if len(zones) == 0 {
		return geometry.Rect{Width: 1, Height: 1}
	}
	bounds := zones[0].BoundingBox()
	for _, z := range zones[1:] {
		bounds = bounds.Union(z.BoundingBox())
	}
	return bounds
}

// Render draws the board into a new RGBA image. selected holds the IDs of
// zones to highlight; nil highlights nothing.
func Render(b *board.Board, selected map[string]bool, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	fillBackground(img, opts.Background)

	tr := FitTransform(BoardBounds(b), opts.Width, opts.Height, opts.Margin)

	for _, z := range b.Zones() {
		fillPolygon(img, z.Outline, tr, opts.ZoneFill)
		edge := opts.ZoneEdge
		if selected[z.ID] {
			edge = opts.Highlight
		}
		strokeRing(img, z.Outline.Outer, tr, edge)
		for _, hole := range z.Outline.Holes {
			strokeRing(img, hole, tr, edge)
		}
	}

	for _, v := range b.Vias() {
		cx, cy := tr.Apply(v.Position)
		r := int(math.Round(v.Diameter / 2 * tr.Scale))
		if r < 1 {
			r = 1
		}
		if opts.FillVias {
			fillCircle(img, cx, cy, r, opts.ViaFill)
		}
		if opts.ViaOutlineWidth > 0 {
			for w := 0; w < opts.ViaOutlineWidth; w++ {
				drawCircle(img, cx, cy, r-w, opts.ViaEdge)
			}
		}
		// Drill hole in the middle reads much better at high zoom.
		dr := int(math.Round(v.Drill / 2 * tr.Scale))
		if dr >= 1 {
			fillCircle(img, cx, cy, dr, opts.Background)
		}
	}

	return img
}

func fillBackground(img *image.RGBA, c color.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// fillPolygon fills the transformed polygon using even-odd scanline
// crossings so holes come out empty.
func fillPolygon(img *image.RGBA, poly geometry.Polygon, tr Transform, c color.RGBA) {
	type edge struct{ x1, y1, x2, y2 float64 }
	var edges []edge
	addRing := func(ring geometry.Ring) {
		n := len(ring)
		for i := 0; i < n; i++ {
			x1, y1 := tr.Apply(ring[i])
			x2, y2 := tr.Apply(ring[(i+1)%n])
			edges = append(edges, edge{float64(x1), float64(y1), float64(x2), float64(y2)})
		}
	}
	addRing(poly.Outer)
	for _, hole := range poly.Holes {
		addRing(hole)
	}

	bounds := img.Bounds()
	minY, maxY := bounds.Max.Y, bounds.Min.Y
	for _, e := range edges {
		minY = min(minY, int(math.Min(e.y1, e.y2)))
		maxY = max(maxY, int(math.Max(e.y1, e.y2))+1)
	}
	minY = max(minY, bounds.Min.Y)
	maxY = min(maxY, bounds.Max.Y)

	for y := minY; y < maxY; y++ {
		sy := float64(y) + 0.5
		var xs []float64
		for _, e := range edges {
			if (e.y1 > sy) == (e.y2 > sy) {
				continue
			}
			t := (sy - e.y1) / (e.y2 - e.y1)
			xs = append(xs, e.x1+t*(e.x2-e.x1))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x1 := max(int(math.Ceil(xs[i])), bounds.Min.X)
			x2 := min(int(math.Floor(xs[i+1])), bounds.Max.X-1)
			for x := x1; x <= x2; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// strokeRing draws the ring outline.
func strokeRing(img *image.RGBA, ring geometry.Ring, tr Transform, c color.RGBA) {
	n := len(ring)
	for i := 0; i < n; i++ {
		x1, y1 := tr.Apply(ring[i])
		x2, y2 := tr.Apply(ring[(i+1)%n])
		drawLine(img, x1, y1, x2, y2, c)
	}
}

// fillCircle fills a circle with the given color.
func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawCircle draws a circle outline using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	if r < 0 {
		return
	}
	bounds := img.Bounds()
	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.SetRGBA(x, y, c)
		}
	}

	x := r
	y := 0
	err := 0
	for x >= y {
		setPixel(cx+x, cy+y)
		setPixel(cx+y, cy+x)
		setPixel(cx-y, cy+x)
		setPixel(cx-x, cy+y)
		setPixel(cx-x, cy-y)
		setPixel(cx-y, cy-x)
		setPixel(cx+y, cy-x)
		setPixel(cx+x, cy-y)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
