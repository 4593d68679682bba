// Package canvas provides the board preview with pan, zoom, and zone picking.
package canvas

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"via-stitcher/internal/app"
	"via-stitcher/internal/render"
	"via-stitcher/pkg/geometry"
)

const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25
)

// BoardCanvas displays the rendered board document. Clicking a zone toggles
// its selection, the mouse wheel zooms.
type BoardCanvas struct {
	widget.BaseWidget

	state *app.State

	// Full-resolution render and its board-to-pixel transform
	base *image.RGBA
	tr   render.Transform
	opts render.Options

	zoom float64

	img     *fynecanvas.Image
	content *boardContent
	scroll  *container.Scroll

	onZoomChange func(zoom float64)
}

// NewBoardCanvas creates the preview canvas bound to the application state.
func NewBoardCanvas(state *app.State) *BoardCanvas {
	bc := &BoardCanvas{
		state: state,
		opts:  render.DefaultOptions(),
		zoom:  1.0,
	}
	bc.ExtendBaseWidget(bc)

	bc.img = fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	bc.img.FillMode = fynecanvas.ImageFillOriginal
	bc.img.ScaleMode = fynecanvas.ImageScalePixels

	bc.content = &boardContent{canvas: bc}
	bc.content.ExtendBaseWidget(bc.content)

	bc.scroll = container.NewScroll(bc.content)
	bc.scroll.Direction = container.ScrollBoth

	state.On(app.EventBoardLoaded, func(interface{}) { bc.Redraw() })
	state.On(app.EventViasChanged, func(interface{}) { bc.Redraw() })
	state.On(app.EventSelectionChanged, func(interface{}) { bc.Redraw() })

	bc.Redraw()
	return bc
}

// CreateRenderer implements fyne.Widget.
func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(bc.scroll)
}

// Redraw re-renders the board and updates the display.
func (bc *BoardCanvas) Redraw() {
	selected := make(map[string]bool)
	for _, z := range bc.state.Board.Zones() {
		if bc.state.ZoneSelected(z.ID) {
			selected[z.ID] = true
		}
	}

	bc.tr = render.FitTransform(render.BoardBounds(bc.state.Board),
		bc.opts.Width, bc.opts.Height, bc.opts.Margin)
	bc.base = render.Render(bc.state.Board, selected, bc.opts)
	bc.applyZoom()
}

// Zoom returns the current zoom factor.
func (bc *BoardCanvas) Zoom() float64 {
	return bc.zoom
}

// ZoomIn increases the zoom by one step.
func (bc *BoardCanvas) ZoomIn() {
	bc.setZoom(bc.zoom * zoomStep)
}

// ZoomOut decreases the zoom by one step.
func (bc *BoardCanvas) ZoomOut() {
	bc.setZoom(bc.zoom / zoomStep)
}

// ZoomReset returns the zoom to 1:1.
func (bc *BoardCanvas) ZoomReset() {
	bc.setZoom(1.0)
}

// OnZoomChange registers a callback for zoom changes.
func (bc *BoardCanvas) OnZoomChange(cb func(zoom float64)) {
	bc.onZoomChange = cb
}

func (bc *BoardCanvas) setZoom(z float64) {
	z = math.Max(minZoom, math.Min(maxZoom, z))
	if z == bc.zoom {
		return
	}
	bc.zoom = z
	bc.applyZoom()
	if bc.onZoomChange != nil {
		bc.onZoomChange(z)
	}
}

// applyZoom scales the base render to the current zoom and refreshes the
// display image.
func (bc *BoardCanvas) applyZoom() {
	if bc.base == nil {
		return
	}
	w := int(float64(bc.base.Bounds().Dx()) * bc.zoom)
	h := int(float64(bc.base.Bounds().Dy()) * bc.zoom)
	if w < 1 || h < 1 {
		return
	}

	var out *image.RGBA
	if bc.zoom == 1.0 {
		out = bc.base
	} else {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(out, out.Bounds(), bc.base, bc.base.Bounds(), xdraw.Src, nil)
	}

	bc.img.Image = out
	bc.img.SetMinSize(fyne.NewSize(float32(w), float32(h)))
	bc.img.Refresh()
	bc.content.Refresh()
}

// hitTest maps a click position on the zoomed image back to board
// coordinates and toggles the zone under it.
func (bc *BoardCanvas) hitTest(pos fyne.Position) {
	if bc.tr.Scale == 0 {
		return
	}
	px := float64(pos.X) / bc.zoom
	py := float64(pos.Y) / bc.zoom
	p := geometry.Point2D{
		X: (px - bc.tr.OffsetX) / bc.tr.Scale,
		Y: (py - bc.tr.OffsetY) / bc.tr.Scale,
	}

	// Topmost zone wins.
	zones := bc.state.Board.Zones()
	for i := len(zones) - 1; i >= 0; i-- {
		z := zones[i]
		if z.Contains(p) {
			bc.state.SetZoneSelected(z.ID, !bc.state.ZoneSelected(z.ID))
			return
		}
	}
}

// boardContent hosts the image and receives pointer events.
type boardContent struct {
	widget.BaseWidget
	canvas *BoardCanvas
}

func (c *boardContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.canvas.img)
}

// Tapped toggles zone selection under the cursor.
func (c *boardContent) Tapped(ev *fyne.PointEvent) {
	c.canvas.hitTest(ev.Position)
}

// Scrolled zooms with the mouse wheel.
func (c *boardContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		c.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		c.canvas.ZoomOut()
	}
}
