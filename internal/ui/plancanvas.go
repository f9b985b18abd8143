//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"image/color"
	"math"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
	"floorplanner/internal/plan"
	"floorplanner/internal/view"
)

// canvasMode selects how taps and drags on the plan are interpreted.
type canvasMode int

const (
	modeSelect canvasMode = iota
	modeDraw
	modePan
)

// dragMode is the current pointer interaction.
// dragNone: idle; dragPan: background pan; dragItem: furniture move/resize
// driven by the plan controller.
type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragItem
)

// PlanCanvas is the floor-plan editing surface. It owns the viewport and the
// interaction state machines; the grid and area polygons are rasterized into
// a background image while furniture and the selection overlay are laid out
// as Fyne rectangles on top.
type PlanCanvas struct {
	widget.BaseWidget

	vp       *view.Viewport
	registry *plan.Registry
	session  *plan.DrawingSession
	ctrl     *plan.Controller
	gestures *plan.GestureRecognizer

	mode    canvasMode
	drag    dragMode
	touches int

	// OnMutated fires after any model change (area closed, furniture
	// placed, moved, resized). The host uses it for undo snapshots and
	// sidebar refreshes.
	OnMutated func()
	// OnSelected fires with the selected furniture id, or "" on clear.
	OnSelected func(id string)
	// OnLongPress fires with the world position of a touch long-press.
	OnLongPress func(world geometry.Point)
	// OnError surfaces interaction errors (for example a degenerate
	// polygon close) to the host for display.
	OnError func(error)
}

// NewPlanCanvas returns an editing surface over a fresh registry sized to the
// default canvas.
func NewPlanCanvas() *PlanCanvas {
	reg := plan.NewRegistry()
	p := &PlanCanvas{
		registry: reg,
		session:  plan.NewDrawingSession(reg),
		ctrl:     plan.NewController(reg),
		gestures: plan.NewGestureRecognizer(),
	}
	p.vp = view.New(geometry.Size{
		Width:  domain.DefaultCanvasSize.WidthFt * geometry.GridSize,
		Height: domain.DefaultCanvasSize.HeightFt * geometry.GridSize,
	})
	p.vp.OnChange(func() { p.Refresh() })
	p.gestures.OnLongPress(func(screen geometry.Point) {
		if p.OnLongPress != nil {
			p.OnLongPress(p.vp.ScreenToWorld(screen))
		}
	})
	p.ExtendBaseWidget(p)
	return p
}

// SetMode switches the interaction mode. Leaving draw mode cancels any
// in-progress polygon; leaving select mode disarms a pending placement.
func (p *PlanCanvas) SetMode(m canvasMode) {
	if p.mode == m {
		return
	}
	if p.mode == modeDraw {
		p.session.Cancel()
	}
	p.ctrl.CancelPlacement()
	p.mode = m
	p.Refresh()
}

// Mode returns the current interaction mode.
func (p *PlanCanvas) Mode() canvasMode { return p.mode }

// SetCanvasSize updates the world extent used for pan clamping, in feet.
func (p *PlanCanvas) SetCanvasSize(s domain.CanvasSizeFt) {
	p.vp.SetCanvasSize(geometry.Size{
		Width:  s.WidthFt * geometry.GridSize,
		Height: s.HeightFt * geometry.GridSize,
	})
}

// CancelInteraction aborts whatever is in progress: an open polygon, an armed
// placement, or the selection.
func (p *PlanCanvas) CancelInteraction() {
	p.session.Cancel()
	p.ctrl.CancelPlacement()
	p.ctrl.Select("")
	p.Refresh()
}

// PreferredSize sets a decent default size for the widget.
func (p *PlanCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (p *PlanCanvas) toWorld(pos fyne.Position) geometry.Point {
	return p.vp.ScreenToWorld(geometry.Pt(float64(pos.X), float64(pos.Y)))
}

func (p *PlanCanvas) toScreen(world geometry.Point) fyne.Position {
	s := p.vp.WorldToScreen(world)
	return fyne.NewPos(float32(s.X), float32(s.Y))
}

// Tapped feeds a click into the active state machine: a vertex (or close) in
// draw mode, a placement attempt when the controller is armed, otherwise a
// selection hit test.
func (p *PlanCanvas) Tapped(e *fyne.PointEvent) {
	screen := geometry.Pt(float64(e.Position.X), float64(e.Position.Y))
	switch {
	case p.mode == modeDraw:
		snapped := p.vp.ScreenToWorldSnapped(screen, p.registry.GridSize())
		area, err := p.session.Tap(snapped)
		if err != nil {
			if p.OnError != nil {
				p.OnError(err)
			}
			break
		}
		if area != nil && p.OnMutated != nil {
			p.OnMutated()
		}
	case p.ctrl.State() == plan.CtrlPlacementPending:
		snapped := p.vp.ScreenToWorldSnapped(screen, p.registry.GridSize())
		if _, ok := p.ctrl.Tap(snapped); ok && p.OnMutated != nil {
			p.OnMutated()
		}
	default:
		p.ctrl.PointerDown(p.toWorld(e.Position), p.vp.Zoom())
		p.ctrl.PointerUp()
		if p.OnSelected != nil {
			id, _ := p.ctrl.Selected()
			p.OnSelected(id)
		}
	}
	p.Refresh()
}

// TappedSecondary cancels the in-progress interaction, mirroring Escape.
func (p *PlanCanvas) TappedSecondary(_ *fyne.PointEvent) {
	p.CancelInteraction()
}

// Dragged routes pointer drags: furniture move/resize through the controller
// when the drag starts on an item or its handles, a viewport pan otherwise.
func (p *PlanCanvas) Dragged(e *fyne.DragEvent) {
	if p.drag == dragNone {
		start := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
		if p.mode == modeSelect {
			p.ctrl.PointerDown(p.toWorld(start), p.vp.Zoom())
			if st := p.ctrl.State(); st == plan.CtrlDragging || st == plan.CtrlResizing {
				p.drag = dragItem
			} else {
				p.drag = dragPan
			}
			if p.OnSelected != nil {
				id, _ := p.ctrl.Selected()
				p.OnSelected(id)
			}
		} else {
			p.drag = dragPan
		}
	}
	switch p.drag {
	case dragPan:
		z := p.vp.Zoom()
		p.vp.PanBy(geometry.Pt(float64(e.Dragged.DX)/z, float64(e.Dragged.DY)/z))
	case dragItem:
		// Snapped like taps, so a moved item lands back on the grid.
		screen := geometry.Pt(float64(e.Position.X), float64(e.Position.Y))
		p.ctrl.PointerMove(p.vp.ScreenToWorldSnapped(screen, p.registry.GridSize()))
	}
	p.Refresh()
}

// DragEnd finishes a drag. A completed furniture move or resize counts as one
// mutation; snapshot coalescing upstream folds the burst into one undo step.
func (p *PlanCanvas) DragEnd() {
	if p.drag == dragItem {
		p.ctrl.PointerUp()
		if p.OnMutated != nil {
			p.OnMutated()
		}
	}
	p.drag = dragNone
	p.Refresh()
}

// Scrolled zooms at the cursor so the world point under the wheel stays put.
func (p *PlanCanvas) Scrolled(e *fyne.ScrollEvent) {
	factor := view.ZoomStep
	if e.Scrolled.DY < 0 {
		factor = 1 / view.ZoomStep
	}
	screen := geometry.Pt(float64(e.Position.X), float64(e.Position.Y))
	p.vp.ZoomAt(screen, p.vp.Zoom()*factor)
}

// TouchDown feeds a touch contact into the gesture recognizer. Taps and drags
// still arrive through Tapped/Dragged from the driver; the recognizer only
// adds long-press detection on top.
func (p *PlanCanvas) TouchDown(e *mobile.TouchEvent) {
	p.touches++
	p.gestures.TouchStart(geometry.Pt(float64(e.Position.X), float64(e.Position.Y)), p.touches)
}

// TouchUp ends a touch contact.
func (p *PlanCanvas) TouchUp(e *mobile.TouchEvent) {
	if p.touches > 0 {
		p.touches--
	}
	p.gestures.TouchEnd(geometry.Pt(float64(e.Position.X), float64(e.Position.Y)))
}

// TouchCancel aborts a touch contact.
func (p *PlanCanvas) TouchCancel(_ *mobile.TouchEvent) {
	if p.touches > 0 {
		p.touches--
	}
	p.gestures.Cancel()
}

// CreateRenderer builds the plan raster plus the furniture and selection
// overlays that are positioned manually in Layout.
func (p *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	raster := canvas.NewRaster(p.rasterize)

	bbox := canvas.NewRectangle(color.RGBA{})
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1
	bbox.Hide()

	var handles [4]*canvas.Rectangle
	for i := range handles {
		handles[i] = canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
		handles[i].Hide()
	}

	objs := []fyne.CanvasObject{bg, raster, bbox}
	for _, h := range handles {
		objs = append(objs, h)
	}
	return &planCanvasRenderer{pc: p, objects: objs, bg: bg, raster: raster, bbox: bbox, handles: handles}
}

// planCanvasRenderer lays the raster and overlay rectangles out according to
// the viewport.
type planCanvasRenderer struct {
	pc      *PlanCanvas
	objects []fyne.CanvasObject
	bg      *canvas.Rectangle
	raster  *canvas.Raster
	items   []*canvas.Rectangle
	bbox    *canvas.Rectangle
	handles [4]*canvas.Rectangle
}

func (r *planCanvasRenderer) Destroy()                     {}
func (r *planCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *planCanvasRenderer) MinSize() fyne.Size           { return r.pc.PreferredSize() }
func (r *planCanvasRenderer) Refresh() {
	r.Layout(r.pc.Size())
	r.raster.Refresh()
	canvas.Refresh(r.pc)
}

func (r *planCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.raster.Resize(size)
	r.raster.Move(fyne.NewPos(0, 0))

	// Collect all furniture in area order so the rectangle pool is stable
	// across frames.
	var all []*domain.FurnitureItem
	for _, a := range r.pc.registry.Areas() {
		all = append(all, a.Furniture...)
	}

	// Grow the pool; insert new rectangles before the selection bbox so the
	// overlay stays on top.
	if need := len(all); need > len(r.items) {
		ins := -1
		for i, obj := range r.objects {
			if obj == r.bbox {
				ins = i
				break
			}
		}
		if ins < 0 {
			ins = len(r.objects)
		}
		add := need - len(r.items)
		fresh := make([]*canvas.Rectangle, 0, add)
		for j := 0; j < add; j++ {
			rc := canvas.NewRectangle(color.RGBA{R: 220, G: 220, B: 220, A: 255})
			rc.StrokeColor = color.RGBA{R: 51, G: 51, B: 51, A: 255}
			rc.StrokeWidth = 1
			fresh = append(fresh, rc)
		}
		objs := make([]fyne.CanvasObject, 0, len(r.objects)+add)
		objs = append(objs, r.objects[:ins]...)
		for _, rc := range fresh {
			objs = append(objs, rc)
		}
		objs = append(objs, r.objects[ins:]...)
		r.objects = objs
		r.items = append(r.items, fresh...)
	}

	zoom := r.pc.vp.Zoom()
	for i, f := range all {
		b := f.Bounds()
		p0 := r.pc.toScreen(geometry.Pt(b.X, b.Y))
		rc := r.items[i]
		rc.Show()
		rc.Move(p0)
		rc.Resize(fyne.NewSize(float32(b.Width*zoom), float32(b.Height*zoom)))
		c := f.Color
		if !c.Valid() {
			c = "#cccccc"
		}
		rc.FillColor = c.RGBA()
		rc.Refresh()
	}
	for j := len(all); j < len(r.items); j++ {
		r.items[j].Hide()
	}

	// Selection overlay: bbox plus four corner handles.
	id, ok := r.pc.ctrl.Selected()
	var sel *domain.FurnitureItem
	if ok {
		sel, _, _ = r.pc.registry.FurnitureByID(id)
	}
	if sel != nil {
		b := sel.Bounds()
		p0 := r.pc.toScreen(geometry.Pt(b.X, b.Y))
		w := float32(b.Width * zoom)
		h := float32(b.Height * zoom)
		r.bbox.Show()
		r.bbox.Move(p0)
		r.bbox.Resize(fyne.NewSize(w, h))
		const hs = float32(8)
		corners := [4]fyne.Position{
			fyne.NewPos(p0.X-hs/2, p0.Y-hs/2),
			fyne.NewPos(p0.X+w-hs/2, p0.Y-hs/2),
			fyne.NewPos(p0.X+w-hs/2, p0.Y+h-hs/2),
			fyne.NewPos(p0.X-hs/2, p0.Y+h-hs/2),
		}
		for i, hrect := range r.handles {
			hrect.Show()
			hrect.Move(corners[i])
			hrect.Resize(fyne.NewSize(hs, hs))
		}
	} else {
		r.bbox.Hide()
		for _, hrect := range r.handles {
			hrect.Hide()
		}
	}
}

// rasterize paints the grid, the area polygons and the in-progress drawing
// outline into the background image at the current viewport transform.
func (p *PlanCanvas) rasterize(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	zoom := p.vp.Zoom()
	pan := p.vp.Pan()
	grid := p.registry.GridSize()
	spacing := grid * zoom

	// Grid lines, heavier every five feet. Skipped when too dense to read.
	if spacing >= 4 {
		minor := color.RGBA{R: 228, G: 228, B: 228, A: 255}
		major := color.RGBA{R: 204, G: 204, B: 204, A: 255}
		kx0 := int(math.Floor(-pan.X / grid))
		kx1 := int(math.Ceil((float64(w)/zoom - pan.X) / grid))
		for k := kx0; k <= kx1; k++ {
			x := int(math.Round((float64(k)*grid + pan.X) * zoom))
			c := minor
			if k%5 == 0 {
				c = major
			}
			vlineRGBA(img, x, 0, h-1, c)
		}
		ky0 := int(math.Floor(-pan.Y / grid))
		ky1 := int(math.Ceil((float64(h)/zoom - pan.Y) / grid))
		for k := ky0; k <= ky1; k++ {
			y := int(math.Round((float64(k)*grid + pan.Y) * zoom))
			c := minor
			if k%5 == 0 {
				c = major
			}
			hlineRGBA(img, y, 0, w-1, c)
		}
	}

	wall := color.RGBA{R: 51, G: 51, B: 51, A: 255}
	for _, a := range p.registry.Areas() {
		pts := make([]geometry.Point, len(a.Points))
		for i, wp := range a.Points {
			pts[i] = p.vp.WorldToScreen(wp)
		}
		fillPolyRGBA(img, pts, lightenRGBA(a.Color.RGBA(), 0.55))
		for i := range pts {
			q := pts[(i+1)%len(pts)]
			lineRGBA(img, pts[i], q, wall)
		}
	}

	// In-progress polygon: open polyline with vertex markers, the first
	// vertex larger since it is the close target.
	if p.session.State() == plan.SessionDrawing {
		ink := color.RGBA{R: 21, G: 101, B: 192, A: 255}
		pts := p.session.Points()
		for i := 0; i+1 < len(pts); i++ {
			lineRGBA(img, p.vp.WorldToScreen(pts[i]), p.vp.WorldToScreen(pts[i+1]), ink)
		}
		for i, wp := range pts {
			s := p.vp.WorldToScreen(wp)
			r := 3
			if i == 0 {
				r = 5
			}
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					img.SetRGBA(int(s.X)+dx, int(s.Y)+dy, ink)
				}
			}
		}
	}
	return img
}

func vlineRGBA(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

func hlineRGBA(img *image.RGBA, y, x0, x1 int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

// lineRGBA draws a 1px Bresenham segment between two screen points.
func lineRGBA(img *image.RGBA, a, b geometry.Point, c color.RGBA) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillPolyRGBA scanline-fills a polygon given in screen coordinates, sampling
// at pixel centers with even-odd parity.
func fillPolyRGBA(img *image.RGBA, pts []geometry.Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	b := img.Bounds()
	y0 := int(math.Max(math.Floor(minY), float64(b.Min.Y)))
	y1 := int(math.Min(math.Ceil(maxY), float64(b.Max.Y-1)))
	xs := make([]float64, 0, len(pts))
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		j := len(pts) - 1
		for i := 0; i < len(pts); i++ {
			a, d := pts[i], pts[j]
			if (a.Y > sy) != (d.Y > sy) {
				xs = append(xs, a.X+(sy-a.Y)/(d.Y-a.Y)*(d.X-a.X))
			}
			j = i
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			xa := int(math.Ceil(xs[k] - 0.5))
			xb := int(math.Floor(xs[k+1] - 0.5))
			for x := xa; x <= xb; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func lightenRGBA(c color.RGBA, amount float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*amount)
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 255}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
