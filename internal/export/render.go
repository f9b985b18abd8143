/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

// renderStyle is the fully resolved raster configuration shared by the PNG
// and bundle exporters. All colors are concrete; scale is pixels per foot.
type renderStyle struct {
	scale  float64
	grid   bool
	labels bool
	vastu  bool

	gridMinor color.RGBA
	gridMajor color.RGBA
	wall      color.RGBA
	vastuCol  color.RGBA
	label     color.RGBA
}

func resolveStyle(opt PNGOptions) renderStyle {
	scale := opt.Scale
	if scale <= 0 {
		scale = geometry.GridSize
	}
	gc := opt.GridColor
	if !gc.Valid() {
		gc = "#e4e4e4"
	}
	wc := opt.WallColor
	if !wc.Valid() {
		wc = "#333333"
	}
	minor := gc.RGBA()
	return renderStyle{
		scale:     scale,
		grid:      opt.IncludeGrid,
		labels:    opt.IncludeLabels,
		vastu:     opt.VastuGrid,
		gridMinor: minor,
		gridMajor: darken(minor, 0.15),
		wall:      wc.RGBA(),
		vastuCol:  color.RGBA{R: 0xcc, G: 0x44, B: 0x44, A: 0xff},
		label:     color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
	}
}

// renderDesign rasterizes the whole plan: white canvas, optional foot grid,
// area polygons with lightened fills and wall outlines, furniture on top,
// then the optional 3x3 overlay and text labels.
func renderDesign(d domain.DesignFile, st renderStyle) *image.RGBA {
	pixW := int(math.Round(d.CanvasSize.WidthFt * st.scale))
	pixH := int(math.Round(d.CanvasSize.HeightFt * st.scale))
	if pixW < 1 {
		pixW = 1
	}
	if pixH < 1 {
		pixH = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	if st.grid {
		for ft := 1; float64(ft)*st.scale < float64(pixW); ft++ {
			col := st.gridMinor
			if ft%5 == 0 {
				col = st.gridMajor
			}
			vline(img, int(math.Round(float64(ft)*st.scale)), 0, pixH-1, col)
		}
		for ft := 1; float64(ft)*st.scale < float64(pixH); ft++ {
			col := st.gridMinor
			if ft%5 == 0 {
				col = st.gridMajor
			}
			hline(img, 0, pixW-1, int(math.Round(float64(ft)*st.scale)), col)
		}
	}

	for _, a := range d.Areas {
		pts := polygonPixels(a.Points, st.scale)
		fillPolygon(img, pts, lighten(domain.Color(a.Color).RGBA(), 0.55))
		for i := range pts {
			j := (i + 1) % len(pts)
			drawLine(img, pts[i], pts[j], st.wall)
		}
	}

	for _, a := range d.Areas {
		for _, f := range a.Furniture {
			fc := furnitureColor(f)
			x0 := int(math.Round((f.Position.XFt - f.Size.WidthFt/2) * st.scale))
			y0 := int(math.Round((f.Position.YFt - f.Size.HeightFt/2) * st.scale))
			x1 := int(math.Round((f.Position.XFt + f.Size.WidthFt/2) * st.scale))
			y1 := int(math.Round((f.Position.YFt + f.Size.HeightFt/2) * st.scale))
			fillRect(img, x0, y0, x1, y1, fc)
			strokeRect(img, x0, y0, x1, y1, st.wall)
		}
	}

	if st.vastu {
		drawVastuGrid(img, pixW, pixH, st.vastuCol)
	}

	if st.labels {
		for _, a := range d.Areas {
			pts := polygonPixels(a.Points, st.scale)
			c := geometry.Centroid(pts)
			drawLabel(img, c, areaLabel(a), st.label)
			for _, f := range a.Furniture {
				center := geometry.Pt(f.Position.XFt*st.scale, f.Position.YFt*st.scale)
				drawLabel(img, center, f.Name, st.label)
			}
		}
	}
	return img
}

func polygonPixels(points [][2]float64, scale float64) []geometry.Point {
	pts := make([]geometry.Point, len(points))
	for i, p := range points {
		pts[i] = geometry.Pt(p[0]*scale, p[1]*scale)
	}
	return pts
}

// areaLabel is "type, n sqft". The stored square footage wins when present;
// files written by hand may omit it, in which case it is recomputed from the
// foot coordinates.
func areaLabel(a domain.AreaRecord) string {
	sqft := a.AreaSqFt
	if sqft <= 0 {
		pts := polygonPixels(a.Points, 1)
		sqft = geometry.PolygonAreaSqFt(pts, 1)
	}
	return fmt.Sprintf("%s %d sqft", a.Type, sqft)
}

// furnitureColor maps a null color to a neutral gray; the catalog default is
// an editor concern and is already resolved by the time a file is exported.
func furnitureColor(f domain.FurnitureRecord) color.RGBA {
	if f.Color == nil {
		return color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	}
	return domain.Color(*f.Color).RGBA()
}

// drawVastuGrid overlays the 3x3 zone hairlines used for vastu checks. Lines
// sit above areas and furniture so the zones stay readable.
func drawVastuGrid(img *image.RGBA, pixW, pixH int, col color.RGBA) {
	for i := 1; i <= 2; i++ {
		vline(img, int(math.Round(float64(pixW*i)/3)), 0, pixH-1, col)
		hline(img, 0, pixW-1, int(math.Round(float64(pixH*i)/3)), col)
	}
	strokeRect(img, 0, 0, pixW-1, pixH-1, col)
}

func drawLabel(img *image.RGBA, center geometry.Point, text string, col color.RGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Round()
	m := face.Metrics()
	baseline := int(center.Y) + (m.Ascent - m.Descent).Round()/2
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(int(center.X)-w/2, baseline),
	}
	d.DrawString(text)
}

// fillPolygon scanline-fills a closed polygon. Rows are sampled at pixel
// centers so shared edges between adjacent areas do not double-fill.
func fillPolygon(img *image.RGBA, pts []geometry.Point, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	xs := make([]float64, 0, len(pts))
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		fy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y > fy) == (b.Y > fy) {
				continue
			}
			t := (fy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := int(math.Ceil(xs[k] - 0.5))
			x1 := int(math.Floor(xs[k+1] - 0.5))
			for x := x0; x <= x1; x++ {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine is a basic Bresenham segment between two world points.
func drawLine(img *image.RGBA, a, b geometry.Point, col color.RGBA) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, col)
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

func vline(img *image.RGBA, x, y0, y1 int, col color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, col)
	}
}

func hline(img *image.RGBA, x0, x1, y int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, col)
	}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func lighten(c color.RGBA, f float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) + (255-float64(v))*f))
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 0xff}
}

func darken(c color.RGBA, f float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * (1 - f)))
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 0xff}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
