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
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
	"floorplanner/internal/storage"
)

// SVGOptions controls SVG export behavior. The coordinate system is feet;
// the width/height attributes carry the derived pixel size so viewers render
// at the editor scale by default.
type SVGOptions struct {
	Scale         float64
	IncludeGrid   bool
	IncludeLabels bool
	GridColor     domain.Color
	WallColor     domain.Color
}

// ExportSVG writes the design as a single SVG document at outPath, resolved
// under <root>/exports when relative.
func ExportSVG(h *storage.DesignHandle, outPath string, opt SVGOptions) error {
	if h == nil {
		return fmt.Errorf("design handle is nil")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(h.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".svg") {
		outPath += ".svg"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	data, err := buildSVG(h.Design, opt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func buildSVG(d domain.DesignFile, opt SVGOptions) ([]byte, error) {
	scale := opt.Scale
	if scale <= 0 {
		scale = geometry.GridSize
	}
	gridCol := opt.GridColor
	if !gridCol.Valid() {
		gridCol = "#e4e4e4"
	}
	wallCol := opt.WallColor
	if !wallCol.Valid() {
		wallCol = "#333333"
	}

	wFt := d.CanvasSize.WidthFt
	hFt := d.CanvasSize.HeightFt
	pxW := int(math.Round(wFt * scale))
	pxH := int(math.Round(hFt * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, wFt, hFt)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", wFt, hFt)

	if opt.IncludeGrid {
		for ft := 1.0; ft < wFt; ft++ {
			w := 0.02
			if int(ft)%5 == 0 {
				w = 0.05
			}
			wf("  <line x1=\"%g\" y1=\"0\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n", ft, ft, hFt, gridCol, w)
		}
		for ft := 1.0; ft < hFt; ft++ {
			w := 0.02
			if int(ft)%5 == 0 {
				w = 0.05
			}
			wf("  <line x1=\"0\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n", ft, wFt, ft, gridCol, w)
		}
	}

	for _, a := range d.Areas {
		var pts strings.Builder
		for i, p := range a.Points {
			if i > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%g,%g", p[0], p[1])
		}
		fill := domain.ColorFromRGBA(lighten(domain.Color(a.Color).RGBA(), 0.55))
		wf("  <polygon points=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.1\"/>\n", pts.String(), fill, wallCol)
	}

	for _, a := range d.Areas {
		for _, f := range a.Furniture {
			fc := domain.ColorFromRGBA(furnitureColor(f))
			x := f.Position.XFt - f.Size.WidthFt/2
			y := f.Position.YFt - f.Size.HeightFt/2
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.05\"/>\n", x, y, f.Size.WidthFt, f.Size.HeightFt, fc, wallCol)
		}
	}

	if opt.IncludeLabels {
		for _, a := range d.Areas {
			c := geometry.Centroid(polygonPixels(a.Points, 1))
			wf("  <text x=\"%g\" y=\"%g\" text-anchor=\"middle\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"1\" fill=\"#222\">%s</text>\n", c.X, c.Y, escText(areaLabel(a)))
			for _, f := range a.Furniture {
				wf("  <text x=\"%g\" y=\"%g\" text-anchor=\"middle\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"0.7\" fill=\"#222\">%s</text>\n", f.Position.XFt, f.Position.YFt, escText(f.Name))
			}
		}
	}

	wf("</svg>\n")
	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
