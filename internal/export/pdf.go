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
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
	"floorplanner/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt). PtPerFt sets the sheet scale; the default of 18
// (a quarter inch per foot) is the common 1:48 architectural scale.
// Vector text uses built-in Helvetica for portability.
type PDFOptions struct {
	PtPerFt       float64
	IncludeGrid   bool
	IncludeLabels bool
	GridColor     domain.Color
	WallColor     domain.Color
}

const pdfMarginPt = 36.0

// ExportPDF writes the design as a single-sheet PDF at outPath, resolved
// under <root>/exports when relative.
func ExportPDF(h *storage.DesignHandle, outPath string, opt PDFOptions) error {
	if h == nil {
		return fmt.Errorf("design handle is nil")
	}
	d := h.Design

	ppf := opt.PtPerFt
	if ppf <= 0 {
		ppf = 18
	}
	gridCol := opt.GridColor
	if !gridCol.Valid() {
		gridCol = "#e4e4e4"
	}
	wallCol := opt.WallColor
	if !wallCol.Valid() {
		wallCol = "#333333"
	}

	mediaW := d.CanvasSize.WidthFt*ppf + 2*pdfMarginPt
	mediaH := d.CanvasSize.HeightFt*ppf + 2*pdfMarginPt

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: mediaW, Ht: mediaH},
		OrientationStr: "",
	})
	title := d.Name
	if title == "" {
		title = "Floor Plan"
	}
	pdf.SetTitle(title, false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: mediaW, Ht: mediaH})

	// Sheet frame around the drawable canvas.
	setDrawColor(pdf, wallCol)
	pdf.SetLineWidth(0.5)
	pdf.Rect(pdfMarginPt, pdfMarginPt, d.CanvasSize.WidthFt*ppf, d.CanvasSize.HeightFt*ppf, "D")

	if opt.IncludeGrid {
		setDrawColor(pdf, gridCol)
		for ft := 1.0; ft < d.CanvasSize.WidthFt; ft++ {
			x := pdfMarginPt + ft*ppf
			if int(ft)%5 == 0 {
				pdf.SetLineWidth(0.4)
			} else {
				pdf.SetLineWidth(0.15)
			}
			pdf.Line(x, pdfMarginPt, x, pdfMarginPt+d.CanvasSize.HeightFt*ppf)
		}
		for ft := 1.0; ft < d.CanvasSize.HeightFt; ft++ {
			y := pdfMarginPt + ft*ppf
			if int(ft)%5 == 0 {
				pdf.SetLineWidth(0.4)
			} else {
				pdf.SetLineWidth(0.15)
			}
			pdf.Line(pdfMarginPt, y, pdfMarginPt+d.CanvasSize.WidthFt*ppf, y)
		}
	}

	for _, a := range d.Areas {
		pts := make([]gofpdf.PointType, len(a.Points))
		for i, p := range a.Points {
			pts[i] = gofpdf.PointType{X: pdfMarginPt + p[0]*ppf, Y: pdfMarginPt + p[1]*ppf}
		}
		fill := lighten(domain.Color(a.Color).RGBA(), 0.55)
		pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		setDrawColor(pdf, wallCol)
		pdf.SetLineWidth(1.2)
		pdf.Polygon(pts, "FD")
	}

	for _, a := range d.Areas {
		for _, f := range a.Furniture {
			fc := furnitureColor(f)
			pdf.SetFillColor(int(fc.R), int(fc.G), int(fc.B))
			setDrawColor(pdf, wallCol)
			pdf.SetLineWidth(0.6)
			x := pdfMarginPt + (f.Position.XFt-f.Size.WidthFt/2)*ppf
			y := pdfMarginPt + (f.Position.YFt-f.Size.HeightFt/2)*ppf
			pdf.Rect(x, y, f.Size.WidthFt*ppf, f.Size.HeightFt*ppf, "FD")
		}
	}

	if opt.IncludeLabels {
		pdf.SetTextColor(0x22, 0x22, 0x22)
		for _, a := range d.Areas {
			c := geometry.Centroid(polygonPixels(a.Points, 1))
			label := areaLabel(a)
			pdf.SetFont("Helvetica", "", 9)
			pdf.Text(pdfMarginPt+c.X*ppf-pdf.GetStringWidth(label)/2, pdfMarginPt+c.Y*ppf+3, label)
			pdf.SetFont("Helvetica", "", 7)
			for _, f := range a.Furniture {
				pdf.Text(pdfMarginPt+f.Position.XFt*ppf-pdf.GetStringWidth(f.Name)/2, pdfMarginPt+f.Position.YFt*ppf+2, f.Name)
			}
		}
	}

	// Title block at the bottom margin.
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	footer := fmt.Sprintf("%s  |  %gx%g ft  |  1 ft = %g pt", title, d.CanvasSize.WidthFt, d.CanvasSize.HeightFt, ppf)
	if !d.ExportedAt.IsZero() {
		footer += "  |  " + d.ExportedAt.Format("2006-01-02")
	}
	pdf.Text(pdfMarginPt, mediaH-pdfMarginPt/2, footer)

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(h.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".pdf") {
		outPath += ".pdf"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	r := c.RGBA()
	pdf.SetDrawColor(int(r.R), int(r.G), int(r.B))
}
