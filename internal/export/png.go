/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders a design to shareable artifacts: a PNG raster, an
// SVG, a single-sheet PDF, and a ZIP bundle of raster plus manifest.
// Relative output paths resolve under the design's exports folder.
package export

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"floorplanner/internal/domain"
	"floorplanner/internal/storage"
)

// PNGOptions controls PNG export behavior.
// - Scale: output pixels per foot; 0 uses the editor grid unit (20 px/ft)
// - IncludeGrid: draw one-foot grid lines with heavier lines every five feet
// - IncludeLabels: draw area type plus square footage, and furniture names
// - VastuGrid: overlay the 3x3 zone hairlines on top of the plan
// - Colors fall back to sensible defaults when left zero.
type PNGOptions struct {
	Scale         float64
	IncludeGrid   bool
	IncludeLabels bool
	VastuGrid     bool
	GridColor     domain.Color
	WallColor     domain.Color
}

// ExportPNG renders the design to a single PNG at outPath. Output files land
// under <root>/exports unless outPath is absolute; a missing .png extension
// is appended.
func ExportPNG(h *storage.DesignHandle, outPath string, opt PNGOptions) error {
	if h == nil {
		return fmt.Errorf("design handle is nil")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(h.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".png") {
		outPath += ".png"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	img := renderDesign(h.Design, resolveStyle(opt))

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
