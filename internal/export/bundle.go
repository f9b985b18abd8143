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
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"floorplanner/internal/storage"
)

// BundleOptions controls the ZIP bundle: the PNG render settings apply to
// the embedded raster, and the SVG inherits the same scale and flags.
type BundleOptions struct {
	PNG PNGOptions
}

// ExportBundle packages the plan as a single shareable ZIP containing the
// rendered PNG, the SVG, and the design.json manifest. A missing .zip
// extension is appended; relative paths resolve under <root>/exports.
func ExportBundle(h *storage.DesignHandle, outPath string, opt BundleOptions) error {
	if h == nil {
		return fmt.Errorf("design handle is nil")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(h.Root, "exports", outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath += ".zip"
	}

	zw, f, err := createZip(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	img := renderDesign(h.Design, resolveStyle(opt.PNG))
	imgBuf := &bytes.Buffer{}
	if err := png.Encode(imgBuf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := addZipFile(zw, "plan.png", imgBuf.Bytes()); err != nil {
		return fmt.Errorf("zip add png: %w", err)
	}

	svg, err := buildSVG(h.Design, SVGOptions{
		Scale:         opt.PNG.Scale,
		IncludeGrid:   opt.PNG.IncludeGrid,
		IncludeLabels: opt.PNG.IncludeLabels,
		GridColor:     opt.PNG.GridColor,
		WallColor:     opt.PNG.WallColor,
	})
	if err != nil {
		return err
	}
	if err := addZipFile(zw, "plan.svg", svg); err != nil {
		return fmt.Errorf("zip add svg: %w", err)
	}

	manifest, err := json.MarshalIndent(h.Design, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifest = append(manifest, '\n')
	if err := addZipFile(zw, storage.ManifestFileName, manifest); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create zip: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
