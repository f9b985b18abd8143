/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package plan

import (
	"fmt"
	"time"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

// This file converts between the registry's world-pixel model and the
// feet-normalized exchange format. Export divides by the grid unit, import
// multiplies. Decoding validates everything before any mutation happens so a
// rejected file can never leave partial state behind.

// Encode snapshots the registry into the exchange format.
func (r *Registry) Encode(name string, canvas domain.CanvasSizeFt, now time.Time) domain.DesignFile {
	g := r.gridSize
	df := domain.DesignFile{
		Name:       name,
		Areas:      make([]domain.AreaRecord, 0, len(r.areas)),
		CanvasSize: canvas,
		ExportedAt: now.UTC(),
	}
	for _, a := range r.areas {
		rec := domain.AreaRecord{
			ID:        a.ID,
			Type:      string(a.Type),
			Color:     string(a.Color),
			Points:    make([][2]float64, len(a.Points)),
			AreaSqFt:  a.AreaSqFt,
			Furniture: make([]domain.FurnitureRecord, 0, len(a.Furniture)),
		}
		for i, p := range a.Points {
			rec.Points[i] = [2]float64{p.X / g, p.Y / g}
		}
		for _, f := range a.Furniture {
			fr := domain.FurnitureRecord{
				ID:       f.ID,
				Name:     f.Name,
				Position: domain.PositionFt{XFt: f.Position.X / g, YFt: f.Position.Y / g},
				Size:     domain.SizeFt{WidthFt: f.Size.Width / g, HeightFt: f.Size.Height / g},
			}
			if f.Color != "" {
				c := string(f.Color)
				fr.Color = &c
			}
			rec.Furniture = append(rec.Furniture, fr)
		}
		df.Areas = append(df.Areas, rec)
	}
	return df
}

// Decode turns an exchange file back into world-pixel areas without touching
// the registry. Unknown area types, invalid colors and degenerate polygons
// all reject the whole file. Square footage is recomputed from the points
// rather than trusted from the file.
func Decode(df domain.DesignFile, gridSize float64) ([]*domain.Area, error) {
	if gridSize <= 0 {
		gridSize = geometry.GridSize
	}
	areas := make([]*domain.Area, 0, len(df.Areas))
	for i, rec := range df.Areas {
		typ, err := domain.ParseAreaType(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", i, err)
		}
		if len(rec.Points) < 3 {
			return nil, fmt.Errorf("area %d: polygon has %d points, need at least 3", i, len(rec.Points))
		}
		color := domain.Color(rec.Color)
		if !color.Valid() {
			color = typ.DefaultColor()
		}
		a := &domain.Area{
			ID:     rec.ID,
			Type:   typ,
			Color:  color,
			Points: make([]geometry.Point, len(rec.Points)),
		}
		for j, p := range rec.Points {
			a.Points[j] = geometry.Pt(p[0]*gridSize, p[1]*gridSize)
		}
		a.AreaSqFt = geometry.PolygonAreaSqFt(a.Points, gridSize)
		for k, fr := range rec.Furniture {
			item := &domain.FurnitureItem{
				ID:       fr.ID,
				Name:     fr.Name,
				Position: geometry.Pt(fr.Position.XFt*gridSize, fr.Position.YFt*gridSize),
				Size: geometry.Size{
					Width:  fr.Size.WidthFt * gridSize,
					Height: fr.Size.HeightFt * gridSize,
				},
				AreaID: a.ID,
			}
			if fr.Color != nil {
				fc := domain.Color(*fr.Color)
				if !fc.Valid() {
					return nil, fmt.Errorf("area %d furniture %d: invalid color %q", i, k, *fr.Color)
				}
				item.Color = fc
			}
			a.Furniture = append(a.Furniture, item)
		}
		areas = append(areas, a)
	}
	return areas, nil
}

// Import replaces the registry content with the decoded file. Decode runs to
// completion first, so a failed import leaves the registry untouched.
func (r *Registry) Import(df domain.DesignFile) error {
	areas, err := Decode(df, r.gridSize)
	if err != nil {
		return err
	}
	r.Replace(areas)
	return nil
}
