/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import "time"

// DesignFile is the persisted/exported design format. All geometry is
// normalized to feet (world pixels divided by the grid unit) so files are
// resolution independent; import denormalizes back to pixels.
type DesignFile struct {
	Name       string       `json:"name,omitempty"`
	Areas      []AreaRecord `json:"areas"`
	CanvasSize CanvasSizeFt `json:"canvasSize"`
	ExportedAt time.Time    `json:"exportedAt"`
}

// AreaRecord is one area in the exchange format. Points are [xFt, yFt]
// pairs in edge order; the polygon is implicitly closed.
type AreaRecord struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Color     string            `json:"color"`
	Points    [][2]float64      `json:"points"`
	AreaSqFt  int               `json:"areaSqFt"`
	Furniture []FurnitureRecord `json:"furniture"`
}

// FurnitureRecord is one furniture item in the exchange format. Color is
// nullable: null means "use the catalog/category default".
type FurnitureRecord struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Color    *string    `json:"color"`
	Position PositionFt `json:"position"`
	Size     SizeFt     `json:"size"`
}

type PositionFt struct {
	XFt float64 `json:"xFt"`
	YFt float64 `json:"yFt"`
}

type SizeFt struct {
	WidthFt  float64 `json:"widthFt"`
	HeightFt float64 `json:"heightFt"`
}

type CanvasSizeFt struct {
	WidthFt  float64 `json:"widthFt"`
	HeightFt float64 `json:"heightFt"`
}

// DefaultCanvasSize is the fallback when an imported file carries no canvas
// size.
var DefaultCanvasSize = CanvasSizeFt{WidthFt: 50, HeightFt: 40}
