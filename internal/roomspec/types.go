/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package roomspec parses the plain-text room list format that seeds a new
// design through the layout packer. One line per room, grouped under
// optional floor headings:
//
//	# Ground floor
//	bedroom: 12 x 10 Master
//	kitchen: 8 x 10
//	; appliances along the north wall
//
// Lines starting with ';' are notes and ignored for layout.
package roomspec

import (
	"fmt"

	"floorplanner/internal/domain"
)

// Room is one parsed room request in feet.
type Room struct {
	Type     domain.AreaType
	WidthFt  float64
	HeightFt float64
	// Label is the optional free text after the dimensions ("Master").
	Label  string
	LineNo int
}

// Floor groups the rooms under one heading.
type Floor struct {
	Title string
	Rooms []Room
}

// Spec is a parsed room list.
type Spec struct {
	Floors []Floor
}

// Rooms flattens all floors in document order.
func (s Spec) Rooms() []Room {
	var out []Room
	for _, f := range s.Floors {
		out = append(out, f.Rooms...)
	}
	return out
}

// Error is one recoverable parse problem. Parsing continues past errors so
// the user sees all problems in one pass.
type Error struct {
	Line    int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
