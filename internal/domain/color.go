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

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a "#rrggbb" hex string, the representation used in the exported
// JSON format. Rendering layers convert to color.RGBA on demand.
type Color string

// Valid reports whether the color is a well-formed "#rrggbb" string.
func (c Color) Valid() bool {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// RGBA decodes the hex triplet. Malformed colors decode to opaque gray so a
// bad value is visible instead of invisible.
func (c Color) RGBA() color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ColorFromRGBA formats an RGBA value as "#rrggbb" (alpha is dropped).
func ColorFromRGBA(c color.RGBA) Color {
	return Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
