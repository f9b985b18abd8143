/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package roomspec

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplanner/internal/domain"
)

// Parse parses a room list text into a structured Spec.
// Supported syntax (minimal):
// - Floor headings: lines starting with "#" or "Floor:" introduce a new
//   floor. The rest of the line is the title.
// - Room lines: TYPE: W x H [label]  (dimensions in feet, 'x' or '×',
//   decimals allowed). TYPE must be one of the known area types.
// - Notes: lines starting with ';' are ignored.
// Blank lines are separators. Unknown or malformed lines produce an Error
// carrying the line number; parsing continues so all problems surface in
// one pass.
func Parse(input string) (Spec, []Error) {
	s := Spec{}
	var errs []Error

	reFloor := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reFloorAlt := regexp.MustCompile(`^(?i)\s*Floor:\s*(.+)$`)
	reRoom := regexp.MustCompile(`^([a-zA-Z]+)\s*:\s*([0-9]+(?:\.[0-9]+)?)\s*[x×]\s*([0-9]+(?:\.[0-9]+)?)\s*(.*)$`)

	current := Floor{}
	flush := func() {
		if strings.TrimSpace(current.Title) != "" || len(current.Rooms) > 0 {
			s.Floors = append(s.Floors, current)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trim := strings.TrimSpace(scanner.Text())
		if trim == "" || strings.HasPrefix(trim, ";") {
			continue
		}

		if m := reFloor.FindStringSubmatch(trim); m != nil {
			flush()
			current = Floor{Title: strings.TrimSpace(m[2])}
			continue
		}
		if m := reFloorAlt.FindStringSubmatch(trim); m != nil {
			flush()
			current = Floor{Title: strings.TrimSpace(m[1])}
			continue
		}

		m := reRoom.FindStringSubmatch(trim)
		if m == nil {
			errs = append(errs, Error{Line: lineNo, Message: fmt.Sprintf("unrecognized line %q", trim)})
			continue
		}
		typ, err := domain.ParseAreaType(strings.ToLower(m[1]))
		if err != nil {
			errs = append(errs, Error{Line: lineNo, Message: err.Error()})
			continue
		}
		w, _ := strconv.ParseFloat(m[2], 64)
		h, _ := strconv.ParseFloat(m[3], 64)
		if w <= 0 || h <= 0 {
			errs = append(errs, Error{Line: lineNo, Message: "dimensions must be positive"})
			continue
		}
		current.Rooms = append(current.Rooms, Room{
			Type:     typ,
			WidthFt:  w,
			HeightFt: h,
			Label:    strings.TrimSpace(m[4]),
			LineNo:   lineNo,
		})
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Message: err.Error()})
	}
	return s, errs
}
