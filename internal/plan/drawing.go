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
	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

// CloseThreshold is the world-pixel distance to the first vertex within
// which a tap closes the polygon instead of adding a point.
const CloseThreshold = 50.0

// SessionState is the drawing session's state.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionDrawing
)

// DrawingSession accumulates polygon vertices for one area. It holds at most
// one in-progress polygon; closing promotes it into the registry, cancel
// discards it. Fewer than three points is only ever transient session state,
// never a registered area.
type DrawingSession struct {
	registry *Registry

	state    SessionState
	points   []geometry.Point
	areaType domain.AreaType

	onStarted func()
	onClosed  func(*domain.Area)
}

// NewDrawingSession returns an idle session feeding the given registry.
func NewDrawingSession(reg *Registry) *DrawingSession {
	return &DrawingSession{registry: reg, areaType: domain.AreaLiving}
}

// OnStarted registers a callback fired when the first vertex is placed.
func (s *DrawingSession) OnStarted(fn func()) { s.onStarted = fn }

// OnClosed registers a callback fired with the newly created area.
func (s *DrawingSession) OnClosed(fn func(*domain.Area)) { s.onClosed = fn }

// SetAreaType selects the category the next closed polygon will get.
func (s *DrawingSession) SetAreaType(typ domain.AreaType) { s.areaType = typ }

// State returns the current session state.
func (s *DrawingSession) State() SessionState { return s.state }

// Points returns a copy of the accumulated vertices, for rendering the
// in-progress outline.
func (s *DrawingSession) Points() []geometry.Point {
	return append([]geometry.Point(nil), s.points...)
}

// Tap feeds one world-coordinate tap into the session. The returned area is
// non-nil exactly when this tap closed the polygon.
//
// A tap within CloseThreshold of the first vertex closes the polygon, but
// only once three points have accumulated; below that it is an ordinary
// append, so a closed polygon is always valid by construction.
func (s *DrawingSession) Tap(p geometry.Point) (*domain.Area, error) {
	if s.state == SessionIdle {
		s.state = SessionDrawing
		s.points = []geometry.Point{p}
		if s.onStarted != nil {
			s.onStarted()
		}
		return nil, nil
	}
	if len(s.points) >= 3 && p.Distance(s.points[0]) < CloseThreshold {
		area, err := s.registry.CreateArea(s.points, s.areaType)
		if err != nil {
			return nil, err
		}
		s.reset()
		if s.onClosed != nil {
			s.onClosed(area)
		}
		return area, nil
	}
	s.points = append(s.points, p)
	return nil, nil
}

// Cancel discards the in-progress polygon.
func (s *DrawingSession) Cancel() { s.reset() }

// UndoVertex removes the most recent vertex. Removing the last remaining
// vertex returns the session to idle.
func (s *DrawingSession) UndoVertex() {
	if s.state != SessionDrawing {
		return
	}
	s.points = s.points[:len(s.points)-1]
	if len(s.points) == 0 {
		s.reset()
	}
}

func (s *DrawingSession) reset() {
	s.state = SessionIdle
	s.points = nil
}
