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
	"time"

	"floorplanner/internal/geometry"
)

const (
	// TapMoveThreshold is the total screen-pixel movement above which a
	// touch stops being a tap and becomes a drag.
	TapMoveThreshold = 30.0
	// TapMaxDuration is the longest a contact can last and still count as
	// a tap.
	TapMaxDuration = 600 * time.Millisecond
	// LongPressDelay is how long a still contact must be held before the
	// long-press callback fires.
	LongPressDelay = 500 * time.Millisecond
)

// GestureKind classifies a finished touch interaction.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureTap
	GestureDrag
)

// Scheduler runs fn after d and returns a cancel func. The default uses
// time.AfterFunc; tests inject a manual one.
type Scheduler func(d time.Duration, fn func()) (cancel func())

func timerScheduler(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// GestureRecognizer turns raw touch events into tap / drag / long-press
// decisions. The long-press timer is the only delayed operation in the
// interaction core; every competing event (movement past threshold, touch
// end, a new touch, a second finger) both cancels the timer handle and bumps
// the session token, so a callback that slipped through anyway re-validates
// the token and becomes a no-op.
type GestureRecognizer struct {
	schedule Scheduler
	now      func() time.Time

	onLongPress func(geometry.Point)

	token       uint64
	active      bool
	multi       bool
	longFired   bool
	start       geometry.Point
	startAt     time.Time
	traveled    float64
	last        geometry.Point
	cancelTimer func()
}

// NewGestureRecognizer returns a recognizer using real timers and the wall
// clock.
func NewGestureRecognizer() *GestureRecognizer {
	return &GestureRecognizer{schedule: timerScheduler, now: time.Now}
}

// OnLongPress registers the long-press callback. It fires at most once per
// contact, with the touch-start position.
func (g *GestureRecognizer) OnLongPress(fn func(geometry.Point)) { g.onLongPress = fn }

// TouchStart begins a contact. touches is the number of simultaneous
// contacts; more than one disables tap and long-press for the whole
// interaction (multi-touch is reserved for pinch/pan).
func (g *GestureRecognizer) TouchStart(p geometry.Point, touches int) {
	g.invalidate()
	g.active = true
	g.multi = touches > 1
	g.longFired = false
	g.start = p
	g.last = p
	g.startAt = g.now()
	g.traveled = 0
	if g.multi || g.onLongPress == nil {
		return
	}
	tok := g.token
	g.cancelTimer = g.schedule(LongPressDelay, func() {
		if g.token != tok || !g.active || g.traveled >= TapMoveThreshold {
			return
		}
		g.longFired = true
		g.onLongPress(g.start)
	})
}

// TouchMove accumulates movement. Crossing the movement threshold cancels
// any pending long-press.
func (g *GestureRecognizer) TouchMove(p geometry.Point) {
	if !g.active {
		return
	}
	g.traveled += p.Distance(g.last)
	g.last = p
	if g.traveled >= TapMoveThreshold {
		g.invalidate()
	}
}

// TouchEnd finishes the contact and returns its classification. A contact
// that already produced a long-press, or involved multiple fingers, is
// consumed and classifies as none.
func (g *GestureRecognizer) TouchEnd(p geometry.Point) GestureKind {
	if !g.active {
		return GestureNone
	}
	elapsed := g.now().Sub(g.startAt)
	g.traveled += p.Distance(g.last)
	active := !g.multi && !g.longFired
	g.invalidate()
	g.active = false
	if !active {
		return GestureNone
	}
	if g.traveled < TapMoveThreshold && elapsed < TapMaxDuration {
		return GestureTap
	}
	return GestureDrag
}

// Cancel aborts the contact, for example when the host delivers touchcancel.
func (g *GestureRecognizer) Cancel() {
	g.invalidate()
	g.active = false
}

// invalidate bumps the session token and stops a pending timer. Both are
// needed: stopping covers the common case, the token makes an already-fired
// callback provably inert.
func (g *GestureRecognizer) invalidate() {
	g.token++
	if g.cancelTimer != nil {
		g.cancelTimer()
		g.cancelTimer = nil
	}
}
