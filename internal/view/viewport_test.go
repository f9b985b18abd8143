/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package view

import (
	"math"
	"math/rand"
	"testing"

	"floorplanner/internal/geometry"
)

func TestZoomClamping(t *testing.T) {
	v := New(geometry.Size{Width: 1000, Height: 800})
	v.SetZoom(100)
	if v.Zoom() != MaxZoom {
		t.Fatalf("zoom = %v, want clamped to %v", v.Zoom(), MaxZoom)
	}
	v.SetZoom(0.0001)
	if v.Zoom() != MinZoom {
		t.Fatalf("zoom = %v, want clamped to %v", v.Zoom(), MinZoom)
	}
	v.Reset()
	if v.Zoom() != DefaultZoom || v.Pan() != (geometry.Point{}) {
		t.Fatalf("reset left zoom=%v pan=%v", v.Zoom(), v.Pan())
	}
}

func TestZoomSteps(t *testing.T) {
	v := New(geometry.Size{Width: 1000, Height: 800})
	v.ZoomIn()
	if math.Abs(v.Zoom()-DefaultZoom*ZoomStep) > 1e-12 {
		t.Fatalf("zoom in = %v", v.Zoom())
	}
	v.ZoomOut()
	if math.Abs(v.Zoom()-DefaultZoom) > 1e-12 {
		t.Fatalf("zoom out should undo zoom in, got %v", v.Zoom())
	}
}

// TestRoundTrip asserts worldToScreen(screenToWorld(p)) == p for random
// zooms, pans and screen points.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := New(geometry.Size{Width: 2000, Height: 2000})
	for i := 0; i < 1000; i++ {
		v.SetZoom(MinZoom + rng.Float64()*(MaxZoom-MinZoom))
		v.PanBy(geometry.Pt(rng.Float64()*400-200, rng.Float64()*400-200))
		p := geometry.Pt(rng.Float64()*1600-300, rng.Float64()*1600-300)
		got := v.WorldToScreen(v.ScreenToWorld(p))
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Fatalf("round trip %v -> %v (zoom=%v pan=%v)", p, got, v.Zoom(), v.Pan())
		}
	}
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	v := New(geometry.Size{Width: 4000, Height: 4000})
	v.PanBy(geometry.Pt(37, -12))
	anchor := geometry.Pt(420, 310)
	before := v.ScreenToWorld(anchor)

	v.ZoomAt(anchor, 2.5)

	after := v.ScreenToWorld(anchor)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Fatalf("anchor drifted: before=%v after=%v", before, after)
	}
}

func TestPanClamping(t *testing.T) {
	v := New(geometry.Size{Width: 100, Height: 100})
	v.PanBy(geometry.Pt(1e6, -1e6))
	bound := 100.0 / v.Zoom()
	if v.Pan().X != bound || v.Pan().Y != -bound {
		t.Fatalf("pan = %v, want clamped to ±%v", v.Pan(), bound)
	}
}

func TestScreenToWorldSnapped(t *testing.T) {
	v := New(geometry.Size{Width: 1000, Height: 1000})
	p := v.ScreenToWorldSnapped(geometry.Pt(103, 97), 20)
	if p != geometry.Pt(100, 100) {
		t.Fatalf("snapped = %v, want (100,100)", p)
	}
}

func TestOnChangeFires(t *testing.T) {
	v := New(geometry.Size{Width: 100, Height: 100})
	n := 0
	v.OnChange(func() { n++ })
	v.ZoomIn()
	v.PanBy(geometry.Pt(1, 1))
	v.Reset()
	if n != 3 {
		t.Fatalf("onChange fired %d times, want 3", n)
	}
}
