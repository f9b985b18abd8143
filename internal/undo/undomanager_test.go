/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func snapAt(sec int, payload string) Snapshot {
	return Snapshot{Blob: []byte(payload), TS: time.Unix(int64(sec), 0)}
}

func TestUndoRedoLinear(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	m.Push(snapAt(1, "one"))
	m.Push(snapAt(2, "two"))
	m.Push(snapAt(3, "three"))

	s, ok := m.Undo()
	if !ok || string(s.Blob) != "three" {
		t.Fatalf("undo = %q, %v", s.Blob, ok)
	}
	s, ok = m.Redo()
	if !ok || string(s.Blob) != "three" {
		t.Fatalf("redo = %q, %v", s.Blob, ok)
	}
	m.Undo()
	m.Undo()
	s, ok = m.Undo()
	if !ok || string(s.Blob) != "one" {
		t.Fatalf("undo to bottom = %q, %v", s.Blob, ok)
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo past bottom should fail")
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	m.Push(snapAt(1, "one"))
	m.Push(snapAt(2, "two"))
	m.Undo()
	m.Push(snapAt(3, "three"))
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo should be invalidated by a new push")
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	base := time.Unix(100, 0)
	m.Push(Snapshot{Blob: []byte("a"), TS: base})
	m.Push(Snapshot{Blob: []byte("ab"), TS: base.Add(100 * time.Millisecond)})
	m.Push(Snapshot{Blob: []byte("abc"), TS: base.Add(200 * time.Millisecond)})

	bytes, depth := m.Stats()
	if depth != 1 {
		t.Fatalf("depth = %d, want coalesced 1", depth)
	}
	if bytes != 3 {
		t.Fatalf("bytes = %d, want 3 (latest blob only)", bytes)
	}
	s, _ := m.Undo()
	if string(s.Blob) != "abc" {
		t.Fatalf("coalesced snapshot = %q", s.Blob)
	}
}

func TestDepthCap(t *testing.T) {
	m := NewManager(Config{MaxDepth: 2, MinInterval: time.Millisecond})
	m.Push(snapAt(1, "one"))
	m.Push(snapAt(2, "two"))
	m.Push(snapAt(3, "three"))
	if _, depth := m.Stats(); depth != 2 {
		t.Fatalf("depth = %d, want capped 2", depth)
	}
	m.Undo()
	s, _ := m.Undo()
	if string(s.Blob) != "two" {
		t.Fatalf("oldest surviving = %q, want two", s.Blob)
	}
}

func TestByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 10, MinInterval: time.Millisecond})
	m.Push(snapAt(1, "aaaaa")) // 5 bytes
	m.Push(snapAt(2, "bbbbb")) // 5 bytes, at cap
	m.Push(snapAt(3, "cc"))    // pushes total to 12, oldest pruned
	bytes, depth := m.Stats()
	if depth != 2 || bytes != 7 {
		t.Fatalf("stats = %d bytes, %d deep; want 7, 2", bytes, depth)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(Config{})
	m.Push(snapAt(1, "one"))
	m.Clear()
	if bytes, depth := m.Stats(); bytes != 0 || depth != 0 {
		t.Fatalf("clear left %d bytes, %d deep", bytes, depth)
	}
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo after clear should fail")
	}
}
