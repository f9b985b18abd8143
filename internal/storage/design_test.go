/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"floorplanner/internal/domain"
)

func sampleDesign(name string) domain.DesignFile {
	white := "#fafafa"
	return domain.DesignFile{
		Name: name,
		Areas: []domain.AreaRecord{
			{
				ID:     "a1",
				Type:   "living",
				Color:  "#b5d99c",
				Points: [][2]float64{{0, 0}, {20, 0}, {20, 15}, {0, 15}},
				Furniture: []domain.FurnitureRecord{
					{
						ID:       "f1",
						Name:     "Sofa",
						Color:    &white,
						Position: domain.PositionFt{XFt: 10, YFt: 7},
						Size:     domain.SizeFt{WidthFt: 7, HeightFt: 3},
					},
				},
			},
		},
		CanvasSize: domain.DefaultCanvasSize,
		ExportedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestInitDesignScaffolds(t *testing.T) {
	root := t.TempDir()
	h, err := InitDesign(root, sampleDesign("Flat 7"))
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	if _, err := os.Stat(h.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	for _, d := range []string{"exports", BackupsDirName} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("subdir %s missing", d)
		}
	}
}

func TestSaveCreatesBackupAndOpenRoundTrips(t *testing.T) {
	root := t.TempDir()
	h, err := InitDesign(root, sampleDesign("v1"))
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	h.Design.Name = "v2"
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	baks := 0
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".bak") {
			baks++
		}
	}
	if baks != 1 {
		t.Fatalf("backups = %d, want 1 (from the second save)", baks)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Design.Name != "v2" {
		t.Fatalf("name = %q, want v2", got.Design.Name)
	}
	if len(got.Design.Areas) != 1 || got.Design.Areas[0].Furniture[0].Name != "Sofa" {
		t.Fatalf("design content lost: %+v", got.Design)
	}
}

func TestOpenRecoversFromBackupWhenManifestCorrupt(t *testing.T) {
	root := t.TempDir()
	h, err := InitDesign(root, sampleDesign("good"))
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	// A second save produces a backup of the good manifest.
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(h.ManifestPath, []byte("{ definitely not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open should recover from backup: %v", err)
	}
	if got.Design.Name != "good" {
		t.Fatalf("recovered name = %q", got.Design.Name)
	}
}

func TestOpenFailsWithoutManifestOrBackup(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatalf("Open of empty dir should fail")
	}
}

func TestOpenRejectsSchemaViolatingManifest(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, BackupsDirName), 0o755); err != nil {
		t.Fatal(err)
	}
	// Valid JSON, but areas is missing, so the schema rejects it and there
	// is no backup to fall back to.
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte(`{"name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("schema-violating manifest should fail to open")
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	root := t.TempDir()
	h, err := InitDesign(root, sampleDesign("move me"))
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(h, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if h.Root != newRoot {
		t.Fatalf("handle root not updated: %q", h.Root)
	}
	got, err := Open(newRoot)
	if err != nil {
		t.Fatalf("Open new root: %v", err)
	}
	if got.Design.Name != "move me" {
		t.Fatalf("name = %q", got.Design.Name)
	}
}
