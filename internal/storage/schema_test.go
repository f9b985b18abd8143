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
	"errors"
	"os"
	"testing"
)

func TestSavedManifestConformsToSchema(t *testing.T) {
	root := t.TempDir()
	h, err := InitDesign(root, sampleDesign("Schema Test"))
	if err != nil {
		t.Fatalf("InitDesign: %v", err)
	}
	data, err := os.ReadFile(h.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := ValidateDesignJSON(data); err != nil {
		t.Fatalf("saved manifest does not conform to schema: %v", err)
	}
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"missing areas":   `{"name":"x"}`,
		"areas not array": `{"areas":{}}`,
		"too few points":  `{"areas":[{"id":"a","type":"living","points":[[0,0],[1,0]]}]}`,
		"unknown type":    `{"areas":[{"id":"a","type":"dungeon","points":[[0,0],[1,0],[1,1]]}]}`,
		"bad color":       `{"areas":[{"id":"a","type":"living","color":"green","points":[[0,0],[1,0],[1,1]]}]}`,
		"bad furniture":   `{"areas":[{"id":"a","type":"living","points":[[0,0],[1,0],[1,1]],"furniture":[{"id":"f"}]}]}`,
	}
	for label, doc := range cases {
		err := ValidateDesignJSON([]byte(doc))
		if err == nil {
			t.Errorf("%s: accepted", label)
			continue
		}
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("%s: err = %v, want ErrInvalidFormat", label, err)
		}
	}
}

func TestDecodeDesignCanvasFallback(t *testing.T) {
	doc := `{"areas":[{"id":"a","type":"living","points":[[0,0],[10,0],[10,10]]}]}`
	d, err := DecodeDesign([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeDesign: %v", err)
	}
	if d.CanvasSize.WidthFt != 50 || d.CanvasSize.HeightFt != 40 {
		t.Fatalf("canvas fallback = %+v, want 50x40", d.CanvasSize)
	}
}

func TestDecodeDesignNullFurnitureColor(t *testing.T) {
	doc := `{"areas":[{"id":"a","type":"living","points":[[0,0],[10,0],[10,10]],
		"furniture":[{"id":"f","name":"Sofa","color":null,
		"position":{"xFt":5,"yFt":3},"size":{"widthFt":7,"heightFt":3}}]}]}`
	d, err := DecodeDesign([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeDesign: %v", err)
	}
	if d.Areas[0].Furniture[0].Color != nil {
		t.Fatalf("null color should decode to nil")
	}
}
