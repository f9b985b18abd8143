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
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"floorplanner/internal/domain"
)

//go:embed floorplan.schema.json
var schemaJSON []byte

// ErrInvalidFormat wraps every schema rejection so callers can present one
// user-visible "invalid format" failure regardless of the specific rule.
var ErrInvalidFormat = errors.New("invalid design format")

// ValidateDesignJSON checks raw bytes against the embedded design schema.
// It rejects, among other things, a missing or non-array "areas" field,
// polygons with fewer than three points, and malformed colors.
func ValidateDesignJSON(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidFormat, strings.Join(msgs, "; "))
	}
	return nil
}

// DecodeDesign validates and unmarshals a design manifest. A missing canvas
// size falls back to the default so old files keep opening.
func DecodeDesign(data []byte) (domain.DesignFile, error) {
	if err := ValidateDesignJSON(data); err != nil {
		return domain.DesignFile{}, err
	}
	var d domain.DesignFile
	if err := json.Unmarshal(data, &d); err != nil {
		return domain.DesignFile{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if d.CanvasSize.WidthFt <= 0 || d.CanvasSize.HeightFt <= 0 {
		d.CanvasSize = domain.DefaultCanvasSize
	}
	return d, nil
}
