/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// memStore keeps tokens in memory so tests never touch the OS keyring.
type memStore struct {
	m map[string]string
}

func (s *memStore) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *memStore) Set(service, key, value string) error {
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[service+"/"+key] = value
	return nil
}
func (s *memStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func useTestStore(t *testing.T) *memStore {
	t.Helper()
	old := tokenStore
	st := &memStore{}
	tokenStore = st
	t.Cleanup(func() { tokenStore = old })
	return st
}

func useTestConfigPath(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTestStore(t)
	useTestConfigPath(t)

	cfg := Defaults()
	cfg.Editor.SnapToGrid = false
	cfg.Editor.CanvasWidthFt = 80
	cfg.Backend.BaseURL = "https://plans.example"
	if err := Save(cfg, "secret-token"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Editor.SnapToGrid {
		t.Fatalf("snap_to_grid not persisted")
	}
	if got.Editor.CanvasWidthFt != 80 || got.Editor.CanvasHeightFt != 40 {
		t.Fatalf("canvas = %gx%g", got.Editor.CanvasWidthFt, got.Editor.CanvasHeightFt)
	}
	if got.Backend.BaseURL != "https://plans.example" {
		t.Fatalf("base_url = %q", got.Backend.BaseURL)
	}
	if tok != "secret-token" {
		t.Fatalf("token = %q, want keyring round trip", tok)
	}
}

func TestTokenNeverWrittenToDisk(t *testing.T) {
	useTestStore(t)
	p := useTestConfigPath(t)
	if err := Save(Defaults(), "hush"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("config file empty")
	}
	if strings.Contains(string(data), "hush") {
		t.Fatalf("token leaked into config file")
	}
}

func TestEnvOverridesBackendURL(t *testing.T) {
	useTestStore(t)
	useTestConfigPath(t)
	t.Setenv(EnvBackendURL, "https://example.test:8443")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Backend.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	useTestStore(t)
	useTestConfigPath(t)
	t.Setenv(EnvSnapToGrid, "off")
	t.Setenv(EnvAutosaveSec, "15")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.SnapToGrid {
		t.Fatalf("SnapToGrid expected false from env override")
	}
	if cfg.Editor.AutosaveSec != 15 {
		t.Fatalf("AutosaveSec = %d", cfg.Editor.AutosaveSec)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/fpd.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/fpd.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	useTestStore(t)
	useTestConfigPath(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/fpd.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/fpd.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverrideForReportsSource(t *testing.T) {
	t.Setenv(EnvSnapToGrid, "0")
	if env, ok := EnvOverrideFor("editor.snap_to_grid"); !ok || env != EnvSnapToGrid {
		t.Fatalf("EnvOverrideFor = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("general.theme"); ok {
		t.Fatalf("unexpected override for unmapped key")
	}
}

func TestForgetToken(t *testing.T) {
	st := useTestStore(t)
	useTestConfigPath(t)
	if err := Save(Defaults(), "bye"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := ForgetToken(); err != nil {
		t.Fatalf("ForgetToken: %v", err)
	}
	if _, err := st.Get(keyringService, keyringToken); err == nil {
		t.Fatalf("token survived deletion")
	}
}
