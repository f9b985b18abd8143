/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

// deadDB returns a pool that parses but never connects; handlers that
// validate input before touching the database stay testable with it.
func deadDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := signToken(testSecret, "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := verifyToken(testSecret, tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	tok, err := signToken(testSecret, "alice", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifyToken(testSecret, tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tok, err := signToken(testSecret, "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifyToken("other-secret", tok); err == nil {
		t.Fatalf("token with foreign signature accepted")
	}
}

func TestHealthAndVersionEndpoints(t *testing.T) {
	srv := httptest.NewServer(newMux(deadDB(t), testSecret))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("version = %d", resp.StatusCode)
	}

	// readyz fails without a reachable database.
	resp, err = http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz = %d, want 503", resp.StatusCode)
	}
}

func TestAuthTokenEndpointIssuesToken(t *testing.T) {
	srv := httptest.NewServer(newMux(deadDB(t), testSecret))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/auth/token", "application/json", strings.NewReader(`{"subject":"bob"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sub, err := verifyToken(testSecret, out.Token)
	if err != nil || sub != "bob" {
		t.Fatalf("issued token invalid: sub=%q err=%v", sub, err)
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	srv := httptest.NewServer(newMux(deadDB(t), testSecret))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/designs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/designs", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d, want 401", resp.StatusCode)
	}
}

func TestPublishRejectsInvalidManifestBeforeDB(t *testing.T) {
	srv := httptest.NewServer(newMux(deadDB(t), testSecret))
	defer srv.Close()
	tok, err := signToken(testSecret, "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for _, path := range []string{"/api/designs", "/api/designs/7/manifest"} {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(`{"name":"no areas"}`))
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s = %d, want 400 from schema validation", path, resp.StatusCode)
		}
	}
}

func TestManifestRouteShape(t *testing.T) {
	srv := httptest.NewServer(newMux(deadDB(t), testSecret))
	defer srv.Close()
	tok, _ := signToken(testSecret, "alice", time.Now().Add(time.Hour))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/designs/abc/manifest", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/designs/1/nothere", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown subresource = %d, want 404", resp.StatusCode)
	}
}
