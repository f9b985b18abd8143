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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("auth header = %q", got)
		}
		switch r.URL.Path {
		case "/api/designs":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":1,"stable_id":"s1","name":"Flat","updated_at":"2025-06-01T12:00:00Z","version":3}]`))
		case "/api/designs/1/manifest":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"design_id":1,"version":3,"created_at":"2025-06-01T12:00:00Z","manifest":{"areas":[]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok123")
	ctx := context.Background()

	list, err := c.ListDesigns(ctx)
	if err != nil {
		t.Fatalf("ListDesigns: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Flat" || list[0].Version != 3 {
		t.Fatalf("list = %+v", list)
	}

	env, err := c.GetManifest(ctx, 1)
	if err != nil {
		t.Fatalf("GetManifest: %v", err)
	}
	if env.DesignID != 1 || env.Version != 3 || len(env.Manifest) == 0 {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestClientSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ListDesigns(context.Background()); err == nil {
		t.Fatalf("expected error on 401")
	}
}
