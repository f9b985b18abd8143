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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the design sharing API. The desktop
// app uses it behind a feature flag to list and fetch published designs and
// to publish the open one.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Design is a minimal projection for listing.
type Design struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ListDesigns returns published designs (read-only).
func (c *Client) ListDesigns(ctx context.Context) ([]Design, error) {
	var list []Design
	if err := c.doJSON(ctx, http.MethodGet, "/api/designs", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ManifestEnvelope matches the server response for the latest snapshot of a
// design.
type ManifestEnvelope struct {
	DesignID  int64           `json:"design_id"`
	Version   int64           `json:"version"`
	CreatedAt string          `json:"created_at"`
	Manifest  json.RawMessage `json:"manifest"`
}

// GetManifest fetches the latest published manifest for a design.
func (c *Client) GetManifest(ctx context.Context, designID int64) (*ManifestEnvelope, error) {
	var env ManifestEnvelope
	path := fmt.Sprintf("/api/designs/%d/manifest", designID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PublishResult is the server acknowledgment of a publish.
type PublishResult struct {
	ID      int64 `json:"id"`
	Version int64 `json:"version"`
}

// Publish uploads a manifest as a brand new design and returns its id.
func (c *Client) Publish(ctx context.Context, manifest []byte) (*PublishResult, error) {
	var res PublishResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/designs", manifest, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PublishVersion uploads a new manifest version for an existing design.
func (c *Client) PublishVersion(ctx context.Context, designID int64, manifest []byte) (*PublishResult, error) {
	var res PublishResult
	path := fmt.Sprintf("/api/designs/%d/manifest", designID)
	if err := c.doJSON(ctx, http.MethodPost, path, manifest, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
