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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes a lookup over the design index. Text uses SQLite
// FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT). Kinds can
// restrict to "area", "furniture" or "design_name". AreaID scopes the search
// to one area's contents.
type SearchQuery struct {
	Text   string
	Kinds  []string
	AreaID string
	Limit  int
	Offset int
}

// SearchResult is a single match row.
type SearchResult struct {
	ItemID  int64
	Kind    string
	Path    string
	AreaID  string
	Snippet string
}

// Search performs full-text search with optional filters over the embedded
// index. When q.Text is empty it falls back to a plain scan with the
// filters applied.
func Search(ctx context.Context, designRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(designRoot) == "" {
		return nil, errors.New("design root is required")
	}
	db, err := InitOrOpenIndex(designRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT i.item_id, i.kind, i.path, COALESCE(i.area_id,''), snippet(fts_items, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_items JOIN items i ON fts_items.rowid = i.item_id\n")
		sb.WriteString("WHERE fts_items MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT i.item_id, i.kind, i.path, COALESCE(i.area_id,''), ''\n")
		sb.WriteString("FROM items i\nWHERE 1=1\n")
	}
	if len(q.Kinds) > 0 {
		sb.WriteString(" AND i.kind IN (" + placeholders(len(q.Kinds)) + ")\n")
		for _, k := range q.Kinds {
			args = append(args, k)
		}
	}
	if s := strings.TrimSpace(q.AreaID); s != "" {
		sb.WriteString(" AND i.area_id = ?\n")
		args = append(args, s)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY i.item_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.ItemID, &r.Kind, &r.Path, &r.AreaID, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
