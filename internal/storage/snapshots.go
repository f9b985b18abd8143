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
	"time"
)

// Snapshot is one persisted design history entry.
type Snapshot struct {
	TS    time.Time
	Label string
	Blob  []byte
}

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(ts, label, design_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, COALESCE(label,''), design_blob FROM snapshots ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, COALESCE(label,''), design_blob FROM snapshots ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC LIMIT ?
)`

// SaveSnapshot persists a serialized design with a timestamp and optional
// label ("before import", "autosave").
func SaveSnapshot(ctx context.Context, h *DesignHandle, label string, blob []byte, ts time.Time) error {
	if h == nil {
		return errors.New("nil DesignHandle")
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), label, blob)
	return err
}

// LatestSnapshot returns the most recent snapshot, or a nil blob if none.
func LatestSnapshot(ctx context.Context, h *DesignHandle) (Snapshot, error) {
	if h == nil {
		return Snapshot{}, errors.New("nil DesignHandle")
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = db.Close() }()
	var s Snapshot
	var tsStr string
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&tsStr, &s.Label, &s.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	if ts, perr := time.Parse(time.RFC3339Nano, tsStr); perr == nil {
		s.TS = ts
	}
	return s, nil
}

// ListSnapshots returns up to limit most recent snapshots, newest first.
func ListSnapshots(ctx context.Context, h *DesignHandle, limit int) ([]Snapshot, error) {
	if h == nil {
		return nil, errors.New("nil DesignHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var tsStr string
		if err := rows.Scan(&tsStr, &s.Label, &s.Blob); err != nil {
			return nil, err
		}
		if ts, perr := time.Parse(time.RFC3339Nano, tsStr); perr == nil {
			s.TS = ts
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots and deletes the rest.
func PruneOldSnapshots(ctx context.Context, h *DesignHandle, keepLast int) (int64, error) {
	if h == nil {
		return 0, errors.New("nil DesignHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(h.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
