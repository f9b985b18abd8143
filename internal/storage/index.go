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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"floorplanner/internal/domain"
	applog "floorplanner/internal/log"
	"floorplanner/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-design ephemeral/index data under the
	// design root.
	IndexDirName  = ".fpd"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this on breaking schema changes and add a migration step.
	schemaVersion = 2
)

// IndexPath returns the full path to the design's embedded index database.
func IndexPath(designRoot string) string {
	return filepath.Join(designRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-design SQLite index exists at
// .fpd/index.sqlite, opens it, enables WAL mode, and brings the schema up to
// date. The returned *sql.DB is ready for use.
func InitOrOpenIndex(designRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", designRoot),
	)
	if strings.TrimSpace(designRoot) == "" {
		return nil, errors.New("design root is required")
	}
	if err := os.MkdirAll(filepath.Join(designRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .fpd dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .fpd dir: %w", err)
	}

	path := IndexPath(designRoot)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Keep the stored schema for migrations; only refresh app info.
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Never downgrade.
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_items_area ON items(area_id);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize outside the tx.
			_, _ = db.ExecContext(ctx, `INSERT INTO fts_items(fts_items) VALUES('optimize')`)
		default:
			// Unknown future step.
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates the index tables and FTS structures.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per searchable thing: the design name, each area, each
		// furniture item.
		`CREATE TABLE IF NOT EXISTS items (
			item_id  INTEGER PRIMARY KEY,
			kind     TEXT NOT NULL,
			path     TEXT NOT NULL,
			area_id  TEXT,
			text     TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_path ON items(path);`,

		// Contentless FTS5 index fed from items via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_items USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// History snapshots of the whole design manifest.
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         INTEGER PRIMARY KEY,
			ts         TEXT NOT NULL,
			label      TEXT,
			design_blob BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
			INSERT INTO fts_items(rowid, text) VALUES (new.item_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
			INSERT INTO fts_items(fts_items, rowid, text) VALUES ('delete', old.item_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE OF text ON items BEGIN
			INSERT INTO fts_items(fts_items, rowid, text) VALUES ('delete', old.item_id, old.text);
			INSERT INTO fts_items(rowid, text) VALUES (new.item_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// UpdateIndex replaces the items content from the given design manifest.
// The index is derived data, so a full replace is always safe.
func UpdateIndex(ctx context.Context, designRoot string, d domain.DesignFile) error {
	db, err := InitOrOpenIndex(designRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildItemsFromDesign(ctx, db, d)
}

// RebuildIndex drops and recreates the index tables, preserving
// meta/version, and repopulates from the manifest.
func RebuildIndex(ctx context.Context, designRoot string, d domain.DesignFile) error {
	db, err := InitOrOpenIndex(designRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TRIGGER IF EXISTS items_ai;",
		"DROP TRIGGER IF EXISTS items_ad;",
		"DROP TRIGGER IF EXISTS items_au;",
		"DROP TABLE IF EXISTS items;",
		"DROP TABLE IF EXISTS fts_items;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildItemsFromDesign(ctx, db, d)
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds
// when needed. Returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, designRoot string, d domain.DesignFile) (bool, error) {
	path := IndexPath(designRoot)
	db, err := InitOrOpenIndex(designRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, designRoot, d); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM items LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := RebuildIndex(ctx, designRoot, d); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup
// under .fpd/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// rebuildItemsFromDesign replaces the items table content from the manifest.
func rebuildItemsFromDesign(ctx context.Context, db *sql.DB, d domain.DesignFile) error {
	type row struct {
		kind   string
		path   string
		areaID sql.NullString
		text   string
	}
	rows := make([]row, 0, 64)
	if s := strings.TrimSpace(d.Name); s != "" {
		rows = append(rows, row{kind: "design_name", path: "design:name", text: s})
	}
	for _, a := range d.Areas {
		rows = append(rows, row{
			kind:   "area",
			path:   "area:" + a.ID,
			areaID: sql.NullString{String: a.ID, Valid: true},
			text:   a.Type,
		})
		for _, f := range a.Furniture {
			if s := strings.TrimSpace(f.Name); s != "" {
				rows = append(rows, row{
					kind:   "furniture",
					path:   fmt.Sprintf("area:%s/furniture:%s", a.ID, f.ID),
					areaID: sql.NullString{String: a.ID, Valid: true},
					text:   s,
				})
			}
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM items;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear items: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO items(kind, path, area_id, text) VALUES(?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, r.kind, r.path, r.areaID, r.text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
