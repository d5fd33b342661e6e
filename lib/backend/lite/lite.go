/*
 * Edgegate
 * Copyright (C) 2026  Stackmesh, Inc.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package lite implements a sqlite backed storage backend. It is the
// on-disk store for the broker's runtime state, so cached
// verifications survive restarts.
package lite

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/backend"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var log = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentBackend)

const (
	// defaultDBFile is the database file name inside the configured
	// directory.
	defaultDBFile = "edgegate.db"
	// busyTimeout is how long sqlite waits on a locked database
	// before returning SQLITE_BUSY, in milliseconds.
	busyTimeout = 10000

	schema = `CREATE TABLE IF NOT EXISTS kv (
  key BLOB PRIMARY KEY,
  value BLOB
);`
)

// Config holds lite backend options.
type Config struct {
	// Path is the directory holding the database file.
	Path string
	// Clock is the clock to expose; defaults to the real clock.
	Clock clockwork.Clock
}

// Lite is a sqlite implementation of backend.Backend. A single writer
// at a time is enforced by sqlite itself; readers are not blocked by
// the WAL journal mode.
type Lite struct {
	db    *sql.DB
	clock clockwork.Clock
}

// New opens (creating if necessary) the database in cfg.Path.
func New(cfg Config) (*Lite, error) {
	if cfg.Path == "" {
		return nil, trace.BadParameter("missing database path")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	fullPath := filepath.Join(cfg.Path, defaultDBFile)
	params := url.Values{}
	params.Set("_busy_timeout", strconv.Itoa(busyTimeout))
	params.Set("_journal_mode", "WAL")
	params.Set("_sync", "NORMAL")
	connector := url.URL{
		Scheme:   "file",
		Opaque:   url.PathEscape(fullPath),
		RawQuery: params.Encode(),
	}
	db, err := sql.Open("sqlite3", connector.String())
	if err != nil {
		return nil, trace.Wrap(err, "opening database at %v", fullPath)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, trace.Wrap(err, "initializing schema")
	}
	log.Debug("Opened sqlite backend", "path", fullPath)
	return &Lite{db: db, clock: clock}, nil
}

// Put implements backend.Backend.
func (l *Lite) Put(ctx context.Context, i backend.Item) error {
	if len(i.Key) == 0 {
		return trace.BadParameter("missing item key")
	}
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO kv(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		i.Key, i.Value)
	return trace.Wrap(err)
}

// Get implements backend.Backend.
func (l *Lite) Get(ctx context.Context, key []byte) (*backend.Item, error) {
	row := l.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, trace.NotFound("key %q is not found", string(key))
		}
		return nil, trace.Wrap(err)
	}
	return &backend.Item{Key: key, Value: value}, nil
}

// GetRange implements backend.Backend.
func (l *Lite) GetRange(ctx context.Context, startKey, endKey []byte, limit int) ([]backend.Item, error) {
	if len(startKey) == 0 || len(endKey) == 0 {
		return nil, trace.BadParameter("missing range key")
	}
	query := "SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key"
	args := []any{startKey, endKey}
	if limit != backend.NoLimit {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer rows.Close()

	var out []backend.Item
	for rows.Next() {
		var i backend.Item
		if err := rows.Scan(&i.Key, &i.Value); err != nil {
			return nil, trace.Wrap(err)
		}
		out = append(out, i)
	}
	return out, trace.Wrap(rows.Err())
}

// Delete implements backend.Backend.
func (l *Lite) Delete(ctx context.Context, key []byte) error {
	res, err := l.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return trace.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return trace.Wrap(err)
	}
	if n == 0 {
		return trace.NotFound("key %q is not found", string(key))
	}
	return nil
}

// Close implements backend.Backend.
func (l *Lite) Close() error {
	return trace.Wrap(l.db.Close())
}

// Clock implements backend.Backend.
func (l *Lite) Clock() clockwork.Clock {
	return l.clock
}
