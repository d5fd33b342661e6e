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

// Package memory implements an in-memory backend on top of a btree.
// It is the backend of choice for tests and for hosts that do not
// need auth state to survive restarts.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"

	"github.com/stackmesh/edgegate/lib/backend"
)

// btree degree balances node fanout against copy cost for the small
// working sets the registries keep.
const degree = 8

// Config holds memory backend options.
type Config struct {
	// Clock is the clock to expose; defaults to the real clock.
	Clock clockwork.Clock
}

// Memory is an in-memory btree backed implementation of
// backend.Backend.
type Memory struct {
	mu    sync.RWMutex
	tree  *btree.BTreeG[item]
	clock clockwork.Clock
}

type item struct {
	key   []byte
	value []byte
}

func lessItem(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// New creates a new memory backend.
func New(cfg Config) *Memory {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		tree:  btree.NewG(degree, lessItem),
		clock: clock,
	}
}

// Put implements backend.Backend.
func (m *Memory) Put(ctx context.Context, i backend.Item) error {
	if len(i.Key) == 0 {
		return trace.BadParameter("missing item key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.ReplaceOrInsert(item{
		key:   bytes.Clone(i.Key),
		value: bytes.Clone(i.Value),
	})
	return nil
}

// Get implements backend.Backend.
func (m *Memory) Get(ctx context.Context, key []byte) (*backend.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.tree.Get(item{key: key})
	if !ok {
		return nil, trace.NotFound("key %q is not found", string(key))
	}
	return &backend.Item{
		Key:   bytes.Clone(it.key),
		Value: bytes.Clone(it.value),
	}, nil
}

// GetRange implements backend.Backend.
func (m *Memory) GetRange(ctx context.Context, startKey, endKey []byte, limit int) ([]backend.Item, error) {
	if len(startKey) == 0 || len(endKey) == 0 {
		return nil, trace.BadParameter("missing range key")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []backend.Item
	m.tree.AscendRange(item{key: startKey}, item{key: endKey}, func(it item) bool {
		out = append(out, backend.Item{
			Key:   bytes.Clone(it.key),
			Value: bytes.Clone(it.value),
		})
		return limit == backend.NoLimit || len(out) < limit
	})
	return out, nil
}

// Delete implements backend.Backend.
func (m *Memory) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tree.Delete(item{key: key}); !ok {
		return trace.NotFound("key %q is not found", string(key))
	}
	return nil
}

// Close implements backend.Backend.
func (m *Memory) Close() error {
	return nil
}

// Clock implements backend.Backend.
func (m *Memory) Clock() clockwork.Clock {
	return m.clock
}
