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

// Package backend provides the storage abstraction over the broker's
// locally persisted state. Item keys are assumed to be valid UTF-8.
package backend

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
)

// Backend implements abstraction over a local storage backend.
type Backend interface {
	// Put puts a value into the backend, creating the item if it does
	// not exist and updating it otherwise.
	Put(ctx context.Context, i Item) error

	// Get returns a single item or a NotFound error.
	Get(ctx context.Context, key []byte) (*Item, error)

	// GetRange returns items with startKey <= key < endKey, in key
	// order, up to limit items. NoLimit means no limit.
	GetRange(ctx context.Context, startKey, endKey []byte, limit int) ([]Item, error)

	// Delete deletes an item by key, returning a NotFound error if it
	// does not exist.
	Delete(ctx context.Context, key []byte) error

	// Close closes the backend and releases associated resources.
	Close() error

	// Clock returns the clock used by this backend.
	Clock() clockwork.Clock
}

// Item is a key value item.
type Item struct {
	// Key is the item key.
	Key []byte
	// Value is the stored value.
	Value []byte
}

// NoLimit specifies no limit for GetRange.
const NoLimit = 0

// Separator separates key parts.
const Separator = '/'

// Key joins parts into a path separated by Separator. The result
// always starts with the separator.
func Key(parts ...string) []byte {
	return []byte(strings.Join(append([]string{""}, parts...), string(Separator)))
}

// RangeEnd returns the key just past the range of keys prefixed by
// key, for use as a GetRange end key.
func RangeEnd(key []byte) []byte {
	end := make([]byte, len(key))
	copy(end, key)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// No key can follow (e.g. 0xffff).
	return []byte{0}
}
