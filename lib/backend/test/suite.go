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

// Package test contains the backend compliance suite that every
// backend implementation's tests run.
package test

import (
	"context"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"

	"github.com/stackmesh/edgegate/lib/backend"
)

// Constructor creates a fresh empty backend for one subtest.
type Constructor func(t *testing.T) backend.Backend

// RunBackendComplianceSuite runs the behavior every backend must
// share through the given constructor.
func RunBackendComplianceSuite(t *testing.T, newBackend Constructor) {
	t.Run("CRUD", func(t *testing.T) {
		testCRUD(t, newBackend(t))
	})
	t.Run("Range", func(t *testing.T) {
		testRange(t, newBackend(t))
	})
	t.Run("Validation", func(t *testing.T) {
		testValidation(t, newBackend(t))
	})
}

func testCRUD(t *testing.T, bk backend.Backend) {
	ctx := context.Background()
	key := backend.Key("runtime", "clientDeviceThings", "MyThing")

	_, err := bk.Get(ctx, key)
	require.True(t, trace.IsNotFound(err), "expected NotFound, got %v", err)

	require.NoError(t, bk.Put(ctx, backend.Item{Key: key, Value: []byte("v1")}))
	got, err := bk.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got.Value)

	// Put on an existing key overwrites.
	require.NoError(t, bk.Put(ctx, backend.Item{Key: key, Value: []byte("v2")}))
	got, err = bk.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got.Value)

	require.NoError(t, bk.Delete(ctx, key))
	_, err = bk.Get(ctx, key)
	require.True(t, trace.IsNotFound(err), "expected NotFound, got %v", err)

	err = bk.Delete(ctx, key)
	require.True(t, trace.IsNotFound(err), "expected NotFound, got %v", err)
}

func testRange(t *testing.T, bk backend.Backend) {
	ctx := context.Background()
	prefix := backend.Key("runtime", "clientDeviceCerts")
	for _, suffix := range []string{"c", "a", "b"} {
		item := backend.Item{
			Key:   backend.Key("runtime", "clientDeviceCerts", suffix),
			Value: []byte(suffix),
		}
		require.NoError(t, bk.Put(ctx, item))
	}
	// An item outside the prefix must not be returned.
	require.NoError(t, bk.Put(ctx, backend.Item{
		Key:   backend.Key("runtime", "clientDeviceThings", "a"),
		Value: []byte("other"),
	}))

	items, err := bk.GetRange(ctx, prefix, backend.RangeEnd(prefix), backend.NoLimit)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, []byte("a"), items[0].Value)
	require.Equal(t, []byte("b"), items[1].Value)
	require.Equal(t, []byte("c"), items[2].Value)

	items, err = bk.GetRange(ctx, prefix, backend.RangeEnd(prefix), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	empty := backend.Key("runtime", "nothing")
	items, err = bk.GetRange(ctx, empty, backend.RangeEnd(empty), backend.NoLimit)
	require.NoError(t, err)
	require.Empty(t, items)
}

func testValidation(t *testing.T, bk backend.Backend) {
	ctx := context.Background()

	err := bk.Put(ctx, backend.Item{Value: []byte("no key")})
	require.True(t, trace.IsBadParameter(err), "expected BadParameter, got %v", err)

	_, err = bk.GetRange(ctx, nil, backend.Key("end"), backend.NoLimit)
	require.True(t, trace.IsBadParameter(err), "expected BadParameter, got %v", err)

	_, err = bk.GetRange(ctx, backend.Key("start"), nil, backend.NoLimit)
	require.True(t, trace.IsBadParameter(err), "expected BadParameter, got %v", err)
}
