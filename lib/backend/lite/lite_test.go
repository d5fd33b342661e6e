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

package lite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackmesh/edgegate/lib/backend"
	"github.com/stackmesh/edgegate/lib/backend/test"
)

func TestLiteCompliance(t *testing.T) {
	test.RunBackendComplianceSuite(t, func(t *testing.T) backend.Backend {
		bk, err := New(Config{Path: t.TempDir()})
		require.NoError(t, err)
		t.Cleanup(func() { bk.Close() })
		return bk
	})
}

func TestLitePersistence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	key := backend.Key("runtime", "clientDeviceThings", "MyThing")

	bk, err := New(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, bk.Put(ctx, backend.Item{Key: key, Value: []byte("v1")}))
	require.NoError(t, bk.Close())

	// Reopening the same directory sees the previous writes.
	bk, err = New(Config{Path: dir})
	require.NoError(t, err)
	defer bk.Close()
	got, err := bk.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got.Value)
}

func TestLiteMissingPath(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}
