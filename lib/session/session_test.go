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

package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackmesh/edgegate/lib/attrs"
)

func TestSessionAttributes(t *testing.T) {
	t.Parallel()

	s := New(attrs.Component{})

	attr := s.Attribute(attrs.NamespaceComponent, attrs.AttrComponent)
	require.NotNil(t, attr)
	require.Equal(t, "component", attr.String())

	require.Nil(t, s.Attribute(attrs.NamespaceThing, attrs.AttrThingName))
	require.Nil(t, s.Attribute(attrs.NamespaceComponent, "missing"))
	require.Nil(t, s.Provider(attrs.NamespaceCertificate))
	require.NotNil(t, s.Provider(attrs.NamespaceComponent))
}

func TestManagerRegisterFindClose(t *testing.T) {
	t.Parallel()

	m, err := NewManager(10)
	require.NoError(t, err)

	s := New(attrs.Component{})
	m.Register("sid-1", s)

	found, ok := m.Find("sid-1")
	require.True(t, ok)
	require.Same(t, s, found)

	_, ok = m.Find("sid-2")
	require.False(t, ok)

	require.True(t, m.Close("sid-1"))
	require.False(t, m.Close("sid-1"))
	_, ok = m.Find("sid-1")
	require.False(t, ok)
}

func TestManagerEviction(t *testing.T) {
	t.Parallel()

	m, err := NewManager(2)
	require.NoError(t, err)

	for i := range 3 {
		m.Register(fmt.Sprintf("sid-%d", i), New())
	}
	require.Equal(t, 2, m.Len())

	// The oldest session is evicted first.
	_, ok := m.Find("sid-0")
	require.False(t, ok)
	_, ok = m.Find("sid-2")
	require.True(t, ok)

	_, err = NewManager(0)
	require.Error(t, err)
}
