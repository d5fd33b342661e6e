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

package attrs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringLiteral(t *testing.T) {
	t.Parallel()

	attr := StringLiteral("MyThing")
	require.True(t, attr.Matches("MyThing"))
	require.False(t, attr.Matches("MyThing*"))
	require.False(t, attr.Matches("*"))
	require.False(t, attr.Matches("mything"))
	require.False(t, attr.Matches(""))

	require.True(t, StringLiteral("").Matches(""))
}

func TestWildcardCapable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		expr  string
		match bool
	}{
		{"MyThing", "MyThing", true},
		{"MyThing", "mything", false},
		{"MyThing", "My*", true},
		{"MyThing", "*Thing", true},
		{"MyThing", "*yThin*", true},
		{"MyThing", "*Nope*", false},
		{"MyThing", "*", true},
		{"MyThing", "", false},
		{"", "", true},
		{"", "*", true},
		{"x", "*x*", true},
		{"", "*x*", false},
	}
	for _, tt := range tests {
		attr := WildcardCapable(tt.value)
		require.Equal(t, tt.match, attr.Matches(tt.expr),
			"value=%q expr=%q", tt.value, tt.expr)
	}
}

func TestComponentProvider(t *testing.T) {
	t.Parallel()

	var p Provider = Component{}
	require.Equal(t, NamespaceComponent, p.Namespace())

	attr, ok := p.Attributes()[AttrComponent]
	require.True(t, ok)
	require.True(t, attr.Matches("component"))
}
