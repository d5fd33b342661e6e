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

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchWildcard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"", "", true},
		{"", "a", false},
		{"*", "", true},
		{"*", "anything", true},
		{"a", "a", true},
		{"a", "b", false},
		{"abc", "abc", true},
		{"abc", "abcd", false},
		{"*x*", "x", true},
		{"*x*", "", false},
		{"*x*", "axb", true},
		{"*x*", "ab", false},
		{"mqtt:topic:*", "mqtt:topic:$foo/bar/+/baz", true},
		{"mqtt:topic:*", "mqtt:message:a", false},
		{"*suffix", "with-suffix", true},
		{"*suffix", "with-suffix-not", false},
		{"prefix*", "prefix-and-more", true},
		{"prefix*", "not-prefix", false},
		{"a**b", "ab", true},
		{"a**b", "axxxb", true},
		{"a***b*c", "aXbYbZc", true},
		{"a*b*c", "abc", true},
		{"a*b*c", "ac", false},
		{"Case", "case", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.match, MatchWildcard(tt.pattern, tt.input),
			"pattern=%q input=%q", tt.pattern, tt.input)
	}
}

func TestMatchWildcardSingle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		input   string
		match   bool
	}{
		{"?", "a", true},
		{"?", "", false},
		{"?", "ab", false},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"*?", "a", true},
		{"?*", "abc", true},
		{"a?*c", "aXYc", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.match, MatchWildcardSingle(tt.pattern, tt.input),
			"pattern=%q input=%q", tt.pattern, tt.input)
	}

	// Without the flag '?' is an ordinary character.
	require.True(t, MatchWildcard("a?c", "a?c"))
	require.False(t, MatchWildcard("a?c", "abc"))
}
