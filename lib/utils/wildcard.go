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

// Package utils holds small shared helpers.
package utils

// MatchWildcard reports whether input matches pattern, where '*' in the
// pattern matches any run of characters, including the empty one.
// Adjacent '*' collapse into a single wildcard. Matching is
// case-sensitive; an empty pattern matches only the empty input.
func MatchWildcard(pattern, input string) bool {
	return matchGlob(pattern, input, false)
}

// MatchWildcardSingle behaves like MatchWildcard but additionally
// treats '?' in the pattern as matching exactly one character.
func MatchWildcardSingle(pattern, input string) bool {
	return matchGlob(pattern, input, true)
}

// matchGlob runs a linear scan with single-entry backtracking: on a
// mismatch after a '*', the wildcard re-expands by one character and
// the tail of the pattern is retried.
func matchGlob(pattern, input string, single bool) bool {
	var p, s int
	star := -1
	mark := 0
	for s < len(input) {
		switch {
		case p < len(pattern) && (pattern[p] == input[s] || (single && pattern[p] == '?')):
			p++
			s++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = s
			p++
		case star >= 0:
			p = star + 1
			mark++
			s = mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
