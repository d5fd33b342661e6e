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

package ruleexpr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stackmesh/edgegate/lib/attrs"
)

type fakeSession map[string]attrs.DeviceAttribute

func (s fakeSession) Attribute(namespace, name string) attrs.DeviceAttribute {
	return s[namespace+"."+name]
}

func thingSession(name string) fakeSession {
	return fakeSession{
		"Thing.ThingName": attrs.WildcardCapable(name),
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule string
		want Node
	}{
		{
			rule: "thingName: MyThing",
			want: Thing{Name: "MyThing"},
		},
		{
			rule: "thingName:MyThing",
			want: Thing{Name: "MyThing"},
		},
		{
			rule: "thingName: A OR thingName: B",
			want: Or{L: Thing{Name: "A"}, R: Thing{Name: "B"}},
		},
		{
			rule: "thingName: A AND thingName: B",
			want: And{L: Thing{Name: "A"}, R: Thing{Name: "B"}},
		},
		{
			// AND binds tighter than OR.
			rule: "thingName: A OR thingName: B AND thingName: C",
			want: Or{
				L: Thing{Name: "A"},
				R: And{L: Thing{Name: "B"}, R: Thing{Name: "C"}},
			},
		},
		{
			rule: "thingName: A AND thingName: B OR thingName: C",
			want: Or{
				L: And{L: Thing{Name: "A"}, R: Thing{Name: "B"}},
				R: Thing{Name: "C"},
			},
		},
		{
			rule: `thingName: ns\:device-1_a`,
			want: Thing{Name: "ns:device-1_a"},
		},
		{
			rule: "thingName: *",
			want: Thing{Name: "*"},
		},
		{
			rule: "thingName: Thing*",
			want: Thing{Name: "Thing*"},
		},
		{
			rule: "thingName: *Thing",
			want: Thing{Name: "*Thing"},
		},
		{
			rule: "thingName: *Thing*",
			want: Thing{Name: "*Thing*"},
		},
	}
	for _, tt := range tests {
		node, err := Parse(tt.rule)
		require.NoError(t, err, "rule=%q", tt.rule)
		require.Empty(t, cmp.Diff(tt.want, node), "rule=%q", tt.rule)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	t.Run("illegal character", func(t *testing.T) {
		for _, rule := range []string{
			"thingName: (A)",
			`thingName: a\b`,
		} {
			_, err := Parse(rule)
			var tokErr *TokenError
			require.ErrorAs(t, err, &tokErr, "rule=%q", rule)
		}
	})

	t.Run("malformed rule", func(t *testing.T) {
		for _, rule := range []string{
			"",
			"thingName:",
			"thingName",
			"thingName: A OR",
			"thingName: A AND",
			"OR thingName: A",
			"thingName: A thingName: B",
			"thingName: A OR B",
			// Wildcards are only legal at the edges of a name.
			"thingName: My*Thing",
			"thingName: thing*2",
			"thingName: **",
			"thingName: a**",
			"thingName: **a",
		} {
			_, err := Parse(rule)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr, "rule=%q", rule)
		}
	})
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	rules := []string{
		"thingName: MyThing",
		"thingName: A OR thingName: B AND thingName: C",
		"thingName: A AND thingName: B OR thingName: C AND thingName: D",
		`thingName: ns\:device`,
	}
	for _, rule := range rules {
		node, err := Parse(rule)
		require.NoError(t, err, "rule=%q", rule)

		reparsed, err := Parse(node.String())
		require.NoError(t, err, "printed=%q", node.String())
		require.Empty(t, cmp.Diff(node, reparsed), "rule=%q", rule)
	}
}

func TestEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule      string
		thingName string
		want      bool
	}{
		{"thingName: MyThing", "MyThing", true},
		{"thingName: MyThing", "Other", false},
		{"thingName: A OR thingName: B", "B", true},
		{"thingName: A AND thingName: B", "A", false},
		// AND binds tighter: A OR (B AND C).
		{"thingName: A OR thingName: B AND thingName: C", "A", true},
		{"thingName: A OR thingName: B AND thingName: C", "B", false},
		{"thingName: *", "Anything", true},
		{"thingName: Thing*", "ThingTwo", true},
		{"thingName: Thing*", "FirstThing", false},
		{"thingName: *Thing", "FirstThing", true},
		{"thingName: *Thing", "ThingExample", false},
		{"thingName: *Thing*", "FirstThingExample", true},
		{"thingName: *Thing*", "FirstExample", false},
	}
	for _, tt := range tests {
		node, err := Parse(tt.rule)
		require.NoError(t, err)
		require.Equal(t, tt.want, node.Eval(thingSession(tt.thingName)),
			"rule=%q thing=%q", tt.rule, tt.thingName)
	}

	// A session without a thing attribute never matches.
	node, err := Parse("thingName: MyThing")
	require.NoError(t, err)
	require.False(t, node.Eval(fakeSession{}))
}
