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

// Package ruleexpr implements the selection rule expression language
// that maps client devices into device groups.
//
// The grammar is LL(1):
//
//	Start      := Or
//	Or         := And ( "OR" And )*
//	And        := Thing ( "AND" Thing )*
//	Thing      := "thingName" ":" ThingName
//	ThingName  := '*' | '*'? ( Letter | Digit | '-' | '_' | '\:' )+ '*'?
//
// "AND" binds tighter than "OR". A ':' inside a thing name must be
// escaped as '\:'. A '*' is only allowed at the edges of a thing name,
// where it acts as a prefix, suffix or substring wildcard.
package ruleexpr

import (
	"strings"

	"github.com/stackmesh/edgegate/lib/attrs"
)

// Session provides attribute lookup during rule evaluation.
// session.Session satisfies it.
type Session interface {
	// Attribute returns the named attribute, or nil if the session
	// does not carry it.
	Attribute(namespace, name string) attrs.DeviceAttribute
}

// Node is a node of a parsed selection rule. Evaluation never fails: a
// missing session attribute simply does not match.
type Node interface {
	// Eval evaluates the expression against a session.
	Eval(s Session) bool
	// String renders the node back into rule syntax. The output
	// re-parses into an equal tree.
	String() string
}

// Thing matches the session's thing name against a literal or
// wildcard-capable expression.
type Thing struct {
	// Name is the unescaped thing name expression.
	Name string
}

// Eval implements Node.
func (n Thing) Eval(s Session) bool {
	attr := s.Attribute(attrs.NamespaceThing, attrs.AttrThingName)
	if attr == nil {
		return false
	}
	return attr.Matches(n.Name)
}

// String implements Node.
func (n Thing) String() string {
	return "thingName: " + strings.ReplaceAll(n.Name, ":", `\:`)
}

// And is a short-circuiting conjunction.
type And struct {
	L, R Node
}

// Eval implements Node.
func (n And) Eval(s Session) bool {
	return n.L.Eval(s) && n.R.Eval(s)
}

// String implements Node.
func (n And) String() string {
	return n.L.String() + " AND " + n.R.String()
}

// Or is a short-circuiting disjunction.
type Or struct {
	L, R Node
}

// Eval implements Node.
func (n Or) Eval(s Session) bool {
	return n.L.Eval(s) || n.R.Eval(s)
}

// String implements Node.
func (n Or) String() string {
	return n.L.String() + " OR " + n.R.String()
}
