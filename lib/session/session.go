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

// Package session models authenticated client sessions and the
// bounded cache tracking them.
package session

import (
	"github.com/stackmesh/edgegate/lib/attrs"
)

// Session is an immutable snapshot of a client's identity attributes,
// grouped by provider namespace. It is safe for concurrent use.
type Session struct {
	providers map[string]attrs.Provider
}

// New builds a session from the given providers. Later providers win
// on namespace collision.
func New(providers ...attrs.Provider) *Session {
	m := make(map[string]attrs.Provider, len(providers))
	for _, p := range providers {
		m[p.Namespace()] = p
	}
	return &Session{providers: m}
}

// Provider returns the provider for the namespace, or nil.
func (s *Session) Provider(namespace string) attrs.Provider {
	return s.providers[namespace]
}

// Attribute returns the named attribute, or nil if the session does
// not carry it. It satisfies the rule expression evaluation contract.
func (s *Session) Attribute(namespace, name string) attrs.DeviceAttribute {
	p := s.providers[namespace]
	if p == nil {
		return nil
	}
	return p.Attributes()[name]
}
