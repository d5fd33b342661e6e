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

package authz

import (
	"sync/atomic"

	"github.com/stackmesh/edgegate/lib/ruleexpr"
)

// GroupManager holds the current compiled group configuration and
// computes the permissions applicable to a session. Configuration
// swaps are atomic: a concurrent reader sees either the old or the new
// snapshot in full, never a mix.
type GroupManager struct {
	current atomic.Pointer[GroupConfiguration]
}

// NewGroupManager creates a manager with an empty configuration, under
// which every session maps to the empty permission set.
func NewGroupManager() *GroupManager {
	m := &GroupManager{}
	m.current.Store(&GroupConfiguration{})
	return m
}

// SetConfiguration replaces the current configuration.
func (m *GroupManager) SetConfiguration(cfg *GroupConfiguration) {
	m.current.Store(cfg)
}

// Configuration returns the current snapshot.
func (m *GroupManager) Configuration() *GroupConfiguration {
	return m.current.Load()
}

// ApplicablePermissions evaluates every group's selection rule against
// the session and collects the permissions of the matching groups.
func (m *GroupManager) ApplicablePermissions(session ruleexpr.Session) PermissionSet {
	var set PermissionSet
	for _, g := range m.current.Load().groups {
		if !g.rule.Eval(session) {
			continue
		}
		set.Allow = append(set.Allow, g.allow...)
		set.Deny = append(set.Deny, g.deny...)
	}
	return set
}
