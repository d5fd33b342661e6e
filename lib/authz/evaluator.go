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
	"fmt"

	"github.com/stackmesh/edgegate/lib/events"
	"github.com/stackmesh/edgegate/lib/ruleexpr"
	"github.com/stackmesh/edgegate/lib/utils"
)

// Evaluator decides whether a session may perform an operation on a
// resource given its applicable permissions.
type Evaluator struct {
	bus *events.Bus
}

// NewEvaluator creates an evaluator reporting skipped statements on
// the given bus.
func NewEvaluator(bus *events.Bus) *Evaluator {
	return &Evaluator{bus: bus}
}

// IsAuthorized reports whether the request is authorized: some ALLOW
// permission must match both the operation and the resource, and no
// DENY permission may match both. Matching is case-sensitive wildcard
// matching after policy variables are resolved against the session; a
// permission whose variables cannot be resolved is skipped and
// reported, it never matches.
func (e *Evaluator) IsAuthorized(session ruleexpr.Session, operation, resource string, perms PermissionSet) bool {
	allowed := false
	for _, perm := range perms.Allow {
		if e.permissionMatches(session, perm, operation, resource) {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	for _, perm := range perms.Deny {
		if e.permissionMatches(session, perm, operation, resource) {
			return false
		}
	}
	return true
}

func (e *Evaluator) permissionMatches(session ruleexpr.Session, perm Permission, operation, resource string) bool {
	opPattern, err := resolvePolicyVariables(perm.Operation, session)
	if err != nil {
		e.reportSkipped(perm, err)
		return false
	}
	resPattern, err := resolvePolicyVariables(perm.Resource, session)
	if err != nil {
		e.reportSkipped(perm, err)
		return false
	}
	return utils.MatchWildcard(opPattern, operation) &&
		utils.MatchWildcard(resPattern, resource)
}

func (e *Evaluator) reportSkipped(perm Permission, err error) {
	log.Warn("Skipping policy permission with unresolvable variable",
		"group", perm.PrincipalGroup, "operation", perm.Operation,
		"resource", perm.Resource, "error", err)
	e.bus.Emit(events.ServiceErrorEvent{
		Err: err,
		Message: fmt.Sprintf("skipped policy permission of group %q: %v",
			perm.PrincipalGroup, err),
	})
}
