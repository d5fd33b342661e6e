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
	"regexp"
	"strings"

	"github.com/gravitational/trace"

	"github.com/stackmesh/edgegate/lib/attrs"
	"github.com/stackmesh/edgegate/lib/ruleexpr"
)

// ThingNameVariable expands to the session's authenticated thing name.
const ThingNameVariable = "${iot:Connection.Thing.ThingName}"

var policyVariableRegexp = regexp.MustCompile(`\$\{[a-zA-Z0-9_:.\[\]-]+\}`)

// findPolicyVariables returns the distinct `${...}` tokens in pattern,
// in order of first appearance.
func findPolicyVariables(pattern string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, v := range policyVariableRegexp.FindAllString(pattern, -1) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		found = append(found, v)
	}
	return found
}

// resolvePolicyVariables substitutes every policy variable in pattern
// with its value from the session. An unknown variable or one the
// session has no attribute for fails the resolution; the caller skips
// the statement rather than matching a half-resolved pattern.
func resolvePolicyVariables(pattern string, session ruleexpr.Session) (string, error) {
	for _, variable := range findPolicyVariables(pattern) {
		if variable != ThingNameVariable {
			return "", trace.BadParameter("unknown policy variable %v", variable)
		}
		attr := session.Attribute(attrs.NamespaceThing, attrs.AttrThingName)
		if attr == nil {
			return "", trace.BadParameter("session has no thing name for policy variable %v", variable)
		}
		pattern = strings.ReplaceAll(pattern, variable, attr.String())
	}
	return pattern, nil
}
