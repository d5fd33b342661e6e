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

// Package authz maps authenticated device sessions to permission sets
// through device groups, and evaluates operation/resource requests
// against them.
package authz

import (
	"github.com/gravitational/trace"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/ruleexpr"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var log = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentAuthz)

// FormatVersion is the only device group configuration format this
// release understands.
const FormatVersion = "2021-03-05"

// Effect values accepted in policy statements.
const (
	EffectAllow = "ALLOW"
	EffectDeny  = "DENY"
)

// GroupsSpec is the raw device groups configuration as deserialized
// from the component configuration.
type GroupsSpec struct {
	// FormatVersion must equal FormatVersion.
	FormatVersion string `yaml:"formatVersion"`
	// Definitions maps group names to their selection rule and policy.
	Definitions map[string]DefinitionSpec `yaml:"definitions"`
	// Policies maps policy names to their statements by statement id.
	Policies map[string]map[string]Statement `yaml:"policies"`
}

// DefinitionSpec binds a device group to a selection rule and the
// policy applied to its members.
type DefinitionSpec struct {
	// SelectionRule is a rule expression over session attributes.
	SelectionRule string `yaml:"selectionRule"`
	// PolicyName names an entry in GroupsSpec.Policies.
	PolicyName string `yaml:"policyName"`
}

// Statement is one authorization policy statement.
type Statement struct {
	// StatementDescription is informational only.
	StatementDescription string `yaml:"statementDescription"`
	// Effect is ALLOW or DENY; empty means ALLOW.
	Effect string `yaml:"effect"`
	// Operations are the operation patterns the statement covers.
	Operations []string `yaml:"operations"`
	// Resources are the resource patterns the statement covers. A
	// statement with operations but no resources covers every
	// resource.
	Resources []string `yaml:"resources"`
}

// Permission is one derived (group, operation, resource) row. The
// operation and resource are patterns that may still contain policy
// variables; they are resolved against a session at evaluation time.
type Permission struct {
	// PrincipalGroup is the device group the permission came from.
	PrincipalGroup string
	// Operation is the operation pattern.
	Operation string
	// Resource is the resource pattern.
	Resource string
}

// PermissionSet is the set of permissions applicable to one session,
// split by effect.
type PermissionSet struct {
	Allow []Permission
	Deny  []Permission
}

// group is a compiled device group: a parsed selection rule plus the
// permissions its policy grants and denies.
type group struct {
	name  string
	rule  ruleexpr.Node
	allow []Permission
	deny  []Permission
}

// GroupConfiguration is a compiled, immutable snapshot of the device
// groups configuration. It is replaced wholesale on config changes and
// never mutated.
type GroupConfiguration struct {
	groups []group
}

// NewGroupConfiguration validates and compiles a GroupsSpec.
// Definitions referencing a policy that does not exist and statements
// with an unrecognized effect fail the whole configuration. A
// definition whose selection rule does not parse only disables that
// group: the rest of the configuration still loads, matching devices
// simply fall outside the broken group.
func NewGroupConfiguration(spec GroupsSpec) (*GroupConfiguration, error) {
	if spec.FormatVersion != FormatVersion {
		return nil, trace.BadParameter("unsupported device groups format version %q, expected %q",
			spec.FormatVersion, FormatVersion)
	}
	cfg := &GroupConfiguration{}
	for name, def := range spec.Definitions {
		policy, ok := spec.Policies[def.PolicyName]
		if !ok {
			return nil, trace.BadParameter("device group %q references unknown policy %q",
				name, def.PolicyName)
		}
		rule, err := ruleexpr.Parse(def.SelectionRule)
		if err != nil {
			log.Warn("Disabling device group with invalid selection rule",
				"group", name, "error", err)
			continue
		}
		g := group{name: name, rule: rule}
		for id, statement := range policy {
			allow, err := statementEffect(statement)
			if err != nil {
				return nil, trace.Wrap(err, "policy %q statement %q", def.PolicyName, id)
			}
			if len(statement.Operations) == 0 {
				log.Warn("Skipping policy statement without operations",
					"policy", def.PolicyName, "statement", id)
				continue
			}
			resources := statement.Resources
			if len(resources) == 0 {
				resources = []string{"*"}
			}
			for _, op := range statement.Operations {
				for _, res := range resources {
					perm := Permission{PrincipalGroup: name, Operation: op, Resource: res}
					if allow {
						g.allow = append(g.allow, perm)
					} else {
						g.deny = append(g.deny, perm)
					}
				}
			}
		}
		cfg.groups = append(cfg.groups, g)
	}
	return cfg, nil
}

func statementEffect(s Statement) (allow bool, err error) {
	switch s.Effect {
	case EffectAllow, "":
		return true, nil
	case EffectDeny:
		return false, nil
	default:
		return false, trace.BadParameter("unrecognized effect %q", s.Effect)
	}
}
