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

// Package attrs models the typed identity attributes attached to an
// authenticated client device session, and the providers that source
// them.
package attrs

import "strings"

// Well-known attribute namespaces and names. Selection rules and
// policy variables reference these.
const (
	// NamespaceThing holds attributes of the authenticated thing.
	NamespaceThing = "Thing"
	// NamespaceCertificate holds attributes of the presented
	// certificate.
	NamespaceCertificate = "Certificate"
	// NamespaceComponent marks sessions of trusted in-process
	// components.
	NamespaceComponent = "Component"

	// AttrThingName is the thing name attribute in NamespaceThing.
	AttrThingName = "ThingName"
	// AttrCertificateID is the certificate id attribute in
	// NamespaceCertificate.
	AttrCertificateID = "CertificateId"
	// AttrComponent is the marker attribute in NamespaceComponent.
	AttrComponent = "component"
)

// DeviceAttribute is a single attribute value. Implementations differ
// in how they match expressions from selection rules.
type DeviceAttribute interface {
	// Matches reports whether the attribute value matches the given
	// expression.
	Matches(expr string) bool
	// String returns the raw attribute value.
	String() string
}

// StringLiteral is an attribute that matches expressions by exact
// equality only.
type StringLiteral string

// Matches reports whether expr equals the attribute value.
func (a StringLiteral) Matches(expr string) bool {
	return string(a) == expr
}

func (a StringLiteral) String() string {
	return string(a)
}

// WildcardCapable is an attribute that allows the matched expression
// to carry a leading and/or trailing '*': a leading star makes it a
// suffix match, a trailing star a prefix match, and both together a
// substring match. An expression without stars matches by equality.
type WildcardCapable string

// Matches reports whether the attribute value matches expr.
func (a WildcardCapable) Matches(expr string) bool {
	value := string(a)
	switch {
	case len(expr) > 1 && strings.HasPrefix(expr, "*") && strings.HasSuffix(expr, "*"):
		return strings.Contains(value, expr[1:len(expr)-1])
	case strings.HasPrefix(expr, "*"):
		return strings.HasSuffix(value, expr[1:])
	case strings.HasSuffix(expr, "*"):
		return strings.HasPrefix(value, expr[:len(expr)-1])
	default:
		return value == expr
	}
}

func (a WildcardCapable) String() string {
	return string(a)
}

// Provider is a source of device attributes under a single namespace.
type Provider interface {
	// Namespace returns the namespace all attributes of this provider
	// live under.
	Namespace() string
	// Attributes returns the attributes by name.
	Attributes() map[string]DeviceAttribute
}

// Component is the provider attached to sessions created for trusted
// in-process components. Such sessions carry no device identity.
type Component struct{}

// Namespace implements Provider.
func (Component) Namespace() string { return NamespaceComponent }

// Attributes implements Provider.
func (Component) Attributes() map[string]DeviceAttribute {
	return map[string]DeviceAttribute{
		AttrComponent: StringLiteral(AttrComponent),
	}
}
