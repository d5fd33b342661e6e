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

package iot

import (
	"maps"
	"regexp"
	"time"

	"github.com/gravitational/trace"

	"github.com/stackmesh/edgegate/lib/attrs"
)

var thingNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9\-_:]+$`)

// Thing is a registered device identity. It tracks which client
// certificates the cloud has confirmed attached to it, and when each
// attachment was last confirmed.
type Thing struct {
	name        string
	attachments map[string]time.Time
	modified    bool
}

// NewThing creates a thing with no attachments. The name must be
// non-empty and limited to letters, digits, '-', '_' and ':'.
func NewThing(name string) (*Thing, error) {
	if !thingNameRegexp.MatchString(name) {
		return nil, trace.BadParameter("invalid thing name %q", name)
	}
	return &Thing{
		name:        name,
		attachments: make(map[string]time.Time),
		modified:    true,
	}, nil
}

// Name returns the thing name.
func (t *Thing) Name() string {
	return t.name
}

// AttachCertificate records a positive cloud confirmation of the
// binding to certificateID at now.
func (t *Thing) AttachCertificate(certificateID string, now time.Time) {
	if last, ok := t.attachments[certificateID]; ok && last.Equal(now) {
		return
	}
	t.attachments[certificateID] = now
	t.modified = true
}

// DetachCertificate drops the binding to certificateID. Detaching a
// certificate that is not attached is a no-op.
func (t *Thing) DetachCertificate(certificateID string) {
	if _, ok := t.attachments[certificateID]; !ok {
		return
	}
	delete(t.attachments, certificateID)
	t.modified = true
}

// AttachedAt returns when the binding to certificateID was last
// confirmed, and whether it exists at all.
func (t *Thing) AttachedAt(certificateID string) (time.Time, bool) {
	last, ok := t.attachments[certificateID]
	return last, ok
}

// AttachedWithin reports whether the binding to certificateID exists
// and was confirmed no longer than d before now. Older bindings must
// be re-checked online before they are trusted.
func (t *Thing) AttachedWithin(certificateID string, now time.Time, d time.Duration) bool {
	last, ok := t.attachments[certificateID]
	if !ok {
		return false
	}
	age := now.Sub(last)
	return age >= 0 && age <= d
}

// Attachments returns a copy of the attachment map, keyed by
// certificate id.
func (t *Thing) Attachments() map[string]time.Time {
	return maps.Clone(t.attachments)
}

// Modified reports whether the thing changed since it was loaded or
// last persisted.
func (t *Thing) Modified() bool {
	return t.modified
}

// Namespace implements attrs.Provider.
func (t *Thing) Namespace() string {
	return attrs.NamespaceThing
}

// Attributes implements attrs.Provider. The thing name is wildcard
// capable so selection rules may match name prefixes and suffixes.
func (t *Thing) Attributes() map[string]attrs.DeviceAttribute {
	return map[string]attrs.DeviceAttribute{
		attrs.AttrThingName: attrs.WildcardCapable(t.name),
	}
}
