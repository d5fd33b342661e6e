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
	"context"
	"encoding/json"
	"iter"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gravitational/trace"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/backend"
	"github.com/stackmesh/edgegate/lib/events"
)

func thingKey(thingName string) []byte {
	return backend.Key(runtimePrefix, thingsPrefix, thingName)
}

// thingDocument is the stored form of a Thing. Attachment times are
// unix milliseconds keyed by certificate id.
type thingDocument struct {
	Version      int              `json:"version"`
	Certificates map[string]int64 `json:"certificates"`
}

// ThingRegistry persists thing records and their certificate
// attachments, and gates cloud re-verification of attachments behind
// the trust window.
type ThingRegistry struct {
	bk       backend.Backend
	verifier Verifier
	bus      *events.Bus

	// trustDuration is stored as nanoseconds so config changes can
	// land without locking readers.
	trustDuration atomic.Int64
}

// NewThingRegistry creates a registry on top of the given backend. The
// verifier is consulted when a cached attachment is missing or stale;
// events are emitted on the bus whenever a thing record changes.
func NewThingRegistry(bk backend.Backend, verifier Verifier, bus *events.Bus) *ThingRegistry {
	r := &ThingRegistry{bk: bk, verifier: verifier, bus: bus}
	r.trustDuration.Store(int64(edgegate.DefaultTrustDuration))
	return r
}

// SetTrustDuration updates the window within which cached attachments
// are trusted without a cloud round trip.
func (r *ThingRegistry) SetTrustDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.trustDuration.Store(int64(d))
}

// TrustDuration returns the current trust window.
func (r *ThingRegistry) TrustDuration() time.Duration {
	return time.Duration(r.trustDuration.Load())
}

// Get returns the stored thing or NotFound.
func (r *ThingRegistry) Get(ctx context.Context, thingName string) (*Thing, error) {
	item, err := r.bk.Get(ctx, thingKey(thingName))
	if err != nil {
		if trace.IsNotFound(err) {
			return nil, trace.NotFound("thing %q is not registered", thingName)
		}
		return nil, trace.Wrap(err)
	}
	return thingFromItem(thingName, item.Value)
}

// GetOrCreate returns the stored thing, registering an empty record
// first if this is the first time the name is seen.
func (r *ThingRegistry) GetOrCreate(ctx context.Context, thingName string) (*Thing, error) {
	thing, err := r.Get(ctx, thingName)
	if err == nil {
		return thing, nil
	}
	if !trace.IsNotFound(err) {
		return nil, trace.Wrap(err)
	}
	thing, err = NewThing(thingName)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if err := r.persist(ctx, thing); err != nil {
		return nil, trace.Wrap(err)
	}
	return thing, nil
}

// Update persists a modified thing and emits ThingUpdated. Updating an
// unmodified thing is a no-op; updating a thing that was never
// registered fails with NotFound.
func (r *ThingRegistry) Update(ctx context.Context, thing *Thing) error {
	if !thing.Modified() {
		return nil
	}
	if _, err := r.bk.Get(ctx, thingKey(thing.Name())); err != nil {
		if trace.IsNotFound(err) {
			return trace.NotFound("thing %q is not registered", thing.Name())
		}
		return trace.Wrap(err)
	}
	return trace.Wrap(r.persist(ctx, thing))
}

func (r *ThingRegistry) persist(ctx context.Context, thing *Thing) error {
	doc := thingDocument{Certificates: make(map[string]int64, len(thing.attachments))}
	for id, last := range thing.attachments {
		doc.Certificates[id] = last.UnixMilli()
	}
	value, err := json.Marshal(doc)
	if err != nil {
		return trace.Wrap(err)
	}
	if err := r.bk.Put(ctx, backend.Item{Key: thingKey(thing.Name()), Value: value}); err != nil {
		return trace.Wrap(err)
	}
	thing.modified = false
	r.bus.Emit(events.ThingUpdated{ThingName: thing.Name()})
	return nil
}

// IsAttachedToCertificate reports whether the certificate is attached
// to the thing. An attachment confirmed within the trust window is
// trusted without a cloud round trip. Otherwise the verifier is asked:
// a positive answer refreshes and persists the attachment, a negative
// answer detaches it, and a cloud failure propagates as a CloudError
// so the caller can decide whether stale state may stand in.
func (r *ThingRegistry) IsAttachedToCertificate(ctx context.Context, thing *Thing, cert *Certificate) (bool, error) {
	now := r.bk.Clock().Now()
	if thing.AttachedWithin(cert.ID(), now, r.TrustDuration()) {
		return true, nil
	}
	attached, err := r.verifier.VerifyThingAttached(ctx, thing.Name(), cert.ID())
	if err != nil {
		if !IsCloudError(err) {
			err = &CloudError{Op: "VerifyThingAttached", Err: err}
		}
		return false, trace.Wrap(err)
	}
	if attached {
		thing.AttachCertificate(cert.ID(), now)
	} else {
		thing.DetachCertificate(cert.ID())
	}
	if err := r.Update(ctx, thing); err != nil {
		return attached, trace.Wrap(err)
	}
	return attached, nil
}

// Things iterates over all registered things in name order.
func (r *ThingRegistry) Things(ctx context.Context) iter.Seq2[*Thing, error] {
	return func(yield func(*Thing, error) bool) {
		prefix := backend.Key(runtimePrefix, thingsPrefix)
		items, err := r.bk.GetRange(ctx, prefix, backend.RangeEnd(prefix), backend.NoLimit)
		if err != nil {
			yield(nil, trace.Wrap(err))
			return
		}
		namePrefix := string(prefix) + string(backend.Separator)
		for _, item := range items {
			name := strings.TrimPrefix(string(item.Key), namePrefix)
			thing, err := thingFromItem(name, item.Value)
			if !yield(thing, err) {
				return
			}
		}
	}
}

// ThingsWithCertificate iterates over the things that have a recorded
// attachment to the certificate, regardless of attachment age.
func (r *ThingRegistry) ThingsWithCertificate(ctx context.Context, certificateID string) iter.Seq2[*Thing, error] {
	return func(yield func(*Thing, error) bool) {
		for thing, err := range r.Things(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			if _, ok := thing.AttachedAt(certificateID); !ok {
				continue
			}
			if !yield(thing, nil) {
				return
			}
		}
	}
}

func thingFromItem(thingName string, value []byte) (*Thing, error) {
	var doc thingDocument
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, trace.Wrap(err, "decoding thing record %q", thingName)
	}
	attachments := make(map[string]time.Time, len(doc.Certificates))
	for id, millis := range doc.Certificates {
		attachments[id] = time.UnixMilli(millis)
	}
	return &Thing{name: thingName, attachments: attachments}, nil
}
