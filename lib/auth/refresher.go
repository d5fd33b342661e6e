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

package auth

import (
	"context"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/iot"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var refreshLog = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentRefresh)

// Refresher periodically walks the thing registry and re-verifies
// certificate attachments past half their trust window, so devices do
// not hit an expired cache while the cloud happens to be unreachable.
type Refresher struct {
	things   *iot.ThingRegistry
	verifier iot.Verifier
	clock    clockwork.Clock
	interval time.Duration
}

// RefresherConfig holds Refresher dependencies.
type RefresherConfig struct {
	// Things is the registry to walk.
	Things *iot.ThingRegistry
	// Verifier is the cloud verification service.
	Verifier iot.Verifier
	// Interval is how often to walk the registry.
	Interval time.Duration
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// NewRefresher creates a background attachment refresher.
func NewRefresher(cfg RefresherConfig) (*Refresher, error) {
	if cfg.Things == nil || cfg.Verifier == nil {
		return nil, trace.BadParameter("missing registry or verifier")
	}
	if cfg.Interval <= 0 {
		return nil, trace.BadParameter("invalid refresh interval %v", cfg.Interval)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Refresher{
		things:   cfg.Things,
		verifier: cfg.Verifier,
		clock:    cfg.Clock,
		interval: cfg.Interval,
	}, nil
}

// Run walks the registry every interval until the context is
// canceled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.refresh(ctx)
		}
	}
}

// refresh re-verifies every attachment older than half the trust
// window. Cloud failures leave the cached state alone; the next cycle
// or the trust window itself will catch up.
func (r *Refresher) refresh(ctx context.Context) {
	now := r.clock.Now()
	staleAfter := r.things.TrustDuration() / 2
	for thing, err := range r.things.Things(ctx) {
		if err != nil {
			refreshLog.Warn("Listing things for refresh failed", "error", err)
			return
		}
		for certID, last := range thing.Attachments() {
			if now.Sub(last) <= staleAfter {
				continue
			}
			attached, err := r.verifier.VerifyThingAttached(ctx, thing.Name(), certID)
			if err != nil {
				refreshLog.Debug("Skipping attachment refresh, cloud unavailable",
					"thing", thing.Name(), "certificate_id", certID, "error", err)
				continue
			}
			if attached {
				thing.AttachCertificate(certID, now)
			} else {
				thing.DetachCertificate(certID)
			}
		}
		if err := r.things.Update(ctx, thing); err != nil {
			refreshLog.Warn("Persisting refreshed thing failed",
				"thing", thing.Name(), "error", err)
		}
	}
}
