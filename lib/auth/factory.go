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

// Package auth implements the client device authentication and
// authorization broker: session creation from MQTT credentials,
// authorization decisions, and the background re-verification task.
package auth

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/attrs"
	"github.com/stackmesh/edgegate/lib/events"
	"github.com/stackmesh/edgegate/lib/iot"
	"github.com/stackmesh/edgegate/lib/session"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var log = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentAuth)

// Credentials are the MQTT credentials presented by a connecting
// client.
type Credentials struct {
	// CertificatePEM is the client certificate in PEM encoding.
	CertificatePEM string
	// ClientID is the MQTT client id, expected to be the thing name.
	ClientID string
	// Username is the MQTT username, unused for device clients.
	Username string
	// Password is the MQTT password, unused for device clients.
	Password string
}

// ComponentVerifier recognizes credentials belonging to trusted
// in-process components, which bypass device verification entirely.
type ComponentVerifier interface {
	// VerifyComponent reports whether the credentials belong to a
	// trusted component.
	VerifyComponent(ctx context.Context, creds Credentials) bool
}

// Factory authenticates credentials into sessions.
type Factory struct {
	certs      *iot.CertificateRegistry
	things     *iot.ThingRegistry
	verifier   iot.Verifier
	components ComponentVerifier
	bus        *events.Bus
	clock      clockwork.Clock

	trustDuration atomic.Int64
}

// FactoryConfig holds Factory dependencies.
type FactoryConfig struct {
	// Certs persists certificate verification state.
	Certs *iot.CertificateRegistry
	// Things persists thing records and attachments.
	Things *iot.ThingRegistry
	// Verifier is the cloud verification service.
	Verifier iot.Verifier
	// Components recognizes in-process component credentials,
	// optional.
	Components ComponentVerifier
	// Bus receives session creation events.
	Bus *events.Bus
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// NewFactory creates a session factory with the default trust
// duration.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if cfg.Certs == nil || cfg.Things == nil {
		return nil, trace.BadParameter("missing registries")
	}
	if cfg.Verifier == nil {
		return nil, trace.BadParameter("missing cloud verifier")
	}
	if cfg.Bus == nil {
		return nil, trace.BadParameter("missing event bus")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	f := &Factory{
		certs:      cfg.Certs,
		things:     cfg.Things,
		verifier:   cfg.Verifier,
		components: cfg.Components,
		bus:        cfg.Bus,
		clock:      cfg.Clock,
	}
	f.trustDuration.Store(int64(edgegate.DefaultTrustDuration))
	return f, nil
}

// SetTrustDuration updates the trust window for certificate freshness
// and propagates it to the thing registry for attachment freshness.
func (f *Factory) SetTrustDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	f.trustDuration.Store(int64(d))
	f.things.SetTrustDuration(d)
}

// TrustDuration returns the current trust window.
func (f *Factory) TrustDuration() time.Duration {
	return time.Duration(f.trustDuration.Load())
}

// CreateSession authenticates the credentials and returns a session.
// Component credentials short-circuit into a component session. Device
// credentials require an active certificate and a verified
// thing-certificate attachment; cached cloud verifications within the
// trust window stand in for the cloud, so recently seen devices keep
// authenticating while offline. Failures return AuthenticationError.
func (f *Factory) CreateSession(ctx context.Context, creds Credentials) (*session.Session, error) {
	if f.components != nil && f.components.VerifyComponent(ctx, creds) {
		f.emitOutcome(events.SessionCreationSuccess, "")
		return session.New(attrs.Component{}), nil
	}

	cert, err := f.authenticateCertificate(ctx, creds)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	thing, err := f.things.GetOrCreate(ctx, creds.ClientID)
	if err != nil {
		if trace.IsBadParameter(err) {
			return nil, f.fail("invalid client id", err)
		}
		return nil, f.fail("thing lookup failed", err)
	}
	attached, err := f.things.IsAttachedToCertificate(ctx, thing, cert)
	if err != nil {
		// The trust window for the attachment has expired and the
		// cloud could not answer.
		return nil, f.fail("unable to verify thing attachment", err)
	}
	if !attached {
		return nil, f.fail("client is not attached to certificate", nil)
	}

	f.emitOutcome(events.SessionCreationSuccess, "")
	return session.New(thing, cert), nil
}

// authenticateCertificate resolves the presented PEM into an active
// certificate record, consulting the cloud when no fresh local record
// vouches for it.
func (f *Factory) authenticateCertificate(ctx context.Context, creds Credentials) (*iot.Certificate, error) {
	now := f.clock.Now()
	cert, err := f.certs.GetCertificateFromPEM(ctx, creds.CertificatePEM)
	switch {
	case iot.IsInvalidCertificate(err):
		return nil, f.fail("invalid client certificate", err)
	case trace.IsNotFound(err):
		cert, err = iot.NewCertificate(creds.CertificatePEM)
		if err != nil {
			return nil, f.fail("invalid client certificate", err)
		}
	case err != nil:
		return nil, f.fail("certificate lookup failed", err)
	default:
		if cert.ActiveWithin(now, f.TrustDuration()) {
			return cert, nil
		}
	}

	// No local record within the trust window: the cloud must vouch.
	active, err := f.verifier.VerifyCertificate(ctx, creds.CertificatePEM)
	if err != nil {
		return nil, f.fail("unable to verify certificate", err)
	}
	if !active {
		return nil, f.fail("certificate is not active", nil)
	}
	cert.SetStatus(iot.StatusActive, now)
	if err := f.certs.CreateOrUpdate(ctx, cert); err != nil {
		return nil, f.fail("storing certificate failed", err)
	}
	return cert, nil
}

// fail emits a FAILURE event and wraps the cause into an
// AuthenticationError with the given reason.
func (f *Factory) fail(reason string, err error) error {
	f.emitOutcome(events.SessionCreationFailure, reason)
	return trace.Wrap(&AuthenticationError{Reason: reason, Err: err})
}

func (f *Factory) emitOutcome(status events.SessionCreationStatus, reason string) {
	sessionCreations.WithLabelValues(status.String()).Inc()
	f.bus.Emit(events.SessionCreationEvent{Status: status, Reason: reason})
}
