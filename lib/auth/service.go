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

	"github.com/google/uuid"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"

	"github.com/stackmesh/edgegate/lib/authz"
	"github.com/stackmesh/edgegate/lib/backend"
	"github.com/stackmesh/edgegate/lib/config"
	"github.com/stackmesh/edgegate/lib/events"
	"github.com/stackmesh/edgegate/lib/iot"
	"github.com/stackmesh/edgegate/lib/session"
)

// ServiceConfig holds Service dependencies.
type ServiceConfig struct {
	// Backend stores certificate and thing records.
	Backend backend.Backend
	// Verifier is the cloud verification service.
	Verifier iot.Verifier
	// Components recognizes in-process component credentials,
	// optional.
	Components ComponentVerifier
	// Bus is the domain event bus; a fresh one is created when unset.
	Bus *events.Bus
	// Clock defaults to the backend's clock.
	Clock clockwork.Clock
	// SessionCapacity caps concurrently tracked sessions; defaults to
	// the configured default when zero.
	SessionCapacity int
}

// Service is the broker surface exposed to the host runtime: session
// creation, authorization decisions and configuration updates.
type Service struct {
	factory   *Factory
	sessions  *session.Manager
	groups    *authz.GroupManager
	evaluator *authz.Evaluator
	things    *iot.ThingRegistry
	bus       *events.Bus
}

// NewService wires the registries, factory, session cache and
// authorization stack on top of the given backend.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Backend == nil {
		return nil, trace.BadParameter("missing backend")
	}
	if cfg.Bus == nil {
		cfg.Bus = events.NewBus()
	}
	if cfg.Clock == nil {
		cfg.Clock = cfg.Backend.Clock()
	}
	if cfg.SessionCapacity == 0 {
		cfg.SessionCapacity = config.PerformanceConfig{}.SessionCapacity()
	}
	if err := registerMetrics(); err != nil {
		return nil, trace.Wrap(err)
	}

	things := iot.NewThingRegistry(cfg.Backend, cfg.Verifier, cfg.Bus)
	factory, err := NewFactory(FactoryConfig{
		Certs:      iot.NewCertificateRegistry(cfg.Backend),
		Things:     things,
		Verifier:   cfg.Verifier,
		Components: cfg.Components,
		Bus:        cfg.Bus,
		Clock:      cfg.Clock,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	sessions, err := session.NewManager(cfg.SessionCapacity)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &Service{
		factory:   factory,
		sessions:  sessions,
		groups:    authz.NewGroupManager(),
		evaluator: authz.NewEvaluator(cfg.Bus),
		things:    things,
		bus:       cfg.Bus,
	}, nil
}

// CreateSession authenticates the credentials and returns the id of
// the registered session. Fails with AuthenticationError.
func (s *Service) CreateSession(ctx context.Context, creds Credentials) (string, error) {
	sess, err := s.factory.CreateSession(ctx, creds)
	if err != nil {
		return "", trace.Wrap(err)
	}
	id := uuid.NewString()
	s.sessions.Register(id, sess)
	return id, nil
}

// CloseSession drops the session. Closing an unknown session id is a
// no-op: the session may simply have been evicted.
func (s *Service) CloseSession(sessionID string) {
	if !s.sessions.Close(sessionID) {
		log.Debug("Closing unknown session", "session_id", sessionID)
	}
}

// CanDevicePerform reports whether the session may perform the
// operation on the resource. Fails with an InvalidSession
// AuthorizationError when the session id is unknown; a plain denial is
// a false return, not an error.
func (s *Service) CanDevicePerform(sessionID, operation, resource string) (bool, error) {
	sess, ok := s.sessions.Find(sessionID)
	if !ok {
		return false, trace.Wrap(NewInvalidSessionError(sessionID))
	}
	perms := s.groups.ApplicablePermissions(sess)
	allowed := s.evaluator.IsAuthorized(sess, operation, resource, perms)
	if allowed {
		authzDecisions.WithLabelValues("allow").Inc()
	} else {
		authzDecisions.WithLabelValues("deny").Inc()
	}
	return allowed, nil
}

// SetGroupConfiguration compiles and atomically installs a new device
// groups configuration. On error the previous configuration stays in
// effect.
func (s *Service) SetGroupConfiguration(spec authz.GroupsSpec) error {
	cfg, err := authz.NewGroupConfiguration(spec)
	if err != nil {
		return trace.Wrap(err)
	}
	s.groups.SetConfiguration(cfg)
	return nil
}

// ApplyConfig installs a full broker configuration: device groups and
// the trust duration. The session capacity is fixed at construction.
func (s *Service) ApplyConfig(cfg *config.Config) error {
	if err := s.SetGroupConfiguration(cfg.DeviceGroups); err != nil {
		return trace.Wrap(err)
	}
	s.factory.SetTrustDuration(cfg.Security.TrustDuration())
	return nil
}

// Things exposes the thing registry for the background refresher.
func (s *Service) Things() *iot.ThingRegistry {
	return s.things
}
