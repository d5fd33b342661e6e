// Package edgegate defines shared constants for the edgegate client
// device authentication and authorization broker.
package edgegate

import "time"

const (
	// ComponentKey is the logging attribute key identifying the
	// component a log line originated from.
	ComponentKey = "component"

	// ComponentAuth is the session factory and broker API surface.
	ComponentAuth = "auth"

	// ComponentAuthz is the policy and permission evaluation pipeline.
	ComponentAuthz = "authz"

	// ComponentRegistry is the certificate and thing registries.
	ComponentRegistry = "registry"

	// ComponentBackend is the local storage layer.
	ComponentBackend = "backend"

	// ComponentEvents is the in-process domain event bus.
	ComponentEvents = "events"

	// ComponentRefresh is the background verification refresher.
	ComponentRefresh = "refresh"
)

const (
	// DefaultTrustDuration is how long a cached cloud verification of a
	// certificate or a thing/certificate binding remains trusted before
	// it must be refreshed online.
	DefaultTrustDuration = 24 * time.Hour

	// DefaultSessionCapacity is the default upper bound on concurrently
	// active device sessions.
	DefaultSessionCapacity = 2500
)
