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

// Package events implements the in-process domain event bus and the
// event types flowing over it.
package events

// Event is implemented by all domain events.
type Event interface {
	// EventName returns a stable name for logging.
	EventName() string
}

// SessionCreationStatus is the outcome of a session creation attempt.
type SessionCreationStatus int

const (
	// SessionCreationFailure means authentication was rejected.
	SessionCreationFailure SessionCreationStatus = iota
	// SessionCreationSuccess means a session was created.
	SessionCreationSuccess
)

func (s SessionCreationStatus) String() string {
	if s == SessionCreationSuccess {
		return "SUCCESS"
	}
	return "FAILURE"
}

// SessionCreationEvent is emitted after every session creation
// attempt, successful or not.
type SessionCreationEvent struct {
	// Status is the attempt outcome.
	Status SessionCreationStatus
	// Reason is a short human readable failure reason. Empty on
	// success. Never contains credential material.
	Reason string
}

// EventName implements Event.
func (SessionCreationEvent) EventName() string { return "SessionCreation" }

// ServiceErrorEvent reports an unexpected internal fault, including
// listener failures on this bus.
type ServiceErrorEvent struct {
	// Err is the underlying fault.
	Err error
	// Message describes where the fault happened.
	Message string
}

// EventName implements Event.
func (ServiceErrorEvent) EventName() string { return "ServiceError" }

// ThingUpdated is emitted by the thing registry after a thing is
// persisted.
type ThingUpdated struct {
	// ThingName is the updated thing.
	ThingName string
}

// EventName implements Event.
func (ThingUpdated) EventName() string { return "ThingUpdated" }

// ConnectivityConfigurationChanged signals that the host's
// connectivity configuration was replaced.
type ConnectivityConfigurationChanged struct{}

// EventName implements Event.
func (ConnectivityConfigurationChanged) EventName() string {
	return "ConnectivityConfigurationChanged"
}

// CACertificateChainChanged signals that the local CA chain was
// rotated.
type CACertificateChainChanged struct{}

// EventName implements Event.
func (CACertificateChainChanged) EventName() string {
	return "CACertificateChainChanged"
}
