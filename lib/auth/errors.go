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
	"errors"
	"fmt"
)

// AuthenticationError means the presented credentials were rejected.
// The reason is short and safe to show to the client; the error never
// carries the certificate PEM.
type AuthenticationError struct {
	// Reason is a short human readable rejection reason.
	Reason string
	// Err is the underlying cause, may be nil.
	Err error
}

// Error implements error.
func (e *AuthenticationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("authentication failed: %v", e.Reason)
	}
	return fmt.Sprintf("authentication failed: %v: %v", e.Reason, e.Err)
}

// Unwrap supports errors.Is/As chains.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is (or wraps) an
// AuthenticationError.
func IsAuthenticationError(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// AuthorizationErrorKind distinguishes authorization failures the
// client can recover from differently.
type AuthorizationErrorKind int

const (
	// KindInvalidSession means the session id is unknown or expired;
	// the client should re-authenticate.
	KindInvalidSession AuthorizationErrorKind = iota
	// KindDenied means the request was evaluated and rejected; the
	// client should not retry.
	KindDenied
)

// AuthorizationError means an authorization request could not be
// granted.
type AuthorizationError struct {
	// Kind tells the client whether re-authenticating can help.
	Kind AuthorizationErrorKind
	// Msg describes the failure.
	Msg string
}

// Error implements error.
func (e *AuthorizationError) Error() string {
	return e.Msg
}

// NewInvalidSessionError creates an AuthorizationError for an unknown
// or expired session id.
func NewInvalidSessionError(sessionID string) *AuthorizationError {
	return &AuthorizationError{
		Kind: KindInvalidSession,
		Msg:  fmt.Sprintf("invalid session id %q", sessionID),
	}
}

// IsInvalidSession reports whether err is an AuthorizationError of
// kind KindInvalidSession.
func IsInvalidSession(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target) && target.Kind == KindInvalidSession
}
