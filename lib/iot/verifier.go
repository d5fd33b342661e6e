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
	"errors"
	"fmt"
)

// Verifier is the cloud verification service the broker depends on.
// Implementations are expected to retry transient failures themselves;
// callers never retry. Every failure surfaces as a CloudError so
// callers can decide whether cached state may stand in.
type Verifier interface {
	// VerifyCertificate reports whether the certificate in the given
	// PEM is active in the cloud registry.
	VerifyCertificate(ctx context.Context, certificatePEM string) (bool, error)

	// VerifyThingAttached reports whether the cloud considers the
	// certificate attached to the thing.
	VerifyThingAttached(ctx context.Context, thingName, certificateID string) (bool, error)

	// GetThingAttributes returns the thing's registry attributes. The
	// broker itself only matches on thing names; this call exists for
	// hosts that refresh device attributes out of band.
	GetThingAttributes(ctx context.Context, thingName string) (map[string]string, error)
}

// CloudError indicates a cloud verification call failed for reasons
// other than a negative answer: the service was unreachable, throttled
// or returned an unexpected response.
type CloudError struct {
	// Op names the failed verification call.
	Op string
	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *CloudError) Error() string {
	return fmt.Sprintf("cloud verification failed: %v: %v", e.Op, e.Err)
}

// Unwrap supports errors.Is/As chains.
func (e *CloudError) Unwrap() error {
	return e.Err
}

// IsCloudError reports whether err is (or wraps) a CloudError.
func IsCloudError(err error) bool {
	var target *CloudError
	return errors.As(err, &target)
}
