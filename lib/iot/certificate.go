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

// Package iot holds the device identity model: client certificates,
// things, their persisted registries, and the interface to the cloud
// verification service.
package iot

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/gravitational/trace"

	"github.com/stackmesh/edgegate/lib/attrs"
)

// CertStatus is the locally persisted verification status of a client
// certificate. StatusUnknown must stay the zero value so that records
// written by a newer release with a status this release does not know
// decode to the conservative default.
type CertStatus int

const (
	// StatusUnknown means the certificate has never been positively
	// verified, or was stored by a release with a status unknown here.
	StatusUnknown CertStatus = iota
	// StatusActive means the cloud confirmed the certificate active at
	// StatusUpdatedAt.
	StatusActive
)

// String returns the persisted name of the status.
func (s CertStatus) String() string {
	if s == StatusActive {
		return "ACTIVE"
	}
	return "UNKNOWN"
}

// ParseCertStatus maps a persisted status name back to a CertStatus.
// Names from the future parse as StatusUnknown.
func ParseCertStatus(name string) CertStatus {
	if name == "ACTIVE" {
		return StatusActive
	}
	return StatusUnknown
}

// InvalidCertificateError indicates the presented PEM could not be
// decoded into an X.509 certificate. The error never carries the PEM
// itself.
type InvalidCertificateError struct {
	// Err is the underlying decode or parse failure, may be nil.
	Err error
}

// Error implements error.
func (e *InvalidCertificateError) Error() string {
	if e.Err == nil {
		return "invalid client certificate"
	}
	return fmt.Sprintf("invalid client certificate: %v", e.Err)
}

// Unwrap supports errors.Is/As chains.
func (e *InvalidCertificateError) Unwrap() error {
	return e.Err
}

// IsInvalidCertificate reports whether err is (or wraps) an
// InvalidCertificateError.
func IsInvalidCertificate(err error) bool {
	var target *InvalidCertificateError
	return errors.As(err, &target)
}

// Certificate is a client device certificate known to the broker. The
// identity is the hex encoded SHA-256 digest of the DER encoding, so
// the same certificate always maps to the same record regardless of
// PEM formatting.
type Certificate struct {
	id            string
	status        CertStatus
	statusUpdated time.Time
}

// NewCertificate parses a PEM encoded certificate and returns a record
// with StatusUnknown. Fails with InvalidCertificateError when the PEM
// does not decode to exactly one well-formed certificate block.
func NewCertificate(certificatePEM string) (*Certificate, error) {
	block, _ := pem.Decode([]byte(certificatePEM))
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, trace.Wrap(&InvalidCertificateError{Err: errors.New("no certificate PEM block found")})
	}
	if _, err := x509.ParseCertificate(block.Bytes); err != nil {
		return nil, trace.Wrap(&InvalidCertificateError{Err: err})
	}
	sum := sha256.Sum256(block.Bytes)
	return &Certificate{id: hex.EncodeToString(sum[:])}, nil
}

// ID returns the stable certificate identifier.
func (c *Certificate) ID() string {
	return c.id
}

// Status returns the persisted verification status.
func (c *Certificate) Status() CertStatus {
	return c.status
}

// StatusUpdatedAt returns when the status was last set by a cloud
// verification. The zero time means never.
func (c *Certificate) StatusUpdatedAt() time.Time {
	return c.statusUpdated
}

// SetStatus records the outcome of a cloud verification at now.
func (c *Certificate) SetStatus(status CertStatus, now time.Time) {
	c.status = status
	c.statusUpdated = now
}

// ActiveWithin reports whether the certificate is active and the
// confirming verification happened no longer than d before now. An
// active record older than the trust window does not vouch for new
// sessions.
func (c *Certificate) ActiveWithin(now time.Time, d time.Duration) bool {
	if c.status != StatusActive {
		return false
	}
	age := now.Sub(c.statusUpdated)
	return age >= 0 && age <= d
}

// Namespace implements attrs.Provider.
func (c *Certificate) Namespace() string {
	return attrs.NamespaceCertificate
}

// Attributes implements attrs.Provider.
func (c *Certificate) Attributes() map[string]attrs.DeviceAttribute {
	return map[string]attrs.DeviceAttribute{
		attrs.AttrCertificateID: attrs.StringLiteral(c.id),
	}
}
