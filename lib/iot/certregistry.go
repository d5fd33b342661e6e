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
	"time"

	"github.com/gravitational/trace"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/backend"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var log = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentRegistry)

// Backend key layout shared by both registries.
const (
	runtimePrefix = "runtime"
	certsPrefix   = "clientDeviceCerts"
	thingsPrefix  = "clientDeviceThings"
)

func certKey(certificateID string) []byte {
	return backend.Key(runtimePrefix, certsPrefix, certificateID)
}

// certificateDocument is the stored form of a Certificate. The status
// is persisted by name so records written by newer releases with
// additional statuses stay decodable.
type certificateDocument struct {
	Status        string `json:"status"`
	StatusUpdated int64  `json:"statusUpdated"`
}

// CertificateRegistry persists client certificate verification state
// so devices can keep authenticating while the cloud is unreachable.
type CertificateRegistry struct {
	bk backend.Backend
}

// NewCertificateRegistry creates a registry on top of the given
// backend.
func NewCertificateRegistry(bk backend.Backend) *CertificateRegistry {
	return &CertificateRegistry{bk: bk}
}

// GetCertificateFromPEM parses the PEM and returns the stored record
// for it. Fails with InvalidCertificateError on a malformed PEM and
// with NotFound when the certificate has never been registered.
func (r *CertificateRegistry) GetCertificateFromPEM(ctx context.Context, certificatePEM string) (*Certificate, error) {
	cert, err := NewCertificate(certificatePEM)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	item, err := r.bk.Get(ctx, certKey(cert.ID()))
	if err != nil {
		if trace.IsNotFound(err) {
			return nil, trace.NotFound("certificate %v is not registered", cert.ID())
		}
		return nil, trace.Wrap(err)
	}
	var doc certificateDocument
	if err := json.Unmarshal(item.Value, &doc); err != nil {
		return nil, trace.Wrap(err, "decoding certificate record %v", cert.ID())
	}
	cert.status = ParseCertStatus(doc.Status)
	cert.statusUpdated = time.UnixMilli(doc.StatusUpdated)
	return cert, nil
}

// CreateOrUpdate persists the certificate record. A stored ACTIVE
// record is never downgraded to UNKNOWN: without a positive signal the
// conservative stored state is kept for offline use, subject to the
// trust window.
func (r *CertificateRegistry) CreateOrUpdate(ctx context.Context, cert *Certificate) error {
	if cert.status == StatusUnknown {
		stored, err := r.bk.Get(ctx, certKey(cert.ID()))
		if err != nil && !trace.IsNotFound(err) {
			return trace.Wrap(err)
		}
		if err == nil {
			var doc certificateDocument
			if err := json.Unmarshal(stored.Value, &doc); err != nil {
				return trace.Wrap(err, "decoding certificate record %v", cert.ID())
			}
			if ParseCertStatus(doc.Status) == StatusActive {
				log.Debug("Keeping stored ACTIVE certificate status",
					"certificate_id", cert.ID())
				return nil
			}
		}
	}
	value, err := json.Marshal(certificateDocument{
		Status:        cert.status.String(),
		StatusUpdated: cert.statusUpdated.UnixMilli(),
	})
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(r.bk.Put(ctx, backend.Item{
		Key:   certKey(cert.ID()),
		Value: value,
	}))
}
