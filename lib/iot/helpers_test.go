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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestCertPEM returns a freshly self-signed certificate PEM. Each
// serial yields a distinct certificate and therefore a distinct id.
func newTestCertPEM(t *testing.T, serial int64) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: "client-device"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

// fakeVerifier is a scripted Verifier that counts calls.
type fakeVerifier struct {
	certActive bool
	attached   bool
	attributes map[string]string
	err        error

	certCalls     int
	attachedCalls int
}

func (f *fakeVerifier) VerifyCertificate(ctx context.Context, certificatePEM string) (bool, error) {
	f.certCalls++
	if f.err != nil {
		return false, f.err
	}
	return f.certActive, nil
}

func (f *fakeVerifier) VerifyThingAttached(ctx context.Context, thingName, certificateID string) (bool, error) {
	f.attachedCalls++
	if f.err != nil {
		return false, f.err
	}
	return f.attached, nil
}

func (f *fakeVerifier) GetThingAttributes(ctx context.Context, thingName string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.attributes, nil
}
