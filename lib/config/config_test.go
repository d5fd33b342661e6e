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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stackmesh/edgegate/lib/authz"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
deviceGroups:
  formatVersion: "2021-03-05"
  definitions:
    sensors:
      selectionRule: "thingName: Sensor*"
      policyName: telemetry
  policies:
    telemetry:
      publish-telemetry:
        statementDescription: "allow sensors to publish telemetry"
        operations:
          - "mqtt:publish"
        resources:
          - "mqtt:topic:telemetry"
security:
  clientDeviceTrustDurationHours: 48
performance:
  maxActiveAuthTokens: 100
`))
	require.NoError(t, err)

	require.Equal(t, authz.FormatVersion, cfg.DeviceGroups.FormatVersion)
	require.Equal(t, "telemetry", cfg.DeviceGroups.Definitions["sensors"].PolicyName)
	statement := cfg.DeviceGroups.Policies["telemetry"]["publish-telemetry"]
	require.Equal(t, []string{"mqtt:publish"}, statement.Operations)
	require.Equal(t, []string{"mqtt:topic:telemetry"}, statement.Resources)
	require.Equal(t, 48*time.Hour, cfg.Security.TrustDuration())
	require.Equal(t, 100, cfg.Performance.SessionCapacity())

	// The compiled form is accepted by the authz layer as-is.
	_, err = authz.NewGroupConfiguration(cfg.DeviceGroups)
	require.NoError(t, err)

	_, err = Parse([]byte("deviceGroups: ["))
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.Security.TrustDuration())
	require.Equal(t, 2500, cfg.Performance.SessionCapacity())
}

func TestClamping(t *testing.T) {
	t.Parallel()

	hours := -5
	require.Equal(t, time.Duration(0), SecurityConfig{
		ClientDeviceTrustDurationHours: &hours,
	}.TrustDuration())

	zero := 0
	require.Equal(t, 1, PerformanceConfig{MaxActiveAuthTokens: &zero}.SessionCapacity())
	negative := -10
	require.Equal(t, 1, PerformanceConfig{MaxActiveAuthTokens: &negative}.SessionCapacity())
}
