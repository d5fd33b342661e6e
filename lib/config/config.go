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

// Package config deserializes the broker configuration supplied by the
// host runtime.
package config

import (
	"math"
	"time"

	"github.com/gravitational/trace"
	"gopkg.in/yaml.v3"

	"github.com/stackmesh/edgegate"
	"github.com/stackmesh/edgegate/lib/authz"
)

// Config is the top level broker configuration.
type Config struct {
	// DeviceGroups maps devices into groups and groups onto policies.
	DeviceGroups authz.GroupsSpec `yaml:"deviceGroups"`
	// Security holds trust related knobs.
	Security SecurityConfig `yaml:"security"`
	// Performance holds resource limits.
	Performance PerformanceConfig `yaml:"performance"`
}

// SecurityConfig holds trust related configuration.
type SecurityConfig struct {
	// ClientDeviceTrustDurationHours is how long cached cloud
	// verifications stay valid, in hours. Unset means 24.
	ClientDeviceTrustDurationHours *int `yaml:"clientDeviceTrustDurationHours"`
}

// TrustDuration returns the configured trust window. Negative values
// clamp to zero, which forces a cloud round trip on every session.
func (c SecurityConfig) TrustDuration() time.Duration {
	if c.ClientDeviceTrustDurationHours == nil {
		return edgegate.DefaultTrustDuration
	}
	hours := *c.ClientDeviceTrustDurationHours
	if hours < 0 {
		hours = 0
	}
	return time.Duration(hours) * time.Hour
}

// PerformanceConfig holds resource limits.
type PerformanceConfig struct {
	// MaxActiveAuthTokens caps the number of concurrently tracked
	// sessions. Unset means 2500.
	MaxActiveAuthTokens *int `yaml:"maxActiveAuthTokens"`
}

// SessionCapacity returns the session cache capacity, clamped to
// [1, MaxInt32-1].
func (c PerformanceConfig) SessionCapacity() int {
	if c.MaxActiveAuthTokens == nil {
		return edgegate.DefaultSessionCapacity
	}
	capacity := *c.MaxActiveAuthTokens
	if capacity < 1 {
		return 1
	}
	if capacity > math.MaxInt32-1 {
		return math.MaxInt32 - 1
	}
	return capacity
}

// Parse deserializes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, trace.BadParameter("parsing configuration: %v", err)
	}
	return &cfg, nil
}
