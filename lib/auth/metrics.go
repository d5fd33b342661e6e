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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionCreations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgegate",
			Subsystem: "auth",
			Name:      "session_creations_total",
			Help:      "Session creation attempts by outcome.",
		},
		[]string{"status"},
	)
	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgegate",
			Subsystem: "authz",
			Name:      "decisions_total",
			Help:      "Authorization decisions by outcome.",
		},
		[]string{"decision"},
	)

	registerOnce sync.Once
	registerErr  error
)

// registerMetrics registers the package collectors with the default
// prometheus registry. Safe to call any number of times; collectors
// already registered elsewhere are reused.
func registerMetrics() error {
	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{sessionCreations, authzDecisions} {
			if err := prometheus.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if errors.As(err, &already) {
					continue
				}
				registerErr = err
				return
			}
		}
	})
	return registerErr
}
