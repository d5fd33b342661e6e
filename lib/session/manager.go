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

package session

import (
	"github.com/gravitational/trace"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stackmesh/edgegate"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var log = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentAuth)

// Manager tracks active sessions by id in a bounded LRU cache. When
// the cache is full the least recently used session is evicted, which
// forces that client to re-authenticate on its next request.
type Manager struct {
	cache *lru.Cache[string, *Session]
}

// NewManager creates a manager holding at most capacity sessions.
func NewManager(capacity int) (*Manager, error) {
	cache, err := lru.NewWithEvict(capacity, func(id string, _ *Session) {
		log.Debug("Evicted session", "session_id", id)
	})
	if err != nil {
		return nil, trace.BadParameter("invalid session capacity %v: %v", capacity, err)
	}
	return &Manager{cache: cache}, nil
}

// Register stores the session under id, replacing any previous session
// with the same id.
func (m *Manager) Register(id string, s *Session) {
	m.cache.Add(id, s)
}

// Find returns the session for id, marking it recently used.
func (m *Manager) Find(id string) (*Session, bool) {
	return m.cache.Get(id)
}

// Close drops the session for id, reporting whether it was present.
func (m *Manager) Close(id string) bool {
	return m.cache.Remove(id)
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}
