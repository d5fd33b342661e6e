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

package events

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/stackmesh/edgegate"
	logutils "github.com/stackmesh/edgegate/lib/utils/log"
)

var log = logutils.NewPackageLogger(edgegate.ComponentKey, edgegate.ComponentEvents)

// Bus is a synchronous in-process publish/subscribe bus. Emit fans an
// event out to every listener registered for its type on the emitting
// goroutine; the bus never spawns goroutines, so listeners must not
// block. Listener failures are isolated: they are logged, surfaced as
// a ServiceErrorEvent, and do not affect other listeners.
type Bus struct {
	mu        sync.RWMutex
	listeners map[reflect.Type][]registration
}

// Handler processes one event of type T.
type Handler[T Event] func(T) error

type registration struct {
	// id deduplicates registrations of the same handler func.
	id uintptr
	fn func(Event) error
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[reflect.Type][]registration)}
}

// Subscribe registers handler for events of type T. Registering the
// same handler for the same type twice is a no-op.
func Subscribe[T Event](b *Bus, handler Handler[T]) {
	id := reflect.ValueOf(handler).Pointer()
	eventType := reflect.TypeFor[T]()

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, reg := range b.listeners[eventType] {
		if reg.id == id {
			return
		}
	}
	b.listeners[eventType] = append(b.listeners[eventType], registration{
		id: id,
		fn: func(ev Event) error {
			return handler(ev.(T))
		},
	})
}

// Emit delivers the event to all listeners registered for its dynamic
// type, in registration order.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	regs := b.listeners[reflect.TypeOf(ev)]
	b.mu.RUnlock()

	for _, reg := range regs {
		b.deliver(reg, ev)
	}
}

func (b *Bus) deliver(reg registration, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.reportListenerFailure(ev, fmt.Errorf("listener panic: %v", r))
		}
	}()
	if err := reg.fn(ev); err != nil {
		b.reportListenerFailure(ev, err)
	}
}

func (b *Bus) reportListenerFailure(ev Event, err error) {
	log.Error("Event listener failed",
		"event", ev.EventName(), "error", err)
	// Listener failures on ServiceErrorEvent itself are only logged,
	// otherwise a broken listener would recurse.
	if _, ok := ev.(ServiceErrorEvent); ok {
		return
	}
	b.Emit(ServiceErrorEvent{
		Err:     err,
		Message: fmt.Sprintf("listener failed handling %s", ev.EventName()),
	})
}
