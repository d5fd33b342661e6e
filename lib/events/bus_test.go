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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var got []string
	Subscribe(bus, func(ev ThingUpdated) error {
		got = append(got, "first:"+ev.ThingName)
		return nil
	})
	Subscribe(bus, func(ev ThingUpdated) error {
		got = append(got, "second:"+ev.ThingName)
		return nil
	})
	// A listener for a different event type must not fire.
	Subscribe(bus, func(ev SessionCreationEvent) error {
		got = append(got, "wrong")
		return nil
	})

	bus.Emit(ThingUpdated{ThingName: "MyThing"})
	require.Equal(t, []string{"first:MyThing", "second:MyThing"}, got)
}

func TestBusSubscribeIdempotent(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	calls := 0
	handler := func(ThingUpdated) error {
		calls++
		return nil
	}
	Subscribe(bus, handler)
	Subscribe(bus, handler)

	bus.Emit(ThingUpdated{ThingName: "MyThing"})
	require.Equal(t, 1, calls)
}

func TestBusListenerFailureIsolation(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var serviceErrors []ServiceErrorEvent
	Subscribe(bus, func(ev ServiceErrorEvent) error {
		serviceErrors = append(serviceErrors, ev)
		return nil
	})

	Subscribe(bus, func(ThingUpdated) error {
		return errors.New("broken listener")
	})
	delivered := false
	Subscribe(bus, func(ThingUpdated) error {
		delivered = true
		return nil
	})

	bus.Emit(ThingUpdated{ThingName: "MyThing"})

	require.True(t, delivered, "failure of one listener must not starve others")
	require.Len(t, serviceErrors, 1)
	require.ErrorContains(t, serviceErrors[0].Err, "broken listener")
}

func TestBusListenerPanicIsolation(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	Subscribe(bus, func(ThingUpdated) error {
		panic("boom")
	})
	delivered := false
	Subscribe(bus, func(ThingUpdated) error {
		delivered = true
		return nil
	})

	require.NotPanics(t, func() {
		bus.Emit(ThingUpdated{ThingName: "MyThing"})
	})
	require.True(t, delivered)
}

func TestBusServiceErrorListenerFailureDoesNotRecurse(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	calls := 0
	Subscribe(bus, func(ServiceErrorEvent) error {
		calls++
		return errors.New("still broken")
	})
	Subscribe(bus, func(ThingUpdated) error {
		return errors.New("trigger")
	})

	bus.Emit(ThingUpdated{ThingName: "MyThing"})
	require.Equal(t, 1, calls)
}
