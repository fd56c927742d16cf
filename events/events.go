/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package events

import (
	"slices"
	"sync"
)

// Kind names what happened.
type Kind string

const (
	// Added is emitted by a collection for a new member.
	Added Kind = "added"
	// Removed is emitted by a collection for a removed member.
	Removed Kind = "removed"
	// Changed is emitted by a model for a batch of changed attributes.
	Changed Kind = "changed"
	// Deleted is emitted once by a model released by its last holder.
	Deleted Kind = "deleted"
)

// Event is passed to handlers.
type Event struct {
	Kind Kind
	// Source is the emitting model or collection.
	Source any
	// Item is the member for Added and Removed.
	Item any
	// Attributes lists the changed attribute names for Changed.
	Attributes []string
}

type EventHandler interface {
	HandleEvent(Event)
}

// HandlerFunc adapts a function to an EventHandler.
type HandlerFunc func(Event)

func (f HandlerFunc) HandleEvent(e Event) {
	f(e)
}

type registration struct {
	kind    Kind
	handler EventHandler
}

// Emitter dispatches events to registered handlers in registration order.
// Handlers run on the emitting goroutine, outside of the emitter's lock.
type Emitter struct {
	lock     sync.Mutex
	handlers []*registration
}

// Subscription cancels one registration.
type Subscription struct {
	emitter *Emitter
	reg     *registration
}

// Cancel removes the registration. It is safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.emitter == nil {
		return
	}
	e := s.emitter
	e.lock.Lock()
	defer e.lock.Unlock()
	if i := slices.Index(e.handlers, s.reg); i >= 0 {
		e.handlers = slices.Delete(e.handlers, i, i+1)
	}
}

// On registers h for events of kind, or for all events if kind is empty.
func (e *Emitter) On(kind Kind, h EventHandler) *Subscription {
	reg := &registration{kind: kind, handler: h}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.handlers = append(e.handlers, reg)
	return &Subscription{emitter: e, reg: reg}
}

// OnFunc registers a handler function.
func (e *Emitter) OnFunc(kind Kind, f func(Event)) *Subscription {
	return e.On(kind, HandlerFunc(f))
}

// Emit calls the handlers registered for the event's kind.
func (e *Emitter) Emit(ev Event) {
	e.lock.Lock()
	var targets []EventHandler
	for _, r := range e.handlers {
		if r.kind == "" || r.kind == ev.Kind {
			targets = append(targets, r.handler)
		}
	}
	e.lock.Unlock()

	for _, h := range targets {
		h.HandleEvent(ev)
	}
}

// Clear removes all registrations.
func (e *Emitter) Clear() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.handlers = nil
}

// Len returns the number of registrations.
func (e *Emitter) Len() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.handlers)
}
