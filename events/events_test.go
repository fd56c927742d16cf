/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	var e Emitter
	var all, changed []Kind

	e.OnFunc("", func(ev Event) { all = append(all, ev.Kind) })
	sub := e.OnFunc(Changed, func(ev Event) { changed = append(changed, ev.Kind) })
	assert.Equal(t, 2, e.Len())

	e.Emit(Event{Kind: Added})
	e.Emit(Event{Kind: Changed, Attributes: []string{"a"}})
	assert.Equal(t, []Kind{Added, Changed}, all)
	assert.Equal(t, []Kind{Changed}, changed)

	sub.Cancel()
	sub.Cancel()
	e.Emit(Event{Kind: Changed})
	assert.Equal(t, []Kind{Changed}, changed)
	assert.Len(t, all, 3)

	e.Clear()
	e.Emit(Event{Kind: Deleted})
	assert.Len(t, all, 3)
}

func TestHandlerMayCancelItself(t *testing.T) {
	var e Emitter
	calls := 0
	var sub *Subscription
	sub = e.OnFunc(Deleted, func(Event) {
		calls++
		sub.Cancel()
	})
	e.Emit(Event{Kind: Deleted})
	e.Emit(Event{Kind: Deleted})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, e.Len())
}
