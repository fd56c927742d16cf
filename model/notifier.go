/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// DefaultDelay is the time between the first change of a batch and its notification.
const DefaultDelay = 50 * time.Millisecond

// Notifier coalesces touched attribute names into batches. The first touch of a batch
// arms a timer; touches before it fires join the batch without re-arming it.
type Notifier struct {
	lock    sync.Mutex
	clock   clock.WithDelayedExecution
	delay   time.Duration
	pending []string
	seen    map[string]struct{}
	timer   clock.Timer
	gen     uint64
	fire    func(attrs []string)
}

// NewNotifier creates a Notifier calling fire with every batch.
func NewNotifier(clk clock.WithDelayedExecution, delay time.Duration, fire func(attrs []string)) *Notifier {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Notifier{
		clock: clk,
		delay: delay,
		seen:  map[string]struct{}{},
		fire:  fire,
	}
}

// Touch adds attributes to the current batch, starting one if none is pending.
func (n *Notifier) Touch(attrs ...string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	for _, a := range attrs {
		if _, ok := n.seen[a]; ok {
			continue
		}
		n.seen[a] = struct{}{}
		n.pending = append(n.pending, a)
	}
	if n.timer != nil || len(n.pending) == 0 {
		return
	}
	n.gen++
	gen := n.gen
	// the timer callback may run with clock locks held
	n.timer = n.clock.AfterFunc(n.delay, func() { go n.fireBatch(gen) })
}

// Pending returns the attributes of the current batch.
func (n *Notifier) Pending() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.pending...)
}

// Cancel drops the current batch. A timer firing later is ignored.
func (n *Notifier) Cancel() {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.take()
}

// Flush delivers the current batch immediately.
func (n *Notifier) Flush() {
	n.lock.Lock()
	attrs := n.take()
	n.lock.Unlock()
	if len(attrs) > 0 {
		n.fire(attrs)
	}
}

func (n *Notifier) fireBatch(gen uint64) {
	n.lock.Lock()
	if gen != n.gen || n.timer == nil {
		n.lock.Unlock()
		return
	}
	attrs := n.take()
	n.lock.Unlock()
	n.fire(attrs)
}

// take resets the batch and returns its attributes. The lock must be held.
func (n *Notifier) take() []string {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	attrs := n.pending
	n.pending = nil
	n.seen = map[string]struct{}{}
	return attrs
}
