// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"sync"
	"time"

	"github.com/canvascraft/canvascraft/pkg/cutil"
)

// Debouncer coalesces a burst of triggers into one trailing-edge call.
// Each Trigger replaces the pending fn (latest wins) and pushes the fire
// time out by the full delay.  Flush runs any pending fn immediately;
// Stop discards it.
type Debouncer struct {
	lock    sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

func MakeDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func()) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.lock.Lock()
	fn := d.pending
	d.pending = nil
	d.lock.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		cutil.PanicHandler("Debouncer.fire", recover())
	}()
	fn()
}

// Flush runs the pending fn (if any) right now, on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.lock.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.lock.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		cutil.PanicHandler("Debouncer.Flush", recover())
	}()
	fn()
}

// Stop discards any pending fn without running it.
func (d *Debouncer) Stop() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Throttler is a leading-edge rate gate.  Allow reports whether enough
// time has passed since the last allowed call; disallowed calls are
// dropped, not queued (fine for positional updates where only the latest
// value matters and a final absolute position always follows).
type Throttler struct {
	lock     sync.Mutex
	interval time.Duration
	last     time.Time
}

func MakeThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval}
}

func (t *Throttler) Allow() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	now := time.Now()
	if now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset clears the gate so the next Allow passes regardless of timing.
func (t *Throttler) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.last = time.Time{}
}
