// Copyright 2025, Canvascraft Authors
// SPDX-License-Identifier: Apache-2.0

package canvas

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := MakeDebouncer(20 * time.Millisecond)
	var fired int32
	var last int32
	for i := 1; i <= 5; i++ {
		val := int32(i)
		d.Trigger(func() {
			atomic.AddInt32(&fired, 1)
			atomic.StoreInt32(&last, val)
		})
	}
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("burst should coalesce to one call, got %d", fired)
	}
	if atomic.LoadInt32(&last) != 5 {
		t.Errorf("latest fn should win, got %d", last)
	}
}

func TestDebouncerFlush(t *testing.T) {
	d := MakeDebouncer(time.Hour)
	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	d.Flush()
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatalf("flush should run the pending fn synchronously")
	}
	// nothing left to run
	d.Flush()
	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("second flush should be a no-op")
	}
}

func TestDebouncerStop(t *testing.T) {
	d := MakeDebouncer(10 * time.Millisecond)
	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Errorf("stop should discard the pending fn")
	}
}

func TestThrottlerLeadingEdge(t *testing.T) {
	th := MakeThrottler(50 * time.Millisecond)
	if !th.Allow() {
		t.Fatalf("first call should pass")
	}
	if th.Allow() {
		t.Errorf("immediate second call should be gated")
	}
	time.Sleep(60 * time.Millisecond)
	if !th.Allow() {
		t.Errorf("call after the interval should pass")
	}
	th.Reset()
	if !th.Allow() {
		t.Errorf("reset should reopen the gate")
	}
}
