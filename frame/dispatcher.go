// Package frame coalesces redraw requests onto a host's per-frame
// callback.
//
// A Dispatcher asks its Host for at most one callback at a time. Any
// number of ScheduleFrame calls before the host fires produce exactly one
// onFrame call. The pending flag is cleared before onFrame runs, so an
// onFrame that schedules again gets the next frame.
package frame

import (
	"sync/atomic"
)

// Host delivers per-frame notifications: a vsync callback, the browser's
// requestAnimationFrame, a game loop tick.
type Host interface {
	// RequestCallback arranges for fn to be called once at the next frame
	// with the frame time in nanoseconds. It may be called from any
	// goroutine; fn runs on the host's frame goroutine.
	RequestCallback(fn func(frameTimeNanos int64))
}

// Dispatcher is a coalescing frame scheduler bound to one Host.
type Dispatcher struct {
	host    Host
	onFrame func(frameTimeNanos int64)

	pending atomic.Bool
	stopped atomic.Bool
	frames  atomic.Int64
}

// NewDispatcher returns an idle dispatcher that calls onFrame on host
// frames it has scheduled.
func NewDispatcher(host Host, onFrame func(frameTimeNanos int64)) *Dispatcher {
	return &Dispatcher{host: host, onFrame: onFrame}
}

// ScheduleFrame requests one onFrame call at the next host frame. It does
// nothing while a request is pending or after Stop.
func (d *Dispatcher) ScheduleFrame() {
	if d.stopped.Load() {
		return
	}
	if !d.pending.CompareAndSwap(false, true) {
		return
	}
	d.host.RequestCallback(d.fire)
}

func (d *Dispatcher) fire(frameTimeNanos int64) {
	if d.stopped.Load() {
		return
	}
	d.pending.Store(false)
	d.frames.Add(1)
	d.onFrame(frameTimeNanos)
}

// Pending reports whether a frame is scheduled and not yet delivered.
func (d *Dispatcher) Pending() bool {
	return d.pending.Load()
}

// Frames returns the number of onFrame calls made.
func (d *Dispatcher) Frames() int64 {
	return d.frames.Load()
}

// Stop disables the dispatcher. A callback already handed to the host
// does nothing when it fires, and later ScheduleFrame calls are ignored.
func (d *Dispatcher) Stop() {
	d.stopped.Store(true)
	d.pending.Store(false)
}

// Stopped reports whether Stop has been called.
func (d *Dispatcher) Stopped() bool {
	return d.stopped.Load()
}
