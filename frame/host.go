package frame

import (
	"context"
	"sync"
	"time"
)

// ManualHost queues callbacks until Tick runs them. It drives frames in
// tests and offscreen rendering.
type ManualHost struct {
	mu    sync.Mutex
	queue []func(int64)
}

// RequestCallback queues fn for the next Tick.
func (h *ManualHost) RequestCallback(fn func(frameTimeNanos int64)) {
	h.mu.Lock()
	h.queue = append(h.queue, fn)
	h.mu.Unlock()
}

// Tick runs the callbacks queued before the call with frame time
// nanos and returns how many ran. Callbacks requested while ticking wait
// for the next Tick.
func (h *ManualHost) Tick(nanos int64) int {
	h.mu.Lock()
	q := h.queue
	h.queue = nil
	h.mu.Unlock()
	for _, fn := range q {
		fn(nanos)
	}
	return len(q)
}

// Queued returns the number of callbacks waiting for a Tick.
func (h *ManualHost) Queued() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// TickerHost runs queued callbacks from a time.Ticker on the goroutine
// that calls Run.
type TickerHost struct {
	interval time.Duration
	manual   ManualHost
}

// NewTickerHost returns a host ticking fps times per second. fps <= 0
// means 60.
func NewTickerHost(fps int) *TickerHost {
	if fps <= 0 {
		fps = 60
	}
	return &TickerHost{interval: time.Second / time.Duration(fps)}
}

// Interval returns the tick interval.
func (h *TickerHost) Interval() time.Duration {
	return h.interval
}

// RequestCallback queues fn for the next tick.
func (h *TickerHost) RequestCallback(fn func(frameTimeNanos int64)) {
	h.manual.RequestCallback(fn)
}

// Run ticks until ctx is done and returns ctx.Err().
func (h *TickerHost) Run(ctx context.Context) error {
	t := time.NewTicker(h.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			h.manual.Tick(now.UnixNano())
		}
	}
}
