// Package stats counts native-call volume and native object population.
//
// Counting is process-wide and off by default. It exists for profiling
// only: nothing in ggbind reads these counters to make a decision.
// Set GGBIND_STATS=1 to enable counting at startup.
package stats

import (
	"os"
	"strconv"
	"sync/atomic"

	"github.com/gogpu/ggbind/internal/counter"
)

var (
	enabled atomic.Bool

	calls = counter.New()
	live  = counter.New()

	scopeAllocs atomic.Int64
	scopeFrees  atomic.Int64
	scopeBytes  atomic.Int64
)

func init() {
	if v, err := strconv.ParseBool(os.Getenv("GGBIND_STATS")); err == nil {
		enabled.Store(v)
	}
}

// Enable turns counting on or off. Counters keep their values.
func Enable(on bool) {
	enabled.Store(on)
}

// Enabled reports whether counting is on.
func Enabled() bool {
	return enabled.Load()
}

// OnNativeCall records one call of the named engine entry point.
func OnNativeCall(name string) {
	if !enabled.Load() {
		return
	}
	calls.Add(name, 1)
}

// OnAllocated records a new wrapper of the given object kind.
func OnAllocated(kind string) {
	if !enabled.Load() {
		return
	}
	live.Add(kind, 1)
}

// OnReleased records the release of a wrapper of the given object kind.
func OnReleased(kind string) {
	if !enabled.Load() {
		return
	}
	live.Add(kind, -1)
}

// OnScopeAlloc records a temporary marshaling allocation of size bytes.
func OnScopeAlloc(size int) {
	if !enabled.Load() {
		return
	}
	scopeAllocs.Add(1)
	scopeBytes.Add(int64(size))
}

// OnScopeFree records the release of a temporary marshaling allocation.
func OnScopeFree() {
	if !enabled.Load() {
		return
	}
	scopeFrees.Add(1)
}

// Report is a point-in-time copy of all counters.
type Report struct {
	// NativeCalls is the total number of engine calls.
	NativeCalls int64

	// Calls maps entry-point names to call counts.
	Calls map[string]int64

	// Live maps object kinds to the number of unreleased wrappers.
	Live map[string]int64

	// ScopeAllocs and ScopeFrees count temporary marshaling allocations.
	ScopeAllocs int64
	ScopeFrees  int64

	// ScopeBytes is the total size of temporary allocations made.
	ScopeBytes int64
}

// Snapshot returns the current counter values.
func Snapshot() Report {
	return Report{
		NativeCalls: calls.Total(),
		Calls:       calls.Snapshot(),
		Live:        live.Snapshot(),
		ScopeAllocs: scopeAllocs.Load(),
		ScopeFrees:  scopeFrees.Load(),
		ScopeBytes:  scopeBytes.Load(),
	}
}

// CallNames returns the names of all counted entry points, sorted.
func CallNames() []string {
	return calls.Keys()
}

// Reset zeroes every counter. The enabled state is unchanged.
func Reset() {
	calls.Reset()
	live.Reset()
	scopeAllocs.Store(0)
	scopeFrees.Store(0)
	scopeBytes.Store(0)
}
