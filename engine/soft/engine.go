package soft

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

var _ gfx.Engine = (*Engine)(nil)

// baseAddress is the first address handed out. Low addresses stay unused
// so that small integers are never mistaken for objects.
const baseAddress = 0x10000

// Engine is the software engine. Create it with New.
type Engine struct {
	mu   sync.Mutex
	next native.Pointer

	objects map[native.Pointer]*object
	heap    map[native.Pointer][]byte

	heapBytes int
	heapLimit int
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithHeapLimit caps the scratch heap at n bytes; Malloc returns Null
// beyond it. Zero means no limit.
func WithHeapLimit(n int) Option {
	return func(e *Engine) {
		e.heapLimit = n
	}
}

// WithLogger sets the engine logger. By default the engine logs through
// ggbind.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		next:    baseAddress,
		objects: make(map[native.Pointer]*object),
		heap:    make(map[native.Pointer][]byte),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns "soft".
func (e *Engine) Name() string {
	return "soft"
}

func (e *Engine) logger() *slog.Logger {
	if e.log != nil {
		return e.log
	}
	return ggbind.Logger()
}

// object is one entry of the object table.
type object struct {
	kind string

	// refs is the reference count; -1 marks objects that are not
	// reference counted and are destroyed with Delete.
	refs int

	value any
}

// disposer is implemented by object values that hold engine resources.
// dispose runs with e.mu held.
type disposer interface {
	dispose(e *Engine)
}

// alloc reserves size bytes of address space. Called with e.mu held.
func (e *Engine) alloc(size int) native.Pointer {
	if size < 1 {
		size = 1
	}
	p := e.next
	e.next += native.Pointer((size + 15) &^ 15)
	return p
}

// newObject adds v to the table with one reference (or as a
// non-counted object) and returns its address. Called with e.mu held.
func (e *Engine) newObject(kind string, refcounted bool, v any) native.Pointer {
	p := e.alloc(1)
	o := &object{kind: kind, refs: -1, value: v}
	if refcounted {
		o.refs = 1
	}
	e.objects[p] = o
	return p
}

// lookup returns the value at p if it is of type T. Called with e.mu held.
func lookup[T any](e *Engine, p native.Pointer) (T, bool) {
	var zero T
	o, ok := e.objects[p]
	if !ok {
		return zero, false
	}
	v, ok := o.value.(T)
	return v, ok
}

// mustLookup is lookup for arguments the caller guarantees to be valid.
func mustLookup[T any](e *Engine, op string, p native.Pointer) T {
	v, ok := lookup[T](e, p)
	if !ok {
		panic(native.Unknown(op, p))
	}
	return v
}

// Ref adds one reference.
func (e *Engine) Ref(p native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refLocked("ref", p)
}

func (e *Engine) refLocked(op string, p native.Pointer) {
	o, ok := e.objects[p]
	if !ok || o.refs < 0 {
		panic(native.Unknown(op, p))
	}
	o.refs++
}

// Unref drops one reference and frees the object at zero. Dropping a
// reference of a freed object panics with native.ErrRefCountUnderflow.
func (e *Engine) Unref(p native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unrefLocked(p)
}

func (e *Engine) unrefLocked(p native.Pointer) {
	if p == native.Null {
		return
	}
	o, ok := e.objects[p]
	if !ok || o.refs == 0 {
		panic(native.Underflow(p))
	}
	if o.refs < 0 {
		panic(native.Unknown("unref", p))
	}
	o.refs--
	if o.refs == 0 {
		e.freeLocked(p, o)
	}
}

// RefCount returns the reference count of p, or zero if p is not a live
// reference-counted object.
func (e *Engine) RefCount(p native.Pointer) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[p]
	if !ok || o.refs < 0 {
		return 0
	}
	return o.refs
}

// Delete destroys an object that is not reference counted.
func (e *Engine) Delete(p native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[p]
	if !ok || o.refs >= 0 {
		panic(native.Unknown("delete", p))
	}
	e.freeLocked(p, o)
}

func (e *Engine) freeLocked(p native.Pointer, o *object) {
	delete(e.objects, p)
	if d, ok := o.value.(disposer); ok {
		d.dispose(e)
	}
	e.logger().Debug("soft: object freed", "kind", o.kind, "ptr", p.String())
}

// LiveObjects returns the number of live objects per kind.
func (e *Engine) LiveObjects() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := make(map[string]int)
	for _, o := range e.objects {
		m[o.kind]++
	}
	return m
}

// LiveCount returns the number of live objects of all kinds.
func (e *Engine) LiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.objects)
}

// String summarizes the object table.
func (e *Engine) String() string {
	live := e.LiveObjects()
	kinds := make([]string, 0, len(live))
	for k := range live {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	s := "soft.Engine{"
	for i, k := range kinds {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%d", k, live[k])
	}
	return s + "}"
}
