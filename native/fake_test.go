package native

import "sync"

// fakeLifetime is an in-memory reference count table.
type fakeLifetime struct {
	mu      sync.Mutex
	counts  map[Pointer]int
	freed   []Pointer
	deleted []Pointer
}

func newFakeLifetime() *fakeLifetime {
	return &fakeLifetime{counts: make(map[Pointer]int)}
}

// create simulates an engine factory returning an object with count 1.
func (f *fakeLifetime) create(p Pointer) Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[p] = 1
	return p
}

func (f *fakeLifetime) Ref(p Pointer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.counts[p]; !ok {
		panic(Unknown("ref", p))
	}
	f.counts[p]++
}

func (f *fakeLifetime) Unref(p Pointer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.counts[p]
	if !ok || c == 0 {
		panic(Underflow(p))
	}
	c--
	if c == 0 {
		delete(f.counts, p)
		f.freed = append(f.freed, p)
		return
	}
	f.counts[p] = c
}

func (f *fakeLifetime) RefCount(p Pointer) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[p]
}

func (f *fakeLifetime) Delete(p Pointer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, p)
}

func (f *fakeLifetime) freedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.freed)
}

func (f *fakeLifetime) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}
