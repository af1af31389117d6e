package interop

import (
	"errors"
	"testing"

	"github.com/gogpu/ggbind/native"
)

// fakeMemory is a map-backed engine heap that can fail on a chosen
// allocation.
type fakeMemory struct {
	next    native.Pointer
	blocks  map[native.Pointer][]byte
	mallocs int
	frees   int
	failAt  int // 1-based Malloc call that returns Null; 0 never fails
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{next: 0x1000, blocks: make(map[native.Pointer][]byte)}
}

func (m *fakeMemory) Malloc(size int) native.Pointer {
	m.mallocs++
	if m.failAt == m.mallocs {
		return native.Null
	}
	p := m.next
	m.next += native.Pointer((size + 15) &^ 15)
	m.blocks[p] = make([]byte, size)
	return p
}

func (m *fakeMemory) Free(p native.Pointer) {
	if _, ok := m.blocks[p]; !ok {
		panic("double free or unknown pointer " + p.String())
	}
	delete(m.blocks, p)
	m.frees++
}

func (m *fakeMemory) Write(dst native.Pointer, src []byte) { copy(m.blocks[dst], src) }
func (m *fakeMemory) Read(src native.Pointer, dst []byte)  { copy(dst, m.blocks[src]) }

func TestScopeFreesEveryAllocation(t *testing.T) {
	mem := newFakeMemory()
	err := Do(mem, func(s *Scope) error {
		s.Bytes([]byte{1, 2, 3})
		s.Int32s([]int32{1, 2})
		s.Float32s([]float32{0.5})
		s.String("hello")
		if s.Len() != 4 {
			t.Errorf("Len() = %d, want 4", s.Len())
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if mem.mallocs != 4 || mem.frees != 4 {
		t.Errorf("mallocs = %d, frees = %d, want 4 and 4", mem.mallocs, mem.frees)
	}
	if len(mem.blocks) != 0 {
		t.Errorf("%d blocks leaked", len(mem.blocks))
	}
}

func TestScopeNilBufferDoesNotAllocate(t *testing.T) {
	mem := newFakeMemory()
	_ = Do(mem, func(s *Scope) error {
		tests := map[string]native.Pointer{
			"Bytes":    s.Bytes(nil),
			"Int16s":   s.Int16s(nil),
			"Int32s":   s.Int32s(nil),
			"Int64s":   s.Int64s(nil),
			"Float32s": s.Float32s(nil),
			"Float64s": s.Float64s(nil),
			"Pointers": s.Pointers(nil),
			"Strings":  s.Strings(nil),
		}
		for name, p := range tests {
			if p != native.Null {
				t.Errorf("%s(nil) = %s, want Null", name, p)
			}
		}
		return nil
	})
	if mem.mallocs != 0 {
		t.Errorf("mallocs = %d, want 0", mem.mallocs)
	}
}

func TestScopeFreesOnError(t *testing.T) {
	mem := newFakeMemory()
	wantErr := errors.New("engine rejected input")
	err := Do(mem, func(s *Scope) error {
		s.Bytes([]byte{1})
		s.Bytes([]byte{2})
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Do() = %v, want %v", err, wantErr)
	}
	if mem.frees != 2 {
		t.Errorf("frees = %d, want 2", mem.frees)
	}
}

func TestScopeFreesWhenAllocationFails(t *testing.T) {
	for k := 0; k < 5; k++ {
		mem := newFakeMemory()
		mem.failAt = k + 1

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			_ = Do(mem, func(s *Scope) error {
				for range k + 1 {
					s.Float32s([]float32{1, 2, 3, 4})
				}
				t.Fatal("allocation k+1 should have panicked")
				return nil
			})
		}()

		err, ok := recovered.(error)
		if !ok || !errors.Is(err, ErrOutOfMemory) {
			t.Fatalf("k=%d: recovered %v, want ErrOutOfMemory", k, recovered)
		}
		if mem.frees != k {
			t.Errorf("k=%d: frees = %d, want %d", k, mem.frees, k)
		}
		if len(mem.blocks) != 0 {
			t.Errorf("k=%d: %d blocks leaked", k, len(mem.blocks))
		}
	}
}

func TestScopeFreesOnPanic(t *testing.T) {
	mem := newFakeMemory()
	func() {
		defer func() { _ = recover() }()
		_ = Do(mem, func(s *Scope) error {
			s.String("a")
			s.String("b")
			s.String("c")
			panic("engine callback failed")
		})
	}()
	if mem.frees != 3 {
		t.Errorf("frees = %d, want 3", mem.frees)
	}
}

func TestScopeCloseIdempotent(t *testing.T) {
	mem := newFakeMemory()
	s := Open(mem)
	s.Bytes([]byte{1, 2})
	s.Close()
	s.Close()
	if mem.frees != 1 {
		t.Errorf("frees = %d, want 1", mem.frees)
	}
}

func TestScopeUseAfterClosePanics(t *testing.T) {
	s := Open(newFakeMemory())
	s.Close()
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, ErrScopeClosed) {
			t.Errorf("recovered %v, want ErrScopeClosed", err)
		}
	}()
	s.Bytes([]byte{1})
}

func TestNestedScopes(t *testing.T) {
	mem := newFakeMemory()
	_ = Do(mem, func(outer *Scope) error {
		keep := outer.Int32s([]int32{42})
		_ = Do(mem, func(inner *Scope) error {
			inner.Int32s([]int32{1})
			inner.Int32s([]int32{2})
			return nil
		})
		if mem.frees != 2 {
			t.Errorf("inner scope freed %d, want 2", mem.frees)
		}
		got := make([]int32, 1)
		ReadInt32s(mem, keep, got)
		if got[0] != 42 {
			t.Errorf("outer allocation clobbered: %d", got[0])
		}
		return nil
	})
	if mem.frees != 3 {
		t.Errorf("frees = %d, want 3", mem.frees)
	}
}

func TestCallReturnsValue(t *testing.T) {
	mem := newFakeMemory()
	got, err := Call(mem, func(s *Scope) (float32, error) {
		p := s.Float32s([]float32{1.5, 2.5})
		out := make([]float32, 2)
		ReadFloat32s(mem, p, out)
		return out[0] + out[1], nil
	})
	if err != nil || got != 4 {
		t.Errorf("Call() = %v, %v, want 4, nil", got, err)
	}
	if mem.frees != 1 {
		t.Errorf("frees = %d, want 1", mem.frees)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	mem := newFakeMemory()
	_ = Do(mem, func(s *Scope) error {
		ints := []int32{-1, 0, 1 << 30}
		gotInts := make([]int32, len(ints))
		ReadInt32s(mem, s.Int32s(ints), gotInts)
		for i := range ints {
			if gotInts[i] != ints[i] {
				t.Errorf("int32[%d] = %d, want %d", i, gotInts[i], ints[i])
			}
		}

		ptrs := []native.Pointer{0x10, native.Null, 0xdeadbeef}
		gotPtrs := make([]native.Pointer, len(ptrs))
		ReadPointers(mem, s.Pointers(ptrs), gotPtrs)
		for i := range ptrs {
			if gotPtrs[i] != ptrs[i] {
				t.Errorf("ptr[%d] = %s, want %s", i, gotPtrs[i], ptrs[i])
			}
		}

		if got := ReadCString(mem, s.String("typeface"), 64); got != "typeface" {
			t.Errorf("ReadCString = %q, want typeface", got)
		}

		p, n := s.UTF16("héllo, 世界")
		if n != 9 {
			t.Errorf("UTF16 code units = %d, want 9", n)
		}
		str, err := ReadUTF16(mem, p, n)
		if err != nil || str != "héllo, 世界" {
			t.Errorf("ReadUTF16 = %q, %v", str, err)
		}
		return nil
	})
}

func TestStringsAllocatesEachString(t *testing.T) {
	mem := newFakeMemory()
	_ = Do(mem, func(s *Scope) error {
		arr := s.Strings([]string{"a", "bc"})
		ptrs := make([]native.Pointer, 2)
		ReadPointers(mem, arr, ptrs)
		if ReadCString(mem, ptrs[1], 8) != "bc" {
			t.Error("second string not marshaled")
		}
		return nil
	})
	if mem.mallocs != 3 || mem.frees != 3 {
		t.Errorf("mallocs = %d, frees = %d, want 3 and 3", mem.mallocs, mem.frees)
	}
}
