package soft

import (
	"errors"
	"testing"

	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Errorf("recovered %v, want error wrapping %v", r, target)
		}
	}()
	fn()
}

func TestRefCounting(t *testing.T) {
	e := New()
	p := e.ImageFilterMakeOffset(1, 2, native.Null, native.Null)
	if p == native.Null {
		t.Fatal("ImageFilterMakeOffset returned Null")
	}
	if got := e.RefCount(p); got != 1 {
		t.Fatalf("RefCount = %d, want 1", got)
	}

	e.Ref(p)
	if got := e.RefCount(p); got != 2 {
		t.Fatalf("RefCount after Ref = %d, want 2", got)
	}

	e.Unref(p)
	if e.LiveCount() != 1 {
		t.Fatalf("object freed with one reference left")
	}
	e.Unref(p)
	if e.LiveCount() != 0 {
		t.Fatalf("LiveCount = %d after last Unref, want 0", e.LiveCount())
	}
	if got := e.RefCount(p); got != 0 {
		t.Errorf("RefCount of freed object = %d, want 0", got)
	}
}

func TestUnrefUnderflowPanics(t *testing.T) {
	e := New()
	p := e.ImageFilterMakeOffset(0, 0, native.Null, native.Null)
	e.Unref(p)
	expectPanic(t, native.ErrRefCountUnderflow, func() { e.Unref(p) })
}

func TestLifetimeMisusePanics(t *testing.T) {
	e := New()
	rec := e.PictureRecorderMake()
	filter := e.ImageFilterMakeOffset(0, 0, native.Null, native.Null)

	tests := []struct {
		name string
		fn   func()
	}{
		{"ref unknown", func() { e.Ref(0xdead0) }},
		{"ref non-counted", func() { e.Ref(rec) }},
		{"unref non-counted", func() { e.Unref(rec) }},
		{"delete counted", func() { e.Delete(filter) }},
		{"delete unknown", func() { e.Delete(0xdead0) }},
		{"free unknown", func() { e.Free(0xdead0) }},
		{"read unknown", func() { e.Read(0xdead0, make([]byte, 4)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectPanic(t, native.ErrUnknownObject, tt.fn)
		})
	}
}

func TestHeap(t *testing.T) {
	e := New(WithHeapLimit(64))
	p := e.Malloc(16)
	if p == native.Null {
		t.Fatal("Malloc(16) = Null")
	}
	e.Write(p, []byte("abcdefgh"))
	e.Write(p.Offset(8), []byte("ijkl"))

	got := make([]byte, 12)
	e.Read(p, got)
	if string(got) != "abcdefghijkl" {
		t.Errorf("Read = %q", got)
	}
	inner := make([]byte, 3)
	e.Read(p.Offset(2), inner)
	if string(inner) != "cde" {
		t.Errorf("Read at offset = %q, want cde", inner)
	}

	if q := e.Malloc(64); q != native.Null {
		t.Errorf("Malloc over the limit = %s, want Null", q)
	}
	e.Free(p)
	if e.HeapBlocks() != 0 {
		t.Errorf("HeapBlocks = %d after Free", e.HeapBlocks())
	}
	if q := e.Malloc(64); q == native.Null {
		t.Error("Malloc within the limit failed after Free")
	}
}

func TestFilterHoldsInputs(t *testing.T) {
	e := New()
	blur := e.ImageFilterMakeBlur(2, 2, native.Null, int32(gfx.TileDecal), native.Null)
	offset := e.ImageFilterMakeOffset(3, 4, blur, native.Null)
	if e.RefCount(blur) != 2 {
		t.Fatalf("input RefCount = %d, want 2", e.RefCount(blur))
	}

	e.Unref(blur)
	if e.LiveCount() != 2 {
		t.Fatalf("input freed while referenced by a filter")
	}
	if n := e.ImageFilterCountInputs(offset); n != 1 {
		t.Errorf("CountInputs = %d, want 1", n)
	}

	e.Unref(offset)
	if e.LiveCount() != 0 {
		t.Errorf("LiveCount = %d after freeing the graph, want 0", e.LiveCount())
	}
}

func TestFilterRejectsBadArguments(t *testing.T) {
	e := New()
	rec := e.PictureRecorderMake()
	tests := []struct {
		name string
		p    native.Pointer
	}{
		{"negative sigma", e.ImageFilterMakeBlur(-1, 0, native.Null, 0, native.Null)},
		{"bad tile mode", e.ImageFilterMakeBlur(1, 1, native.Null, 9, native.Null)},
		{"input of wrong kind", e.ImageFilterMakeOffset(0, 0, rec, native.Null)},
		{"negative merge count", e.ImageFilterMakeMerge(native.Null, -1, native.Null)},
	}
	for _, tt := range tests {
		if tt.p != native.Null {
			t.Errorf("%s: got %s, want Null", tt.name, tt.p)
		}
	}
}

func TestDirectContextBackends(t *testing.T) {
	e := New()
	tests := []struct {
		backend gfx.Backend
		ok      bool
	}{
		{gfx.BackendSoftware, true},
		{gfx.BackendOpenGL, false},
		{gfx.BackendMetal, false},
		{gfx.BackendDirect3D, false},
		{gfx.BackendWebGPU, false}, // no device registered
	}
	for _, tt := range tests {
		t.Run(tt.backend.String(), func(t *testing.T) {
			p := e.DirectContextMake(int32(tt.backend), 0)
			if (p != native.Null) != tt.ok {
				t.Errorf("DirectContextMake = %s, want ok=%v", p, tt.ok)
			}
			if p != native.Null {
				e.Unref(p)
			}
		})
	}
}

func TestSurfaceHoldsContext(t *testing.T) {
	e := New()
	ctx := e.DirectContextMake(int32(gfx.BackendSoftware), 0)
	rt := e.BackendRenderTargetMake(int32(gfx.BackendSoftware), 8, 8, int32(gfx.ColorTypeRGBA8888))
	s := e.SurfaceMakeFromRenderTarget(ctx, rt, int32(gfx.ColorTypeRGBA8888))
	if s == native.Null {
		t.Fatal("SurfaceMakeFromRenderTarget = Null")
	}
	if e.RefCount(ctx) != 2 {
		t.Fatalf("context RefCount = %d, want 2", e.RefCount(ctx))
	}

	e.Unref(ctx)
	e.DirectContextFlush(ctx)
	if e.Flushes(ctx) != 1 {
		t.Errorf("Flushes = %d, want 1", e.Flushes(ctx))
	}

	e.Unref(s)
	e.Delete(rt)
	if e.LiveCount() != 0 {
		t.Errorf("live objects left: %s", e)
	}
}

func TestSurfaceRejectsMismatchedTarget(t *testing.T) {
	e := New()
	ctx := e.DirectContextMake(int32(gfx.BackendSoftware), 0)
	rt := e.BackendRenderTargetMake(int32(gfx.BackendOpenGL), 8, 8, int32(gfx.ColorTypeRGBA8888))
	if s := e.SurfaceMakeFromRenderTarget(ctx, rt, int32(gfx.ColorTypeRGBA8888)); s != native.Null {
		t.Errorf("surface for a foreign render target = %s, want Null", s)
	}
	if s := e.SurfaceMakeFromRenderTarget(ctx, rt, int32(gfx.ColorTypeUnknown)); s != native.Null {
		t.Errorf("surface with unknown color type = %s, want Null", s)
	}
}

func TestRecorderLifecycle(t *testing.T) {
	e := New()
	rec := e.PictureRecorderMake()
	if p := e.PictureRecorderFinishRecording(rec); p != native.Null {
		t.Fatal("finishing an idle recorder must fail")
	}
	c := e.PictureRecorderBeginRecording(rec, native.Null)
	if c == native.Null {
		t.Fatal("BeginRecording = Null")
	}
	if again := e.PictureRecorderBeginRecording(rec, native.Null); again != native.Null {
		t.Error("nested BeginRecording must fail")
	}
	e.CanvasClear(c, uint32(gfx.ColorWhite))
	pic := e.PictureRecorderFinishRecording(rec)
	if pic == native.Null {
		t.Fatal("FinishRecording = Null")
	}
	if n := e.PictureApproximateOpCount(pic); n != 1 {
		t.Errorf("op count = %d, want 1", n)
	}
	expectPanic(t, native.ErrUnknownObject, func() { e.CanvasClear(c, 0) })

	e.Delete(rec)
	e.Unref(pic)
	if e.LiveCount() != 0 {
		t.Errorf("live objects left: %s", e)
	}
}

func TestPictureHoldsTypeface(t *testing.T) {
	e := New()
	tf := e.TypefaceMakeDefault()
	f := e.FontMake(tf, 12)
	rec := e.PictureRecorderMake()
	c := e.PictureRecorderBeginRecording(rec, native.Null)

	text := e.Malloc(6)
	e.Write(text, []byte("hello\x00"))
	e.CanvasDrawString(c, text, 0, 10, f, uint32(gfx.ColorBlack))
	e.Free(text)
	pic := e.PictureRecorderFinishRecording(rec)

	e.Delete(f)
	e.Unref(tf)
	if e.RefCount(tf) != 1 {
		t.Fatalf("typeface RefCount = %d, want 1 held by the picture", e.RefCount(tf))
	}
	e.Unref(pic)
	e.Delete(rec)
	if e.LiveCount() != 0 || e.HeapBlocks() != 0 {
		t.Errorf("leaked: %s, %d heap blocks", e, e.HeapBlocks())
	}
}
