//go:build !windows && !js

package dynlib

import (
	"errors"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/ebitengine/purego"
	"github.com/gogpu/ggbind/engine/soft"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/stats"
)

func TestOpenWithoutPath(t *testing.T) {
	t.Setenv(LibPathEnv, "")
	if _, err := Open(""); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("Open(\"\") = %v, want ErrNoLibrary", err)
	}
}

func TestOpenMissingLibrary(t *testing.T) {
	t.Setenv(LibPathEnv, "/nonexistent/libggbind.so")
	_, err := Open("")
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("Open = %v, want ErrLoad", err)
	}
	if !strings.Contains(err.Error(), "/nonexistent/libggbind.so") {
		t.Errorf("error %q does not name the path", err)
	}
}

func TestOpenLibraryWithoutEngine(t *testing.T) {
	var lib string
	switch runtime.GOOS {
	case "linux":
		lib = "libc.so.6"
	case "darwin":
		lib = "/usr/lib/libSystem.B.dylib"
	default:
		t.Skipf("no system library known for %s", runtime.GOOS)
	}
	if h, err := purego.Dlopen(lib, purego.RTLD_NOW|purego.RTLD_LOCAL); err != nil {
		t.Skipf("%s not loadable: %v", lib, err)
	} else {
		_ = purego.Dlclose(h)
	}

	_, err := Open(lib)
	if !errors.Is(err, ErrMissingSymbol) {
		t.Errorf("Open(%s) = %v, want ErrMissingSymbol", lib, err)
	}
}

func TestSymbolNames(t *testing.T) {
	names := SymbolNames()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !strings.HasPrefix(n, symbolPrefix) {
			t.Errorf("%s lacks the %s prefix", n, symbolPrefix)
		}
		if seen[n] {
			t.Errorf("%s listed twice", n)
		}
		seen[n] = true
	}
}

// Every entry point gfx reports to stats must be exported by the library.
func TestSymbolsCoverCalls(t *testing.T) {
	stats.Enable(true)
	stats.Reset()
	t.Cleanup(func() {
		stats.Reset()
		stats.Enable(false)
	})

	eng := soft.New()
	exerciseEngine(t, eng)

	names := SymbolNames()
	for _, call := range stats.CallNames() {
		if !slices.Contains(names, symbolPrefix+call) {
			t.Errorf("call %s has no library symbol", call)
		}
	}
	if len(stats.CallNames()) < 30 {
		t.Errorf("only %d calls exercised", len(stats.CallNames()))
	}
}

func exerciseEngine(t *testing.T, eng gfx.Engine) {
	t.Helper()

	blur, err := gfx.MakeBlur(eng, 1, 1, gfx.TileClamp, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	off, err := gfx.MakeOffset(eng, 2, 2, blur, nil)
	if err != nil {
		t.Fatal(err)
	}
	comp, err := gfx.MakeCompose(eng, off, blur)
	if err != nil {
		t.Fatal(err)
	}
	crop := gfx.XYWH(0, 0, 8, 8)
	merge, err := gfx.MakeMerge(eng, []*gfx.ImageFilter{blur, comp}, &crop)
	if err != nil {
		t.Fatal(err)
	}
	_ = merge.CountInputs()
	for _, f := range []*gfx.ImageFilter{merge, comp, off, blur} {
		_ = f.Close()
	}

	tf, err := gfx.DefaultTypeface(eng)
	if err != nil {
		t.Fatal(err)
	}
	defer tf.Close()
	_ = tf.FamilyName()
	font, err := gfx.NewFont(tf, 12)
	if err != nil {
		t.Fatal(err)
	}
	defer font.Close()
	_ = font.Size()
	_ = font.MeasureText("ab")
	_ = font.CountGlyphs("ab")

	rec, err := gfx.NewPictureRecorder(eng)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()
	rc, err := rec.BeginRecording(gfx.XYWH(0, 0, 8, 8))
	if err != nil {
		t.Fatal(err)
	}
	rc.DrawCircle(4, 4, 2, gfx.ColorBlack)
	pic, err := rec.FinishRecording()
	if err != nil {
		t.Fatal(err)
	}
	defer pic.Close()
	_ = pic.CullRect()
	_ = pic.ApproximateOpCount()

	ctx, err := gfx.MakeDirectContext(eng, gfx.BackendSoftware, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()
	rt, err := gfx.MakeRenderTarget(eng, gfx.BackendSoftware, 8, 8, gfx.ColorTypeRGBA8888)
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	surf, err := gfx.MakeSurfaceFromRenderTarget(ctx, rt, gfx.ColorTypeRGBA8888)
	if err != nil {
		t.Fatal(err)
	}
	defer surf.Close()
	raster, err := gfx.MakeRasterSurface(eng, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer raster.Close()

	c := surf.Canvas()
	c.Clear(gfx.ColorWhite)
	c.Save()
	c.Translate(1, 1)
	c.Scale(2, 2)
	c.DrawRect(gfx.XYWH(0, 0, 2, 2), gfx.ColorBlack)
	c.DrawPicture(pic)
	c.DrawString("a", 0, 6, font, gfx.ColorBlack)
	c.Restore()
	_, _ = surf.Size()
	if _, err := surf.ReadPixels(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()
}
