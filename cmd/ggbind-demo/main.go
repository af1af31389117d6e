// Command ggbind-demo renders an animated scene through a ggbind layer.
//
// With -host=headless (the default) it renders -frames frames offscreen
// and saves the last one as PNG. The ebiten and gogpu hosts open a window
// and run until it is closed; Space or a click pauses the animation.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/engine/dynlib"
	"github.com/gogpu/ggbind/engine/soft"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/ggbind/platform/ebitenhost"
	"github.com/gogpu/ggbind/platform/gogpuhost"
	"github.com/gogpu/ggbind/platform/headless"
	"github.com/gogpu/ggbind/stats"
)

func main() {
	var (
		host      = flag.String("host", "headless", "platform: headless, ebiten or gogpu")
		engine    = flag.String("engine", "soft", "engine: soft or dynlib")
		lib       = flag.String("lib", "", "engine library for -engine=dynlib (default $"+dynlib.LibPathEnv+")")
		width     = flag.Int("width", 640, "window width")
		height    = flag.Int("height", 360, "window height")
		frames    = flag.Int("frames", 90, "frames to render with -host=headless")
		output    = flag.String("output", "demo.png", "PNG written by -host=headless")
		renderAPI = flag.String("render-api", "", "backend names to try, comma separated")
		verbose   = flag.Bool("v", false, "debug logging")
		showStats = flag.Bool("stats", false, "print native call counts on exit")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ggbind.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if *showStats {
		stats.Enable(true)
		defer printStats()
	}

	eng, closeEngine, err := openEngine(*engine, *lib)
	if err != nil {
		log.Fatal(err)
	}
	defer closeEngine()

	s, err := newScene(eng)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	var opts []layer.Option
	if *renderAPI != "" {
		opts = append(opts, layer.WithRenderAPI(*renderAPI))
	}
	l := layer.New(eng, s, opts...)
	s.layer = l

	switch *host {
	case "headless":
		err = runHeadless(l, *width, *height, *frames, *output)
	case "ebiten":
		err = runEbiten(l, *width, *height)
	case "gogpu":
		err = gogpuhost.New("ggbind demo", *width, *height).Run(l)
	default:
		err = fmt.Errorf("unknown host %q", *host)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func openEngine(name, lib string) (gfx.Engine, func(), error) {
	switch name {
	case "soft":
		return soft.New(soft.WithLogger(ggbind.Logger())), func() {}, nil
	case "dynlib":
		e, err := dynlib.Open(lib)
		if err != nil {
			return nil, nil, err
		}
		return e, func() { _ = e.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine %q", name)
	}
}

func runHeadless(l *layer.Layer, width, height, frames int, output string) error {
	p := headless.New(width, height)
	if err := l.AttachTo(p); err != nil {
		return err
	}
	defer l.Detach()

	step := int64(time.Second / 60)
	for i := range frames {
		p.Tick(int64(i) * step)
	}
	if err := p.SavePNG(output); err != nil {
		return err
	}
	log.Printf("%d frames rendered with %s, last saved to %s", p.Presented(), l.RenderAPI(), output)
	return nil
}

func runEbiten(l *layer.Layer, width, height int) error {
	h := ebitenhost.New("ggbind demo", width, height)
	if err := l.AttachTo(h); err != nil {
		return err
	}
	defer l.Detach()
	return h.Run()
}

func printStats() {
	r := stats.Snapshot()
	for _, name := range stats.CallNames() {
		fmt.Fprintf(os.Stderr, "%-36s %d\n", name, r.Calls[name])
	}
}
