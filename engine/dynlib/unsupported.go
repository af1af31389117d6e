//go:build windows || js

package dynlib

import "github.com/gogpu/ggbind/gfx"

// Engine is unavailable on this system.
type Engine struct {
	gfx.Engine
}

// Open returns ErrUnsupported.
func Open(string) (*Engine, error) {
	return nil, ErrUnsupported
}

// Close does nothing.
func (*Engine) Close() error { return nil }
