package layer

import (
	"os"
	"strings"

	"github.com/gogpu/ggbind/gfx"
)

// RenderAPIEnv names the environment variable read by New when no
// WithRenderAPI option is given. It holds backend names separated by
// commas, preferred first.
const RenderAPIEnv = "GGBIND_RENDER_API"

type config struct {
	renderAPI []string
	bleach    *gfx.Color
}

// Option configures a Layer.
type Option func(*config)

// WithRenderAPI restricts backend selection to the named backends, tried
// in the given order.
func WithRenderAPI(names ...string) Option {
	return func(c *config) {
		c.renderAPI = normalizeNames(names)
	}
}

// WithBleachColor overrides the backend's clear color.
func WithBleachColor(color gfx.Color) Option {
	return func(c *config) {
		c.bleach = &color
	}
}

func defaultConfig() config {
	return config{renderAPI: normalizeNames(strings.Split(os.Getenv(RenderAPIEnv), ","))}
}

func normalizeNames(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
