// Package sampler renders pages in headless Chrome and captures the computed
// styles of one representative element per kind.
package sampler

import (
	"context"
	"time"

	"github.com/gnana997/brandkit/pkg/sample"
)

// Sampler renders url under the given color scheme and returns what it saw.
type Sampler interface {
	Sample(ctx context.Context, url string, scheme sample.ColorScheme) (*sample.RawExtraction, error)
}

// Config configures sampling.
type Config struct {
	// Timeout bounds one render, navigation included. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`

	// RemoteURL is the DevTools WebSocket of an external Chrome.
	// Empty launches a local headless Chrome.
	RemoteURL string `yaml:"remote_url"`

	// BlockResources lists resource types never fetched (images, fonts, media).
	BlockResources []string `yaml:"block_resources"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
}

// DefaultConfig returns the standard sampling config.
func DefaultConfig() Config {
	return Config{
		Timeout:        30 * time.Second,
		BlockResources: []string{"images", "media", "fonts"},
		ViewportWidth:  1280,
		ViewportHeight: 800,
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = d.ViewportWidth
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = d.ViewportHeight
	}
}
