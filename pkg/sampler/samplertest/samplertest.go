// Package samplertest provides a scripted Sampler and page fixtures for
// tests of packages built on top of sampler.
package samplertest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gnana997/brandkit/pkg/sample"
)

// Fake returns canned renders per color scheme.
type Fake struct {
	Light    *sample.RawExtraction
	Dark     *sample.RawExtraction
	LightErr error
	DarkErr  error

	// Block, when set, makes Sample wait for the context or for Block to be
	// closed before answering.
	Block chan struct{}

	calls atomic.Int64
	mu    sync.Mutex
	urls  []string
}

// Sample implements sampler.Sampler.
func (f *Fake) Sample(ctx context.Context, url string, scheme sample.ColorScheme) (*sample.RawExtraction, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()

	if f.Block != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.Block:
		}
	}

	if scheme == sample.SchemeDark {
		if f.DarkErr != nil {
			return nil, f.DarkErr
		}
		return clone(f.Dark), nil
	}
	if f.LightErr != nil {
		return nil, f.LightErr
	}
	return clone(f.Light), nil
}

// Calls returns how many renders were requested.
func (f *Fake) Calls() int { return int(f.calls.Load()) }

// URLs returns every URL requested, in call order.
func (f *Fake) URLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

func clone(r *sample.RawExtraction) *sample.RawExtraction {
	if r == nil {
		return nil
	}
	c := *r
	c.Samples = append([]sample.Sample(nil), r.Samples...)
	return &c
}

// LightPage is a typical light-themed marketing page.
func LightPage() sample.RawExtraction {
	return sample.RawExtraction{
		Meta: sample.Meta{Title: "Example", Host: "example.com", URL: "https://example.com/"},
		Samples: []sample.Sample{
			{Kind: sample.KindBody, BG: "rgb(255, 255, 255)", Color: "rgb(17, 24, 39)", FontFamily: "Inter, sans-serif", FontSize: "16px", FontWeight: "400", Padding: []string{"0px", "0px", "0px", "0px"}},
			{Kind: sample.KindH1, BG: "rgba(0, 0, 0, 0)", Color: "rgb(17, 24, 39)", FontFamily: "Georgia, serif", FontSize: "48px", FontWeight: "700"},
			{Kind: sample.KindH2, BG: "rgba(0, 0, 0, 0)", Color: "rgb(17, 24, 39)", FontFamily: "Georgia, serif", FontSize: "30px", FontWeight: "700"},
			{Kind: sample.KindH3, BG: "rgba(0, 0, 0, 0)", Color: "rgb(17, 24, 39)", FontFamily: "Georgia, serif", FontSize: "24px", FontWeight: "600"},
			{Kind: sample.KindText, BG: "rgba(0, 0, 0, 0)", Color: "rgb(107, 114, 128)", FontFamily: "Inter, sans-serif", FontSize: "16px", FontWeight: "400"},
			{Kind: sample.KindLink, Color: "rgb(124, 58, 237)", Accent: "rgb(124, 58, 237)", FontFamily: "Inter", FontWeight: "500"},
			{Kind: sample.KindButton, BG: "rgb(37, 99, 235)", Color: "rgb(255, 255, 255)", Radius: "8px", Shadow: "rgba(0, 0, 0, 0.05) 0px 1px 2px 0px", Accent: "rgb(37, 99, 235)", FontWeight: "600", Padding: []string{"8px", "16px", "8px", "16px"}},
			{Kind: sample.KindCard, BG: "rgb(249, 250, 251)", Color: "rgb(17, 24, 39)", Border: "rgb(229, 231, 235)", Radius: "12px", Shadow: "rgba(0, 0, 0, 0.1) 0px 4px 6px -1px", Padding: []string{"24px", "24px", "24px", "24px"}},
			{Kind: sample.KindInput, BG: "rgb(255, 255, 255)", Color: "rgb(17, 24, 39)", Border: "rgb(209, 213, 219)", Radius: "6px", Shadow: "none", Padding: []string{"8px", "12px", "8px", "12px"}},
		},
	}
}

// DarkPage is LightPage rendered with prefers-color-scheme: dark.
func DarkPage() sample.RawExtraction {
	raw := LightPage()
	raw.PrefersDark = true
	for i := range raw.Samples {
		s := &raw.Samples[i]
		switch s.Kind {
		case sample.KindBody, sample.KindInput:
			s.BG = "rgb(17, 24, 39)"
		case sample.KindCard:
			s.BG = "rgb(31, 41, 55)"
		}
		if s.Color == "rgb(17, 24, 39)" {
			s.Color = "rgb(249, 250, 251)"
		}
	}
	return raw
}

// NewFake returns a Fake answering with LightPage and DarkPage.
func NewFake() *Fake {
	light, dark := LightPage(), DarkPage()
	return &Fake{Light: &light, Dark: &dark}
}
