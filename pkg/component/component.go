// Package component extracts one representative token bundle per UI
// component kind.
package component

import (
	"github.com/gnana997/brandkit/pkg/color"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/tokens"
)

// Bundle maps the semantic properties of one component to canonical values.
// Properties that do not apply to the component, or whose value was absent,
// are left empty and omitted from JSON.
type Bundle struct {
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	Border     string `json:"border,omitempty"`
	Radius     string `json:"radius,omitempty"`
	Shadow     string `json:"shadow,omitempty"`
}

// Entry is one populated property of a bundle.
type Entry struct {
	Name  string
	Value string
}

// Entries lists the populated properties in a stable order.
func (b Bundle) Entries() []Entry {
	all := []Entry{
		{"background", b.Background},
		{"text", b.Text},
		{"border", b.Border},
		{"radius", b.Radius},
		{"shadow", b.Shadow},
	}
	out := all[:0]
	for _, e := range all {
		if e.Value != "" {
			out = append(out, e)
		}
	}
	return out
}

// Tokens holds the bundles of the components found on the page.
type Tokens struct {
	Button *Bundle `json:"button,omitempty"`
	Input  *Bundle `json:"input,omitempty"`
	Card   *Bundle `json:"card,omitempty"`
}

// Empty reports whether no component was sampled.
func (t Tokens) Empty() bool {
	return t.Button == nil && t.Input == nil && t.Card == nil
}

// Build takes the first sample of each component kind. Colors are
// normalized with minAlpha.
func Build(samples []sample.Sample, minAlpha float64) Tokens {
	norm := func(raw string) string { return color.NormalizeWithAlpha(raw, minAlpha) }

	var t Tokens
	if s, ok := sample.First(samples, sample.KindButton); ok {
		t.Button = &Bundle{
			Background: norm(s.BG),
			Text:       norm(s.Color),
			Radius:     tokens.PixelOnly(s.Radius),
			Shadow:     tokens.CleanShadow(s.Shadow),
		}
	}
	if s, ok := sample.First(samples, sample.KindInput); ok {
		t.Input = &Bundle{
			Background: norm(s.BG),
			Text:       norm(s.Color),
			Border:     norm(s.Border),
			Radius:     tokens.PixelOnly(s.Radius),
		}
	}
	if s, ok := sample.First(samples, sample.KindCard); ok {
		t.Card = &Bundle{
			Background: norm(s.BG),
			Text:       norm(s.Color),
			Border:     norm(s.Border),
			Radius:     tokens.PixelOnly(s.Radius),
			Shadow:     tokens.CleanShadow(s.Shadow),
		}
	}
	return t
}
