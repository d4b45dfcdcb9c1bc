// Package palette assigns semantic color roles from the colors observed
// across a page's samples.
//
// Roles are chosen by frequency vote, filtered through WCAG luminance
// cutoffs: a background must be light, text must be dark. One-off
// decorative colors lose the vote to page-wide patterns. Every role has a
// fixed fallback so the palette is always fully populated.
package palette

import (
	"github.com/gnana997/brandkit/pkg/color"
	"github.com/gnana997/brandkit/pkg/freq"
	"github.com/gnana997/brandkit/pkg/sample"
)

// Fallback colors used when no sample offers a usable value for a role.
const (
	FallbackBackground = "#FFFFFF"
	FallbackText       = "#111827"
	FallbackBorder     = "#E5E7EB"
	FallbackPrimary    = "#2563EB"
)

// Palette is the role-labeled color set of a kit. Every value is an
// uppercase #RRGGBB string or empty when absent.
type Palette struct {
	Background string   `json:"background,omitempty"`
	Surface    string   `json:"surface,omitempty"`
	Text       string   `json:"text,omitempty"`
	MutedText  string   `json:"mutedText,omitempty"`
	Border     string   `json:"border,omitempty"`
	Primary    string   `json:"primary,omitempty"`
	Link       string   `json:"link,omitempty"`
	Accents    []string `json:"accents"`
}

// Thresholds holds the tunable policy of the role assigner.
type Thresholds struct {
	BackgroundMinLuminance float64 `yaml:"background_min_luminance"`
	SurfaceMinLuminance    float64 `yaml:"surface_min_luminance"`
	TextMaxLuminance       float64 `yaml:"text_max_luminance"`
	GrayscaleSpread        int     `yaml:"grayscale_spread"`
	MinAlpha               float64 `yaml:"min_alpha"`

	BackgroundCandidates int `yaml:"background_candidates"`
	TextCandidates       int `yaml:"text_candidates"`
	BorderCandidates     int `yaml:"border_candidates"`
	AccentCandidates     int `yaml:"accent_candidates"`
	MaxAccents           int `yaml:"max_accents"`
}

// DefaultThresholds returns the standard role-assignment policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BackgroundMinLuminance: 0.80,
		SurfaceMinLuminance:    0.72,
		TextMaxLuminance:       0.25,
		GrayscaleSpread:        color.DefaultGrayscaleSpread,
		MinAlpha:               color.DefaultMinAlpha,
		BackgroundCandidates:   12,
		TextCandidates:         12,
		BorderCandidates:       8,
		AccentCandidates:       10,
		MaxAccents:             6,
	}
}

// Assign derives the palette from samples.
func Assign(samples []sample.Sample, th Thresholds) Palette {
	norm := func(raw string) string { return color.NormalizeWithAlpha(raw, th.MinAlpha) }

	var bgs, texts, borders, accents []string
	for _, s := range samples {
		bgs = append(bgs, norm(s.BG))
		texts = append(texts, norm(s.Color))
		borders = append(borders, norm(s.Border))
		if s.Kind == sample.KindLink || s.Kind == sample.KindButton {
			accents = append(accents, norm(s.Accent))
		}
	}

	bgTop := freq.TopK(bgs, th.BackgroundCandidates)
	textTop := freq.TopK(texts, th.TextCandidates)
	borderTop := freq.TopK(borders, th.BorderCandidates)

	var p Palette

	p.Background = firstOr(bgTop, func(h string) bool {
		return luminanceAbove(h, th.BackgroundMinLuminance)
	}, at(bgTop, 0), FallbackBackground)

	p.Surface = firstOr(bgTop, func(h string) bool {
		return h != p.Background && luminanceAbove(h, th.SurfaceMinLuminance)
	}, at(bgTop, 1), p.Background)

	p.Text = firstOr(textTop, func(h string) bool {
		return luminanceBelow(h, th.TextMaxLuminance)
	}, at(textTop, 0), FallbackText)

	p.MutedText = firstOr(textTop, func(h string) bool {
		return h != p.Text
	}, at(textTop, 1), p.Text)

	p.Border = orDefault(at(borderTop, 0), FallbackBorder)

	var chromatic []string
	for _, h := range accents {
		if h == "" || color.IsGrayscale(h, th.GrayscaleSpread) {
			continue
		}
		if h == p.Background || h == p.Surface || h == p.Text {
			continue
		}
		chromatic = append(chromatic, h)
	}
	candidates := freq.TopK(chromatic, th.AccentCandidates)

	p.Primary = orDefault(at(candidates, 0), FallbackPrimary)
	p.Link = orDefault(at(candidates, 1), p.Primary)

	p.Accents = freq.Without(candidates, p.Primary, p.Link)
	if len(p.Accents) > th.MaxAccents {
		p.Accents = p.Accents[:max(th.MaxAccents, 0)]
	}

	return p
}

// firstOr returns the first value matching pred, else the first non-empty
// fallback.
func firstOr(values []string, pred func(string) bool, fallbacks ...string) string {
	if v, ok := freq.FirstMatching(values, pred); ok {
		return v
	}
	for _, f := range fallbacks {
		if f != "" {
			return f
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func luminanceAbove(hex string, cutoff float64) bool {
	l, ok := color.Luminance(hex)
	return ok && l > cutoff
}

func luminanceBelow(hex string, cutoff float64) bool {
	l, ok := color.Luminance(hex)
	return ok && l < cutoff
}
