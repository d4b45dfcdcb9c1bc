// Package a11y scores the contrast of palette role pairs against the WCAG
// 2.x AA and AAA thresholds.
package a11y

import (
	"fmt"

	"github.com/gnana997/brandkit/pkg/color"
	"github.com/gnana997/brandkit/pkg/palette"
)

// WCAG contrast thresholds.
const (
	AANormal  = 4.5
	AAANormal = 7.0
	AALarge   = 3.0
	AAALarge  = 4.5
)

// Grade is the pass/fail outcome of one contrast ratio.
type Grade struct {
	AA  bool `json:"aa"`
	AAA bool `json:"aaa"`
}

// Classify grades ratio for normal or large text.
func Classify(ratio float64, large bool) Grade {
	if large {
		return Grade{AA: ratio >= AALarge, AAA: ratio >= AAALarge}
	}
	return Grade{AA: ratio >= AANormal, AAA: ratio >= AAANormal}
}

// PairResult is the contrast score of one foreground/background role pair.
type PairResult struct {
	Name       string  `json:"name"`
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Ratio      float64 `json:"ratio"`
	Grade
}

// Label renders the ratio the way designers quote it, e.g. "4.52:1".
func (r PairResult) Label() string {
	return fmt.Sprintf("%.2f:1", r.Ratio)
}

type rolePair struct {
	name   string
	fg, bg func(palette.Palette) string
}

var pairs = []rolePair{
	{"text on background", func(p palette.Palette) string { return p.Text }, func(p palette.Palette) string { return p.Background }},
	{"text on surface", func(p palette.Palette) string { return p.Text }, func(p palette.Palette) string { return p.Surface }},
	{"primary on background", func(p palette.Palette) string { return p.Primary }, func(p palette.Palette) string { return p.Background }},
	{"link on background", func(p palette.Palette) string { return p.Link }, func(p palette.Palette) string { return p.Background }},
}

// Analyze scores the fixed role pairs of p for normal text. Pairs with an
// absent role are skipped, not reported as failing.
func Analyze(p palette.Palette) []PairResult {
	out := make([]PairResult, 0, len(pairs))
	for _, rp := range pairs {
		fg, bg := rp.fg(p), rp.bg(p)
		if fg == "" || bg == "" {
			continue
		}
		ratio, ok := color.ContrastRatio(fg, bg)
		if !ok {
			continue
		}
		out = append(out, PairResult{
			Name:       rp.name,
			Foreground: fg,
			Background: bg,
			Ratio:      ratio,
			Grade:      Classify(ratio, false),
		})
	}
	return out
}

// Check scores a single foreground/background pair.
func Check(fg, bg string, large bool) (PairResult, error) {
	f, b := color.Normalize(fg), color.Normalize(bg)
	if f == "" {
		return PairResult{}, fmt.Errorf("a11y: unsupported foreground color %q", fg)
	}
	if b == "" {
		return PairResult{}, fmt.Errorf("a11y: unsupported background color %q", bg)
	}
	ratio, _ := color.ContrastRatio(f, b)
	return PairResult{
		Name:       "foreground on background",
		Foreground: f,
		Background: b,
		Ratio:      ratio,
		Grade:      Classify(ratio, large),
	}, nil
}
