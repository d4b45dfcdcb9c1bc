// Package tokens reduces CSS lengths and shadows to canonical token strings
// and aggregates them into the shape/spacing/elevation token set of a kit.
package tokens

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gnana997/brandkit/pkg/freq"
	"github.com/gnana997/brandkit/pkg/sample"
)

var (
	pixelPattern = regexp.MustCompile(`^(-?\d*\.?\d+)px$`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// PixelOnly returns the value of a "<n>px" length rounded to the nearest
// integer, e.g. "12.6px" -> "13px". Any other unit yields "".
func PixelOnly(raw string) string {
	m := pixelPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	n := int(math.Round(v))
	return strconv.Itoa(n) + "px"
}

// CleanShadow collapses whitespace runs in a box-shadow value. "none" and
// blank values yield "".
func CleanShadow(raw string) string {
	s := strings.TrimSpace(spaceRun.ReplaceAllString(raw, " "))
	if s == "" || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}

// UITokens is the shape, elevation and spacing token set of a kit.
type UITokens struct {
	Radii   []string `json:"radii"`
	Shadows []string `json:"shadows"`
	Spacing []string `json:"spacing"`
}

// Limits caps the size of each token list.
type Limits struct {
	Radii   int `yaml:"radii"`
	Shadows int `yaml:"shadows"`
	Spacing int `yaml:"spacing"`
}

// DefaultLimits returns the standard caps: 6 radii, 4 shadows, 10 spacings.
func DefaultLimits() Limits {
	return Limits{Radii: 6, Shadows: 4, Spacing: 10}
}

// Build ranks the radius, shadow and padding values of samples by frequency.
// Zero-length paddings are not spacing tokens and are skipped.
func Build(samples []sample.Sample, lim Limits) UITokens {
	var radii, shadows, spacing []string
	for _, s := range samples {
		radii = append(radii, PixelOnly(s.Radius))
		shadows = append(shadows, CleanShadow(s.Shadow))
		for _, p := range s.Padding {
			if px := PixelOnly(p); px != "" && px != "0px" {
				spacing = append(spacing, px)
			}
		}
	}

	return UITokens{
		Radii:   nonNil(freq.TopK(radii, lim.Radii)),
		Shadows: nonNil(freq.TopK(shadows, lim.Shadows)),
		Spacing: nonNil(freq.TopK(spacing, lim.Spacing)),
	}
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
