// Package typography derives font families, weights and the size scale of a
// page from its samples.
package typography

import (
	"regexp"
	"strings"

	"github.com/gnana997/brandkit/pkg/freq"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/tokens"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Typography is the type profile of a kit.
type Typography struct {
	BodyFont    string    `json:"bodyFont,omitempty"`
	HeadingFont string    `json:"headingFont,omitempty"`
	SizeScale   SizeScale `json:"sizeScale"`
	Weights     []Weight  `json:"weights"`
}

// SizeScale holds the most common pixel size per text level.
type SizeScale struct {
	H1   string `json:"h1,omitempty"`
	H2   string `json:"h2,omitempty"`
	H3   string `json:"h3,omitempty"`
	Body string `json:"body,omitempty"`
}

// Weight is one observed font weight, "100" through "900".
type Weight struct {
	Value string `json:"value"`
}

// Limits caps the typography lists.
type Limits struct {
	Weights int `yaml:"weights"`
}

// DefaultLimits keeps the five most frequent weights.
func DefaultLimits() Limits {
	return Limits{Weights: 5}
}

// CleanFamily returns the first family of a font-family declaration with
// surrounding quotes removed: `"Inter", sans-serif` -> `Inter`.
func CleanFamily(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(first), `"'`))
}

// NormalizeWeight maps "normal" to "400" and "bold" to "700". Numeric
// weights pass through; anything else ("bolder", "lighter") yields "".
func NormalizeWeight(raw string) string {
	w := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case w == "normal":
		return "400"
	case w == "bold":
		return "700"
	case digitsOnly.MatchString(w):
		return w
	}
	return ""
}

// Extract builds the typography profile of samples.
func Extract(samples []sample.Sample, lim Limits) Typography {
	var bodyFamilies, headingFamilies, weights []string
	for _, s := range samples {
		family := CleanFamily(s.FontFamily)
		switch {
		case s.Kind == sample.KindBody || s.Kind == sample.KindText:
			bodyFamilies = append(bodyFamilies, family)
		case s.Kind.IsHeading():
			headingFamilies = append(headingFamilies, family)
		}
		weights = append(weights, NormalizeWeight(s.FontWeight))
	}

	var t Typography
	t.BodyFont, _ = freq.MostCommon(bodyFamilies)
	t.HeadingFont, _ = freq.MostCommon(headingFamilies)
	if t.HeadingFont == "" {
		t.HeadingFont = t.BodyFont
	}

	t.SizeScale = SizeScale{
		H1:   commonSize(samples, sample.KindH1),
		H2:   commonSize(samples, sample.KindH2),
		H3:   commonSize(samples, sample.KindH3),
		Body: commonSize(samples, sample.KindText),
	}

	t.Weights = []Weight{}
	for _, w := range freq.TopK(weights, lim.Weights) {
		t.Weights = append(t.Weights, Weight{Value: w})
	}

	return t
}

func commonSize(samples []sample.Sample, k sample.Kind) string {
	var sizes []string
	for _, s := range sample.OfKind(samples, k) {
		sizes = append(sizes, tokens.PixelOnly(s.FontSize))
	}
	size, _ := freq.MostCommon(sizes)
	return size
}
