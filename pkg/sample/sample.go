// Package sample defines the raw per-element style observations captured
// from a rendered page. Values are stored exactly as the browser reported
// them; normalization happens downstream.
package sample

import "strings"

// Kind identifies the structural role of a sampled element.
type Kind string

const (
	KindBody   Kind = "body"
	KindH1     Kind = "h1"
	KindH2     Kind = "h2"
	KindH3     Kind = "h3"
	KindText   Kind = "text"
	KindLink   Kind = "link"
	KindButton Kind = "button"
	KindCard   Kind = "card"
	KindInput  Kind = "input"
)

// Kinds returns every kind a sampler is expected to report, in sampling order.
func Kinds() []Kind {
	return []Kind{KindBody, KindH1, KindH2, KindH3, KindText, KindLink, KindButton, KindCard, KindInput}
}

// IsHeading reports whether k is one of the heading kinds (h1, h2, h3).
func (k Kind) IsHeading() bool {
	return strings.HasPrefix(string(k), "h")
}

// ColorScheme selects the prefers-color-scheme emulated while sampling.
type ColorScheme string

const (
	SchemeLight ColorScheme = "light"
	SchemeDark  ColorScheme = "dark"
)

// Sample is one observed element's computed styles.
type Sample struct {
	Kind       Kind     `json:"kind"`
	BG         string   `json:"bg"`
	Color      string   `json:"color"`
	Border     string   `json:"border"`
	Radius     string   `json:"radius"`
	Shadow     string   `json:"shadow"`
	FontFamily string   `json:"fontFamily"`
	FontSize   string   `json:"fontSize"`
	FontWeight string   `json:"fontWeight"`
	Padding    []string `json:"padding"` // top, right, bottom, left

	// Accent is only populated for link and button samples.
	Accent string `json:"accent,omitempty"`
}

// Meta describes the sampled page.
type Meta struct {
	Title string `json:"title"`
	Host  string `json:"host"`
	URL   string `json:"url"`
}

// RawExtraction is everything a sampler captured from one page render.
type RawExtraction struct {
	Meta        Meta     `json:"meta"`
	PrefersDark bool     `json:"prefersDark"`
	Samples     []Sample `json:"samples"`
}

// OfKind returns the samples whose kind matches one of kinds, in input order.
func OfKind(samples []Sample, kinds ...Kind) []Sample {
	var out []Sample
	for _, s := range samples {
		for _, k := range kinds {
			if s.Kind == k {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// First returns the first sample of kind k.
func First(samples []Sample, k Kind) (Sample, bool) {
	for _, s := range samples {
		if s.Kind == k {
			return s, true
		}
	}
	return Sample{}, false
}
