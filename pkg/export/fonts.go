package export

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gnana997/brandkit/pkg/typography"
)

// FontSourceKind classifies where a font family can be obtained.
type FontSourceKind string

const (
	FontGoogle FontSourceKind = "google"
	FontSystem FontSourceKind = "system"
	FontSearch FontSourceKind = "search"
)

// FontSource points a designer at a font family.
type FontSource struct {
	Kind  FontSourceKind `json:"type"`
	Label string         `json:"label"`
	Href  string         `json:"href,omitempty"`
}

var googleFonts = []string{
	"Inter", "Roboto", "Open Sans", "Lato", "Montserrat", "Poppins", "Nunito",
	"Source Sans 3", "Source Sans Pro", "DM Sans", "Playfair Display", "Merriweather",
}

var systemFont = regexp.MustCompile(`(?i)^SF |San Francisco|Segoe UI|Helvetica|Arial`)

// LookupFont classifies the first family of a font stack as a Google Fonts family, a system font, or
// an unknown family to search for. An empty family returns false.
func LookupFont(family string) (FontSource, bool) {
	primary, _, _ := strings.Cut(family, ",")
	clean := strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(primary))
	if clean == "" {
		return FontSource{}, false
	}

	for _, g := range googleFonts {
		if strings.EqualFold(g, clean) {
			return FontSource{
				Kind:  FontGoogle,
				Label: "Google Fonts",
				Href:  "https://fonts.google.com/specimen/" + url.PathEscape(clean),
			}, true
		}
	}

	if systemFont.MatchString(clean) {
		return FontSource{Kind: FontSystem, Label: "System font"}, true
	}

	return FontSource{
		Kind:  FontSearch,
		Label: "Search font",
		Href:  "https://www.google.com/search?q=" + url.QueryEscape(clean+" font"),
	}, true
}

// Fonts holds the sources for a kit's body and heading families. A nil
// field means the family is absent.
type Fonts struct {
	Body    *FontSource `json:"body,omitempty"`
	Heading *FontSource `json:"heading,omitempty"`
}

// FontsFor looks up both families of t.
func FontsFor(t typography.Typography) Fonts {
	var f Fonts
	if src, ok := LookupFont(t.BodyFont); ok {
		f.Body = &src
	}
	if src, ok := LookupFont(t.HeadingFont); ok {
		f.Heading = &src
	}
	return f
}
