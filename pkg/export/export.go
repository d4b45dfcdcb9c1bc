// Package export renders a kit into the formats designers paste into a
// project: CSS custom properties, a Tailwind theme snippet, and JSON.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnana997/brandkit/pkg/component"
	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/palette"
	"github.com/gnana997/brandkit/pkg/sample"
)

// Format names a rendering of a kit.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSS      Format = "css"
	FormatTailwind Format = "tailwind"
	FormatBundle   Format = "bundle"
	FormatColors   Format = "colors"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSS, FormatTailwind, FormatBundle, FormatColors:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("export: unknown format %q (want json, css, tailwind, bundle or colors)", s)
}

// Render renders the active variant of pair in format f.
func Render(pair kit.VariantPair, mode sample.ColorScheme, f Format) (string, error) {
	k := pair.Variant(mode)
	switch f {
	case FormatCSS:
		return CSSVariables(k), nil
	case FormatTailwind:
		return Tailwind(k), nil
	case FormatBundle:
		b, err := Bundle(pair, mode)
		return string(b), err
	case FormatColors:
		return CoreColorsText(k.Palette), nil
	default:
		b, err := JSON(k)
		return string(b), err
	}
}

const (
	maxAccents = 6
	maxRadii   = 6
	maxShadows = 4
	maxSpacing = 10
)

// CSSVariables renders k as a :root block of custom properties. Absent
// values produce no declaration.
func CSSVariables(k kit.Kit) string {
	p, t, ui := k.Palette, k.Typography, k.UI

	var b strings.Builder
	b.WriteString(":root {\n")
	decl := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  --%s: %s;\n", name, value)
		}
	}

	decl("bg", p.Background)
	decl("surface", p.Surface)
	decl("text", p.Text)
	decl("muted-text", p.MutedText)
	decl("border", p.Border)
	decl("primary", p.Primary)
	decl("link", p.Link)
	for i, c := range head(p.Accents, maxAccents) {
		decl(fmt.Sprintf("accent-%d", i+1), c)
	}

	if t.BodyFont != "" {
		decl("font-body", quote(t.BodyFont))
	}
	if t.HeadingFont != "" {
		decl("font-heading", quote(t.HeadingFont))
	}

	for i, r := range head(ui.Radii, maxRadii) {
		decl(fmt.Sprintf("radius-%d", i+1), r)
	}
	for i, s := range head(ui.Shadows, maxShadows) {
		decl(fmt.Sprintf("shadow-%d", i+1), s)
	}
	for i, sp := range head(ui.Spacing, maxSpacing) {
		decl(fmt.Sprintf("space-%d", i+1), sp)
	}

	if c := k.Components; !c.Empty() {
		for _, comp := range []struct {
			name   string
			bundle *component.Bundle
		}{{"button", c.Button}, {"input", c.Input}, {"card", c.Card}} {
			if comp.bundle == nil {
				continue
			}
			for _, e := range comp.bundle.Entries() {
				decl(comp.name+"-"+e.Name, e.Value)
			}
		}
	}

	b.WriteString("}")
	return b.String()
}

// Tailwind renders a tailwind.config.js snippet extending the theme with
// the kit's brand colors and font stacks.
func Tailwind(k kit.Kit) string {
	p, t := k.Palette, k.Typography
	body := strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(t.BodyFont))
	heading := strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(t.HeadingFont))

	var b strings.Builder
	b.WriteString("// tailwind.config.js (snippet)\n")
	b.WriteString("module.exports = {\n  theme: {\n    extend: {\n      colors: {\n        brand: {\n")
	for _, kv := range [][2]string{
		{"bg", p.Background},
		{"surface", p.Surface},
		{"text", p.Text},
		{"muted", p.MutedText},
		{"border", p.Border},
		{"primary", p.Primary},
		{"link", p.Link},
	} {
		fmt.Fprintf(&b, "          %s: '%s',\n", kv[0], kv[1])
	}
	for i, c := range head(p.Accents, maxAccents) {
		fmt.Fprintf(&b, "          accent%d: '%s',\n", i+1, c)
	}
	b.WriteString("        }\n      },\n      fontFamily: {\n")
	fmt.Fprintf(&b, "        body: [%s'ui-sans-serif','system-ui'],\n", fontHead(body))
	fmt.Fprintf(&b, "        heading: [%s'ui-sans-serif','system-ui'],\n", fontHead(heading))
	b.WriteString("      }\n    }\n  }\n};")
	return b.String()
}

func fontHead(name string) string {
	if name == "" {
		return ""
	}
	return "'" + name + "', "
}

// JSON renders k as indented JSON.
func JSON(k kit.Kit) ([]byte, error) {
	return json.MarshalIndent(k, "", "  ")
}

type bundle struct {
	Variants kit.VariantPair    `json:"variants"`
	Active   sample.ColorScheme `json:"active"`
	Kit      kit.Kit            `json:"kit"`
}

// Bundle renders the downloadable file: both variants, the active mode and
// the active kit.
func Bundle(pair kit.VariantPair, active sample.ColorScheme) ([]byte, error) {
	if active == sample.SchemeDark && pair.Dark == nil {
		active = sample.SchemeLight
	}
	if active == "" {
		active = sample.SchemeLight
	}
	return json.MarshalIndent(bundle{Variants: pair, Active: active, Kit: pair.Variant(active)}, "", "  ")
}

// BundleFileName returns the download name for a kit of host.
func BundleFileName(host string) string {
	if host == "" {
		host = "site"
	}
	return "brandkit-" + strings.ReplaceAll(host, ":", "_") + ".json"
}

// CoreColor is one labeled palette role.
type CoreColor struct {
	Label string `json:"label"`
	Hex   string `json:"hex"`
}

// CoreColors lists the populated core roles in display order.
func CoreColors(p palette.Palette) []CoreColor {
	all := []CoreColor{
		{"Background", p.Background},
		{"Surface", p.Surface},
		{"Text", p.Text},
		{"Muted", p.MutedText},
		{"Border", p.Border},
		{"Primary", p.Primary},
		{"Link", p.Link},
	}
	out := make([]CoreColor, 0, len(all))
	for _, c := range all {
		if c.Hex != "" {
			out = append(out, c)
		}
	}
	return out
}

// CoreColorsText renders the core colors one "Label: #HEX" per line.
func CoreColorsText(p palette.Palette) string {
	var lines []string
	for _, c := range CoreColors(p) {
		lines = append(lines, c.Label+": "+c.Hex)
	}
	return strings.Join(lines, "\n")
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
