// Package kit assembles the palette, typography, UI and component tokens of
// a page render into a Kit, and pairs light and dark renders.
//
// Assembly is pure: the only input besides the RawExtraction is the clock
// used to stamp ExtractedAt. A returned Kit is never touched again by this
// package, so callers may share it freely.
package kit

import (
	"errors"
	"fmt"
	"time"

	"github.com/gnana997/brandkit/pkg/color"
	"github.com/gnana997/brandkit/pkg/component"
	"github.com/gnana997/brandkit/pkg/palette"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/tokens"
	"github.com/gnana997/brandkit/pkg/typography"
)

// Kit is the design kit inferred from one page render.
type Kit struct {
	Meta        sample.Meta           `json:"meta"`
	ExtractedAt time.Time             `json:"extractedAt"`
	Palette     palette.Palette       `json:"palette"`
	Typography  typography.Typography `json:"typography"`
	UI          tokens.UITokens       `json:"ui"`
	Components  component.Tokens      `json:"components"`
}

// VariantPair holds the light kit and, when available, the dark kit.
type VariantPair struct {
	Light            Kit  `json:"light"`
	Dark             *Kit `json:"dark"`
	DarkModeDetected bool `json:"darkModeDetected"`
}

// Variant returns the kit for mode ("light" or "dark"). Asking for a dark
// kit that does not exist falls back to the light kit.
func (v VariantPair) Variant(mode sample.ColorScheme) Kit {
	if mode == sample.SchemeDark && v.Dark != nil {
		return *v.Dark
	}
	return v.Light
}

// Policy gathers every tunable threshold and cap of the engine.
type Policy struct {
	Palette    palette.Thresholds `yaml:"palette"`
	Typography typography.Limits  `yaml:"typography"`
	UI         tokens.Limits      `yaml:"ui"`
}

// DefaultPolicy returns the standard engine policy.
func DefaultPolicy() Policy {
	return Policy{
		Palette:    palette.DefaultThresholds(),
		Typography: typography.DefaultLimits(),
		UI:         tokens.DefaultLimits(),
	}
}

// Validate checks the hex format and list caps of k against p.
// Returns a slice of validation errors (empty slice if valid).
func (k *Kit) Validate(p Policy) []error {
	var errs []error

	roles := []struct {
		name, value string
	}{
		{"background", k.Palette.Background},
		{"surface", k.Palette.Surface},
		{"text", k.Palette.Text},
		{"mutedText", k.Palette.MutedText},
		{"border", k.Palette.Border},
		{"primary", k.Palette.Primary},
		{"link", k.Palette.Link},
	}
	for _, r := range roles {
		if r.value != "" && !color.IsHex(r.value) {
			errs = append(errs, fmt.Errorf("palette.%s: malformed hex %q", r.name, r.value))
		}
	}

	seen := make(map[string]bool, len(k.Palette.Accents))
	for i, a := range k.Palette.Accents {
		switch {
		case !color.IsHex(a):
			errs = append(errs, fmt.Errorf("palette.accents[%d]: malformed hex %q", i, a))
		case seen[a]:
			errs = append(errs, fmt.Errorf("palette.accents[%d]: duplicate %s", i, a))
		case a == k.Palette.Primary || a == k.Palette.Link:
			errs = append(errs, fmt.Errorf("palette.accents[%d]: %s repeats primary or link", i, a))
		case color.IsGrayscale(a, p.Palette.GrayscaleSpread):
			errs = append(errs, fmt.Errorf("palette.accents[%d]: %s is grayscale", i, a))
		}
		seen[a] = true
	}

	caps := []struct {
		name  string
		n     int
		limit int
	}{
		{"palette.accents", len(k.Palette.Accents), p.Palette.MaxAccents},
		{"typography.weights", len(k.Typography.Weights), p.Typography.Weights},
		{"ui.radii", len(k.UI.Radii), p.UI.Radii},
		{"ui.shadows", len(k.UI.Shadows), p.UI.Shadows},
		{"ui.spacing", len(k.UI.Spacing), p.UI.Spacing},
	}
	for _, c := range caps {
		if c.n > c.limit {
			errs = append(errs, fmt.Errorf("%s: %d entries exceeds cap %d", c.name, c.n, c.limit))
		}
	}

	for name, b := range map[string]*component.Bundle{
		"button": k.Components.Button,
		"input":  k.Components.Input,
		"card":   k.Components.Card,
	} {
		if b == nil {
			continue
		}
		for _, c := range []string{b.Background, b.Text, b.Border} {
			if c != "" && !color.IsHex(c) {
				errs = append(errs, fmt.Errorf("components.%s: malformed hex %q", name, c))
			}
		}
	}

	return errs
}

// Check is Validate folded into a single error.
func (k *Kit) Check(p Policy) error {
	if errs := k.Validate(p); len(errs) > 0 {
		return fmt.Errorf("kit validation failed: %w", errors.Join(errs...))
	}
	return nil
}
