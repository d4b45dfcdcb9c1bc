// Package color normalizes CSS color values into canonical #RRGGBB hex
// strings and provides the WCAG luminance math used to rank them.
//
// An empty string means "absent": the value was missing, transparent,
// visually negligible, or written in a syntax this package does not parse
// (named colors, hsl(), lab() and friends).
package color

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMinAlpha is the alpha below which an rgba() color is treated as absent.
const DefaultMinAlpha = 0.08

// DefaultGrayscaleSpread is the channel spread below which a color counts as gray.
const DefaultGrayscaleSpread = 14

var (
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*([^)]*)\)$`)
	hexPattern = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	argSplit   = regexp.MustCompile(`[\s,/]+`)
)

// Normalize converts raw to #RRGGBB using DefaultMinAlpha.
func Normalize(raw string) string {
	return NormalizeWithAlpha(raw, DefaultMinAlpha)
}

// NormalizeWithAlpha converts raw to uppercase #RRGGBB, or "" when the value
// cannot be parsed or its rgba() alpha is below minAlpha.
//
// The alpha of 8-digit hex input is discarded without being checked. Only
// rgba() alpha participates in the negligible-alpha test.
func NormalizeWithAlpha(raw string, minAlpha float64) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "transparent" {
		return ""
	}

	if m := hexPattern.FindStringSubmatch(s); m != nil {
		return fromHexDigits(m[1])
	}

	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	args := argSplit.Split(strings.TrimSpace(m[1]), -1)
	if len(args) < 3 {
		return ""
	}

	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(args[i])
		if !ok {
			return ""
		}
		ch[i] = v
	}

	if len(args) >= 4 && args[3] != "" {
		a, ok := parseAlpha(args[3])
		if !ok {
			return ""
		}
		if a < minAlpha {
			return ""
		}
	}

	return format(ch[0], ch[1], ch[2])
}

func fromHexDigits(d string) string {
	switch len(d) {
	case 3:
		d = string([]byte{d[0], d[0], d[1], d[1], d[2], d[2]})
	case 8:
		d = d[:6]
	}
	return "#" + strings.ToUpper(d)
}

func parseChannel(s string) (float64, bool) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if pct {
		v = v * 255 / 100
	}
	return v, true
}

func parseAlpha(s string) (float64, bool) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if pct {
		v /= 100
	}
	return v, true
}

func format(r, g, b float64) string {
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// RGB splits a #RRGGBB value into its channels. Case-insensitive.
func RGB(hex string) (r, g, b uint8, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// IsHex reports whether s is a canonical uppercase #RRGGBB value.
func IsHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < 7; i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// IsGrayscale reports whether the spread between the largest and smallest
// channel of hex is below spread. Unparseable input is not grayscale.
func IsGrayscale(hex string, spread int) bool {
	r, g, b, ok := RGB(hex)
	if !ok {
		return false
	}
	hi := max(r, g, b)
	lo := min(r, g, b)
	return int(hi)-int(lo) < spread
}
