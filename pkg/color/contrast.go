package color

import "math"

// Luminance returns the WCAG 2.x relative luminance of a #RRGGBB color.
func Luminance(hex string) (float64, bool) {
	r, g, b, ok := RGB(hex)
	if !ok {
		return 0, false
	}
	return 0.2126*linear(r) + 0.7152*linear(g) + 0.0722*linear(b), true
}

func linear(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ContrastRatio returns (Lmax + 0.05) / (Lmin + 0.05) for two hex colors.
// The ratio is symmetric and ranges from 1 to 21.
func ContrastRatio(a, b string) (float64, bool) {
	la, ok := Luminance(a)
	if !ok {
		return 0, false
	}
	lb, ok := Luminance(b)
	if !ok {
		return 0, false
	}
	hi, lo := math.Max(la, lb), math.Min(la, lb)
	return (hi + 0.05) / (lo + 0.05), true
}
