package kit

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/typography"
)

var hexRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// --- helpers ---

func fixedClock() func() time.Time {
	ts := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func testAssembler() *Assembler {
	a := NewAssembler(DefaultPolicy())
	a.Now = fixedClock()
	return a
}

func lightPage() sample.RawExtraction {
	return sample.RawExtraction{
		Meta: sample.Meta{Title: "Example", Host: "example.com", URL: "https://example.com/"},
		Samples: []sample.Sample{
			{Kind: sample.KindBody, BG: "rgb(255, 255, 255)", Color: "rgb(17, 24, 39)", FontFamily: "Inter, sans-serif", FontSize: "16px", FontWeight: "400", Padding: []string{"0px", "0px", "0px", "0px"}},
			{Kind: sample.KindH1, BG: "rgba(0, 0, 0, 0)", Color: "rgb(17, 24, 39)", FontFamily: "Georgia, serif", FontSize: "48px", FontWeight: "700"},
			{Kind: sample.KindH2, BG: "rgba(0, 0, 0, 0)", Color: "rgb(17, 24, 39)", FontFamily: "Georgia, serif", FontSize: "30px", FontWeight: "700"},
			{Kind: sample.KindH3, BG: "rgba(0, 0, 0, 0)", Color: "rgb(17, 24, 39)", FontFamily: "Georgia, serif", FontSize: "24px", FontWeight: "600"},
			{Kind: sample.KindText, BG: "rgba(0, 0, 0, 0)", Color: "rgb(107, 114, 128)", FontFamily: "Inter, sans-serif", FontSize: "16px", FontWeight: "400"},
			{Kind: sample.KindLink, Color: "rgb(124, 58, 237)", Accent: "rgb(124, 58, 237)", FontFamily: "Inter", FontWeight: "500"},
			{Kind: sample.KindButton, BG: "rgb(37, 99, 235)", Color: "rgb(255, 255, 255)", Radius: "8px", Shadow: "rgba(0, 0, 0, 0.05) 0px 1px 2px 0px", Accent: "rgb(37, 99, 235)", FontWeight: "600", Padding: []string{"8px", "16px", "8px", "16px"}},
			{Kind: sample.KindCard, BG: "rgb(249, 250, 251)", Color: "rgb(17, 24, 39)", Border: "rgb(229, 231, 235)", Radius: "12px", Shadow: "rgba(0, 0, 0, 0.1) 0px 4px 6px -1px", Padding: []string{"24px", "24px", "24px", "24px"}},
			{Kind: sample.KindInput, BG: "rgb(255, 255, 255)", Color: "rgb(17, 24, 39)", Border: "rgb(209, 213, 219)", Radius: "6px", Shadow: "none", Padding: []string{"8px", "12px", "8px", "12px"}},
		},
	}
}

func darkPage() sample.RawExtraction {
	raw := lightPage()
	raw.PrefersDark = true
	samples := make([]sample.Sample, len(raw.Samples))
	copy(samples, raw.Samples)
	for i := range samples {
		switch samples[i].Kind {
		case sample.KindBody, sample.KindInput:
			samples[i].BG = "rgb(17, 24, 39)"
		case sample.KindCard:
			samples[i].BG = "rgb(31, 41, 55)"
		}
		if samples[i].Color == "rgb(17, 24, 39)" {
			samples[i].Color = "rgb(249, 250, 251)"
		}
	}
	raw.Samples = samples
	return raw
}

func assertInvariants(t *testing.T, k Kit) {
	t.Helper()
	p := k.Palette
	for _, h := range []string{p.Background, p.Surface, p.Text, p.MutedText, p.Border, p.Primary, p.Link} {
		if h != "" {
			assert.Regexp(t, hexRe, h)
		}
	}
	assert.LessOrEqual(t, len(p.Accents), 6)
	seen := map[string]bool{}
	for _, a := range p.Accents {
		assert.Regexp(t, hexRe, a)
		assert.False(t, seen[a], "duplicate accent %s", a)
		assert.NotEqual(t, p.Primary, a)
		assert.NotEqual(t, p.Link, a)
		seen[a] = true
	}
	assert.Empty(t, k.Validate(DefaultPolicy()))
}

// --- assemble ---

func TestAssemble_LightPage(t *testing.T) {
	k := testAssembler().Assemble(lightPage())

	assert.Equal(t, "example.com", k.Meta.Host)
	assert.Equal(t, fixedClock()(), k.ExtractedAt)

	assert.Equal(t, "#FFFFFF", k.Palette.Background)
	assert.Equal(t, "#F9FAFB", k.Palette.Surface)
	assert.Equal(t, "#111827", k.Palette.Text)
	assert.Equal(t, "#6B7280", k.Palette.MutedText)
	assert.Equal(t, "#E5E7EB", k.Palette.Border)
	assert.Equal(t, "#7C3AED", k.Palette.Primary)
	assert.Equal(t, "#2563EB", k.Palette.Link)
	assert.Empty(t, k.Palette.Accents)

	assert.Equal(t, "Inter", k.Typography.BodyFont)
	assert.Equal(t, "Georgia", k.Typography.HeadingFont)
	assert.Equal(t, typography.SizeScale{H1: "48px", H2: "30px", H3: "24px", Body: "16px"}, k.Typography.SizeScale)
	assert.Equal(t, "400", k.Typography.Weights[0].Value)

	assert.Equal(t, []string{"8px", "12px", "6px"}, k.UI.Radii)
	assert.Len(t, k.UI.Shadows, 2)
	assert.Equal(t, []string{"8px", "24px", "16px", "12px"}, k.UI.Spacing)

	require.NotNil(t, k.Components.Button)
	assert.Equal(t, "#2563EB", k.Components.Button.Background)
	require.NotNil(t, k.Components.Card)
	assert.Equal(t, "#E5E7EB", k.Components.Card.Border)
	require.NotNil(t, k.Components.Input)
	assert.Empty(t, k.Components.Input.Shadow)

	assertInvariants(t, k)
}

func TestAssemble_Deterministic(t *testing.T) {
	a := NewAssembler(DefaultPolicy())
	first := a.Assemble(lightPage())
	second := a.Assemble(lightPage())

	first.ExtractedAt, second.ExtractedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second)
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	raw := lightPage()
	before, err := json.Marshal(raw)
	require.NoError(t, err)

	testAssembler().Assemble(raw)

	after, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestAssemble_AllBackgroundsAbsent(t *testing.T) {
	raw := lightPage()
	for i := range raw.Samples {
		raw.Samples[i].BG = ""
	}
	k := testAssembler().Assemble(raw)
	assert.Equal(t, "#FFFFFF", k.Palette.Background)
}

func TestAssemble_GrayscaleAccentExcluded(t *testing.T) {
	raw := sample.RawExtraction{Samples: []sample.Sample{
		{Kind: sample.KindButton, Accent: "#808080"},
		{Kind: sample.KindButton, Accent: "#808080"},
		{Kind: sample.KindLink, Accent: "#808080"},
		{Kind: sample.KindLink, Accent: "#0EA5E9"},
	}}
	k := testAssembler().Assemble(raw)
	assert.NotContains(t, k.Palette.Accents, "#808080")
	assert.NotEqual(t, "#808080", k.Palette.Primary)
	assert.Equal(t, "#0EA5E9", k.Palette.Primary)
}

func TestAssemble_SingleAccentScenario(t *testing.T) {
	white := "rgb(255, 255, 255)"
	blue := "rgb(37, 99, 235)"
	raw := sample.RawExtraction{Samples: []sample.Sample{
		{Kind: sample.KindBody, BG: white},
		{Kind: sample.KindH1, BG: white},
		{Kind: sample.KindH2, BG: white},
		{Kind: sample.KindH3, BG: white},
		{Kind: sample.KindText, BG: white},
		{Kind: sample.KindButton, Accent: blue},
		{Kind: sample.KindLink, Accent: blue},
	}}

	k := testAssembler().Assemble(raw)
	assert.Equal(t, "#FFFFFF", k.Palette.Background)
	assert.Equal(t, "#2563EB", k.Palette.Primary)
	assert.Equal(t, "#2563EB", k.Palette.Link)
	assert.Equal(t, []string{}, k.Palette.Accents)
}

func TestAssemble_TypographyScenario(t *testing.T) {
	raw := sample.RawExtraction{Samples: []sample.Sample{
		{Kind: sample.KindText, FontFamily: "'Inter', sans-serif", FontWeight: "700"},
		{Kind: sample.KindH1, FontFamily: "Georgia, serif"},
	}}

	k := testAssembler().Assemble(raw)
	assert.Equal(t, "Inter", k.Typography.BodyFont)
	assert.Equal(t, "Georgia", k.Typography.HeadingFont)
	assert.Equal(t, []typography.Weight{{Value: "700"}}, k.Typography.Weights)
}

func TestAssemble_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randColor := func() string {
		switch rng.Intn(6) {
		case 0:
			return ""
		case 1:
			return "transparent"
		case 2:
			v := rng.Intn(256)
			return fmt.Sprintf("rgb(%d, %d, %d)", v, v, v)
		case 3:
			return fmt.Sprintf("#%06x", rng.Intn(1<<24))
		case 4:
			return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", rng.Intn(256), rng.Intn(256), rng.Intn(256), rng.Float64())
		default:
			return fmt.Sprintf("rgb(%d, %d, %d)", rng.Intn(4)*60, rng.Intn(4)*60, rng.Intn(4)*60)
		}
	}

	a := testAssembler()
	for round := 0; round < 200; round++ {
		var samples []sample.Sample
		for i := 0; i < 40; i++ {
			kinds := sample.Kinds()
			samples = append(samples, sample.Sample{
				Kind:    kinds[rng.Intn(len(kinds))],
				BG:      randColor(),
				Color:   randColor(),
				Border:  randColor(),
				Accent:  randColor(),
				Radius:  fmt.Sprintf("%dpx", rng.Intn(12)),
				Shadow:  fmt.Sprintf("0px %dpx %dpx black", rng.Intn(5), rng.Intn(5)),
				Padding: []string{fmt.Sprintf("%dpx", rng.Intn(30)), "0px", "1rem", "4px"},
			})
		}
		k := a.Assemble(sample.RawExtraction{Samples: samples})
		assertInvariants(t, k)
	}
}

// --- variants ---

func TestAssembleVariants_DarkDetected(t *testing.T) {
	dark := darkPage()
	pair := testAssembler().AssembleVariants(lightPage(), &dark)

	require.NotNil(t, pair.Dark)
	assert.Equal(t, "#111827", pair.Dark.Palette.Background)
	assert.Equal(t, "#FFFFFF", pair.Light.Palette.Background)
	assert.True(t, pair.DarkModeDetected)
	assert.Equal(t, *pair.Dark, pair.Variant(sample.SchemeDark))
	assert.Equal(t, pair.Light, pair.Variant(sample.SchemeLight))
}

func TestAssembleVariants_NoDark(t *testing.T) {
	pair := testAssembler().AssembleVariants(lightPage(), nil)
	assert.Nil(t, pair.Dark)
	assert.False(t, pair.DarkModeDetected)
	assert.Equal(t, pair.Light, pair.Variant(sample.SchemeDark))
}

func TestAssembleVariants_IdenticalRenders(t *testing.T) {
	dark := lightPage()
	pair := testAssembler().AssembleVariants(lightPage(), &dark)
	require.NotNil(t, pair.Dark)
	assert.False(t, pair.DarkModeDetected)
}

func TestDarkModeDetected(t *testing.T) {
	light := Kit{}
	light.Palette.Background = "#FFFFFF"
	light.Palette.Text = "#111827"
	light.Palette.Primary = "#2563EB"
	light.Palette.Surface = "#F9FAFB"

	dark := light
	dark.Palette.Surface = "#1F2937"
	dark.Palette.Border = "#374151"
	assert.False(t, DarkModeDetected(light, &dark), "only surface and border changed")

	dark.Palette.Text = "#F9FAFB"
	assert.True(t, DarkModeDetected(light, &dark))

	dark = light
	dark.Palette.Primary = "#60A5FA"
	assert.True(t, DarkModeDetected(light, &dark))

	assert.False(t, DarkModeDetected(light, nil))
}

func TestAssembleIsolated_RecoversPanic(t *testing.T) {
	a := NewAssembler(DefaultPolicy())
	a.Now = func() time.Time { panic("clock exploded") }

	_, err := a.assembleIsolated(lightPage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clock exploded")
}

// --- validate ---

func TestValidate(t *testing.T) {
	k := Kit{}
	k.Palette.Background = "#fff"
	k.Palette.Primary = "#2563EB"
	k.Palette.Accents = []string{"#2563EB", "#808080", "#DC2626", "#DC2626"}
	k.UI.Radii = []string{"1px", "2px", "3px", "4px", "5px", "6px", "7px"}

	errs := k.Validate(DefaultPolicy())
	require.Len(t, errs, 5)
	assert.Contains(t, errs[0].Error(), "palette.background")
	assert.Contains(t, errs[1].Error(), "repeats primary")
	assert.Contains(t, errs[2].Error(), "grayscale")
	assert.Contains(t, errs[3].Error(), "duplicate")
	assert.Contains(t, errs[4].Error(), "ui.radii")

	assert.Error(t, k.Check(DefaultPolicy()))
}

func TestKit_JSONShape(t *testing.T) {
	k := testAssembler().Assemble(lightPage())
	b, err := json.Marshal(k)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"meta", "extractedAt", "palette", "typography", "ui", "components"} {
		assert.Contains(t, m, key)
	}
	pal := m["palette"].(map[string]any)
	assert.Contains(t, pal, "mutedText")
	typo := m["typography"].(map[string]any)
	assert.Contains(t, typo, "sizeScale")
	assert.Equal(t, []any{map[string]any{"value": "400"}, map[string]any{"value": "700"}, map[string]any{"value": "600"}, map[string]any{"value": "500"}}, typo["weights"])
}
