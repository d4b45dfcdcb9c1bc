package kit

import (
	"fmt"
	"time"

	"github.com/gnana997/brandkit/pkg/component"
	"github.com/gnana997/brandkit/pkg/palette"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/tokens"
	"github.com/gnana997/brandkit/pkg/typography"
)

// Assembler turns raw extractions into kits under a fixed policy.
// The zero value is not usable; call NewAssembler.
type Assembler struct {
	Policy Policy

	// Now stamps ExtractedAt. Replaceable for testing.
	Now func() time.Time
}

// NewAssembler returns an Assembler using p and the wall clock.
func NewAssembler(p Policy) *Assembler {
	return &Assembler{Policy: p, Now: time.Now}
}

// Assemble runs every extractor over raw with the default policy.
func Assemble(raw sample.RawExtraction) Kit {
	return NewAssembler(DefaultPolicy()).Assemble(raw)
}

// AssembleVariants pairs light and dark with the default policy.
func AssembleVariants(light sample.RawExtraction, dark *sample.RawExtraction) VariantPair {
	return NewAssembler(DefaultPolicy()).AssembleVariants(light, dark)
}

// Assemble builds the kit for one render. raw is only read.
func (a *Assembler) Assemble(raw sample.RawExtraction) Kit {
	samples := raw.Samples
	return Kit{
		Meta:        raw.Meta,
		ExtractedAt: a.now(),
		Palette:     palette.Assign(samples, a.Policy.Palette),
		Typography:  typography.Extract(samples, a.Policy.Typography),
		UI:          tokens.Build(samples, a.Policy.UI),
		Components:  component.Build(samples, a.Policy.Palette.MinAlpha),
	}
}

// AssembleVariants assembles light and, when given, dark. The dark kit is
// built on its own goroutine; if it fails, Dark is nil and the light kit is
// returned unaffected.
func (a *Assembler) AssembleVariants(light sample.RawExtraction, dark *sample.RawExtraction) VariantPair {
	var darkCh chan *Kit
	if dark != nil {
		darkCh = make(chan *Kit, 1)
		go func() {
			k, err := a.assembleIsolated(*dark)
			if err != nil {
				darkCh <- nil
				return
			}
			darkCh <- &k
		}()
	}

	pair := VariantPair{Light: a.Assemble(light)}
	if darkCh != nil {
		pair.Dark = <-darkCh
	}
	pair.DarkModeDetected = DarkModeDetected(pair.Light, pair.Dark)
	return pair
}

// assembleIsolated converts a panic during assembly into an error.
func (a *Assembler) assembleIsolated(raw sample.RawExtraction) (k Kit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("kit: dark assembly panicked: %v", r)
		}
	}()
	return a.Assemble(raw), nil
}

// DarkModeDetected reports whether dark exists and differs from light in
// background, text or primary.
func DarkModeDetected(light Kit, dark *Kit) bool {
	if dark == nil {
		return false
	}
	lp, dp := light.Palette, dark.Palette
	return lp.Background != dp.Background || lp.Text != dp.Text || lp.Primary != dp.Primary
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
