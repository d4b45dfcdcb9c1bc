package sampler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/gnana997/brandkit/pkg/sample"
)

// RodSampler samples pages in Chrome through go-rod.
type RodSampler struct {
	cfg Config
	mgr *Manager
	log *slog.Logger
}

// NewRodSampler returns a sampler backed by mgr.
func NewRodSampler(cfg Config, mgr *Manager, log *slog.Logger) *RodSampler {
	cfg.defaults()
	if log == nil {
		log = slog.Default()
	}
	return &RodSampler{cfg: cfg, mgr: mgr, log: log}
}

// Sample opens a fresh stealth tab emulating scheme, loads url and samples it.
// Light and dark renders share this routine.
func (s *RodSampler) Sample(ctx context.Context, url string, scheme sample.ColorScheme) (*sample.RawExtraction, error) {
	b, err := s.mgr.Browser()
	if err != nil {
		return nil, newError(CodeFailed, url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	page, err := stealth.Page(b)
	if err != nil {
		return nil, newError(CodeFailed, url, fmt.Errorf("create tab: %w", err))
	}
	defer func() { _ = page.Close() }()

	if len(s.cfg.BlockResources) > 0 {
		router := blockResources(page, s.cfg.BlockResources)
		defer func() { _ = router.Stop() }()
	}

	if err := s.emulate(page, scheme); err != nil {
		return nil, newError(CodeFailed, url, err)
	}

	p := page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return nil, navError(ctx, url, err)
	}
	if err := p.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return nil, newError(CodeTimeout, url, err)
		}
		s.log.Warn("sampler: wait load", "url", url, "error", err)
	}

	res, err := p.Eval(sampleScript)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(CodeTimeout, url, err)
		}
		return nil, newError(CodeEvaluation, url, err)
	}

	raw, err := decodeExtraction(res.Value.Str())
	if err != nil {
		return nil, newError(CodeEvaluation, url, err)
	}

	s.log.Debug("sampler: sampled", "url", url, "scheme", scheme, "samples", len(raw.Samples))
	return raw, nil
}

func (s *RodSampler) emulate(page *rod.Page, scheme sample.ColorScheme) error {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.ViewportWidth,
		Height:            s.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if scheme == "" {
		scheme = sample.SchemeLight
	}
	err := proto.EmulationSetEmulatedMedia{
		Features: []*proto.EmulationMediaFeature{
			{Name: "prefers-color-scheme", Value: string(scheme)},
		},
	}.Call(page)
	if err != nil {
		return fmt.Errorf("emulate %s scheme: %w", scheme, err)
	}
	return nil
}

func navError(ctx context.Context, url string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(CodeTimeout, url, err)
	}
	return newError(CodeNavigation, url, err)
}

func decodeExtraction(body string) (*sample.RawExtraction, error) {
	var raw sample.RawExtraction
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decode page samples: %w", err)
	}
	if len(raw.Samples) == 0 {
		return nil, fmt.Errorf("page returned no samples")
	}
	return &raw, nil
}

// blockResources fails requests for the given resource types. Names are the
// plural config names (images, fonts, media, stylesheets) or raw CDP types.
func blockResources(page *rod.Page, types []string) *rod.HijackRouter {
	blockSet := make(map[string]bool, len(types))
	for _, t := range types {
		blockSet[strings.ToLower(t)] = true
	}

	router := page.HijackRequests()
	router.MustAdd("*", func(h *rod.Hijack) {
		if shouldBlock(blockSet, string(h.Request.Type())) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}

func shouldBlock(blockSet map[string]bool, resType string) bool {
	lower := strings.ToLower(resType)
	switch lower {
	case "image":
		return blockSet["images"]
	case "font":
		return blockSet["fonts"]
	case "media":
		return blockSet["media"]
	case "stylesheet":
		return blockSet["stylesheets"]
	}
	return blockSet[lower]
}
