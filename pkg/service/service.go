// Package service runs one extraction end to end: it samples the light and
// dark renders of a page, assembles the kit variants and caches the result.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gnana997/brandkit/pkg/a11y"
	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/metrics"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/sampler"
)

// Result is one finished extraction.
type Result struct {
	Variants kit.VariantPair `json:"variants"`
	Contrast Contrast        `json:"contrast"`

	// Ms is the wall time of the extraction that produced this result.
	Ms int64 `json:"ms"`

	// Cached reports whether the result was served from the cache.
	Cached bool `json:"cached"`
}

// Contrast holds the accessibility scores of each variant.
type Contrast struct {
	Light []a11y.PairResult `json:"light"`
	Dark  []a11y.PairResult `json:"dark,omitempty"`
}

// Kit returns the light kit, the one shown by default.
func (r *Result) Kit() kit.Kit { return r.Variants.Light }

// CacheConfig bounds the result cache.
type CacheConfig struct {
	// Size is the maximum number of cached URLs. Zero disables caching.
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// DefaultCacheConfig returns the standard cache bounds.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 256, TTL: 10 * time.Minute}
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// Service extracts kits. Safe for concurrent use.
type Service struct {
	sampler   sampler.Sampler
	assembler *kit.Assembler
	metrics   *metrics.Metrics
	log       *slog.Logger

	cache       *expirable.LRU[string, *Result]
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// Options wires optional collaborators of a Service. A zero Policy means
// kit.DefaultPolicy.
type Options struct {
	Policy  kit.Policy
	Cache   CacheConfig
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// New returns a Service sampling through s.
func New(s sampler.Sampler, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	if opts.Policy == (kit.Policy{}) {
		opts.Policy = kit.DefaultPolicy()
	}

	svc := &Service{
		sampler:   s,
		assembler: kit.NewAssembler(opts.Policy),
		metrics:   opts.Metrics,
		log:       log,
	}
	if opts.Cache.Size > 0 {
		svc.cache = expirable.NewLRU[string, *Result](opts.Cache.Size, nil, opts.Cache.TTL)
	}
	return svc
}

// Extract samples rawURL in light and dark mode concurrently and assembles
// the kit variants. A failed light render fails the extraction; a failed
// dark render only drops the dark variant.
func (s *Service) Extract(ctx context.Context, rawURL string) (*Result, error) {
	url, err := sampler.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.lookup(url); ok {
		return cached, nil
	}

	start := time.Now()
	log := s.log.With("url", url)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		dark    *sample.RawExtraction
		darkErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		dark, darkErr = s.sampler.Sample(ctx, url, sample.SchemeDark)
	}()

	light, err := s.sampler.Sample(ctx, url, sample.SchemeLight)
	if err == nil && light == nil {
		err = fmt.Errorf("sampler returned no render")
	}
	if err != nil {
		cancel()
		wg.Wait()
		s.metrics.RecordExtraction(metrics.OutcomeFailed, time.Since(start), false)
		log.Warn("extraction failed", "error", err)
		return nil, fmt.Errorf("light render: %w", err)
	}
	wg.Wait()

	outcome := metrics.OutcomeOK
	if darkErr != nil {
		outcome = metrics.OutcomeDarkLost
		log.Warn("dark render failed, continuing without dark variant", "error", darkErr)
		dark = nil
	}

	res := s.build(*light, dark)
	res.Ms = time.Since(start).Milliseconds()
	s.metrics.RecordExtraction(outcome, time.Since(start), res.Variants.DarkModeDetected)
	log.Info("extraction complete",
		"ms", res.Ms,
		"dark", res.Variants.Dark != nil,
		"dark_mode_detected", res.Variants.DarkModeDetected,
	)

	if s.cache != nil {
		s.cache.Add(url, res)
	}
	return res, nil
}

// Assemble builds a result from already captured renders. dark may be nil.
func (s *Service) Assemble(light sample.RawExtraction, dark *sample.RawExtraction) *Result {
	start := time.Now()
	res := s.build(light, dark)
	res.Ms = time.Since(start).Milliseconds()
	return res
}

func (s *Service) build(light sample.RawExtraction, dark *sample.RawExtraction) *Result {
	pair := s.assembler.AssembleVariants(light, dark)
	res := &Result{
		Variants: pair,
		Contrast: Contrast{Light: a11y.Analyze(pair.Light.Palette)},
	}
	if pair.Dark != nil {
		res.Contrast.Dark = a11y.Analyze(pair.Dark.Palette)
	}
	return res
}

func (s *Service) lookup(url string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, ok := s.cache.Get(url)
	s.metrics.RecordCache(ok)
	if !ok {
		s.cacheMisses.Add(1)
		return nil, false
	}
	s.cacheHits.Add(1)

	hit := *res
	hit.Cached = true
	return &hit, true
}

// Purge drops every cached result.
func (s *Service) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// CacheStats returns cache counters.
func (s *Service) CacheStats() CacheStats {
	st := CacheStats{Hits: s.cacheHits.Load(), Misses: s.cacheMisses.Load()}
	if s.cache != nil {
		st.Entries = s.cache.Len()
	}
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total)
	}
	return st
}
