package rawfile

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/util"
)

// BuildResult is the outcome of building one raw file.
type BuildResult struct {
	Source string
	Output string
	// DarkModeDetected is only meaningful when Err is nil.
	DarkModeDetected bool
	Err              error
}

// Build assembles the raw file at path and writes its kit sibling. Kits
// that fail validation are not written.
func Build(path string, a *kit.Assembler) BuildResult {
	res := BuildResult{Source: path, Output: KitPath(path)}

	p, err := Load(path)
	if err != nil {
		res.Err = err
		return res
	}

	pair := a.AssembleVariants(p.Light, p.Dark)
	res.DarkModeDetected = pair.DarkModeDetected
	if err := pair.Light.Check(a.Policy); err != nil {
		res.Err = err
		return res
	}
	if pair.Dark != nil {
		if err := pair.Dark.Check(a.Policy); err != nil {
			res.Err = err
			return res
		}
	}
	res.Err = WriteKit(res.Output, pair)
	return res
}

// BuildStats summarises a BuildAll run.
type BuildStats struct {
	Submitted int64
	Built     int64
	Failed    int64
}

// Builder assembles many raw files on a bounded set of workers.
type Builder struct {
	assembler  *kit.Assembler
	numWorkers int
	logger     *slog.Logger

	submitted atomic.Int64
	built     atomic.Int64
	failed    atomic.Int64
}

// NewBuilder returns a Builder. numWorkers <= 0 picks a size from the CPU
// count.
func NewBuilder(a *kit.Assembler, numWorkers int, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		assembler:  a,
		numWorkers: util.GetOptimalPoolSizeWithOverride(numWorkers),
		logger:     logger,
	}
}

// Workers returns the worker count.
func (b *Builder) Workers() int { return b.numWorkers }

// BuildAll builds every file and returns the results sorted by source path.
// Files not yet started when ctx is cancelled are reported with ctx.Err().
func (b *Builder) BuildAll(ctx context.Context, files []string) []BuildResult {
	jobs := make(chan string, b.numWorkers*2)
	results := make(chan BuildResult, b.numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < b.numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for path := range jobs {
				var res BuildResult
				if err := ctx.Err(); err != nil {
					res = BuildResult{Source: path, Output: KitPath(path), Err: err}
				} else {
					res = Build(path, b.assembler)
				}
				if res.Err != nil {
					b.failed.Add(1)
					b.logger.Debug("raw file failed", "worker_id", id, "file", path, "error", res.Err)
				} else {
					b.built.Add(1)
					b.logger.Debug("kit written", "worker_id", id, "file", res.Output)
				}
				results <- res
			}
		}(i)
	}

	go func() {
		for _, f := range files {
			b.submitted.Add(1)
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	out := make([]BuildResult, 0, len(files))
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })

	b.logger.Info("build finished",
		"workers", b.numWorkers,
		"files", len(files),
		"built", b.built.Load(),
		"failed", b.failed.Load())
	return out
}

// Stats returns cumulative counters across BuildAll calls.
func (b *Builder) Stats() BuildStats {
	return BuildStats{
		Submitted: b.submitted.Load(),
		Built:     b.built.Load(),
		Failed:    b.failed.Load(),
	}
}
