package rawfile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverConfig selects raw files under a root directory. Patterns are
// doublestar globs matched against slash-separated paths relative to root.
type DiscoverConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// DefaultDiscoverConfig matches every *.raw.json outside VCS and dependency
// directories.
func DefaultDiscoverConfig() DiscoverConfig {
	return DiscoverConfig{
		Include: []string{"**/*" + RawSuffix},
		Exclude: []string{
			"**/.git", "**/.git/**",
			"**/node_modules", "**/node_modules/**",
			"**/*" + KitSuffix,
		},
	}
}

// Validate checks every pattern's syntax.
func (c DiscoverConfig) Validate() error {
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern: %s", p)
		}
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern: %s", p)
		}
	}
	return nil
}

// Excluded reports whether rel matches an exclude pattern.
func (c DiscoverConfig) Excluded(rel string) bool {
	for _, p := range c.Exclude {
		if m, _ := doublestar.PathMatch(p, rel); m {
			return true
		}
	}
	return false
}

// Included reports whether rel matches an include pattern. No include
// patterns means everything is included.
func (c DiscoverConfig) Included(rel string) bool {
	if len(c.Include) == 0 {
		return true
	}
	for _, p := range c.Include {
		if m, _ := doublestar.PathMatch(p, rel); m {
			return true
		}
	}
	return false
}

// Match reports whether the file at rel is selected.
func (c DiscoverConfig) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	return !c.Excluded(rel) && c.Included(rel)
}

// Discover walks root and returns the sorted absolute paths of selected
// files.
func Discover(root string, cfg DiscoverConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if rel != "." && cfg.Excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !cfg.Included(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Expand resolves CLI arguments to raw files. Directories are walked with
// cfg; anything else is treated as a doublestar glob, so a plain file path
// matches itself.
func Expand(args []string, cfg DiscoverConfig) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if isDir(arg) {
			files, err := Discover(arg, cfg)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			if !IsKitFile(m) {
				add(m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
