// Package rawfile reads captured page renders from disk and writes the kits
// assembled from them next to the source file.
//
// A raw file holds either a single RawExtraction (light only) or a pair:
//
//	{"light": {...}, "dark": {...}}
//
// Files are memory-mapped for reading; when mmap is unavailable the file is
// read into memory instead.
package rawfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/gnana997/brandkit/pkg/export"
	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/sample"
)

// RawSuffix and KitSuffix name source and output files.
const (
	RawSuffix = ".raw.json"
	KitSuffix = ".kit.json"
)

// ErrNoSamples is returned for files that decode but carry no light samples.
var ErrNoSamples = errors.New("rawfile: no light samples")

// Pair is the content of one raw file. Dark is nil for light-only captures.
type Pair struct {
	Light sample.RawExtraction  `json:"light"`
	Dark  *sample.RawExtraction `json:"dark,omitempty"`
}

// Decode parses either a bare RawExtraction or a {light, dark} pair.
func Decode(data []byte) (Pair, error) {
	var shape struct {
		Light   *sample.RawExtraction `json:"light"`
		Dark    *sample.RawExtraction `json:"dark"`
		Samples json.RawMessage       `json:"samples"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Pair{}, fmt.Errorf("rawfile: decode: %w", err)
	}

	var p Pair
	switch {
	case shape.Light != nil:
		p = Pair{Light: *shape.Light, Dark: shape.Dark}
	case shape.Samples != nil:
		if err := json.Unmarshal(data, &p.Light); err != nil {
			return Pair{}, fmt.Errorf("rawfile: decode: %w", err)
		}
	}
	if len(p.Light.Samples) == 0 {
		return Pair{}, ErrNoSamples
	}
	return p, nil
}

// Load reads and decodes the raw file at path.
func Load(path string) (Pair, error) {
	data, release, err := read(path)
	if err != nil {
		return Pair{}, err
	}
	defer release()

	p, err := Decode(data)
	if err != nil {
		return Pair{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// read maps path read-only. release must be called once data is no longer
// referenced.
func read(path string) (data []byte, release func(), err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("rawfile: open %q: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("rawfile: stat %q: %w", path, err)
	}
	if st.Size() == 0 {
		f.Close()
		return nil, func() {}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		slog.Debug("rawfile: mmap failed, reading instead", "file", path, "error", err)
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, nil, fmt.Errorf("rawfile: read %q: %w", path, readErr)
		}
		return b, func() {}, nil
	}

	return m, func() {
		_ = m.Unmap()
		_ = f.Close()
	}, nil
}

// KitPath returns the output path for the raw file at path:
// "home.raw.json" -> "home.kit.json".
func KitPath(path string) string {
	switch {
	case strings.HasSuffix(path, RawSuffix):
		return strings.TrimSuffix(path, RawSuffix) + KitSuffix
	case strings.HasSuffix(path, ".json"):
		return strings.TrimSuffix(path, ".json") + KitSuffix
	}
	return path + KitSuffix
}

// IsKitFile reports whether path is an output file.
func IsKitFile(path string) bool {
	return strings.HasSuffix(path, KitSuffix)
}

// WriteKit writes pair as a downloadable bundle to path. The file is
// replaced atomically.
func WriteKit(path string, pair kit.VariantPair) error {
	b, err := export.Bundle(pair, sample.SchemeLight)
	if err != nil {
		return fmt.Errorf("rawfile: encode kit: %w", err)
	}
	b = append(b, '\n')

	if cur, err := os.ReadFile(path); err == nil && bytes.Equal(cur, b) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".brandkit-*")
	if err != nil {
		return fmt.Errorf("rawfile: write %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("rawfile: write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rawfile: write %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rawfile: write %q: %w", path, err)
	}
	return nil
}
