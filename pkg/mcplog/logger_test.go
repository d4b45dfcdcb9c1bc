package mcplog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys map[string]bool
		wantSkip map[string]bool
	}{
		{
			name:     "nil map returns empty",
			input:    nil,
			wantKeys: map[string]bool{},
		},
		{
			name:     "short string passes through",
			input:    map[string]any{"format": "css"},
			wantKeys: map[string]bool{"format": true},
		},
		{
			name:     "inline raw capture replaced with _len key",
			input:    map[string]any{"raw": strings.Repeat("x", 200)},
			wantKeys: map[string]bool{"raw_len": true},
			wantSkip: map[string]bool{"raw": true},
		},
		{
			name:     "long url kept",
			input:    map[string]any{"url": "https://example.com/" + strings.Repeat("a", 100)},
			wantKeys: map[string]bool{"url": true},
			wantSkip: map[string]bool{"url_len": true},
		},
		{
			name:     "objects replaced with _bytes key",
			input:    map[string]any{"kit": map[string]any{"palette": map[string]any{}}},
			wantKeys: map[string]bool{"kit_bytes": true},
			wantSkip: map[string]bool{"kit": true},
		},
		{
			name:     "bool and nil pass through",
			input:    map[string]any{"large": true, "mode": nil},
			wantKeys: map[string]bool{"large": true, "mode": true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			for k := range tc.wantKeys {
				if _, ok := out[k]; !ok {
					t.Errorf("expected key %q in output", k)
				}
			}
			for k := range tc.wantSkip {
				if _, ok := out[k]; ok {
					t.Errorf("unexpected key %q in output", k)
				}
			}
		})
	}
}

func TestResponseBytes(t *testing.T) {
	if got := ResponseBytes(nil); got != 0 {
		t.Errorf("nil result: got %d, want 0", got)
	}
	if got := ResponseBytes(mcp.NewToolResultText("hello")); got == 0 {
		t.Errorf("text result: got 0 bytes")
	}
}

func TestRecord(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	start := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	oldNow := Now
	Now = func() time.Time { return start.Add(42 * time.Millisecond) }
	defer func() { Now = oldNow }()

	res := mcp.NewToolResultError("bad url")
	if err := l.Record("extract_kit", map[string]any{"url": "x"}, start, res, errors.New("boom")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var e Entry
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Tool != "extract_kit" || e.DurationMs != 42 || e.Ts != "2026-10-17T12:00:00Z" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if !e.IsError || e.Error == nil || *e.Error != "boom" {
		t.Errorf("error not recorded: %+v", e)
	}
	if e.TokensEst != e.ResponseBytes/4 {
		t.Errorf("tokens_est=%d, want %d", e.TokensEst, e.ResponseBytes/4)
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	if err := l.Write(Entry{Tool: "x"}); err != nil {
		t.Errorf("Write on nil logger: %v", err)
	}
	if err := l.Record("x", nil, time.Now(), nil, nil); err != nil {
		t.Errorf("Record on nil logger: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("torn write detected at line %d: %v", len(got)+1, err)
		}
		got = append(got, e)
	}
	return got
}

func TestOpenWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	entries := []Entry{
		{Tool: "extract_kit", Params: map[string]any{"url": "https://example.com/"}, DurationMs: 1800},
		{Tool: "check_contrast", Params: map[string]any{"foreground": "#000", "background": "#FFF"}, DurationMs: 1},
		{Tool: "export_kit", Params: map[string]any{"format": "css"}, DurationMs: 3},
	}
	for _, e := range entries {
		if err := logger.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != len(entries) {
		t.Fatalf("got %d lines, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if got[i].Tool != e.Tool || got[i].DurationMs != e.DurationMs {
			t.Errorf("line %d: got %+v, want %+v", i, got[i], e)
		}
	}
}

func TestConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(Entry{Tool: "extract_kit"})
			}
		}()
	}
	wg.Wait()

	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := len(readEntries(t, path)); got != goroutines*writesEach {
		t.Errorf("got %d lines, want %d", got, goroutines*writesEach)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	logger, err := Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger != nil {
		t.Errorf("expected nil logger for empty path")
	}
}
