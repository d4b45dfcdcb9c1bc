package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/brandkit/pkg/a11y"
	"github.com/gnana997/brandkit/pkg/export"
	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/rawfile"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/sampler"
	"github.com/gnana997/brandkit/pkg/service"
)

// kitResponse is the payload of extract_kit and assemble_kit.
type kitResponse struct {
	Mode             sample.ColorScheme `json:"mode"`
	Kit              kit.Kit            `json:"kit"`
	HasDark          bool               `json:"hasDark"`
	DarkModeDetected bool               `json:"darkModeDetected"`
	Contrast         []contrastEntry    `json:"contrast"`
	Fonts            export.Fonts       `json:"fonts"`
	Ms               int64              `json:"ms"`
	Cached           bool               `json:"cached"`
}

type contrastEntry struct {
	a11y.PairResult
	Label string `json:"label"`
}

// errorPayload mirrors the HTTP error body so agents see the same
// title and hint a person would.
type errorPayload struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func (s *Server) handleExtractKit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := parseMode(req.GetString("mode", ""))

	res, err := s.svc.Extract(ctx, url)
	if err != nil {
		return samplerError(err), nil
	}
	return jsonResult(newKitResponse(res, mode))
}

func (s *Server) handleAssembleKit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("raw")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := parseMode(req.GetString("mode", ""))

	pair, err := rawfile.Decode([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid raw extraction: %v", err)), nil
	}
	return jsonResult(newKitResponse(s.svc.Assemble(pair.Light, pair.Dark), mode))
}

func (s *Server) handleCheckContrast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if raw := req.GetString("kit", ""); raw != "" {
		k, err := decodeKitArg([]byte(raw))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(labelled(a11y.Analyze(k.Palette)))
	}

	fg := req.GetString("foreground", "")
	bg := req.GetString("background", "")
	if fg == "" || bg == "" {
		return mcp.NewToolResultError("foreground and background are required unless kit is given"), nil
	}

	res, err := a11y.Check(fg, bg, req.GetBool("large", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(contrastEntry{PairResult: res, Label: res.Label()})
}

func (s *Server) handleExportKit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := parseMode(req.GetString("mode", ""))

	var res *service.Result
	switch raw, url := req.GetString("raw", ""), req.GetString("url", ""); {
	case raw != "":
		pair, err := rawfile.Decode([]byte(raw))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid raw extraction: %v", err)), nil
		}
		res = s.svc.Assemble(pair.Light, pair.Dark)
	case url != "":
		res, err = s.svc.Extract(ctx, url)
		if err != nil {
			return samplerError(err), nil
		}
	default:
		return mcp.NewToolResultError("one of url or raw is required"), nil
	}

	out, err := export.Render(res.Variants, mode, format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return mcp.NewToolResultText(out), nil
}

func newKitResponse(res *service.Result, mode sample.ColorScheme) kitResponse {
	contrast := res.Contrast.Light
	if mode == sample.SchemeDark && res.Variants.Dark != nil {
		contrast = res.Contrast.Dark
	} else {
		mode = sample.SchemeLight
	}
	k := res.Variants.Variant(mode)
	return kitResponse{
		Mode:             mode,
		Kit:              k,
		HasDark:          res.Variants.Dark != nil,
		DarkModeDetected: res.Variants.DarkModeDetected,
		Contrast:         labelled(contrast),
		Fonts:            export.FontsFor(k.Typography),
		Ms:               res.Ms,
		Cached:           res.Cached,
	}
}

// decodeKitArg accepts a bare kit or any response wrapping one under "kit",
// such as an extract_kit result or a download bundle.
func decodeKitArg(raw []byte) (kit.Kit, error) {
	var wrapped struct {
		Kit *kit.Kit `json:"kit"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return kit.Kit{}, fmt.Errorf("invalid kit JSON: %v", err)
	}

	k := kit.Kit{}
	if wrapped.Kit != nil {
		k = *wrapped.Kit
	} else if err := json.Unmarshal(raw, &k); err != nil {
		return kit.Kit{}, fmt.Errorf("invalid kit JSON: %v", err)
	}

	p := k.Palette
	if p.Background == "" && p.Surface == "" && p.Text == "" && p.Primary == "" && p.Link == "" {
		return kit.Kit{}, fmt.Errorf("kit has no palette colors; pass the kit object returned by extract_kit or assemble_kit")
	}
	return k, nil
}

func labelled(results []a11y.PairResult) []contrastEntry {
	out := make([]contrastEntry, len(results))
	for i, r := range results {
		out[i] = contrastEntry{PairResult: r, Label: r.Label()}
	}
	return out
}

func parseMode(s string) sample.ColorScheme {
	if sample.ColorScheme(strings.ToLower(strings.TrimSpace(s))) == sample.SchemeDark {
		return sample.SchemeDark
	}
	return sample.SchemeLight
}

func samplerError(err error) *mcp.CallToolResult {
	d := sampler.Explain(err)
	b, _ := json.Marshal(errorPayload{
		Code:    string(d.Code),
		Title:   d.Title,
		Message: d.Message,
		Hint:    d.Hint,
	})
	return mcp.NewToolResultError(string(b))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
