package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gnana997/brandkit/pkg/a11y"
	"github.com/gnana997/brandkit/pkg/export"
	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/sampler"
	"github.com/gnana997/brandkit/pkg/service"
)

// extractResponse is the success payload of /api/extract and /api/assemble.
type extractResponse struct {
	OK               bool             `json:"ok"`
	Kit              kit.Kit          `json:"kit"`
	Variants         kit.VariantPair  `json:"variants"`
	DarkModeDetected bool             `json:"darkModeDetected"`
	Ms               int64            `json:"ms"`
	Cached           bool             `json:"cached"`
	Contrast         service.Contrast `json:"contrast"`
	Fonts            export.Fonts     `json:"fonts"`
}

// errorResponse is the failure payload understood by the results page.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// assembleRequest carries renders captured elsewhere.
type assembleRequest struct {
	Light *sample.RawExtraction `json:"light"`
	Dark  *sample.RawExtraction `json:"dark"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Extract(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.writeSamplerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExtractResponse(res))
}

func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	var req assembleRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_body",
			Title:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Light == nil || len(req.Light.Samples) == 0 {
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_body",
			Title:   "Invalid request body",
			Message: "light render with at least one sample is required",
		})
		return
	}

	writeJSON(w, http.StatusOK, newExtractResponse(s.svc.Assemble(*req.Light, req.Dark)))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, errorResponse{
			Code:    "unknown_format",
			Title:   "Unknown export format",
			Message: err.Error(),
		})
		return
	}

	mode := sample.ColorScheme(r.URL.Query().Get("mode"))
	if mode != sample.SchemeDark {
		mode = sample.SchemeLight
	}

	res, err := s.svc.Extract(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.writeSamplerError(w, r, err)
		return
	}

	out, err := export.Render(res.Variants, mode, format)
	if err != nil {
		s.log.Error("export render failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, errorResponse{
			Code:    "export_failed",
			Title:   "Export failed",
			Message: "The kit could not be rendered.",
		})
		return
	}

	switch format {
	case export.FormatCSS:
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	case export.FormatTailwind:
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	case export.FormatColors:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case export.FormatBundle:
		name := export.BundleFileName(res.Kit().Meta.Host)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleContrast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	large, _ := strconv.ParseBool(q.Get("large"))

	res, err := a11y.Check(q.Get("fg"), q.Get("bg"), large)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_color",
			Title:   "Unsupported color",
			Message: err.Error(),
			Hint:    "Use #RGB, #RRGGBB or rgb()/rgba() notation.",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"result": res,
		"label":  res.Label(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.CacheStats())
}

// handlePurgeCache drops every cached extraction and reports the emptied
// cache. Hit and miss counters are kept.
func (s *Server) handlePurgeCache(w http.ResponseWriter, r *http.Request) {
	s.svc.Purge()
	s.log.Info("extraction cache purged")
	writeJSON(w, http.StatusOK, s.svc.CacheStats())
}

func newExtractResponse(res *service.Result) extractResponse {
	return extractResponse{
		OK:               true,
		Kit:              res.Kit(),
		Variants:         res.Variants,
		DarkModeDetected: res.Variants.DarkModeDetected,
		Ms:               res.Ms,
		Cached:           res.Cached,
		Contrast:         res.Contrast,
		Fonts:            export.FontsFor(res.Kit().Typography),
	}
}

func (s *Server) writeSamplerError(w http.ResponseWriter, r *http.Request, err error) {
	d := sampler.Explain(err)
	status := statusFor(d.Code)
	if r.Context().Err() != nil {
		s.log.Debug("client went away", "error", err)
	}
	writeError(w, status, errorResponse{
		Code:    string(d.Code),
		Title:   d.Title,
		Message: d.Message,
		Hint:    d.Hint,
	})
}

func statusFor(code sampler.Code) int {
	switch code {
	case sampler.CodeInvalidURL, sampler.CodeUnsupportedScheme:
		return http.StatusBadRequest
	case sampler.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, e errorResponse) {
	e.OK = false
	writeJSON(w, status, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
