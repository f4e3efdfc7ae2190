package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/logger"
)

type renderRequest struct {
	MJML   string `json:"mjml"`
	Minify *bool  `json:"minify"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

type errorResponse struct {
	Message string   `json:"message"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, s.accessLog, s.recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/render", s.render)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req renderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "request too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: "invalid request", Details: []string{err.Error()}})
		return
	}
	if strings.TrimSpace(req.MJML) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: "invalid request", Details: []string{"mjml is required"}})
		return
	}

	minify := s.cfg.Minify
	if req.Minify != nil {
		minify = *req.Minify
	}
	renderer := s.plain
	if minify {
		renderer = s.minified
	}

	start := time.Now()
	res, err := renderer.Convert(r.Context(), mjml.Input{MJML: req.MJML})
	s.metrics.observeConversion(err, time.Since(start))
	if err != nil {
		if isMarkupError(err) {
			s.log.DebugContext(r.Context(), "conversion rejected", logger.Error(err))
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid mjml", Error: err.Error()})
			return
		}
		s.log.ErrorContext(r.Context(), "conversion failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{HTML: string(res.HTML)})
}

// isMarkupError reports whether err is caused by the submitted document.
func isMarkupError(err error) bool {
	return errors.Is(err, mjml.ErrParse) || errors.Is(err, mjml.ErrRender) || errors.Is(err, mjml.ErrEncoding)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Debug("writing response", logger.Error(err))
	}
}
