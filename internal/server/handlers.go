package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jfoltran/colorserve/internal/appconfig"
	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/metrics"
)

// MsgColorsUnavailable is the fixed client-facing message for any colors read failure.
const MsgColorsUnavailable = "Failed to read colors data"

type handlers struct {
	source    *colors.Source
	app       appconfig.AppConfig
	collector *metrics.Collector
	logger    zerolog.Logger
}

// colors serves the backing file. Request parameters are ignored.
func (h *handlers) colors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	doc, err := h.source.Load(r.Context())
	if err != nil {
		h.collector.RecordFailure(err)
		h.logger.Warn().Err(err).Str("file", h.source.Path()).Msg("colors read failed")
		writeError(w, r, http.StatusInternalServerError, MsgColorsUnavailable)
		return
	}

	h.collector.RecordServed()
	if _, err := w.Write(doc); err != nil {
		h.logger.Debug().Err(err).Msg("write colors response")
	}
}

func (h *handlers) configHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.app.Public())
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.collector.Snapshot())
}

func (h *handlers) logs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.collector.Logs())
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "Cannot find any route matching "+r.URL.Path)
}

// ErrorResponse is the JSON envelope for failed API requests.
type ErrorResponse struct {
	URL           string `json:"url"`
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		URL:           r.URL.Path,
		StatusCode:    code,
		StatusMessage: http.StatusText(code),
		Message:       message,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
