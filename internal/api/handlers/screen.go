// Package handlers implements the API endpoint handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jwchen/argus/internal/screen"
	"github.com/jwchen/argus/pkg/logger"
)

// ScreenHandler serves the latest published factor table.
type ScreenHandler struct {
	latest      *screen.Latest
	topFraction float64
	logger      *logger.Logger
}

// NewScreenHandler creates a screen handler.
func NewScreenHandler(latest *screen.Latest, topFraction float64, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{latest: latest, topFraction: topFraction, logger: log}
}

// GetTable returns the full latest factor table.
// GET /api/v1/screen/table
func (h *ScreenHandler) GetTable(w http.ResponseWriter, _ *http.Request) {
	table := h.latest.Get()
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "no factor table published yet")
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// GetTop returns the best-ranked fraction of the latest table.
// GET /api/v1/screen/top?fraction=0.10
func (h *ScreenHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	table := h.latest.Get()
	if table == nil {
		writeError(w, http.StatusServiceUnavailable, "no factor table published yet")
		return
	}

	fraction := h.topFraction
	if raw := r.URL.Query().Get("fraction"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			writeError(w, http.StatusBadRequest, "fraction must be in (0, 1]")
			return
		}
		fraction = parsed
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"as_of":    table.AsOf,
		"fraction": fraction,
		"rows":     table.Top(fraction),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
