package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// ExportHandler serves the export archive.
type ExportHandler struct {
	store *store.Store
}

// NewExportHandler creates a new ExportHandler with the given store.
func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{store: s}
}

// ServeHTTP routes /api/exports and /api/exports/{id}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/exports")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.list(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, path)
	case http.MethodDelete:
		h.delete(w, path)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type exportResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Path      string `json:"path"`
	Sentence  string `json:"sentence,omitempty"`
	Entries   int    `json:"entries"`
	CreatedAt string `json:"created_at"`
}

type exportLetterResponse struct {
	Timestamp string `json:"timestamp_iso"`
	Letter    string `json:"letter"`
}

type exportDetailResponse struct {
	exportResponse
	Letters []exportLetterResponse `json:"letters"`
}

type listExportsResponse struct {
	Exports []exportResponse `json:"exports"`
}

func toExportResponse(e *store.Export) exportResponse {
	return exportResponse{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Path:      e.Path,
		Sentence:  e.Sentence,
		Entries:   e.Entries,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/exports, newest first.
func (h *ExportHandler) list(w http.ResponseWriter) {
	exports, err := h.store.Exports().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list exports")
		return
	}

	response := listExportsResponse{Exports: make([]exportResponse, 0, len(exports))}
	for _, e := range exports {
		response.Exports = append(response.Exports, toExportResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/exports/{id} and includes the archived letters.
func (h *ExportHandler) get(w http.ResponseWriter, id string) {
	e, err := h.store.Exports().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Export not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get export")
		return
	}

	letters, err := h.store.Exports().Letters(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get export letters")
		return
	}

	response := exportDetailResponse{
		exportResponse: toExportResponse(e),
		Letters:        make([]exportLetterResponse, 0, len(letters)),
	}
	for _, l := range letters {
		response.Letters = append(response.Letters, exportLetterResponse{Timestamp: l.Timestamp, Letter: l.Letter})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/exports/{id}. The exported file is left on disk.
func (h *ExportHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Exports().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Export not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete export")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
