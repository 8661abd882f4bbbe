package api

import (
	"net/http"
	"sort"

	"github.com/ayusman/mudra/internal/gesture"
)

type letterResponse struct {
	Letter  string `json:"letter"`
	Fingers string `json:"fingers"`
}

type listLettersResponse struct {
	Letters []letterResponse `json:"letters"`
}

// LettersHandler serves the finger pattern table.
type LettersHandler struct{}

// NewLettersHandler creates a LettersHandler.
func NewLettersHandler() *LettersHandler {
	return &LettersHandler{}
}

// ServeHTTP handles GET /api/letters. Letters are sorted alphabetically;
// fingers run thumb to pinky with 1 for extended.
func (h *LettersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	table := gesture.Table()
	response := listLettersResponse{Letters: make([]letterResponse, 0, len(table))}
	for pattern, sym := range table {
		response.Letters = append(response.Letters, letterResponse{Letter: sym.String(), Fingers: pattern})
	}
	sort.Slice(response.Letters, func(i, j int) bool {
		return response.Letters[i].Letter < response.Letters[j].Letter
	})

	writeJSON(w, http.StatusOK, response)
}
