package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/device-template-core/internal/template"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeTemplateError maps domain errors to HTTP responses: validation
// failures are 400, absence is 404, everything else is a 500 with the
// detail kept out of the response body.
func writeTemplateError(w http.ResponseWriter, logger Logger, err error) {
	switch {
	case errors.Is(err, template.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "template not found")
	case template.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("template operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
