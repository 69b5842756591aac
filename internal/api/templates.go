package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/device-template-core/internal/template"
)

// handleListTemplates returns a filtered, paginated page of templates.
//
// Query parameters: page_number, per_page, sortBy, label, attr (repeatable
// "key=value"), attr_type (repeatable), attr_format (single|split|both).
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := template.ListCriteria{
		Filter: template.Filter{
			Label:     q.Get("label"),
			Attrs:     q["attr"],
			AttrTypes: q["attr_type"],
			SortBy:    q.Get("sortBy"),
		},
		Page: template.Page{
			Number: intParam(q.Get("page_number"), 1),
			Size:   intParam(q.Get("per_page"), template.DefaultPerPage),
		},
		Format: template.ParseAttrFormat(q.Get("attr_format")),
	}

	result, err := s.deps.Manager.List(r.Context(), tenantFrom(r.Context()), criteria)
	if err != nil {
		writeTemplateError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	format := template.ParseAttrFormat(r.URL.Query().Get("attr_format"))
	view, err := s.deps.Manager.Get(r.Context(), tenantFrom(r.Context()), id, format)
	if err != nil {
		writeTemplateError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeBody(w, r, s.logger)
	if !ok {
		return
	}

	format := template.ParseAttrFormat(r.URL.Query().Get("attr_format"))
	view, err := s.deps.Manager.Create(r.Context(), tenantFrom(r.Context()), in, format)
	if err != nil {
		writeTemplateError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":   "ok",
		"template": view,
	})
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	in, ok := decodeBody(w, r, s.logger)
	if !ok {
		return
	}

	if err := s.deps.Manager.Update(r.Context(), tenantFrom(r.Context()), id, in); err != nil {
		writeTemplateError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":  "ok",
		"updated": true,
	})
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.deps.Manager.Remove(r.Context(), tenantFrom(r.Context()), id); err != nil {
		writeTemplateError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":  "ok",
		"removed": true,
	})
}

func (s *Server) handleDeleteAllTemplates(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Manager.RemoveAll(r.Context(), tenantFrom(r.Context())); err != nil {
		writeTemplateError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": "ok"})
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "template id must be an integer")
		return 0, false
	}
	return id, true
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func decodeBody(w http.ResponseWriter, r *http.Request, logger Logger) (*template.TemplateInput, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return nil, false
	}

	in, err := template.DecodeTemplateInput(body)
	if err != nil {
		writeTemplateError(w, logger, err)
		return nil, false
	}
	return in, true
}
