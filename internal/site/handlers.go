package site

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/export"
	"github.com/folio-cv/folio/internal/observability"
	"github.com/folio-cv/folio/internal/publication"
)

// CitationResponse is one rendered citation.
type CitationResponse struct {
	ID       string `json:"id"`
	Style    string `json:"style"`
	Citation string `json:"citation"`
}

// AllCitationsResponse holds a publication rendered in every style.
type AllCitationsResponse struct {
	ID        string            `json:"id"`
	Citations map[string]string `json:"citations"`
	BibTeX    string            `json:"bibtex"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.catalog.ListAll(1); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"styles":  citation.Styles(),
		"default": s.cfg.DefaultStyle,
	})
}

func (s *Server) decomposeDetails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	writeJSON(w, http.StatusOK, citation.DecomposeDetails(q))
}

func (s *Server) listPublications(w http.ResponseWriter, r *http.Request) {
	pubs, err := s.catalog.ListAll(0)
	if err != nil {
		s.logger.Error().Err(err).Msg("listing publications")
		writeError(w, http.StatusInternalServerError, "failed to list publications")
		return
	}

	if t := r.URL.Query().Get("type"); t != "" {
		pt := publication.Type(t)
		if !pt.Valid() {
			writeError(w, http.StatusBadRequest, "unknown publication type: "+t)
			return
		}
		filtered := make([]publication.Publication, 0, len(pubs))
		for _, p := range pubs {
			if p.Type == pt {
				filtered = append(filtered, p)
			}
		}
		pubs = filtered
	}

	if r.URL.Query().Get("group") == "true" {
		writeJSON(w, http.StatusOK, publication.GroupByType(pubs))
		return
	}
	if pubs == nil {
		pubs = []publication.Publication{}
	}
	writeJSON(w, http.StatusOK, pubs)
}

// lookup resolves the {id} URL parameter, writing the error response itself
// when the publication cannot be returned.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (publication.Publication, bool) {
	id := chi.URLParam(r, "id")
	p, err := s.catalog.GetByID(id)
	if err != nil {
		s.logger.Error().Err(err).Str("publication_id", id).Msg("loading publication")
		writeError(w, http.StatusInternalServerError, "failed to load publication")
		return publication.Publication{}, false
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "publication not found: "+id)
		return publication.Publication{}, false
	}
	return *p, true
}

// requestStyle resolves ?style=, falling back to the configured default.
// ok is false when a style was given but is not supported.
func (s *Server) requestStyle(r *http.Request) (citation.Style, bool) {
	name := r.URL.Query().Get("style")
	if name == "" {
		return s.cfg.DefaultStyle, true
	}
	return citation.ParseStyle(name)
}

func (s *Server) getPublication(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) getCitation(w http.ResponseWriter, r *http.Request) {
	style, ok := s.requestStyle(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown citation style: "+r.URL.Query().Get("style"))
		return
	}
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}

	text := citation.Generate(p, style)
	s.metrics.RecordCitation(string(style))
	pubLogger := observability.WithPublicationContext(s.logger, p.ID, string(p.Type))
	pubLogger.Debug().Str("style", string(style)).Msg("citation rendered")

	writeJSON(w, http.StatusOK, CitationResponse{ID: p.ID, Style: string(style), Citation: text})
}

func (s *Server) getAllCitations(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}

	resp := AllCitationsResponse{ID: p.ID, Citations: make(map[string]string), BibTeX: export.ToBibTeX(p)}
	for _, style := range citation.Styles() {
		resp.Citations[string(style)] = citation.Generate(p, style)
		s.metrics.RecordCitation(string(style))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getBibTeX(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.metrics.RecordExport("bibtex", 1)

	w.Header().Set("Content-Type", "application/x-bibtex; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CitationKey(p)+`.bib"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.ToBibTeX(p) + "\n"))
}
