package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/project"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/render"
	"github.com/thithuypham/folio/internal/storage"
)

const defaultSearchLimit = 50

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}

// selection reads the year and type query parameters. Unknown values are
// passed through and simply match nothing.
func selection(r *http.Request) catalog.Selection {
	q := r.URL.Query()
	return catalog.Selection{Year: q.Get("year"), Type: q.Get("type")}.Normalize()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"publications": len(s.pubs),
	})
}

func (s *Server) handlePublicationsPage(w http.ResponseWriter, r *http.Request) {
	view := catalog.Build(s.pubs, selection(r))

	var buf bytes.Buffer
	if err := render.Publications(&buf, view, s.summary, s.page); err != nil {
		s.logger.Error("rendering publications", zap.Error(err))
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleProjectsPage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	opts := s.page
	opts.Title = "Research Projects"
	if err := render.Projects(&buf, s.projects, opts); err != nil {
		s.logger.Error("rendering projects", zap.Error(err))
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleListPublications(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.Build(s.pubs, selection(r)))
}

func (s *Server) handleGetPublication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.coll.Get(id)
	if errors.Is(err, publication.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "publication not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("getting publication", zap.String("id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// facets lists the selector values; the "all" option is implied.
type facets struct {
	Years []string `json:"years"`
	Types []string `json:"types"`
}

func (s *Server) handleFacets(w http.ResponseWriter, _ *http.Request) {
	f := facets{
		Years: catalog.DistinctYears(s.pubs),
		Types: catalog.DistinctTypes(s.pubs),
	}
	if f.Years == nil {
		f.Years = []string{}
	}
	if f.Types == nil {
		f.Types = []string{}
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.summary)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		s.writeError(w, http.StatusServiceUnavailable, "search index not available")
		return
	}

	q := r.URL.Query()
	limit := defaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	filters := storage.QueryFilters{
		Keyword: strings.TrimSpace(q.Get("q")),
		Author:  strings.TrimSpace(q.Get("author")),
		Year:    q.Get("year"),
		Type:    q.Get("type"),
		Venue:   strings.TrimSpace(q.Get("venue")),
		Limit:   limit,
	}
	if filters.Keyword == "" && filters.Author == "" && filters.Venue == "" {
		s.writeError(w, http.StatusBadRequest, "one of q, author or venue is required")
		return
	}

	pubs, err := s.search.Query(filters)
	if err != nil {
		s.logger.Error("search failed", zap.String("q", filters.Keyword), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":        len(pubs),
		"publications": pubs,
	})
}

// projectGroups is the JSON shape of the portfolio.
type projectGroups struct {
	Active    []project.Project `json:"active"`
	Completed []project.Project `json:"completed"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	active, completed := project.Partition(s.projects)
	s.writeJSON(w, http.StatusOK, projectGroups{Active: active, Completed: completed})
}
