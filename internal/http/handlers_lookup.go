package http

import (
	"net/http"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusNotFound, map[string]string{"message": "Route not found"})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.lookups.ListTypes(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, types)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.lookups.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "Server error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, categories)
}

// handleQuote proxies the motivational quote so the browser never talks to
// the upstream provider directly. The fetch itself can only fall back,
// never fail.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.quotes.Fetch(r.Context()))
}
