package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chatlinks/internal/archive"
	"chatlinks/internal/criteria"
	"chatlinks/internal/domain"
	"chatlinks/internal/export"
	"chatlinks/internal/search"
	"chatlinks/internal/storage"
)

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// handleSearch serves every /search route. Path variables take precedence
// over the query parameters of the same name.
func (s *Server) handleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.criteriaFrom(r)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}

		name := s.archiveName(r)
		messages, err := s.source.LoadMessages(r.Context(), name)
		if err != nil {
			s.writeError(w, r, statusFor(err), err)
			return
		}

		links := search.Links(messages, c)
		s.log.WithFields(logrus.Fields{
			"archive":    name,
			"messages":   len(messages),
			"link_count": len(links),
		}).Debug("Search completed")

		w.Header().Set("Content-Type", "application/json")
		if err := export.Write(w, links); err != nil {
			s.log.WithError(err).Error("Failed to write search response")
		}
	}
}

func (s *Server) handleArchives() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lister, ok := s.source.(ArchiveLister)
		if !ok {
			s.writeError(w, r, http.StatusNotFound, errors.New("archive listing is not available for this source"))
			return
		}
		archives, err := lister.ListArchives(r.Context())
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"archives": archives})
	}
}

func (s *Server) criteriaFrom(r *http.Request) (domain.Criteria, error) {
	q := r.URL.Query()
	vars := mux.Vars(r)

	site := q.Get("site")
	if v, ok := vars["site"]; ok {
		site = v
	}
	sender := q.Get("sender")
	if v, ok := vars["sender"]; ok {
		sender = v
	}

	date, err := criteria.ParseDate(q.Get("year"), q.Get("month"), q.Get("day"))
	if err != nil {
		return domain.Criteria{}, err
	}
	return criteria.New(site, sender, date)
}

func (s *Server) archiveName(r *http.Request) string {
	if name := r.URL.Query().Get("archive"); name != "" {
		return name
	}
	return s.opts.DefaultArchive
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrArchiveNotFound):
		return http.StatusNotFound
	case errors.Is(err, criteria.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		// Includes archive.ErrUnreadable and archive.ErrMalformed.
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	log := s.log.WithError(err).WithField("path", r.URL.Path)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed")
	} else {
		log.Warn("Request rejected")
	}

	msg := err.Error()
	if errors.Is(err, archive.ErrUnreadable) {
		msg = archive.ErrUnreadable.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
