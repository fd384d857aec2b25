package adapthttp

import (
	"net/http"

	"journal/internal/domain"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	items, stats, err := s.journal.Overview(r.Context(), user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user", user.ID).Msg("list entries")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "stats": stats})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	ref, err := domain.ParseEntryRef(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, saved := ref.ID()
	if !saved {
		writeError(w, http.StatusNotFound, domain.ErrNotFound)
		return
	}

	e, err := s.journal.Get(r.Context(), user.ID, id)
	if err != nil {
		s.entryFailed(w, "get entry", user.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	s.saveEntry(w, r, domain.Draft())
}

// handleSaveEntry updates the entry at {id}; the id "new" creates one.
func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	ref, err := domain.ParseEntryRef(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.saveEntry(w, r, ref)
}

func (s *Server) saveEntry(w http.ResponseWriter, r *http.Request, ref domain.EntryRef) {
	user := userFromContext(r.Context())
	var body domain.EntryFields
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := s.journal.Save(r.Context(), user.ID, ref, body)
	if err != nil {
		s.entryFailed(w, "save entry", user.ID, err)
		return
	}
	s.metrics.EntrySaved(ref.IsDraft())

	status := http.StatusOK
	if ref.IsDraft() {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"id": id})
}

func (s *Server) entryFailed(w http.ResponseWriter, op, userID string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("user", userID).Msg(op)
	}
	writeError(w, status, err)
}
