package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spoor-app/spoor/internal/models"
)

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")

	if _, err := s.hunts.Get(r.Context(), huntID); err != nil {
		respondRepoError(w, err)
		return
	}

	logs, err := s.logs.ListByHunt(r.Context(), huntID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if logs == nil {
		logs = []*models.HuntLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")

	if _, err := s.hunts.Get(r.Context(), huntID); err != nil {
		respondRepoError(w, err)
		return
	}

	var log models.HuntLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	log.HuntID = huntID

	if err := s.logs.Create(r.Context(), &log); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, log)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := s.logs.Delete(r.Context(), chi.URLParam(r, "logID")); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
