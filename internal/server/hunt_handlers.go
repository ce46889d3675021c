package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spoor-app/spoor/internal/events"
	"github.com/spoor-app/spoor/internal/models"
)

func (s *Server) handleListHunts(w http.ResponseWriter, r *http.Request) {
	hunts, err := s.hunts.List(r.Context())
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if hunts == nil {
		hunts = []*models.Hunt{}
	}
	respondJSON(w, http.StatusOK, hunts)
}

func (s *Server) handleCreateHunt(w http.ResponseWriter, r *http.Request) {
	var hunt models.Hunt
	if err := json.NewDecoder(r.Body).Decode(&hunt); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	hunt.ID = ""

	if err := s.hunts.Create(r.Context(), &hunt); err != nil {
		respondRepoError(w, err)
		return
	}

	s.publish(events.Event{Type: events.TypeHuntCreated, HuntID: hunt.ID})
	respondJSON(w, http.StatusCreated, hunt)
}

func (s *Server) handleGetHunt(w http.ResponseWriter, r *http.Request) {
	hunt, err := s.hunts.Get(r.Context(), chi.URLParam(r, "huntID"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hunt)
}

func (s *Server) handleUpdateHunt(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")

	hunt, err := s.hunts.Get(r.Context(), huntID)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(hunt); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	hunt.ID = huntID

	if err := s.hunts.Update(r.Context(), hunt); err != nil {
		respondRepoError(w, err)
		return
	}

	s.publish(events.Event{Type: events.TypeHuntUpdated, HuntID: huntID})
	respondJSON(w, http.StatusOK, hunt)
}

func (s *Server) handleDeleteHunt(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")
	if err := s.hunts.Delete(r.Context(), huntID); err != nil {
		respondRepoError(w, err)
		return
	}

	s.publish(events.Event{Type: events.TypeHuntDeleted, HuntID: huntID})
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
