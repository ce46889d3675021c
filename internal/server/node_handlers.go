package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/events"
	"github.com/spoor-app/spoor/internal/logging"
	"github.com/spoor-app/spoor/internal/models"
)

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")

	if _, err := s.hunts.Get(r.Context(), huntID); err != nil {
		respondRepoError(w, err)
		return
	}

	nodes, err := s.nodes.ListNodes(r.Context(), huntID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if nodes == nil {
		nodes = []models.Node{}
	}
	respondJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")

	if _, err := s.hunts.Get(r.Context(), huntID); err != nil {
		respondRepoError(w, err)
		return
	}

	var draft models.NodeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	node, err := s.nodes.CreateNode(r.Context(), huntID, draft)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	createLogger := logging.WithNode(logging.WithHunt(s.logger, huntID), node.ID)
	createLogger.Debug().Msg("node created")
	s.publish(events.Event{Type: events.TypeNodeCreated, HuntID: huntID, NodeID: node.ID})
	respondJSON(w, http.StatusCreated, node)
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	existing, err := s.nodes.GetNode(r.Context(), nodeID)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	node := *existing
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	node.HuntID = existing.HuntID

	stored, err := s.nodes.UpdateNode(r.Context(), nodeID, node)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	updateLogger := logging.WithNode(logging.WithHunt(s.logger, stored.HuntID), nodeID)
	updateLogger.Debug().Msg("node updated")
	s.publish(events.Event{Type: events.TypeNodeUpdated, HuntID: stored.HuntID, NodeID: nodeID})
	respondJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if err := s.nodes.DeleteNode(r.Context(), nodeID); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type semanticAnalysisResponse struct {
	Clusters  []canvas.Cluster `json:"clusters"`
	Threshold float64          `json:"threshold"`
}

// handleSemanticAnalysis groups a hunt's nodes by text similarity and
// returns the clusters with their geometric centers.
func (s *Server) handleSemanticAnalysis(w http.ResponseWriter, r *http.Request) {
	huntID := chi.URLParam(r, "huntID")

	if _, err := s.hunts.Get(r.Context(), huntID); err != nil {
		respondRepoError(w, err)
		return
	}

	threshold := canvas.DefaultClusterThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			respondError(w, http.StatusBadRequest, "threshold must be a number in (0, 1]")
			return
		}
		threshold = parsed
	}

	nodes, err := s.nodes.ListNodes(r.Context(), huntID)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	clusters := canvas.Clusters(nodes, threshold)
	if clusters == nil {
		clusters = []canvas.Cluster{}
	}
	respondJSON(w, http.StatusOK, semanticAnalysisResponse{
		Clusters:  clusters,
		Threshold: threshold,
	})
}
