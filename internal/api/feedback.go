package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/paperweave/paperweave/internal/feedback"
	"github.com/paperweave/paperweave/pkg/models"
)

// FeedbackRequest records a user verdict on a suggested phantom edge
type FeedbackRequest struct {
	EdgeID    string           `json:"edge_id"`
	SourceID  string           `json:"source_id"`
	TargetID  string           `json:"target_id"`
	Accepted  bool             `json:"accepted"`
	Breakdown models.Breakdown `json:"breakdown"`
}

// handleRecordFeedback stores an accept/override decision
func (s *Server) handleRecordFeedback(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.EdgeID == "" {
		respondError(w, http.StatusBadRequest, "edge id is required")
		return
	}
	if _, err := uuid.Parse(req.SourceID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	if _, err := uuid.Parse(req.TargetID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid target id")
		return
	}

	decision := &feedback.Decision{
		CollectionID: collection.ID.String(),
		EdgeID:       req.EdgeID,
		SourceID:     req.SourceID,
		TargetID:     req.TargetID,
		Accepted:     req.Accepted,
		Breakdown:    req.Breakdown,
	}

	if err := s.feedbackService.Record(r.Context(), decision); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	respondJSON(w, http.StatusCreated, decision)
}

// handleGetAdjustments returns the collection's current bias adjustments
func (s *Server) handleGetAdjustments(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	adjustments, err := s.feedbackService.Adjustments(r.Context(), collection.ID.String())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive adjustments")
		return
	}

	respondJSON(w, http.StatusOK, adjustments)
}
