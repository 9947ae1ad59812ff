package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paperweave/paperweave/internal/storage"
	"github.com/paperweave/paperweave/pkg/models"
)

// DocumentRequest represents a document creation request
type DocumentRequest struct {
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Tags     []string `json:"tags"`
	Year     *int     `json:"year"`
	Role     string   `json:"role"`
}

// RelationshipRequest represents a relationship creation request
type RelationshipRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Note     string `json:"note"`
}

var validRoles = map[models.Role]bool{
	models.RoleSupports:    true,
	models.RoleContradicts: true,
	models.RoleMethod:      true,
	models.RoleBackground:  true,
	models.RoleOther:       true,
}

// handleListDocuments returns all documents in a collection
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	documents, err := s.documentRepo.GetByCollectionID(r.Context(), collection.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch documents")
		return
	}

	response := make([]models.Document, 0, len(documents))
	for _, d := range documents {
		response = append(response, d.Model())
	}

	respondJSON(w, http.StatusOK, response)
}

// handleCreateDocument adds a document to a collection
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	if req.Role == "" {
		req.Role = string(models.RoleOther)
	}
	if !validRoles[models.Role(req.Role)] {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	document := &storage.Document{
		CollectionID: collection.ID,
		Title:        req.Title,
		Abstract:     req.Abstract,
		Tags:         req.Tags,
		Role:         req.Role,
	}
	if req.Year != nil {
		document.Year = sql.NullInt64{Int64: int64(*req.Year), Valid: true}
	}

	if err := s.documentRepo.Create(r.Context(), document); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create document")
		return
	}

	respondJSON(w, http.StatusCreated, document.Model())
}

// handleDeleteDocument removes a document and any relationships touching it
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	did, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	document, err := s.documentRepo.GetByID(r.Context(), did)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch document")
		return
	}
	if document == nil || document.CollectionID != collection.ID {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}

	if err := s.relationshipRepo.DeleteByDocumentID(r.Context(), did); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete document relationships")
		return
	}

	if err := s.documentRepo.Delete(r.Context(), did); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListRelationships returns all explicit relationships in a collection
func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	relationships, err := s.relationshipRepo.GetByCollectionID(r.Context(), collection.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch relationships")
		return
	}

	response := make([]models.Relationship, 0, len(relationships))
	for _, rel := range relationships {
		response = append(response, rel.Model())
	}

	respondJSON(w, http.StatusOK, response)
}

// handleCreateRelationship links two documents in a collection
func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	var req RelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid target id")
		return
	}
	if sourceID == targetID {
		respondError(w, http.StatusBadRequest, "source and target must differ")
		return
	}

	// Both endpoints must be documents in this collection
	for _, id := range []uuid.UUID{sourceID, targetID} {
		document, err := s.documentRepo.GetByID(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to fetch document")
			return
		}
		if document == nil || document.CollectionID != collection.ID {
			respondError(w, http.StatusBadRequest, "relationship references unknown document")
			return
		}
	}

	relationship := &storage.Relationship{
		CollectionID: collection.ID,
		SourceID:     sourceID,
		TargetID:     targetID,
		Note:         req.Note,
	}

	if err := s.relationshipRepo.Create(r.Context(), relationship); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create relationship")
		return
	}

	respondJSON(w, http.StatusCreated, relationship.Model())
}

// handleDeleteRelationship removes an explicit relationship
func (s *Server) handleDeleteRelationship(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	rid, err := uuid.Parse(chi.URLParam(r, "relationshipID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid relationship id")
		return
	}

	relationship, err := s.relationshipRepo.GetByID(r.Context(), rid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch relationship")
		return
	}
	if relationship == nil || relationship.CollectionID != collection.ID {
		respondError(w, http.StatusNotFound, "relationship not found")
		return
	}

	if err := s.relationshipRepo.Delete(r.Context(), rid); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete relationship")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
