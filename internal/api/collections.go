package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paperweave/paperweave/internal/auth"
	"github.com/paperweave/paperweave/internal/storage"
)

// CollectionRequest represents a collection creation request
type CollectionRequest struct {
	Name string `json:"name"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func collectionResponse(c *storage.Collection) CollectionResponse {
	return CollectionResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// handleListCollections returns all collections for the authenticated user
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	collections, err := s.collectionRepo.GetByUserID(r.Context(), uid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch collections")
		return
	}

	response := make([]CollectionResponse, 0, len(collections))
	for _, c := range collections {
		response = append(response, collectionResponse(c))
	}

	respondJSON(w, http.StatusOK, response)
}

// handleCreateCollection creates a new collection
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	collection := &storage.Collection{
		UserID: uid,
		Name:   req.Name,
	}

	if err := s.collectionRepo.Create(r.Context(), collection); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create collection")
		return
	}

	respondJSON(w, http.StatusCreated, collectionResponse(collection))
}

// handleGetCollection returns a specific collection
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, collectionResponse(collection))
}

// handleDeleteCollection deletes a collection
func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	if err := s.relationshipRepo.DeleteByCollectionID(r.Context(), collection.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete collection relationships")
		return
	}

	if err := s.documentRepo.DeleteByCollectionID(r.Context(), collection.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete collection documents")
		return
	}

	if err := s.feedbackService.Forget(r.Context(), collection.ID.String()); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete collection feedback")
		return
	}

	if err := s.collectionRepo.Delete(r.Context(), collection.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete collection")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ownedCollection loads the collection from the URL and verifies the
// authenticated user owns it, writing the error response itself when not.
func (s *Server) ownedCollection(w http.ResponseWriter, r *http.Request) (*storage.Collection, bool) {
	collectionID := chi.URLParam(r, "collectionID")
	if collectionID == "" {
		respondError(w, http.StatusBadRequest, "collection id is required")
		return nil, false
	}

	cid, err := uuid.Parse(collectionID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid collection id")
		return nil, false
	}

	collection, err := s.collectionRepo.GetByID(r.Context(), cid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch collection")
		return nil, false
	}

	if collection == nil {
		respondError(w, http.StatusNotFound, "collection not found")
		return nil, false
	}

	userID := getUserIDFromContext(r.Context())
	if collection.UserID.String() != userID {
		respondError(w, http.StatusForbidden, "access denied")
		return nil, false
	}

	return collection, true
}

// getUserIDFromContext extracts the authenticated user's id from the claims
// set by the auth middleware
func getUserIDFromContext(ctx context.Context) string {
	claims, ok := auth.GetUserFromContext(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}
