package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paperweave/paperweave/internal/clustering"
	"github.com/paperweave/paperweave/internal/phantom"
	"github.com/paperweave/paperweave/internal/similarity"
	"github.com/paperweave/paperweave/pkg/models"
)

// PhantomEdgeResponse is a phantom edge with its signal breakdown and the
// feedback-biased confidence shown to the user. The raw similarity stays
// untouched; bias applies to display only.
type PhantomEdgeResponse struct {
	ID                  string           `json:"id"`
	SourceID            string           `json:"source_id"`
	TargetID            string           `json:"target_id"`
	Similarity          float64          `json:"similarity"`
	Inferred            bool             `json:"inferred"`
	Breakdown           models.Breakdown `json:"breakdown"`
	DisplayedConfidence float64          `json:"displayed_confidence"`
}

// ClustersResponse pairs the assignment with per-cluster display metadata
type ClustersResponse struct {
	Assignments models.ClusterAssignment `json:"assignments"`
	Clusters    []models.ClusterSummary  `json:"clusters"`
}

// loadSnapshot fetches the collection's documents and relationships as the
// engine's read-only input types.
func (s *Server) loadSnapshot(ctx context.Context, collectionID uuid.UUID) ([]models.Document, []models.Relationship, error) {
	documents, err := s.documentRepo.GetByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, nil, err
	}
	relationships, err := s.relationshipRepo.GetByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, nil, err
	}

	docs := make([]models.Document, 0, len(documents))
	for _, d := range documents {
		docs = append(docs, d.Model())
	}
	rels := make([]models.Relationship, 0, len(relationships))
	for _, rel := range relationships {
		rels = append(rels, rel.Model())
	}
	return docs, rels, nil
}

// respondEngineError maps engine errors onto HTTP statuses: configuration
// errors are the caller's bad parameters, data errors mean the stored graph
// is inconsistent with the document set.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, similarity.ErrInvalidConfig):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, similarity.ErrUnknownDocument):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "engine failure")
	}
}

// parseWeights reads optional per-signal weight query parameters. Either
// none are given (engine defaults apply) or all five must be: a partial
// weight set is rejected rather than silently completed with defaults.
func parseWeights(r *http.Request) (*similarity.Weights, error) {
	keys := []string{"w_tag", "w_text", "w_year", "w_role", "w_connection"}
	values := make(map[string]float64, len(keys))
	present := 0

	for _, key := range keys {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid weight " + key)
		}
		values[key] = v
		present++
	}

	if present == 0 {
		return nil, nil
	}
	if present != len(keys) {
		return nil, errors.New("weights must specify all of w_tag, w_text, w_year, w_role, w_connection")
	}

	return &similarity.Weights{
		Tag:        values["w_tag"],
		Text:       values["w_text"],
		Year:       values["w_year"],
		Role:       values["w_role"],
		Connection: values["w_connection"],
	}, nil
}

func parseFloatParam(r *http.Request, name string, out *float64) error {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.New("invalid " + name)
	}
	*out = v
	return nil
}

func parseIntParam(r *http.Request, name string, out *int) error {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("invalid " + name)
	}
	*out = v
	return nil
}

// handleTopSimilar returns the documents most similar to one target
func (s *Server) handleTopSimilar(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	documentID := chi.URLParam(r, "documentID")
	if _, err := uuid.Parse(documentID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	weights, err := parseWeights(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := similarity.DefaultTopOptions()
	if err := parseIntParam(r, "k", &opts.K); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := parseFloatParam(r, "min_similarity", &opts.MinSimilarity); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, rels, err := s.loadSnapshot(r.Context(), collection.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	results, err := similarity.TopSimilar(documentID, docs, rels, weights, &opts)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// handlePhantomEdges returns the inferred-edge augmentation graph
func (s *Server) handlePhantomEdges(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	weights, err := parseWeights(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := phantom.DefaultOptions()
	if err := parseFloatParam(r, "min_similarity", &opts.MinSimilarity); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := parseIntParam(r, "max_per_document", &opts.MaxPerDocument); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, rels, err := s.loadSnapshot(r.Context(), collection.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	edges, err := phantom.Generate(docs, rels, weights, &opts)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	response, err := s.phantomResponses(r.Context(), collection.ID.String(), docs, rels, weights, edges)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to apply feedback bias")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// phantomResponses recomputes each edge's breakdown and applies the
// collection's feedback bias to the displayed confidence.
func (s *Server) phantomResponses(ctx context.Context, collectionID string, docs []models.Document, rels []models.Relationship, weights *similarity.Weights, edges []models.PhantomEdge) ([]PhantomEdgeResponse, error) {
	adjustments, err := s.feedbackService.Adjustments(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	scorer, err := similarity.NewScorer(rels, weights)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	response := make([]PhantomEdgeResponse, 0, len(edges))
	for _, edge := range edges {
		breakdown := scorer.Score(byID[edge.SourceID], byID[edge.TargetID]).Breakdown
		response = append(response, PhantomEdgeResponse{
			ID:                  edge.ID,
			SourceID:            edge.SourceID,
			TargetID:            edge.TargetID,
			Similarity:          edge.Similarity,
			Inferred:            edge.Inferred,
			Breakdown:           breakdown,
			DisplayedConfidence: adjustments.Apply(edge.Similarity, breakdown),
		})
	}
	return response, nil
}

// handleClusters returns suggested topical clusters
func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	weights, err := parseWeights(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := clustering.DefaultOptions()
	if err := parseIntParam(r, "min_cluster_size", &opts.MinClusterSize); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := parseFloatParam(r, "min_similarity", &opts.MinSimilarity); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, rels, err := s.loadSnapshot(r.Context(), collection.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	assignment, err := clustering.Suggest(docs, rels, weights, &opts)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ClustersResponse{
		Assignments: assignment,
		Clusters:    clustering.Summaries(docs, assignment, clustering.DefaultKeywordsPerCluster),
	})
}
