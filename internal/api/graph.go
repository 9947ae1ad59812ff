package api

import (
	"net/http"

	"github.com/paperweave/paperweave/internal/clustering"
	"github.com/paperweave/paperweave/internal/phantom"
	"github.com/paperweave/paperweave/pkg/models"
)

// GraphResponse is the combined payload the rendering surface consumes:
// every document as a node, the explicit edges, the inferred phantom edges,
// and cluster membership for coloring. Layout is the renderer's problem.
type GraphResponse struct {
	Nodes        []GraphNode             `json:"nodes"`
	Edges        []GraphEdge             `json:"edges"`
	PhantomEdges []PhantomEdgeResponse   `json:"phantom_edges"`
	Clusters     []models.ClusterSummary `json:"clusters"`
}

// GraphNode represents one document in the graph payload
type GraphNode struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Tags      []string    `json:"tags"`
	Year      *int        `json:"year,omitempty"`
	Role      models.Role `json:"role"`
	ClusterID *int        `json:"cluster_id,omitempty"`
}

// GraphEdge represents one explicit relationship in the graph payload
type GraphEdge struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Note     string `json:"note,omitempty"`
}

// handleGraph assembles the full graph payload with engine defaults
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.ownedCollection(w, r)
	if !ok {
		return
	}

	docs, rels, err := s.loadSnapshot(r.Context(), collection.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	edges, err := phantom.Generate(docs, rels, nil, nil)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	phantomEdges, err := s.phantomResponses(r.Context(), collection.ID.String(), docs, rels, nil, edges)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to apply feedback bias")
		return
	}

	assignment, err := clustering.Suggest(docs, rels, nil, nil)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	nodes := make([]GraphNode, 0, len(docs))
	for _, doc := range docs {
		node := GraphNode{
			ID:    doc.ID,
			Title: doc.Title,
			Tags:  doc.Tags,
			Year:  doc.Year,
			Role:  doc.Role,
		}
		if id, ok := assignment[doc.ID]; ok {
			clusterID := id
			node.ClusterID = &clusterID
		}
		nodes = append(nodes, node)
	}

	graphEdges := make([]GraphEdge, 0, len(rels))
	for _, rel := range rels {
		graphEdges = append(graphEdges, GraphEdge{
			ID:       rel.ID,
			SourceID: rel.SourceID,
			TargetID: rel.TargetID,
			Note:     rel.Note,
		})
	}

	respondJSON(w, http.StatusOK, GraphResponse{
		Nodes:        nodes,
		Edges:        graphEdges,
		PhantomEdges: phantomEdges,
		Clusters:     clustering.Summaries(docs, assignment, clustering.DefaultKeywordsPerCluster),
	})
}
