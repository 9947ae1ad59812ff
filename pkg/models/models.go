package models

import (
	"time"
)

// Role is the categorical role a document plays in a collection's argument.
type Role string

const (
	RoleSupports    Role = "supports"
	RoleContradicts Role = "contradicts"
	RoleMethod      Role = "method"
	RoleBackground  Role = "background"
	RoleOther       Role = "other"
)

// User represents a registered researcher
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Collection represents a personal research collection
type Collection struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document represents a paper in a collection. The engine treats documents
// as a read-only snapshot; Year is nil when the publication year is unknown.
type Document struct {
	ID           string   `json:"id"`
	CollectionID string   `json:"collection_id"`
	Title        string   `json:"title"`
	Abstract     string   `json:"abstract"`
	Tags         []string `json:"tags"`
	Year         *int     `json:"year,omitempty"`
	Role         Role     `json:"role"`
}

// Relationship is an explicit, user-authored link between two documents.
// The engine treats relationships as undirected.
type Relationship struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Note     string `json:"note,omitempty"`
}

// Breakdown holds the five component scores behind a composite similarity.
type Breakdown struct {
	Tag        float64 `json:"tag"`
	Text       float64 `json:"text"`
	Year       float64 `json:"year"`
	Role       float64 `json:"role"`
	Connection float64 `json:"connection"`
}

// SimilarityResult is the composite similarity between two documents.
// The pair is unordered: (A,B) and (B,A) produce identical results.
type SimilarityResult struct {
	DocumentA string    `json:"document_a"`
	DocumentB string    `json:"document_b"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// PhantomEdge is an inferred relationship between two documents that are
// similar but not explicitly linked. Inferred is always true; it exists so
// renderers can tell phantom edges apart from user-authored ones.
type PhantomEdge struct {
	ID         string  `json:"id"`
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Similarity float64 `json:"similarity"`
	Inferred   bool    `json:"inferred"`
}

// ClusterAssignment maps document ids to integer cluster ids. Documents in
// clusters below the minimum size are absent. Cluster ids are assigned by
// traversal order within a single result and carry no meaning beyond it.
type ClusterAssignment map[string]int

// ClusterSummary describes one suggested cluster for display.
type ClusterSummary struct {
	ID       int      `json:"id"`
	Size     int      `json:"size"`
	Keywords []string `json:"keywords"`
}
