package similarity

import (
	"fmt"

	"github.com/paperweave/paperweave/pkg/models"
)

// NeighborIndex maps a document id to the set of ids it is explicitly
// connected to. Relationships are treated as undirected.
type NeighborIndex map[string]map[string]bool

// NewNeighborIndex builds a NeighborIndex from explicit relationships.
func NewNeighborIndex(rels []models.Relationship) NeighborIndex {
	idx := make(NeighborIndex)
	for _, rel := range rels {
		idx.add(rel.SourceID, rel.TargetID)
		idx.add(rel.TargetID, rel.SourceID)
	}
	return idx
}

func (n NeighborIndex) add(from, to string) {
	set, ok := n[from]
	if !ok {
		set = make(map[string]bool)
		n[from] = set
	}
	set[to] = true
}

// Connected reports whether an explicit relationship exists between a and b.
func (n NeighborIndex) Connected(a, b string) bool {
	return n[a][b]
}

// of returns id's neighbor set with the two comparison endpoints removed.
func (n NeighborIndex) of(id, endpointA, endpointB string) map[string]bool {
	set := make(map[string]bool, len(n[id]))
	for neighbor := range n[id] {
		if neighbor == endpointA || neighbor == endpointB {
			continue
		}
		set[neighbor] = true
	}
	return set
}

// ValidateReferences checks that every relationship endpoint names a
// document in the supplied collection. Dangling references are reported
// rather than dropped: silently ignoring them would corrupt connection
// overlap and clustering results.
func ValidateReferences(docs []models.Document, rels []models.Relationship) error {
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		known[doc.ID] = true
	}

	for _, rel := range rels {
		if !known[rel.SourceID] {
			return fmt.Errorf("%w: %q", ErrUnknownDocument, rel.SourceID)
		}
		if !known[rel.TargetID] {
			return fmt.Errorf("%w: %q", ErrUnknownDocument, rel.TargetID)
		}
	}
	return nil
}
