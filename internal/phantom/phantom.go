// Package phantom infers edges between documents that are topically related
// but not explicitly linked, filling visual gaps in the relationship graph
// without overwhelming it: every document is capped at a maximum number of
// phantom edges.
package phantom

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/paperweave/paperweave/internal/similarity"
	"github.com/paperweave/paperweave/pkg/models"
)

const (
	// DefaultMinSimilarity is the score floor for candidate phantom edges.
	DefaultMinSimilarity = 0.3

	// DefaultMaxPerDocument caps how many phantom edges may touch one
	// document.
	DefaultMaxPerDocument = 3
)

// edgeNamespace seeds deterministic UUIDv5 edge ids so repeated invocations
// over the same pair produce the same id.
var edgeNamespace = uuid.MustParse("a1b6ab0e-2f54-4e58-9c16-1c39b1a07d42")

// Options configures Generate.
type Options struct {
	MinSimilarity  float64
	MaxPerDocument int
}

// DefaultOptions returns the reference phantom-edge configuration.
func DefaultOptions() Options {
	return Options{
		MinSimilarity:  DefaultMinSimilarity,
		MaxPerDocument: DefaultMaxPerDocument,
	}
}

func (o Options) validate() error {
	if o.MinSimilarity < 0 {
		return fmt.Errorf("%w: negative min similarity %v", similarity.ErrInvalidConfig, o.MinSimilarity)
	}
	if o.MaxPerDocument <= 0 {
		return fmt.Errorf("%w: max per document must be positive, got %d", similarity.ErrInvalidConfig, o.MaxPerDocument)
	}
	return nil
}

// EdgeID derives the deterministic id for a phantom edge between two
// documents. The pair is canonicalized first, so argument order does not
// matter.
func EdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return uuid.NewSHA1(edgeNamespace, []byte(a+"|"+b)).String()
}

// Generate produces the bounded-degree augmentation graph: candidate pairs
// are every unordered pair without an explicit relationship scoring at or
// above the threshold, walked in descending-similarity order, and accepted
// only while both endpoints remain under the per-document cap. The strongest
// pairs claim capacity first; a pair skipped over a saturated endpoint never
// re-enters consideration.
func Generate(docs []models.Document, rels []models.Relationship, weights *similarity.Weights, opts *Options) ([]models.PhantomEdge, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	scorer, err := similarity.NewScorer(rels, weights)
	if err != nil {
		return nil, err
	}
	if err := similarity.ValidateReferences(docs, rels); err != nil {
		return nil, err
	}

	var candidates []models.SimilarityResult
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			if scorer.Connected(docs[i].ID, docs[j].ID) {
				continue
			}
			result := scorer.Score(docs[i], docs[j])
			if result.Score >= o.MinSimilarity {
				candidates = append(candidates, result)
			}
		}
	}

	similarity.RankPairs(candidates)

	degree := make(map[string]int, len(docs))
	edges := make([]models.PhantomEdge, 0, len(candidates))
	for _, candidate := range candidates {
		if degree[candidate.DocumentA] >= o.MaxPerDocument || degree[candidate.DocumentB] >= o.MaxPerDocument {
			continue
		}
		degree[candidate.DocumentA]++
		degree[candidate.DocumentB]++

		edges = append(edges, models.PhantomEdge{
			ID:         EdgeID(candidate.DocumentA, candidate.DocumentB),
			SourceID:   candidate.DocumentA,
			TargetID:   candidate.DocumentB,
			Similarity: candidate.Score,
			Inferred:   true,
		})
	}

	return edges, nil
}
