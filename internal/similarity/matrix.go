package similarity

import (
	"fmt"
	"sort"

	"github.com/paperweave/paperweave/pkg/models"
)

const (
	// DefaultTopK is the default result count for TopSimilar.
	DefaultTopK = 5

	// DefaultMinSimilarity is the default score floor for TopSimilar.
	DefaultMinSimilarity = 0.2
)

// PairKey identifies an unordered document pair; A is always the
// lexicographically smaller id.
type PairKey struct {
	A string
	B string
}

// NewPairKey canonicalizes two document ids into a PairKey.
func NewPairKey(x, y string) PairKey {
	if y < x {
		x, y = y, x
	}
	return PairKey{A: x, B: y}
}

// BuildMatrix computes the composite similarity of every unordered document
// pair. This is the O(N^2) path; callers with large collections bound N
// before invoking it.
func BuildMatrix(docs []models.Document, rels []models.Relationship, weights *Weights) (map[PairKey]models.SimilarityResult, error) {
	w, err := resolveWeights(weights)
	if err != nil {
		return nil, err
	}
	if err := ValidateReferences(docs, rels); err != nil {
		return nil, err
	}

	neighbors := NewNeighborIndex(rels)
	matrix := make(map[PairKey]models.SimilarityResult, len(docs)*(len(docs)-1)/2)

	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			result := scorePair(docs[i], docs[j], neighbors, w)
			matrix[NewPairKey(docs[i].ID, docs[j].ID)] = result
		}
	}

	return matrix, nil
}

// TopOptions configures TopSimilar. Zero values are replaced by defaults in
// DefaultTopOptions; explicitly negative values are configuration errors.
type TopOptions struct {
	K             int
	MinSimilarity float64
}

// DefaultTopOptions returns the reference TopSimilar configuration.
func DefaultTopOptions() TopOptions {
	return TopOptions{K: DefaultTopK, MinSimilarity: DefaultMinSimilarity}
}

func (o TopOptions) validate() error {
	if o.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfig, o.K)
	}
	if o.MinSimilarity < 0 {
		return fmt.Errorf("%w: negative min similarity %v", ErrInvalidConfig, o.MinSimilarity)
	}
	return nil
}

// TopSimilar scores every other document against the target, filters to
// scores at or above the minimum, and returns at most K results in
// descending score order. Ties keep the input iteration order (the sort is
// stable); no secondary key is defined.
func TopSimilar(targetID string, docs []models.Document, rels []models.Relationship, weights *Weights, opts *TopOptions) ([]models.SimilarityResult, error) {
	w, err := resolveWeights(weights)
	if err != nil {
		return nil, err
	}

	o := DefaultTopOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	if err := ValidateReferences(docs, rels); err != nil {
		return nil, err
	}

	var target *models.Document
	for i := range docs {
		if docs[i].ID == targetID {
			target = &docs[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, targetID)
	}

	neighbors := NewNeighborIndex(rels)

	results := make([]models.SimilarityResult, 0, len(docs)-1)
	for i := range docs {
		if docs[i].ID == targetID {
			continue
		}
		result := scorePair(*target, docs[i], neighbors, w)
		if result.Score >= o.MinSimilarity {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > o.K {
		results = results[:o.K]
	}

	return results, nil
}
