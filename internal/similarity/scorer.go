package similarity

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/paperweave/paperweave/pkg/models"
)

var (
	// ErrInvalidConfig marks configuration-kind errors: negative weights or
	// thresholds, non-positive limits. Detected before any computation runs.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownDocument marks data-kind errors: a relationship referencing
	// a document id absent from the supplied collection.
	ErrUnknownDocument = errors.New("relationship references unknown document")
)

// Weights configures the convex combination of the five similarity signals.
// The defaults sum to 1 so composite scores stay in [0,1]; callers supplying
// weights that do not sum to 1 get scores outside that range, with no
// internal renormalization.
type Weights struct {
	Tag        float64 `json:"tag"`
	Text       float64 `json:"text"`
	Year       float64 `json:"year"`
	Role       float64 `json:"role"`
	Connection float64 `json:"connection"`
}

// DefaultWeights returns the reference weight configuration.
func DefaultWeights() Weights {
	return Weights{
		Tag:        0.25,
		Text:       0.30,
		Year:       0.15,
		Role:       0.15,
		Connection: 0.15,
	}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Tag, w.Text, w.Year, w.Role, w.Connection} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidConfig, v)
		}
	}
	return nil
}

// ComputePairSimilarity scores two documents against each other. A nil
// weights pointer means the documented defaults. The result is symmetric:
// argument order never changes the score or breakdown.
func ComputePairSimilarity(a, b models.Document, rels []models.Relationship, weights *Weights) (models.SimilarityResult, error) {
	w, err := resolveWeights(weights)
	if err != nil {
		return models.SimilarityResult{}, err
	}

	return scorePair(a, b, NewNeighborIndex(rels), w), nil
}

// scorePair is the internal scoring path; callers computing many pairs build
// the NeighborIndex once and reuse it.
func scorePair(a, b models.Document, neighbors NeighborIndex, w Weights) models.SimilarityResult {
	breakdown := models.Breakdown{
		Tag:        TagSimilarity(a, b),
		Text:       TextSimilarity(a, b),
		Year:       TemporalProximity(a, b),
		Role:       RoleAffinity(a, b),
		Connection: ConnectionOverlap(a, b, neighbors),
	}

	score := floats.Dot(
		[]float64{breakdown.Tag, breakdown.Text, breakdown.Year, breakdown.Role, breakdown.Connection},
		[]float64{w.Tag, w.Text, w.Year, w.Role, w.Connection},
	)

	idA, idB := a.ID, b.ID
	if idB < idA {
		idA, idB = idB, idA
	}

	return models.SimilarityResult{
		DocumentA: idA,
		DocumentB: idB,
		Score:     score,
		Breakdown: breakdown,
	}
}

func resolveWeights(weights *Weights) (Weights, error) {
	if weights == nil {
		return DefaultWeights(), nil
	}
	if err := weights.Validate(); err != nil {
		return Weights{}, err
	}
	return *weights, nil
}

// Scorer scores document pairs against a fixed relationship snapshot. It
// builds the neighbor index once, so callers computing many pairs avoid
// re-indexing per pair.
type Scorer struct {
	neighbors NeighborIndex
	weights   Weights
}

// NewScorer validates the weights and indexes the relationships.
func NewScorer(rels []models.Relationship, weights *Weights) (*Scorer, error) {
	w, err := resolveWeights(weights)
	if err != nil {
		return nil, err
	}
	return &Scorer{neighbors: NewNeighborIndex(rels), weights: w}, nil
}

// Score computes the composite similarity of one pair.
func (s *Scorer) Score(a, b models.Document) models.SimilarityResult {
	return scorePair(a, b, s.neighbors, s.weights)
}

// Connected reports whether the pair is explicitly related in the snapshot.
func (s *Scorer) Connected(a, b string) bool {
	return s.neighbors.Connected(a, b)
}

// RankPairs sorts results in place by score descending, breaking equal
// scores by the lexicographic id pair. Greedy consumers (the phantom-edge
// walk, the cluster merge pass) depend on this order being fully
// deterministic.
func RankPairs(results []models.SimilarityResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DocumentA != results[j].DocumentA {
			return results[i].DocumentA < results[j].DocumentA
		}
		return results[i].DocumentB < results[j].DocumentB
	})
}
