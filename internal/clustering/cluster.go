// Package clustering suggests topical document groups by agglomerative
// merging: every pair scoring at or above a strength threshold joins its
// endpoints' clusters, and clusters below a minimum size are discarded as
// noise rather than surfaced as suggestions.
package clustering

import (
	"fmt"
	"sort"

	"github.com/paperweave/paperweave/internal/similarity"
	"github.com/paperweave/paperweave/pkg/models"
)

const (
	// DefaultMinClusterSize is the smallest cluster worth suggesting.
	DefaultMinClusterSize = 2

	// DefaultMinSimilarity is the default merge threshold.
	DefaultMinSimilarity = 0.4
)

// Options configures Suggest.
type Options struct {
	MinClusterSize int
	MinSimilarity  float64
}

// DefaultOptions returns the reference clustering configuration.
func DefaultOptions() Options {
	return Options{
		MinClusterSize: DefaultMinClusterSize,
		MinSimilarity:  DefaultMinSimilarity,
	}
}

func (o Options) validate() error {
	if o.MinClusterSize <= 0 {
		return fmt.Errorf("%w: min cluster size must be positive, got %d", similarity.ErrInvalidConfig, o.MinClusterSize)
	}
	if o.MinSimilarity < 0 {
		return fmt.Errorf("%w: negative min similarity %v", similarity.ErrInvalidConfig, o.MinSimilarity)
	}
	return nil
}

// Suggest partitions the documents into suggested clusters. Documents that
// end up in clusters below the minimum size are absent from the result;
// "no clusters found" is a valid outcome, not an error. Cluster ids are
// assigned in discovery order over the input document order; they identify
// clusters within one result and carry no meaning beyond it.
func Suggest(docs []models.Document, rels []models.Relationship, weights *similarity.Weights, opts *Options) (models.ClusterAssignment, error) {
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

	assignment := models.ClusterAssignment{}
	if len(docs) < o.MinClusterSize {
		return assignment, nil
	}

	indexByID := make(map[string]int, len(docs))
	for i, doc := range docs {
		indexByID[doc.ID] = i
	}

	var pairs []models.SimilarityResult
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			result := scorer.Score(docs[i], docs[j])
			if result.Score >= o.MinSimilarity {
				pairs = append(pairs, result)
			}
		}
	}

	similarity.RankPairs(pairs)

	uf := newUnionFind(len(docs))
	for _, pair := range pairs {
		uf.union(indexByID[pair.DocumentA], indexByID[pair.DocumentB])
	}

	clusterByRoot := make(map[int]int)
	nextID := 0
	for i, doc := range docs {
		if uf.setSize(i) < o.MinClusterSize {
			continue
		}
		root := uf.find(i)
		id, ok := clusterByRoot[root]
		if !ok {
			id = nextID
			clusterByRoot[root] = id
			nextID++
		}
		assignment[doc.ID] = id
	}

	return assignment, nil
}

// Summaries builds display metadata for each suggested cluster: member
// count plus the top TF-IDF keywords of the members' titles and abstracts.
// Keywords are decoration for the rendering surface and never influence the
// clustering math.
func Summaries(docs []models.Document, assignment models.ClusterAssignment, keywordsPerCluster int) []models.ClusterSummary {
	if keywordsPerCluster <= 0 {
		keywordsPerCluster = DefaultKeywordsPerCluster
	}

	texts := make(map[int][]string)
	sizes := make(map[int]int)
	for _, doc := range docs {
		id, ok := assignment[doc.ID]
		if !ok {
			continue
		}
		texts[id] = append(texts[id], doc.Title+" "+doc.Abstract)
		sizes[id]++
	}

	extractor := NewKeywordExtractor()
	summaries := make([]models.ClusterSummary, 0, len(sizes))
	for id, clusterTexts := range texts {
		keywords := extractor.ExtractKeywords(clusterTexts, keywordsPerCluster)
		words := make([]string, len(keywords))
		for i, kw := range keywords {
			words[i] = kw.Word
		}
		summaries = append(summaries, models.ClusterSummary{
			ID:       id,
			Size:     sizes[id],
			Keywords: words,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return summaries
}
