package similarity

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/paperweave/paperweave/pkg/models"
)

func TestComputePairSimilaritySymmetry(t *testing.T) {
	a := models.Document{
		ID:    "a",
		Title: "CRISPR off target effects",
		Tags:  []string{"crispr", "safety"},
		Year:  yearOf(2019),
		Role:  models.RoleSupports,
	}
	b := models.Document{
		ID:    "b",
		Title: "Genome editing safety",
		Tags:  []string{"crispr", "genome"},
		Year:  yearOf(2021),
		Role:  models.RoleBackground,
	}
	rels := []models.Relationship{
		{SourceID: "a", TargetID: "c"},
		{SourceID: "b", TargetID: "c"},
	}

	ab, err := ComputePairSimilarity(a, b, rels, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := ComputePairSimilarity(b, a, rels, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("similarity is not symmetric:\n(a,b) = %+v\n(b,a) = %+v", ab, ba)
	}
}

func TestComputePairSimilaritySelf(t *testing.T) {
	// Every signal is reflexively maximal here: non-empty tags and text, a
	// year, a role, and a non-empty neighbor set. With default weights the
	// composite must be exactly 1.0.
	doc := models.Document{
		ID:       "a",
		Title:    "Deep learning for protein folding",
		Abstract: "structure prediction with neural networks",
		Tags:     []string{"proteins", "ml"},
		Year:     yearOf(2021),
		Role:     models.RoleMethod,
	}
	rels := []models.Relationship{{SourceID: "a", TargetID: "b"}}

	result, err := ComputePairSimilarity(doc, doc, rels, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.Score-1.0) > 1e-9 {
		t.Errorf("self similarity = %v, want 1.0 (breakdown %+v)", result.Score, result.Breakdown)
	}
}

func TestComputePairSimilarityScenarioSharedTags(t *testing.T) {
	// Shared tags plus the incidental "crispr" title overlap; roles are
	// unrelated and years are far apart, so tag and text carry the score.
	a := models.Document{
		ID:    "a",
		Title: "CRISPR safety review",
		Tags:  []string{"crispr", "safety"},
		Year:  yearOf(1990),
		Role:  models.RoleSupports,
	}
	b := models.Document{
		ID:    "b",
		Title: "CRISPR editing",
		Tags:  []string{"crispr", "safety"},
		Year:  yearOf(2020),
		Role:  models.RoleContradicts,
	}

	result, err := ComputePairSimilarity(a, b, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Breakdown.Tag != 1.0 {
		t.Errorf("tag signal = %v, want 1.0", result.Breakdown.Tag)
	}
	if result.Score < 0.25 {
		t.Errorf("composite = %v, want >= 0.25 (tag weight alone)", result.Score)
	}
	if result.Score < 0.30 || result.Score > 0.40 {
		t.Errorf("composite = %v, want within [0.30, 0.40]", result.Score)
	}
}

func TestComputePairSimilarityScenarioYearAndRoleOnly(t *testing.T) {
	// Identical year and role, nothing else in common: composite is exactly
	// the year and role weights.
	a := models.Document{
		ID:    "a",
		Title: "quantum entanglement networks",
		Year:  yearOf(2018),
		Role:  models.RoleBackground,
	}
	b := models.Document{
		ID:    "b",
		Title: "soil microbiome diversity",
		Year:  yearOf(2018),
		Role:  models.RoleBackground,
	}

	result, err := ComputePairSimilarity(a, b, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 0.15 + 0.15
	if math.Abs(result.Score-want) > 1e-9 {
		t.Errorf("composite = %v, want %v", result.Score, want)
	}
}

func TestComputePairSimilarityCustomWeights(t *testing.T) {
	a := models.Document{ID: "a", Tags: []string{"x"}, Year: yearOf(2020), Role: models.RoleOther}
	b := models.Document{ID: "b", Tags: []string{"x"}, Year: yearOf(2020), Role: models.RoleOther}

	// Weights that do not sum to 1 are applied as-is, no renormalization.
	weights := &Weights{Tag: 2.0}
	result, err := ComputePairSimilarity(a, b, nil, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Score-2.0) > 1e-9 {
		t.Errorf("composite = %v, want 2.0 with tag weight 2 and tag signal 1", result.Score)
	}
}

func TestComputePairSimilarityRejectsNegativeWeights(t *testing.T) {
	a := models.Document{ID: "a"}
	b := models.Document{ID: "b"}

	_, err := ComputePairSimilarity(a, b, nil, &Weights{Tag: -0.1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRankPairsDeterministicTieBreak(t *testing.T) {
	pairs := []models.SimilarityResult{
		{DocumentA: "b", DocumentB: "d", Score: 0.5},
		{DocumentA: "a", DocumentB: "c", Score: 0.5},
		{DocumentA: "a", DocumentB: "b", Score: 0.5},
		{DocumentA: "c", DocumentB: "d", Score: 0.9},
	}

	RankPairs(pairs)

	wantOrder := []PairKey{
		{A: "c", B: "d"},
		{A: "a", B: "b"},
		{A: "a", B: "c"},
		{A: "b", B: "d"},
	}
	for i, want := range wantOrder {
		got := PairKey{A: pairs[i].DocumentA, B: pairs[i].DocumentB}
		if got != want {
			t.Errorf("rank %d = %+v, want %+v", i, got, want)
		}
	}
}
