package similarity

import (
	"math"
	"testing"

	"github.com/paperweave/paperweave/pkg/models"
)

func yearOf(y int) *int {
	return &y
}

func TestTagSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"identical sets", []string{"crispr", "safety"}, []string{"crispr", "safety"}, 1.0},
		{"case insensitive", []string{"CRISPR", "Safety"}, []string{"crispr", "safety"}, 1.0},
		{"partial overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
		{"both empty", nil, nil, 0},
		{"one empty", []string{"a"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.Document{ID: "a", Tags: tt.a}
			b := models.Document{ID: "b", Tags: tt.b}
			got := TagSimilarity(a, b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TagSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextSimilarityFrequencyWeighting(t *testing.T) {
	// Shared terms that repeat count more than single incidental matches:
	// freqs are {transformer:2, attention:1} vs {transformer:1, attention:2},
	// so min-sum/max-sum = 2/4.
	a := models.Document{ID: "a", Title: "transformer transformer attention"}
	b := models.Document{ID: "b", Title: "transformer attention attention"}

	got := TextSimilarity(a, b)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("TextSimilarity = %v, want 0.5", got)
	}
}

func TestTextSimilarityFiltering(t *testing.T) {
	// Stopwords and short tokens are discarded; "the", "of" and "AI" (len 2)
	// never count as overlap.
	a := models.Document{ID: "a", Title: "the role of AI", Abstract: ""}
	b := models.Document{ID: "b", Title: "the rise of AI", Abstract: ""}

	// After filtering, a has {role}, b has {rise}: no overlap.
	if got := TextSimilarity(a, b); got != 0 {
		t.Errorf("TextSimilarity = %v, want 0", got)
	}
}

func TestTextSimilarityEmptyAfterFiltering(t *testing.T) {
	a := models.Document{ID: "a", Title: "the of and"}
	b := models.Document{ID: "b", Title: "genome editing"}

	if got := TextSimilarity(a, b); got != 0 {
		t.Errorf("TextSimilarity with empty token set = %v, want 0", got)
	}
}

func TestTextSimilarityIdentical(t *testing.T) {
	a := models.Document{ID: "a", Title: "genome editing", Abstract: "off target effects in genome editing"}
	b := a
	b.ID = "b"

	if got := TextSimilarity(a, b); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("TextSimilarity of identical text = %v, want 1.0", got)
	}
}

func TestTemporalProximity(t *testing.T) {
	tests := []struct {
		name  string
		yearA *int
		yearB *int
		want  float64
	}{
		{"same year", yearOf(2020), yearOf(2020), 1.0},
		{"five year gap", yearOf(2015), yearOf(2020), math.Exp(-1)},
		{"missing year A", nil, yearOf(2020), 0.5},
		{"missing year B", yearOf(2020), nil, 0.5},
		{"both missing", nil, nil, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.Document{ID: "a", Year: tt.yearA}
			b := models.Document{ID: "b", Year: tt.yearB}
			got := TemporalProximity(a, b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TemporalProximity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoleAffinity(t *testing.T) {
	tests := []struct {
		name  string
		roleA models.Role
		roleB models.Role
		want  float64
	}{
		{"identical", models.RoleSupports, models.RoleSupports, 1.0},
		{"supports background", models.RoleSupports, models.RoleBackground, 0.5},
		{"background supports", models.RoleBackground, models.RoleSupports, 0.5},
		{"contradicts background", models.RoleContradicts, models.RoleBackground, 0.5},
		{"method supports", models.RoleMethod, models.RoleSupports, 0.5},
		{"method contradicts", models.RoleMethod, models.RoleContradicts, 0.5},
		{"supports contradicts", models.RoleSupports, models.RoleContradicts, 0},
		{"other background", models.RoleOther, models.RoleBackground, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.Document{ID: "a", Role: tt.roleA}
			b := models.Document{ID: "b", Role: tt.roleB}
			got := RoleAffinity(a, b)
			if got != tt.want {
				t.Errorf("RoleAffinity(%s, %s) = %v, want %v", tt.roleA, tt.roleB, got, tt.want)
			}
		})
	}
}

func TestConnectionOverlap(t *testing.T) {
	a := models.Document{ID: "a"}
	b := models.Document{ID: "b"}

	t.Run("shared neighbors excluding the pair itself", func(t *testing.T) {
		// a-b are directly linked; that link must not count as a shared
		// neighbor. Both connect to c, so the filtered sets are {c} and {c}.
		neighbors := NewNeighborIndex([]models.Relationship{
			{SourceID: "a", TargetID: "b"},
			{SourceID: "a", TargetID: "c"},
			{SourceID: "b", TargetID: "c"},
		})
		if got := ConnectionOverlap(a, b, neighbors); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("ConnectionOverlap = %v, want 1.0", got)
		}
	})

	t.Run("partial overlap", func(t *testing.T) {
		// a: {c, d}, b: {c, e} -> 1/3
		neighbors := NewNeighborIndex([]models.Relationship{
			{SourceID: "a", TargetID: "c"},
			{SourceID: "a", TargetID: "d"},
			{SourceID: "b", TargetID: "c"},
			{SourceID: "b", TargetID: "e"},
		})
		if got := ConnectionOverlap(a, b, neighbors); math.Abs(got-1.0/3.0) > 1e-9 {
			t.Errorf("ConnectionOverlap = %v, want 1/3", got)
		}
	})

	t.Run("no relationships", func(t *testing.T) {
		if got := ConnectionOverlap(a, b, NewNeighborIndex(nil)); got != 0 {
			t.Errorf("ConnectionOverlap = %v, want 0", got)
		}
	})
}
