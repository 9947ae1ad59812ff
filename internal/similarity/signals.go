package similarity

import (
	"math"
	"strings"
	"unicode"

	"github.com/paperweave/paperweave/pkg/models"
)

// YearDecay controls how fast temporal proximity falls off: a gap of
// YearDecay years scores 1/e. The reference behavior uses 5.
const YearDecay = 5.0

// neutralYearScore is returned when either document has no publication year.
// Unknown is treated as "could be close", not penalized.
const neutralYearScore = 0.5

// TagSimilarity returns the Jaccard index of the two documents' lower-cased
// tag sets. Two documents with no tags at all score 0: absence of tags is
// not evidence of similarity.
func TagSimilarity(a, b models.Document) float64 {
	setA := tagSet(a.Tags)
	setB := tagSet(b.Tags)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tag := range setA {
		if setB[tag] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// TextSimilarity scores the overlap of the two documents' title+abstract
// token frequency maps: sum of per-token min frequencies over sum of max
// frequencies. Repeated shared terms count more than single incidental
// matches, unlike plain Jaccard over token sets.
func TextSimilarity(a, b models.Document) float64 {
	freqA := tokenFrequencies(a.Title + " " + a.Abstract)
	freqB := tokenFrequencies(b.Title + " " + b.Abstract)

	if len(freqA) == 0 || len(freqB) == 0 {
		return 0
	}

	minSum := 0
	maxSum := 0
	for token, countA := range freqA {
		countB := freqB[token]
		minSum += min(countA, countB)
		maxSum += max(countA, countB)
	}
	for token, countB := range freqB {
		if _, seen := freqA[token]; !seen {
			maxSum += countB
		}
	}

	if maxSum == 0 {
		return 0
	}

	return float64(minSum) / float64(maxSum)
}

// TemporalProximity scores publication-year closeness with exponential
// decay. Same year scores 1.0; a missing year on either side scores the
// fixed neutral value 0.5.
func TemporalProximity(a, b models.Document) float64 {
	if a.Year == nil || b.Year == nil {
		return neutralYearScore
	}

	gap := math.Abs(float64(*a.Year - *b.Year))
	return math.Exp(-gap / YearDecay)
}

// relatedRoles maps unordered role pairs that are considered adjacent in an
// argument structure. Identical roles score 1.0, related pairs 0.5,
// everything else 0.
var relatedRoles = map[[2]models.Role]bool{
	{models.RoleBackground, models.RoleSupports}:    true,
	{models.RoleBackground, models.RoleContradicts}: true,
	{models.RoleMethod, models.RoleSupports}:        true,
	{models.RoleContradicts, models.RoleMethod}:     true,
}

// RoleAffinity scores the affinity of the two documents' categorical roles.
func RoleAffinity(a, b models.Document) float64 {
	if a.Role == b.Role {
		return 1.0
	}

	pair := [2]models.Role{a.Role, b.Role}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}

	if relatedRoles[pair] {
		return 0.5
	}

	return 0
}

// ConnectionOverlap returns the Jaccard index of the two documents' explicit
// neighbor sets, excluding the documents themselves. Two documents that
// share many explicit neighbors are likely related even without a direct
// edge (bibliographic coupling). Both sets empty scores 0.
func ConnectionOverlap(a, b models.Document, neighbors NeighborIndex) float64 {
	neighborsA := neighbors.of(a.ID, a.ID, b.ID)
	neighborsB := neighbors.of(b.ID, a.ID, b.ID)

	if len(neighborsA) == 0 && len(neighborsB) == 0 {
		return 0
	}

	intersection := 0
	for id := range neighborsA {
		if neighborsB[id] {
			intersection++
		}
	}

	union := len(neighborsA) + len(neighborsB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = true
		}
	}
	return set
}

// tokenFrequencies lower-cases the text, splits on non-word characters, and
// counts tokens, discarding tokens of length <= 2 and stopwords.
func tokenFrequencies(text string) map[string]int {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	freq := make(map[string]int)
	for _, word := range words {
		if len(word) <= 2 || stopWords[word] {
			continue
		}
		freq[word]++
	}
	return freq
}

// stopWords is a fixed list of common English and academic filler words
// excluded from text similarity.
var stopWords = func() map[string]bool {
	words := []string{
		"the", "and", "are", "was", "were", "for", "from", "has", "have",
		"had", "this", "that", "these", "those", "with", "which", "while",
		"what", "when", "where", "who", "whom", "why", "how", "its", "their",
		"there", "then", "than", "into", "onto", "about", "after", "before",
		"between", "both", "but", "can", "cannot", "could", "should", "would",
		"may", "might", "must", "will", "not", "nor", "only", "other", "our",
		"out", "over", "own", "same", "some", "such", "too", "under", "until",
		"very", "also", "however", "therefore", "thus", "hence",
		// academic filler
		"study", "studies", "method", "methods", "result", "results",
		"paper", "using", "based", "approach", "analysis", "data",
		"effect", "effects", "findings", "show", "shows", "shown",
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}()
