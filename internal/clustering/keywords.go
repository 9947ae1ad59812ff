package clustering

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultKeywordsPerCluster is how many label keywords a cluster summary
// carries by default.
const DefaultKeywordsPerCluster = 5

// KeywordExtractor extracts label keywords from document text using TF-IDF.
type KeywordExtractor struct {
	stopWords map[string]bool
	minLength int
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		stopWords: keywordStopWords(),
		minLength: 3,
	}
}

// Keyword represents a keyword with its TF-IDF score
type Keyword struct {
	Word  string
	Score float64
}

// ExtractKeywords extracts the top-k keywords from the texts. Ties at equal
// score break alphabetically so summaries are deterministic.
func (ke *KeywordExtractor) ExtractKeywords(texts []string, topK int) []Keyword {
	if len(texts) == 0 {
		return []Keyword{}
	}

	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = ke.tokenize(text)
	}

	tfidf := ke.computeTFIDF(docs)

	keywords := make([]Keyword, 0, len(tfidf))
	for word, score := range tfidf {
		keywords = append(keywords, Keyword{Word: word, Score: score})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Word < keywords[j].Word
	})

	if topK > 0 && topK < len(keywords) {
		keywords = keywords[:topK]
	}

	return keywords
}

func (ke *KeywordExtractor) tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	result := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) >= ke.minLength && !ke.stopWords[word] {
			result = append(result, word)
		}
	}

	return result
}

func (ke *KeywordExtractor) computeTFIDF(docs [][]string) map[string]float64 {
	n := len(docs)
	if n == 0 {
		return nil
	}

	// Document frequency per term
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, word := range doc {
			if !seen[word] {
				df[word]++
				seen[word] = true
			}
		}
	}

	// Accumulate normalized TF * IDF across documents. With a single
	// document every IDF is zero, so fall back to raw term frequency to
	// still produce a label.
	tfidf := make(map[string]float64)
	for _, doc := range docs {
		if len(doc) == 0 {
			continue
		}

		tf := make(map[string]int)
		for _, word := range doc {
			tf[word]++
		}

		for word, count := range tf {
			termFreq := float64(count) / float64(len(doc))
			if n == 1 {
				tfidf[word] += termFreq
				continue
			}
			idf := math.Log(float64(n) / float64(df[word]))
			tfidf[word] += termFreq * idf
		}
	}

	for word := range tfidf {
		tfidf[word] /= float64(n)
	}

	return tfidf
}

func keywordStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "had", "in", "is", "it", "its", "of", "on", "or",
		"that", "the", "they", "this", "to", "was", "were", "will", "with",
		"we", "our", "their", "them", "there", "these", "those", "been",
		"would", "could", "should", "may", "might", "must", "can", "cannot",
		"about", "above", "after", "again", "against", "all", "any",
		"because", "before", "below", "between", "both", "but", "during",
		"each", "few", "here", "how", "if", "into", "more", "most", "no",
		"nor", "not", "only", "other", "out", "same", "so", "some", "such",
		"than", "then", "through", "too", "under", "until", "very", "what",
		"when", "where", "which", "while", "who", "why", "also", "however",
		"therefore", "thus",
		// common in paper titles and abstracts
		"paper", "study", "results", "using", "based", "novel", "toward",
		"towards", "via",
	}

	result := make(map[string]bool, len(words))
	for _, w := range words {
		result[w] = true
	}
	return result
}
