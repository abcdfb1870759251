package services

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// TF-IDF vectorizer defaults. The vocabulary is rebuilt per query because
// it depends on the query text; each call owns its own vectorizer state.
const (
	tfidfMaxFeatures = 5000
	tfidfMinDF       = 1
	tfidfMaxDF       = 0.95
	tfidfMinTokenLen = 2
)

// errEmptyVocabulary indicates the corpus produced no usable terms.
var errEmptyVocabulary = errors.New("tfidf: empty vocabulary")

// nonLetterPattern matches everything that is not a letter or whitespace.
// Accented letters are preserved.
var nonLetterPattern = regexp.MustCompile(`[^\p{L}\s]+`)

// whitespacePattern collapses runs of whitespace.
var whitespacePattern = regexp.MustCompile(`\s+`)

// englishStopWords are excluded from the TF-IDF vocabulary.
var englishStopWords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "been": true, "but": true, "by": true,
	"can": true, "could": true, "do": true, "does": true, "for": true,
	"from": true, "had": true, "has": true, "have": true, "he": true,
	"her": true, "his": true, "how": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "just": true,
	"may": true, "more": true, "most": true, "no": true, "not": true,
	"of": true, "on": true, "only": true, "or": true, "other": true,
	"our": true, "out": true, "over": true, "she": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "to": true, "up": true, "was": true,
	"we": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "will": true, "with": true, "would": true,
	"you": true, "your": true,
}

// preprocessText normalises text for lexical matching: lowercase, strip
// everything that is not a letter, collapse whitespace.
func preprocessText(text string) string {
	text = strings.ToLower(text)
	text = nonLetterPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// tokenize splits preprocessed text into stop-word-free tokens.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < tfidfMinTokenLen {
			continue
		}
		if englishStopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// termCounts returns unigram and bigram counts for a token sequence.
func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i+1 < len(tokens) {
			counts[tok+" "+tokens[i+1]]++
		}
	}
	return counts
}

// tfidfSimilarities fits a TF-IDF space over the full corpus (query first,
// then documents) and returns the cosine similarity between the query row
// and each document row, clipped to [0,1].
func tfidfSimilarities(corpus []string) ([]float64, error) {
	if len(corpus) < 2 {
		return nil, errEmptyVocabulary
	}

	docTerms := make([]map[string]int, len(corpus))
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for i, text := range corpus {
		counts := termCounts(tokenize(preprocessText(text)))
		docTerms[i] = counts
		for term, n := range counts {
			docFreq[term]++
			totalFreq[term] += n
		}
	}

	// Document-frequency cutoffs suppress overly rare and common terms.
	n := len(corpus)
	maxDF := int(math.Floor(tfidfMaxDF * float64(n)))
	vocab := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < tfidfMinDF || df > maxDF {
			continue
		}
		vocab = append(vocab, term)
	}
	if len(vocab) == 0 {
		return nil, errEmptyVocabulary
	}

	// Bound the vocabulary: keep the most frequent terms.
	if len(vocab) > tfidfMaxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if totalFreq[vocab[i]] != totalFreq[vocab[j]] {
				return totalFreq[vocab[i]] > totalFreq[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:tfidfMaxFeatures]
	}

	vocabSet := make(map[string]bool, len(vocab))
	for _, term := range vocab {
		vocabSet[term] = true
	}

	// Smoothed inverse document frequency: ln((1+n)/(1+df)) + 1.
	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		idf[term] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	rows := make([]map[string]float64, len(corpus))
	for i, counts := range docTerms {
		rows[i] = tfidfRow(counts, vocabSet, idf)
	}

	queryRow := rows[0]
	sims := make([]float64, len(corpus)-1)
	for i, docRow := range rows[1:] {
		sims[i] = clip01(sparseDot(queryRow, docRow))
	}

	return sims, nil
}

// tfidfRow builds an L2-normalised tf-idf vector for one document.
func tfidfRow(counts map[string]int, vocab map[string]bool, idf map[string]float64) map[string]float64 {
	row := make(map[string]float64)
	var norm float64
	for term, count := range counts {
		if !vocab[term] {
			continue
		}
		w := float64(count) * idf[term]
		row[term] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range row {
			row[term] /= norm
		}
	}
	return row
}

// sparseDot is the dot product of two sparse vectors.
func sparseDot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}

// clip01 clamps v to [0,1].
func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
