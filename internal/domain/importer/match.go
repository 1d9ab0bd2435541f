package importer

import (
	"strings"

	"stockbook/internal/domain/ledger"
)

// MatchStrategy decides whether an imported (name, category) pair refers to
// an existing product. Strategies are pure functions so the matching policy
// stays testable and swappable independently of the import pipeline.
type MatchStrategy func(name, category string, candidate ledger.ProductKey) bool

// matchStrategies is the ranked policy used by the stock-quantity importer:
// exact match first, then substring containment, then token overlap. The
// first strategy that yields any result wins.
var matchStrategies = []MatchStrategy{
	MatchExact,
	MatchSubstring,
	MatchTokenOverlap,
}

// MatchProduct finds an existing product for an imported name/category pair.
// Within a strategy the first candidate in slice order wins; no strategy
// matching means the pair is a new product to create.
func MatchProduct(name, category string, candidates []ledger.ProductKey) (ledger.ProductKey, bool) {
	for _, strategy := range matchStrategies {
		for _, candidate := range candidates {
			if strategy(name, category, candidate) {
				return candidate, true
			}
		}
	}
	return ledger.ProductKey{}, false
}

// MatchExact requires case- and space-normalized equality on both fields.
func MatchExact(name, category string, candidate ledger.ProductKey) bool {
	return normalize(name) == normalize(candidate.Name) &&
		normalize(category) == normalize(candidate.Category)
}

// MatchSubstring requires the same category and substring containment on the
// name, in either direction.
func MatchSubstring(name, category string, candidate ledger.ProductKey) bool {
	if normalize(category) != normalize(candidate.Category) {
		return false
	}
	a, b := normalize(name), normalize(candidate.Name)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// MatchTokenOverlap requires the same category and at least 70% of the
// imported name's significant words (longer than 2 characters) found as
// substrings of the candidate's words.
func MatchTokenOverlap(name, category string, candidate ledger.ProductKey) bool {
	if normalize(category) != normalize(candidate.Category) {
		return false
	}

	words := significantWords(name)
	if len(words) == 0 {
		return false
	}
	candidateWords := strings.Fields(normalize(candidate.Name))

	found := 0
	for _, w := range words {
		for _, cw := range candidateWords {
			if strings.Contains(cw, w) {
				found++
				break
			}
		}
	}

	return float64(found)/float64(len(words)) >= 0.7
}

// normalize lowercases and collapses interior whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// significantWords returns normalized words longer than 2 characters.
func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(normalize(s)) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}
