package textutil

import (
	"math"
	"regexp"
	"strings"
)

// tokenSplitPattern matches runs of characters that are neither letters,
// combining marks, nor digits, in any script. Combining marks are kept so
// scripts like Tamil do not split inside a word.
var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenSet returns the set of distinct tokens in text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// TokenSetRatio computes a bounded overlap score in [0,100] between the word
// sets of two texts. The score reflects how fully the smaller set's tokens are
// covered by the other set, so it is symmetric, order-independent, and
// insensitive to repetition. Identical texts score 100; if either side
// produces no tokens the score is 0.
func TokenSetRatio(a, b string) int {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	small, large := setA, setB
	if len(setB) < len(setA) {
		small, large = setB, setA
	}

	shared := 0
	for token := range small {
		if _, ok := large[token]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return int(math.Round(100 * float64(shared) / float64(len(small))))
}
