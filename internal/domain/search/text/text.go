// Package text holds the lowercasing and whitespace tokenization shared by
// the predicate builder and the relevance scorer.
package text

import "strings"

// Normalize lowercases s. No locale-specific case folding is applied.
func Normalize(s string) string {
	return strings.ToLower(s)
}

// Tokenize splits s on runs of whitespace. Leading, trailing and repeated
// whitespace never produce empty tokens.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// Words is Tokenize(Normalize(s)).
func Words(s string) []string {
	return Tokenize(Normalize(s))
}
