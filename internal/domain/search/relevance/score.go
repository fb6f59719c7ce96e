// Package relevance scores catalog text against a free-text phrase and orders
// candidates by that score.
//
// The weights below are hand-tuned and interact: changing any of them, or the
// order in which terms are accumulated, changes user-visible result order.
package relevance

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/prodex/internal/domain/search/text"
)

// Whole-phrase bonuses.
const (
	PhraseEqualBonus    = 2000
	PhraseContainsBonus = 1500
)

// Per-word match scores.
const (
	ExactWordScore  = 250
	PrefixWordScore = 200
	InfixWordScore  = 150
	NearWordScore   = 100
)

// Aggregate terms when every search word matched.
const (
	AllMatchedBonus  = 800
	AllExactBonus    = 300
	InOrderBonus     = 500
	ConsecutiveBonus = 300
	LeadingBonus     = 200
	ExtraWordPenalty = 15
)

// Aggregate terms when only some search words matched.
const (
	CoverageWeight       = 300
	MissingWordPenalty   = 100
	PartialInOrderBonus  = 150
	nearMatchMinRuneSize = 3
)

// Score returns the relevance of s for phrase. The result can be negative:
// long texts that match every word are penalized per extra word, and missing
// words are penalized in the partial branch.
func Score(s, phrase string) float64 {
	var score float64

	lowerText := text.Normalize(s)
	lowerPhrase := text.Normalize(phrase)

	switch {
	case lowerText == lowerPhrase:
		score += PhraseEqualBonus
	case strings.Contains(lowerText, lowerPhrase):
		score += PhraseContainsBonus
	}

	searchWords := text.Tokenize(lowerPhrase)
	if len(searchWords) == 0 {
		return score
	}
	textWords := text.Tokenize(lowerText)

	matched := newMatches(len(searchWords))
	for _, w := range searchWords {
		best, idx := bestMatch(textWords, w)
		if best > 0 {
			score += best
			matched.set(w, idx, best == ExactWordScore)
		}
	}

	if matched.len() == len(searchWords) {
		score += AllMatchedBonus
		if matched.allExact() {
			score += AllExactBonus
		}
		positions := matched.positions()
		if increasing(positions) {
			score += InOrderBonus
		}
		if consecutive(positions) {
			score += ConsecutiveBonus
		}
		if positions[0] == 0 {
			score += LeadingBonus
		}
		score -= ExtraWordPenalty * float64(max(0, len(textWords)-len(searchWords)))
		return score
	}

	coverage := float64(matched.len()) / float64(len(searchWords))
	score += coverage * CoverageWeight
	score -= MissingWordPenalty * float64(len(searchWords)-matched.len())
	if matched.len() > 1 && increasing(matched.positions()) {
		score += PartialInOrderBonus
	}
	return score
}

// bestMatch scans textWords left to right and returns the best word score for
// w and its index. A later word replaces the current best only when strictly
// better, so ties keep the first occurrence. idx is -1 when nothing matched.
func bestMatch(textWords []string, w string) (float64, int) {
	best, idx := 0.0, -1
	for i, tw := range textWords {
		if s := wordScore(tw, w); s > best {
			best, idx = s, i
		}
	}
	return best, idx
}

func wordScore(textWord, searchWord string) float64 {
	switch {
	case textWord == searchWord:
		return ExactWordScore
	case strings.HasPrefix(textWord, searchWord):
		return PrefixWordScore
	case strings.Contains(textWord, searchWord):
		return InfixWordScore
	case utf8.RuneCountInString(searchWord) >= nearMatchMinRuneSize &&
		(strings.Contains(textWord, dropLastRune(searchWord)) || strings.Contains(searchWord, textWord)):
		return NearWordScore
	}
	return 0
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func increasing(positions []int) bool {
	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			return false
		}
	}
	return true
}

func consecutive(positions []int) bool {
	for i := 1; i < len(positions); i++ {
		if positions[i] != positions[i-1]+1 {
			return false
		}
	}
	return true
}

// matches records, per distinct search word, the index of its best text word.
// Words keep the order of their first match; a repeated search word updates
// its index in place.
type matches struct {
	order []string
	index map[string]int
	exact map[string]bool
}

func newMatches(n int) *matches {
	return &matches{
		order: make([]string, 0, n),
		index: make(map[string]int, n),
		exact: make(map[string]bool, n),
	}
}

func (m *matches) set(word string, idx int, exact bool) {
	if _, ok := m.index[word]; !ok {
		m.order = append(m.order, word)
	}
	m.index[word] = idx
	m.exact[word] = exact
}

func (m *matches) len() int { return len(m.order) }

func (m *matches) allExact() bool {
	for _, w := range m.order {
		if !m.exact[w] {
			return false
		}
	}
	return true
}

func (m *matches) positions() []int {
	out := make([]int, len(m.order))
	for i, w := range m.order {
		out[i] = m.index[w]
	}
	return out
}
