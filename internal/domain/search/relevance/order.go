package relevance

import (
	"math"
	"slices"
)

// NameDominance is the name-score gap above which descriptions are ignored.
const NameDominance = 200

// DescriptionWeight scales a description score before blending it with the
// name score.
const DescriptionWeight = 0.5

// Candidate is anything with a name and an optional description.
// An empty description counts as absent.
type Candidate interface {
	Name() string
	Description() string
}

// Scored is a candidate with its name and description scores for one phrase.
type Scored[T Candidate] struct {
	Item      T
	NameScore float64
	DescScore float64 // already weighted; 0 when the description is absent
}

// ScoreCandidate computes both field scores of c for phrase.
func ScoreCandidate[T Candidate](c T, phrase string) Scored[T] {
	s := Scored[T]{Item: c, NameScore: Score(c.Name(), phrase)}
	if d := c.Description(); d != "" {
		s.DescScore = Score(d, phrase) * DescriptionWeight
	}
	return s
}

// Compare orders a before b when it returns a negative value.
// Name scores further apart than NameDominance decide alone; otherwise the
// blended name+description scores are compared. Higher scores sort first.
func Compare[T Candidate](a, b Scored[T]) float64 {
	if math.Abs(a.NameScore-b.NameScore) > NameDominance {
		return b.NameScore - a.NameScore
	}
	return (b.NameScore + b.DescScore) - (a.NameScore + a.DescScore)
}

// Sort reorders items in place by relevance to phrase. The sort is stable:
// candidates that compare equal keep their fetched order. Each candidate is
// scored exactly once.
func Sort[T Candidate](items []T, phrase string) {
	if len(items) < 2 {
		return
	}
	scored := make([]Scored[T], len(items))
	for i, it := range items {
		scored[i] = ScoreCandidate(it, phrase)
	}
	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		switch d := Compare(a, b); {
		case d < 0:
			return -1
		case d > 0:
			return 1
		default:
			return 0
		}
	})
	for i := range scored {
		items[i] = scored[i].Item
	}
}
