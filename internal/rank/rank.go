package rank

import (
	"errors"
	"fmt"
	"sort"

	"prefsim/internal/prefs"
	"prefsim/internal/similarity"
)

// DefaultN is the number of matches returned when the caller has no preference.
const DefaultN = 5

var (
	ErrNegativeN = errors.New("result size must not be negative")
	ErrNilMetric = errors.New("similarity metric is nil")
)

// Match is one ranked subject and the score the metric gave it.
type Match struct {
	Subject prefs.SubjectID `json:"subject"`
	Score   float64         `json:"score"`
}

// Matches is ordered best first.
type Matches []Match

// ScoredPair is the (score, subject) shape some callers expect.
type ScoredPair struct {
	Score   float64
	Subject prefs.SubjectID
}

// TopMatches scores every other subject of the table against subject and
// returns the best n, highest score first. Equal scores are ordered by
// subject ID ascending.
func TopMatches(t prefs.Table, subject prefs.SubjectID, n int, metric similarity.Metric) (Matches, error) {
	if metric == nil {
		return nil, ErrNilMetric
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeN, n)
	}
	if !t.Has(subject) {
		return nil, fmt.Errorf("%w: %q", prefs.ErrSubjectNotFound, subject)
	}

	scored := make(Matches, 0, len(t)-1)
	for other := range t {
		if other == subject {
			continue
		}
		score, err := metric(t, subject, other)
		if err != nil {
			return nil, fmt.Errorf("failed to score %q against %q: %w", subject, other, err)
		}
		scored = append(scored, Match{Subject: other, Score: score})
	}

	// Sort by score descending
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Subject < scored[j].Subject
	})

	// Take top n
	if len(scored) > n {
		scored = scored[:n]
	}

	return scored, nil
}

// Default ranks with DefaultN and the Pearson metric.
func Default(t prefs.Table, subject prefs.SubjectID) (Matches, error) {
	return TopMatches(t, subject, DefaultN, similarity.Pearson)
}

// Subjects returns the matched subjects in rank order.
func (m Matches) Subjects() []prefs.SubjectID {
	out := make([]prefs.SubjectID, len(m))
	for i, match := range m {
		out[i] = match.Subject
	}
	return out
}

// ScoreBySubject returns the matches as a subject to score mapping.
// The mapping does not keep rank order; use the slice for that.
func (m Matches) ScoreBySubject() map[prefs.SubjectID]float64 {
	out := make(map[prefs.SubjectID]float64, len(m))
	for _, match := range m {
		out[match.Subject] = match.Score
	}
	return out
}

// Pairs returns the matches in rank order as (score, subject) pairs.
func (m Matches) Pairs() []ScoredPair {
	out := make([]ScoredPair, len(m))
	for i, match := range m {
		out[i] = ScoredPair{Score: match.Score, Subject: match.Subject}
	}
	return out
}
