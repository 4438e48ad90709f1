package rank

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefsim/internal/prefs"
	"prefsim/internal/similarity"
)

func critics() prefs.Table {
	return prefs.Table{
		"Lisa Rose": {
			"Lady in the Water": 2.5, "Snakes on a Plane": 3.5, "Just My Luck": 3.0,
			"Superman Returns": 3.5, "You, Me and Dupree": 2.5, "The Night Listener": 3.0,
		},
		"Gene Seymour": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 3.5, "Just My Luck": 1.5,
			"Superman Returns": 5.0, "The Night Listener": 3.0, "You, Me and Dupree": 3.5,
		},
		"Michael Phillips": {
			"Lady in the Water": 2.5, "Snakes on a Plane": 3.0, "Superman Returns": 3.5,
			"The Night Listener": 4.0,
		},
		"Claudia Puig": {
			"Snakes on a Plane": 3.5, "Just My Luck": 3.0, "The Night Listener": 4.5,
			"Superman Returns": 4.0, "You, Me and Dupree": 2.5,
		},
		"Mick LaSalle": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 4.0, "Just My Luck": 2.0,
			"Superman Returns": 3.0, "The Night Listener": 3.0, "You, Me and Dupree": 2.0,
		},
		"Jack Matthews": {
			"Lady in the Water": 3.0, "Snakes on a Plane": 4.0, "The Night Listener": 3.0,
			"Superman Returns": 5.0, "You, Me and Dupree": 3.5,
		},
		"Toby": {"Snakes on a Plane": 4.5, "You, Me and Dupree": 1.0, "Superman Returns": 4.0},
	}
}

func fiveSubjects() prefs.Table {
	return prefs.Table{
		"p1": {"v1": 1, "v2": 2, "v3": 3, "v4": 4},
		"p2": {"v1": 2, "v2": 4, "v3": 6, "v4": 8},
		"p3": {"v1": 4, "v2": 3, "v3": 2, "v4": 1},
		"p4": {"v1": 1, "v2": 3, "v3": 2, "v4": 5},
		"p5": {"v1": 2, "v2": 2, "v4": 3},
	}
}

func TestTopMatchesCritics(t *testing.T) {
	table := critics()

	got, err := TopMatches(table, "Toby", 3, similarity.Pearson)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []prefs.SubjectID{"Lisa Rose", "Mick LaSalle", "Claudia Puig"}, got.Subjects())
	assert.InDelta(t, 0.99124070716, got[0].Score, 1e-9)
	assert.InDelta(t, 0.92447345164, got[1].Score, 1e-9)
	assert.InDelta(t, 0.89340514744, got[2].Score, 1e-9)
}

func TestTopMatchesTopScoreMatchesMetric(t *testing.T) {
	tests := []struct {
		name    string
		table   prefs.Table
		subject prefs.SubjectID
		n       int
		metric  similarity.Metric
	}{
		{name: "five subjects pearson", table: fiveSubjects(), subject: "p1", n: 3, metric: similarity.Pearson},
		{name: "five subjects distance", table: fiveSubjects(), subject: "p1", n: 3, metric: similarity.Distance},
		{name: "critics pearson", table: critics(), subject: "Toby", n: DefaultN, metric: similarity.Pearson},
		{name: "critics distance", table: critics(), subject: "Toby", n: 3, metric: similarity.Distance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopMatches(tt.table, tt.subject, tt.n, tt.metric)
			require.NoError(t, err)
			require.Len(t, got, tt.n)

			for _, m := range got {
				direct, err := tt.metric(tt.table, tt.subject, m.Subject)
				require.NoError(t, err)
				assert.Equal(t, direct, m.Score, "score for %s was altered", m.Subject)
			}
		})
	}
}

func TestTopMatchesLength(t *testing.T) {
	table := fiveSubjects()
	others := len(table) - 1

	for n := 0; n <= others+3; n++ {
		got, err := TopMatches(table, "p1", n, similarity.Pearson)
		require.NoError(t, err)
		assert.Len(t, got, min(n, others), "n=%d", n)
	}
}

func TestTopMatchesSortedDescending(t *testing.T) {
	table := critics()

	for _, metric := range []similarity.Metric{similarity.Pearson, similarity.Distance} {
		for _, subject := range table.Subjects() {
			got, err := TopMatches(table, subject, len(table), metric)
			require.NoError(t, err)
			require.Len(t, got, len(table)-1)

			assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
				return got[i].Score > got[j].Score
			}), "matches for %s not sorted: %v", subject, got)

			for _, m := range got {
				assert.NotEqual(t, subject, m.Subject)
			}
		}
	}
}

func TestTopMatchesTieBreak(t *testing.T) {
	table := prefs.Table{
		"target": {"a": 1, "b": 2},
		"zed":    {"a": 1, "b": 2},
		"amy":    {"a": 1, "b": 2},
		"mo":     {"a": 1, "b": 2},
		"far":    {"a": 5, "b": 5},
	}

	for i := 0; i < 10; i++ {
		got, err := TopMatches(table, "target", 4, similarity.Distance)
		require.NoError(t, err)
		assert.Equal(t, []prefs.SubjectID{"amy", "mo", "zed", "far"}, got.Subjects())
	}
}

func TestTopMatchesFlatRaters(t *testing.T) {
	table := prefs.Table{
		"flat":  {"a": 0.3, "b": 0.3, "c": 0.3, "d": 0.3, "e": 0.3},
		"echo":  {"a": 0.3, "b": 0.3, "c": 0.3, "d": 0.3, "e": 0.3},
		"level": {"a": 1.1, "b": 1.1, "c": 1.1, "d": 1.1, "e": 1.1},
		"mixed": {"a": 1, "b": 3, "c": 2, "d": 5, "e": 4},
		"close": {"a": 2, "b": 3, "c": 1, "d": 5, "e": 4},
	}

	// nothing correlates with a subject whose ratings never change
	got, err := TopMatches(table, "flat", 4, similarity.Pearson)
	require.NoError(t, err)
	assert.Equal(t, Matches{
		{Subject: "close", Score: 0},
		{Subject: "echo", Score: 0},
		{Subject: "level", Score: 0},
		{Subject: "mixed", Score: 0},
	}, got)

	// flat raters sit at 0 below a real positive correlation
	got, err = TopMatches(table, "mixed", 4, similarity.Pearson)
	require.NoError(t, err)
	assert.Equal(t, []prefs.SubjectID{"close", "echo", "flat", "level"}, got.Subjects())
	assert.Greater(t, got[0].Score, 0.0)
	assert.Equal(t, 0.0, got.ScoreBySubject()["echo"])
	assert.Equal(t, 0.0, got.ScoreBySubject()["flat"])
	assert.Equal(t, 0.0, got.ScoreBySubject()["level"])
}

func TestTopMatchesEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		table   prefs.Table
		subject prefs.SubjectID
		n       int
		metric  similarity.Metric
		wantLen int
		wantErr error
	}{
		{
			name:    "only the subject itself",
			table:   prefs.Table{"alone": {"a": 1}},
			subject: "alone", n: 5, metric: similarity.Pearson,
			wantLen: 0,
		},
		{
			name:    "zero n",
			table:   fiveSubjects(),
			subject: "p1", n: 0, metric: similarity.Pearson,
			wantLen: 0,
		},
		{
			name:    "n larger than others",
			table:   fiveSubjects(),
			subject: "p1", n: 100, metric: similarity.Distance,
			wantLen: 4,
		},
		{
			name:    "negative n",
			table:   fiveSubjects(),
			subject: "p1", n: -1, metric: similarity.Pearson,
			wantErr: ErrNegativeN,
		},
		{
			name:    "unknown subject",
			table:   fiveSubjects(),
			subject: "ghost", n: 3, metric: similarity.Pearson,
			wantErr: prefs.ErrSubjectNotFound,
		},
		{
			name:    "empty table",
			table:   prefs.Table{},
			subject: "p1", n: 3, metric: similarity.Pearson,
			wantErr: prefs.ErrSubjectNotFound,
		},
		{
			name:    "nil metric",
			table:   fiveSubjects(),
			subject: "p1", n: 3, metric: nil,
			wantErr: ErrNilMetric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopMatches(tt.table, tt.subject, tt.n, tt.metric)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestTopMatchesDoesNotMutate(t *testing.T) {
	table := critics()
	before := table.Clone()

	_, err := TopMatches(table, "Toby", 3, similarity.Pearson)
	require.NoError(t, err)
	assert.Equal(t, before, table)
}

func TestDefault(t *testing.T) {
	got, err := Default(critics(), "Toby")
	require.NoError(t, err)
	assert.Len(t, got, DefaultN)
	assert.Equal(t, prefs.SubjectID("Lisa Rose"), got[0].Subject)
}

func TestMatchesAdapters(t *testing.T) {
	m := Matches{
		{Subject: "b", Score: 0.9},
		{Subject: "a", Score: 0.4},
	}

	assert.Equal(t, map[prefs.SubjectID]float64{"a": 0.4, "b": 0.9}, m.ScoreBySubject())
	assert.Equal(t, []ScoredPair{{Score: 0.9, Subject: "b"}, {Score: 0.4, Subject: "a"}}, m.Pairs())
	assert.Equal(t, []prefs.SubjectID{"b", "a"}, m.Subjects())
	assert.Empty(t, Matches{}.Pairs())
}
