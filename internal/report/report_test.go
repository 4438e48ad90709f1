package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefsim/internal/dataset"
	"prefsim/internal/prefs"
	"prefsim/internal/similarity"
)

func TestBuild(t *testing.T) {
	table := dataset.Sample()

	r, err := Build(table, dataset.SampleName, "Toby", 3, "sim_pearson")
	require.NoError(t, err)

	_, err = uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, similarity.NamePearson, r.Metric)
	assert.Equal(t, 3, r.Rated)
	require.Len(t, r.Entries, 3)

	assert.Equal(t, 1, r.Entries[0].Rank)
	assert.Equal(t, prefs.SubjectID("Lisa Rose"), r.Entries[0].Subject)
	assert.Equal(t, 3, r.Entries[0].Shared)

	direct, err := similarity.Pearson(table, "Toby", "Lisa Rose")
	require.NoError(t, err)
	assert.Equal(t, direct, r.Entries[0].Score)
}

func TestBuildErrors(t *testing.T) {
	table := dataset.Sample()

	_, err := Build(table, "x", "Toby", 3, "cosine")
	assert.ErrorIs(t, err, similarity.ErrUnsupportedMetric)

	_, err = Build(table, "x", "Nobody", 3, "pearson")
	assert.ErrorIs(t, err, prefs.ErrSubjectNotFound)
}

func TestMarkdown(t *testing.T) {
	table := prefs.Table{
		"me":     {"a": 1, "b": 2},
		"twin":   {"a": 1, "b": 2},
		"loner":  {"z": 4},
		"a|pipe": {"a": 2},
	}

	r, err := Build(table, "fixture", "me", 5, "distance")
	require.NoError(t, err)

	md := r.Markdown()
	assert.Contains(t, md, "# Top matches for me")
	assert.Contains(t, md, "| 1 | twin | 1.0000 | 2 |")
	assert.Contains(t, md, `a\|pipe`)
	assert.Contains(t, md, "| 0.0000 | 0 |")
	assert.Contains(t, md, "1 of these subjects share no rated items")
	assert.Contains(t, md, r.ID)
}

func TestMarkdownEmpty(t *testing.T) {
	r, err := Build(prefs.Table{"alone": {"a": 1}}, "fixture", "alone", 5, "pearson")
	require.NoError(t, err)
	assert.Empty(t, r.Entries)
	assert.Contains(t, r.Markdown(), "No other subjects")
}

func TestRender(t *testing.T) {
	r, err := Build(dataset.Sample(), dataset.SampleName, "Toby", 2, "pearson")
	require.NoError(t, err)

	out := Render(r.Markdown(), 80)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "Lisa Rose")
}
