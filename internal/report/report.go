// Package report turns a ranking into a Markdown document for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"prefsim/internal/logging"
	"prefsim/internal/prefs"
	"prefsim/internal/rank"
	"prefsim/internal/similarity"
)

// Entry is one ranked subject with the overlap its score was computed over.
type Entry struct {
	Rank    int             `json:"rank"`
	Subject prefs.SubjectID `json:"subject"`
	Score   float64         `json:"score"`
	Shared  int             `json:"shared_items"`
}

// Report describes a single top-matches run.
type Report struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Dataset     string          `json:"dataset"`
	Subject     prefs.SubjectID `json:"subject"`
	Metric      string          `json:"metric"`
	N           int             `json:"n"`
	Rated       int             `json:"rated_items"`
	Entries     []Entry         `json:"entries"`
}

// Build ranks subject against the rest of the table with the named metric.
func Build(t prefs.Table, datasetName string, subject prefs.SubjectID, n int, metricName string) (*Report, error) {
	name, err := similarity.Canonical(metricName)
	if err != nil {
		return nil, err
	}
	metric, err := similarity.Lookup(name)
	if err != nil {
		return nil, err
	}

	matches, err := rank.TopMatches(t, subject, n, metric)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now(),
		Dataset:     datasetName,
		Subject:     subject,
		Metric:      name,
		N:           n,
		Rated:       len(t[subject]),
		Entries:     make([]Entry, len(matches)),
	}

	for i, m := range matches {
		shared, err := prefs.SharedItems(t, subject, m.Subject)
		if err != nil {
			return nil, err
		}
		r.Entries[i] = Entry{
			Rank:    i + 1,
			Subject: m.Subject,
			Score:   m.Score,
			Shared:  len(shared),
		}
	}

	return r, nil
}

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Top matches for %s\n\n", escape(string(r.Subject)))
	fmt.Fprintf(&b, "- **Dataset:** %s\n", escape(r.Dataset))
	fmt.Fprintf(&b, "- **Metric:** %s\n", r.Metric)
	fmt.Fprintf(&b, "- **Requested:** %d, **returned:** %d\n", r.N, len(r.Entries))
	fmt.Fprintf(&b, "- **Items rated by %s:** %d\n", escape(string(r.Subject)), r.Rated)
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Report ID:** `%s`\n\n", r.ID)

	if len(r.Entries) == 0 {
		b.WriteString("_No other subjects to compare against._\n")
		return b.String()
	}

	b.WriteString("| # | Subject | Score | Shared items |\n")
	b.WriteString("|---:|---|---:|---:|\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "| %d | %s | %.4f | %d |\n", e.Rank, escape(string(e.Subject)), e.Score, e.Shared)
	}

	noOverlap := 0
	for _, e := range r.Entries {
		if e.Shared == 0 {
			noOverlap++
		}
	}
	if noOverlap > 0 {
		fmt.Fprintf(&b, "\n> %d of these subjects share no rated items with %s; their score of 0 means \"no data\", not \"no correlation\".\n",
			noOverlap, escape(string(r.Subject)))
	}

	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

// NewRenderer creates a markdown renderer with fallback handling
func NewRenderer(width int) *glamour.TermRenderer {
	// Try auto style first
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with auto style: %v, trying fallback", err)

	renderer, err = glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with notty style: %v, using no style", err)

	renderer, err = glamour.NewTermRenderer()
	if err != nil {
		logging.Error("Critical: Failed to create basic markdown renderer: %v", err)
		return nil
	}

	return renderer
}

// Render renders markdown for a terminal of the given width. If rendering
// fails the raw markdown is returned.
func Render(md string, width int) string {
	renderer := NewRenderer(width)
	if renderer == nil {
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		logging.Error("Failed to render report: %v", err)
		return md
	}
	return out
}
