package dataset

import (
	_ "embed"

	"prefsim/internal/prefs"
)

//go:embed critics.yaml
var criticsYAML []byte

// SampleName labels the embedded table in logs and reports.
const SampleName = "critics (built-in)"

// Sample returns a fresh copy of the built-in movie critics table.
func Sample() prefs.Table {
	table, err := Parse(criticsYAML, FormatYAML)
	if err != nil {
		// the embedded file is covered by tests
		panic("dataset: embedded critics table is invalid: " + err.Error())
	}
	return table
}
