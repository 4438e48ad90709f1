package similarity

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"prefsim/internal/prefs"
)

// Metric scores how alike two subjects of a table are.
// Distance and Pearson are the two implementations; a Metric returns an
// error only when a subject is missing from the table.
type Metric func(t prefs.Table, a, b prefs.SubjectID) (float64, error)

// sharedVectors returns the ratings of a and b over their shared items,
// aligned index by index.
func sharedVectors(t prefs.Table, a, b prefs.SubjectID) ([]float64, []float64, error) {
	shared, err := prefs.SharedItems(t, a, b)
	if err != nil {
		return nil, nil, err
	}

	ra, rb := t[a], t[b]
	x := make([]float64, len(shared))
	y := make([]float64, len(shared))
	for i, item := range shared {
		x[i] = ra[item]
		y[i] = rb[item]
	}
	return x, y, nil
}

// Distance returns a Euclidean distance based similarity in (0, 1].
// 1 means the shared ratings are identical; 0 means nothing is shared.
func Distance(t prefs.Table, a, b prefs.SubjectID) (float64, error) {
	x, y, err := sharedVectors(t, a, b)
	if err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, nil
	}

	return 1 / (1 + floats.Distance(x, y, 2)), nil
}

// Pearson returns the Pearson correlation coefficient of the shared ratings
// of a and b, in [-1, 1].
//
// 0 is returned both when nothing is shared and when either subject rated
// every shared item the same; check prefs.SharedItems to tell them apart.
func Pearson(t prefs.Table, a, b prefs.SubjectID) (float64, error) {
	x, y, err := sharedVectors(t, a, b)
	if err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, nil
	}

	// Constant ratings have zero variance. Decide that here: the one-pass
	// sums below leave a rounding residue for values like 0.7.
	if floats.Max(x) == floats.Min(x) || floats.Max(y) == floats.Min(y) {
		return 0, nil
	}

	n := float64(len(x))

	sum1 := floats.Sum(x)
	sum2 := floats.Sum(y)

	sumSq1 := floats.Dot(x, x)
	sumSq2 := floats.Dot(y, y)

	sumProd := floats.Dot(x, y)

	num := sumProd - (sum1 * sum2 / n)
	den := math.Sqrt((sumSq1 - sum1*sum1/n) * (sumSq2 - sum2*sum2/n))

	if den == 0 || math.IsNaN(den) {
		return 0, nil
	}

	r := num / den

	// the one-pass formula can drift a few ulps past the bounds
	return math.Max(-1, math.Min(1, r)), nil
}
