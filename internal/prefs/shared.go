package prefs

import "sort"

// SharedItems returns the items rated by both a and b.
// The result is a set; it is sorted by item ID so that sums taken over it
// come out identical on every call.
func SharedItems(t Table, a, b SubjectID) ([]ItemID, error) {
	ra, err := t.Ratings(a)
	if err != nil {
		return nil, err
	}
	rb, err := t.Ratings(b)
	if err != nil {
		return nil, err
	}

	// walk the smaller map
	if len(rb) < len(ra) {
		ra, rb = rb, ra
	}

	shared := make([]ItemID, 0, len(ra))
	for item := range ra {
		if _, ok := rb[item]; ok {
			shared = append(shared, item)
		}
	}

	sort.Slice(shared, func(i, j int) bool {
		return shared[i] < shared[j]
	})
	return shared, nil
}
