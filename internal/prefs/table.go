package prefs

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrInvalidRating   = errors.New("invalid rating")
)

// SubjectID identifies one row of a preference table (a user, a critic).
type SubjectID string

// ItemID identifies a rated entity (a movie, a product).
type ItemID string

// Ratings maps the items a subject has rated to the rating given.
type Ratings map[ItemID]float64

// Table maps subjects to their ratings.
// A Table must not be mutated once it is handed to the similarity functions.
type Table map[SubjectID]Ratings

// Ratings returns the ratings of a subject.
// A subject that is missing from the table is an error; a subject that is
// present with no ratings returns an empty map and no error.
func (t Table) Ratings(s SubjectID) (Ratings, error) {
	r, ok := t[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSubjectNotFound, s)
	}
	if r == nil {
		return Ratings{}, nil
	}
	return r, nil
}

// Has reports whether the subject is a key of the table.
func (t Table) Has(s SubjectID) bool {
	_, ok := t[s]
	return ok
}

// Subjects returns all subject IDs in ascending order.
func (t Table) Subjects() []SubjectID {
	subjects := make([]SubjectID, 0, len(t))
	for s := range t {
		subjects = append(subjects, s)
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i] < subjects[j]
	})
	return subjects
}

// Validate rejects ratings that cannot be compared (NaN and infinities).
func (t Table) Validate() error {
	for _, s := range t.Subjects() {
		for item, v := range t[s] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %q rated %q as %v", ErrInvalidRating, s, item, v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for s, r := range t {
		cp := make(Ratings, len(r))
		for item, v := range r {
			cp[item] = v
		}
		out[s] = cp
	}
	return out
}
