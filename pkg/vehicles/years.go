package vehicles

import "slices"

// Years is an ordered set of model years, strictly increasing with no duplicates.
type Years []int

// Add inserts year in order. It reports false when the year was already present.
func (y *Years) Add(year int) bool {
	i, found := slices.BinarySearch(*y, year)
	if found {
		return false
	}
	*y = slices.Insert(*y, i, year)
	return true
}

// Contains reports whether year is in the set.
func (y Years) Contains(year int) bool {
	_, found := slices.BinarySearch(y, year)
	return found
}

// Valid reports whether the set is strictly increasing.
func (y Years) Valid() bool {
	for i := 1; i < len(y); i++ {
		if y[i] <= y[i-1] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy that is never nil.
func (y Years) Clone() Years {
	out := make(Years, len(y))
	copy(out, y)
	return out
}
