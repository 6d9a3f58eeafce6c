// Package featurevec implements component C2: the sorted (value,
// example-index) representation of one feature column, plus the set of
// examples whose value for that feature is missing. Examples absent from
// both the pair list and the missing set are implicit sparse zeros.
//
// Sorting mirrors the teacher's position-list-index construction in
// calculate/calculate_pli.go (bucket by value, sort once, reuse for the
// lifetime of the run) and its use of golang.org/x/exp/slices for the sort.
package featurevec

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/exp/slices"
)

// Pair is one (value, example index) observation of a single feature.
type Pair struct {
	Value        float32
	ExampleIndex uint32
}

// Vector is the sorted-ascending-by-value list of non-zero, present
// observations for one feature, plus the set of examples missing that
// feature. The empty complement (examples in neither place) are sparse
// zeros.
type Vector struct {
	Pairs   []Pair
	Missing *roaring.Bitmap
}

// RawPair is the unsorted shape returned by an external FeatureMatrix's
// fetchFeatureVector, before Build sorts and dedups the missing set.
type RawPair = Pair

// Build sorts pairs ascending by value (ties form a contiguous run, per
// the feature-vector invariant in the data model) and wraps the missing
// index list in a roaring bitmap for O(1) membership tests.
func Build(pairs []RawPair, missing []uint32) *Vector {
	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	slices.SortFunc(sorted, func(a, b Pair) int {
		if a.Value != b.Value {
			if a.Value < b.Value {
				return -1
			}
			return 1
		}
		switch {
		case a.ExampleIndex < b.ExampleIndex:
			return -1
		case a.ExampleIndex > b.ExampleIndex:
			return 1
		default:
			return 0
		}
	})

	mb := roaring.New()
	for _, m := range missing {
		mb.Add(m)
	}
	return &Vector{Pairs: sorted, Missing: mb}
}

// IsMissing reports whether example i has no value for this feature.
func (v *Vector) IsMissing(i uint32) bool {
	return v.Missing.Contains(i)
}

// IsSorted reports whether Pairs forms a non-decreasing sequence by value,
// used by tests to check the sortedness invariant (testable property 8).
func (v *Vector) IsSorted() bool {
	return sort.SliceIsSorted(v.Pairs, func(i, j int) bool {
		return v.Pairs[i].Value < v.Pairs[j].Value
	})
}

// FirstNegativeIndex returns the index of the first pair with Value >= 0,
// i.e. len(Pairs) if every pair is negative, and 0 if none are. Used by the
// exact refinement search (C8) to split phase A (negatives) from phase B
// (non-negative suffix).
func (v *Vector) FirstNegativeIndex() int {
	return sort.Search(len(v.Pairs), func(i int) bool { return v.Pairs[i].Value >= 0 })
}

// MissingSlice returns the sorted missing example indices, used by the
// exact search's setup phase to call addToMissing for each one.
func (v *Vector) MissingSlice() []uint32 {
	out := make([]uint32, 0, v.Missing.GetCardinality())
	it := v.Missing.Iterator()
	for it.HasNext() {
		out = append(out, it.Next())
	}
	return out
}

// FilterByPredicate returns a new Vector retaining only pairs whose example
// index satisfies keep, and only missing indices satisfying keep. Order is
// preserved (and therefore stays sorted, since filtering a sorted sequence
// keeps it sorted).
func (v *Vector) FilterByPredicate(keep func(exampleIndex uint32) bool) *Vector {
	out := &Vector{Pairs: make([]Pair, 0, len(v.Pairs)), Missing: roaring.New()}
	for _, p := range v.Pairs {
		if keep(p.ExampleIndex) {
			out.Pairs = append(out.Pairs, p)
		}
	}
	it := v.Missing.Iterator()
	for it.HasNext() {
		i := it.Next()
		if keep(i) {
			out.Missing.Add(i)
		}
	}
	return out
}
