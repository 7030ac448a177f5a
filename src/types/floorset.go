package types

import "slices"

// FloorSet is a sorted set of unique floors. The zero value is empty and ready to use.
type FloorSet []int

// Add inserts floor and reports whether it was not already present.
func (fs *FloorSet) Add(floor int) bool {
	i, found := slices.BinarySearch(*fs, floor)
	if found {
		return false
	}
	*fs = slices.Insert(*fs, i, floor)
	return true
}

// Remove deletes floor and reports whether it was present.
func (fs *FloorSet) Remove(floor int) bool {
	i, found := slices.BinarySearch(*fs, floor)
	if !found {
		return false
	}
	*fs = slices.Delete(*fs, i, i+1)
	return true
}

func (fs FloorSet) Contains(floor int) bool {
	_, found := slices.BinarySearch(fs, floor)
	return found
}

func (fs FloorSet) Len() int { return len(fs) }

func (fs FloorSet) First() (int, bool) {
	if len(fs) == 0 {
		return 0, false
	}
	return fs[0], true
}

func (fs FloorSet) Last() (int, bool) {
	if len(fs) == 0 {
		return 0, false
	}
	return fs[len(fs)-1], true
}

// Ceiling returns the smallest floor >= floor.
func (fs FloorSet) Ceiling(floor int) (int, bool) {
	i, _ := slices.BinarySearch(fs, floor)
	if i == len(fs) {
		return 0, false
	}
	return fs[i], true
}

// FloorOf returns the largest floor <= floor.
func (fs FloorSet) FloorOf(floor int) (int, bool) {
	i, found := slices.BinarySearch(fs, floor)
	if found {
		return fs[i], true
	}
	if i == 0 {
		return 0, false
	}
	return fs[i-1], true
}

// Slice returns a sorted copy, never nil.
func (fs FloorSet) Slice() []int {
	out := make([]int, len(fs))
	copy(out, fs)
	return out
}
