// Package pairstate implements the bijection between unordered deme
// pairs and the state indices of the structured-coalescent CTMC used
// by the ctmc and propagator packages.
//
// A pair state is an unordered pair of deme indices (i, j) with i <= j.
// One extra state, the "coalesced" absorbing state, is appended after
// all pair states.
package pairstate

// Index returns the state index of the unordered deme pair (i, j) for a
// graph of d demes. The pair is swapped internally if i > j.
//
// The formula follows the row-major enumeration of the upper triangle
// of a d x d matrix:
//
//	index(i, j) = i*(2d + 1 - i)/2 + (j - i)   for i <= j
func Index(i, j, d int) int {
	if i > j {
		i, j = j, i
	}
	return i*(2*d+1-i)/2 + (j - i)
}

// Coalesced returns the index of the absorbing "coalesced" state for a
// graph of d demes. It is always the last state.
func Coalesced(d int) int {
	return NumPairs(d)
}

// NumPairs returns the number of unordered deme pairs (i, j), i <= j,
// for a graph of d demes, i.e. d*(d+1)/2.
func NumPairs(d int) int {
	return d * (d + 1) / 2
}

// NumStates returns the total number of states in the pair-state CTMC
// for a graph of d demes: the unordered pairs plus the absorbing state.
func NumStates(d int) int {
	return NumPairs(d) + 1
}

// Pair returns the unordered deme pair (i, j), i <= j, associated with a
// pair-state index for a graph of d demes. It is the inverse of Index.
// Calling Pair with the coalesced index is a programming error and
// panics.
func Pair(index, d int) (i, j int) {
	if index < 0 || index >= NumPairs(d) {
		panic("pairstate: index out of range for Pair")
	}
	// Find the row i such that the row's first index <= index < next
	// row's first index. Row i starts at i*(2d+1-i)/2.
	for i := 0; i < d; i++ {
		start := i * (2*d + 1 - i) / 2
		end := start + (d - i)
		if index < end {
			return i, index - start + i
		}
	}
	panic("pairstate: unreachable")
}
