package pairstate

import "testing"

func TestIndexBijection(t *testing.T) {
	for _, d := range []int{1, 2, 3, 5, 10} {
		seen := make(map[int]bool)
		n := NumPairs(d)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				idx := Index(i, j, d)
				if idx < 0 || idx >= n {
					t.Fatalf("d=%d: Index(%d,%d) = %d out of range [0,%d)", d, i, j, idx, n)
				}
				if seen[idx] {
					t.Fatalf("d=%d: Index(%d,%d) = %d is not distinct", d, i, j, idx)
				}
				seen[idx] = true

				pi, pj := Pair(idx, d)
				if pi != i || pj != j {
					t.Fatalf("d=%d: Pair(Index(%d,%d)) = (%d,%d), want (%d,%d)", d, i, j, pi, pj, i, j)
				}
			}
		}
		if len(seen) != n {
			t.Fatalf("d=%d: expected %d distinct indices, got %d", d, n, len(seen))
		}
	}
}

func TestIndexSwap(t *testing.T) {
	if Index(3, 1, 5) != Index(1, 3, 5) {
		t.Fatalf("Index should be symmetric in its arguments")
	}
}

func TestCoalescedIsLast(t *testing.T) {
	for _, d := range []int{1, 2, 7} {
		if Coalesced(d) != NumStates(d)-1 {
			t.Fatalf("d=%d: Coalesced() = %d, want %d", d, Coalesced(d), NumStates(d)-1)
		}
	}
}
