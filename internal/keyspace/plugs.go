package keyspace

import "enigma/internal/machine"

// CandidatePairs returns the first n unordered cables in lexical order:
// AB, AC, ... AZ, BC, ... YZ. There are 325 in total.
func CandidatePairs(n int) []machine.Pair {
	var out []machine.Pair
	for a := 0; a < machine.Letters && len(out) < n; a++ {
		for b := a + 1; b < machine.Letters && len(out) < n; b++ {
			out = append(out, machine.Pair{A: a, B: b})
		}
	}
	return out
}

// PlugSubsets returns every subset of pairs in bitmask order, starting with
// the empty plugboard. Subsets that would put two cables on one letter are
// skipped. pairs must hold at most MaxPlugCandidates entries.
func PlugSubsets(pairs []machine.Pair) [][]machine.Pair {
	if len(pairs) > MaxPlugCandidates {
		panic("keyspace: too many plugboard candidates")
	}
	out := make([][]machine.Pair, 0, 1<<len(pairs))
	for mask := uint32(0); mask < 1<<len(pairs); mask++ {
		var used [machine.Letters]bool
		var subset []machine.Pair
		ok := true
		for j, p := range pairs {
			if mask&(1<<j) == 0 {
				continue
			}
			if used[p.A] || used[p.B] {
				ok = false
				break
			}
			used[p.A], used[p.B] = true, true
			subset = append(subset, p)
		}
		if ok {
			out = append(out, subset)
		}
	}
	return out
}
