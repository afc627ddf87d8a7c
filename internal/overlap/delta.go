package overlap

import (
	"math"

	"github.com/banshee-data/l1track/internal/stub"
)

// DeltaPairs finds stubs produced by secondary ionisation (delta rays):
// stubs on the same module whose local-u centres are closer than eps.
// Every ordered combination is reported, so a close pair {a, b} yields
// both {a, b} and {b, a} and both stubs end up redundant. Pairs are
// ordered by the redundant stub's input position, then by its partner's.
func DeltaPairs(stubs []*stub.Stub, eps float64) []stub.Pair {
	byModule := make(map[int][]*stub.Stub)
	for _, s := range stubs {
		byModule[s.ModuleID] = append(byModule[s.ModuleID], s)
	}

	var pairs []stub.Pair
	for _, killed := range stubs {
		uKilled, _ := killed.LocalCentre()
		for _, other := range byModule[killed.ModuleID] {
			if other == killed {
				continue
			}
			uOther, _ := other.LocalCentre()
			if math.Abs(uKilled-uOther) < eps {
				pairs = append(pairs, stub.Pair{First: killed, Second: other})
			}
		}
	}
	return pairs
}

// DeltaKiller returns stubs with every member of a delta-ray cluster
// removed, in input order.
func DeltaKiller(stubs []*stub.Stub, eps float64) []*stub.Stub {
	redundant := make(map[*stub.Stub]struct{})
	for _, p := range DeltaPairs(stubs, eps) {
		redundant[p.First] = struct{}{}
	}
	return stub.Without(stubs, redundant)
}
