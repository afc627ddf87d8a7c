package stub

import "sort"

// Pair is an ordered pair of distinct stubs judged to be two observations
// of the same trajectory. First is the redundant member.
type Pair struct {
	First  *Stub
	Second *Stub
}

// SameLayerDifferentModule reports whether the pair satisfies the pair
// invariant: same layer, same barrel/endcap region, different modules.
func (p Pair) SameLayerDifferentModule() bool {
	return p.First.LayerID == p.Second.LayerID &&
		p.First.Barrel == p.Second.Barrel &&
		p.First.ModuleID != p.Second.ModuleID
}

// Depair returns the distinct stubs appearing in any pair, ordered by Index.
func Depair(pairs []Pair) []*Stub {
	seen := make(map[*Stub]struct{}, 2*len(pairs))
	var out []*Stub
	for _, p := range pairs {
		for _, s := range [2]*Stub{p.First, p.Second} {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Without returns the stubs of all not contained in drop, in input order.
func Without(all []*Stub, drop map[*Stub]struct{}) []*Stub {
	out := make([]*Stub, 0, len(all))
	for _, s := range all {
		if _, ok := drop[s]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
