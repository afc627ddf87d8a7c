package digitize

import "math"

// Module types, indexed by type id.
var moduleTypes = []struct {
	pitch, separation float64
	barrel            bool
}{
	{0.01, 0.26, true},
	{0.01, 0.16, true},
	{0.01, 0.4, false},
	{0.009, 0.18, true},
	{0.009, 0.18, false},
	{0.009, 0.4, false},
}

const moduleTypeTolerance = 0.001

// moduleTypeOf returns the last module type matching pitch and
// separation within tolerance and the barrel flag.
func moduleTypeOf(pitch, separation float64, barrel bool) (int, bool) {
	found := -1
	for i, mt := range moduleTypes {
		if math.Abs(pitch-mt.pitch) < moduleTypeTolerance &&
			math.Abs(separation-mt.separation) < moduleTypeTolerance &&
			barrel == mt.barrel {
			found = i
		}
	}
	return found, found >= 0
}

// layerCode encodes the tracker layer as sent on the optical link.
// Reduced IDs fit in 3 bits. Otherwise barrel layers become 0-5 and
// endcap disks 6-10, without distinguishing the two endcaps.
func layerCode(reduced bool, layerID, layerIDReduced int) int {
	if reduced {
		return layerIDReduced
	}
	code := layerID - 1
	switch code {
	case 10, 20:
		return 6
	case 11, 21:
		return 7
	case 12, 22:
		return 8
	case 13, 23:
		return 9
	case 14, 24:
		return 10
	}
	return code
}
