package detection

import "math"

// lengthTolerance is the slack used when comparing segment lengths for the
// tie-break: lengths within this distance count as equal.
const lengthTolerance = 1e-9

// SelectHorizontal picks the reference line for deskewing from a candidate
// list. Segments whose absolute angle exceeds toleranceDeg are not
// candidates; among the rest the longest wins, and segments of equal
// length go to the one with the smallest absolute angle.
//
// The boolean result is false when no segment survives the window filter.
// That is a normal outcome: the caller leaves the image unrotated and
// reports that no line was found.
func SelectHorizontal(segments []Segment, toleranceDeg float64) (Segment, bool) {
	var best Segment
	found := false
	for _, seg := range segments {
		if math.Abs(seg.Angle) > toleranceDeg {
			continue
		}
		if !found || better(seg, best) {
			best = seg
			found = true
		}
	}
	return best, found
}

// SelectLongest picks the longest segment regardless of orientation, with
// the same smallest-angle tie-break. Used by the opt-in fallback when no
// near-horizontal candidate exists.
func SelectLongest(segments []Segment) (Segment, bool) {
	var best Segment
	found := false
	for _, seg := range segments {
		if !found || better(seg, best) {
			best = seg
			found = true
		}
	}
	return best, found
}

func better(candidate, current Segment) bool {
	if candidate.Length > current.Length+lengthTolerance {
		return true
	}
	if math.Abs(candidate.Length-current.Length) <= lengthTolerance {
		return math.Abs(candidate.Angle) < math.Abs(current.Angle)
	}
	return false
}
