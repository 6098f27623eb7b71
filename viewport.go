package glotmark

import "sort"

// lineDistance returns the distance in lines from a fragment's range to the
// nearest visible range. Zero means the fragment intersects or is contained
// in a visible range. With no visible ranges every fragment is equally far.
func lineDistance(r Range, visible []LineRange) int {
	best := -1
	for _, v := range visible {
		d := 0
		switch {
		case r.EndLine < v.StartLine:
			d = v.StartLine - r.EndLine
		case r.StartLine > v.EndLine:
			d = r.StartLine - v.EndLine
		}
		if best < 0 || d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// isVisible reports whether a fragment's range intersects any visible range.
func isVisible(r Range, visible []LineRange) bool {
	for _, v := range visible {
		if r.EndLine >= v.StartLine && r.StartLine <= v.EndLine {
			return true
		}
	}
	return false
}

// orderByProximity sorts fragments by ascending distance to the nearest
// visible range. The sort is stable so document order is preserved within
// each distance band.
func orderByProximity(fragments []CommentFragment, visible []LineRange) []CommentFragment {
	ordered := make([]CommentFragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return lineDistance(ordered[i].Range, visible) < lineDistance(ordered[j].Range, visible)
	})
	return ordered
}
