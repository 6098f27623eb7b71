package glotmark

// FragmentDiff is the difference between the fragment sets of two document
// versions. Useful for auditing what an edit will cost before re-annotating.
type FragmentDiff struct {
	// Added contains fragments new in the current version.
	Added []CommentFragment
	// Removed contains fragments that disappeared.
	Removed []CommentFragment
	// Unchanged contains fragments present in both versions.
	Unchanged []CommentFragment
	// Modified pairs an added and a removed fragment anchored to the same
	// line; a heuristic for in-place comment edits.
	Modified []ModifiedFragment
}

// ModifiedFragment is a fragment whose text changed in place.
type ModifiedFragment struct {
	Old CommentFragment
	New CommentFragment
}

// DiffStats summarizes a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary counts for the diff.
func (d *FragmentDiff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges reports whether anything needs attention.
func (d *FragmentDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the fragments an incremental pass would fetch:
// new ones plus the new side of modifications.
func (d *FragmentDiff) NeedsTranslation() []CommentFragment {
	out := make([]CommentFragment, 0, len(d.Added)+len(d.Modified))
	out = append(out, d.Added...)
	for _, m := range d.Modified {
		out = append(out, m.New)
	}
	return out
}

// DiffFragments compares two fragment sets by text identity, then pairs
// leftover added/removed fragments that share a start line as modifications.
func DiffFragments(old, current []CommentFragment) *FragmentDiff {
	oldByHash := make(map[string][]CommentFragment)
	for _, f := range old {
		h := HashText(f.Text)
		oldByHash[h] = append(oldByHash[h], f)
	}

	diff := &FragmentDiff{}
	var added []CommentFragment
	for _, f := range current {
		h := HashText(f.Text)
		if matches := oldByHash[h]; len(matches) > 0 {
			oldByHash[h] = matches[1:]
			diff.Unchanged = append(diff.Unchanged, f)
			continue
		}
		added = append(added, f)
	}

	var removed []CommentFragment
	for _, f := range old {
		h := HashText(f.Text)
		if leftover := oldByHash[h]; len(leftover) > 0 {
			oldByHash[h] = leftover[1:]
			removed = append(removed, f)
		}
	}

	// Pair same-line leftovers as modifications.
	removedByLine := make(map[int][]CommentFragment)
	for _, f := range removed {
		removedByLine[f.Range.StartLine] = append(removedByLine[f.Range.StartLine], f)
	}
	for _, f := range added {
		if candidates := removedByLine[f.Range.StartLine]; len(candidates) > 0 {
			diff.Modified = append(diff.Modified, ModifiedFragment{Old: candidates[0], New: f})
			removedByLine[f.Range.StartLine] = candidates[1:]
			continue
		}
		diff.Added = append(diff.Added, f)
	}
	for _, leftovers := range removedByLine {
		diff.Removed = append(diff.Removed, leftovers...)
	}

	return diff
}
