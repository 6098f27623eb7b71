package glotmark

import "testing"

func TestLineDistance(t *testing.T) {
	visible := []LineRange{{StartLine: 10, EndLine: 20}}

	tests := []struct {
		name string
		r    Range
		want int
	}{
		{"inside", Range{StartLine: 15, EndLine: 15}, 0},
		{"overlaps start", Range{StartLine: 8, EndLine: 12}, 0},
		{"overlaps end", Range{StartLine: 19, EndLine: 22}, 0},
		{"above", Range{StartLine: 4, EndLine: 5}, 5},
		{"below", Range{StartLine: 25, EndLine: 25}, 5},
		{"adjacent above", Range{StartLine: 9, EndLine: 9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineDistance(tt.r, visible); got != tt.want {
				t.Errorf("lineDistance = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLineDistance_MultipleRanges(t *testing.T) {
	visible := []LineRange{{StartLine: 0, EndLine: 5}, {StartLine: 100, EndLine: 110}}

	if got := lineDistance(Range{StartLine: 95, EndLine: 95}, visible); got != 5 {
		t.Errorf("Expected distance to the nearest range, got %d", got)
	}
}

func TestLineDistance_NoVisibleRanges(t *testing.T) {
	if got := lineDistance(Range{StartLine: 50, EndLine: 50}, nil); got != 0 {
		t.Errorf("With no viewport every fragment is equally near, got %d", got)
	}
}

func TestIsVisible(t *testing.T) {
	visible := []LineRange{{StartLine: 10, EndLine: 20}}

	if !isVisible(Range{StartLine: 10, EndLine: 10}, visible) {
		t.Error("Range at viewport start should be visible")
	}
	if isVisible(Range{StartLine: 21, EndLine: 30}, visible) {
		t.Error("Range past viewport end should not be visible")
	}
	if isVisible(Range{StartLine: 5, EndLine: 5}, nil) {
		t.Error("Nothing is visible without a viewport")
	}
}

func TestOrderByProximity(t *testing.T) {
	frags := []CommentFragment{
		fragAt(0, "far"),
		fragAt(9, "near"),
		fragAt(10, "visible-a"),
		fragAt(12, "visible-b"),
	}
	visible := []LineRange{{StartLine: 10, EndLine: 20}}

	ordered := orderByProximity(frags, visible)

	want := []string{"visible-a", "visible-b", "near", "far"}
	for i, text := range want {
		if ordered[i].Text != text {
			t.Fatalf("Order mismatch at %d: got %v", i, texts(ordered))
		}
	}

	// Input must not be reordered in place.
	if frags[0].Text != "far" {
		t.Error("orderByProximity should not mutate its input")
	}
}

func TestOrderByProximity_StableWithinBand(t *testing.T) {
	frags := []CommentFragment{
		fragAt(11, "first"),
		fragAt(13, "second"),
		fragAt(15, "third"),
	}
	visible := []LineRange{{StartLine: 10, EndLine: 20}}

	ordered := orderByProximity(frags, visible)
	for i, text := range []string{"first", "second", "third"} {
		if ordered[i].Text != text {
			t.Fatalf("Document order should be preserved within a distance band, got %v", texts(ordered))
		}
	}
}

func texts(frags []CommentFragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}
