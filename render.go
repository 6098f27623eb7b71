package glotmark

// FormatDecoration renders a translated text for the given mode.
// Inline decorations get a small arrow prefix; highlighted decorations are
// bracket-wrapped for prominence. ModeOff yields an empty string.
func FormatDecoration(mode DecorationMode, translated string) string {
	switch mode {
	case ModeInline:
		return "→ " + translated
	case ModeHighlighted:
		return "[ " + translated + " ]"
	default:
		return ""
	}
}

// NextMode returns the successor in the cycle off → inline → highlighted → off.
func NextMode(mode DecorationMode) DecorationMode {
	switch mode {
	case ModeOff:
		return ModeInline
	case ModeInline:
		return ModeHighlighted
	default:
		return ModeOff
	}
}

// makeDecoration builds the render instruction for one translated fragment.
func makeDecoration(frag CommentFragment, translated string, mode DecorationMode, hover bool) DecorationOption {
	d := DecorationOption{
		Range: frag.Range,
		Text:  FormatDecoration(mode, translated),
	}
	if hover {
		d.HoverText = frag.Text
	}
	return d
}
