package pdfsrc

import (
	"strings"

	"github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/text"

	"github.com/jackzampolin/lexsplit/internal/types"
)

// Region is a rectangular crop of a page. It offers two independent views
// of the same fragments: Text is the source of truth for emitted content,
// Words carries font attributes for classification only.
type Region struct {
	Box types.Box

	fragments  []Fragment
	pageWidth  float64
	pageHeight float64
}

// Empty reports whether no text falls inside the region.
func (r *Region) Empty() bool {
	return len(r.fragments) == 0
}

// Text assembles the region's fragments into newline-joined lines in
// top-to-bottom, left-to-right reading order. An empty region yields "".
func (r *Region) Text() string {
	if r.Empty() {
		return ""
	}

	// The line detector works in PDF space (y grows upward).
	frags := make([]text.TextFragment, 0, len(r.fragments))
	for _, f := range r.fragments {
		frags = append(frags, text.TextFragment{
			Text:      f.Text,
			X:         f.X0,
			Y:         r.pageHeight - f.Bottom(),
			Width:     f.Width,
			Height:    f.Height,
			FontName:  f.FontName,
			FontSize:  f.Size,
			Direction: text.DetectDirection(f.Text),
		})
	}

	detected := layout.NewLineDetector().Detect(frags, r.pageWidth, r.pageHeight)
	lines := make([]string, 0, len(detected.Lines))
	for _, line := range detected.Lines {
		lines = append(lines, line.Text)
	}
	return strings.Join(lines, "\n")
}

// Words returns the region's words with font name and size.
func (r *Region) Words() []Word {
	var words []Word
	for _, f := range r.fragments {
		words = append(words, splitWords(f)...)
	}
	return words
}
