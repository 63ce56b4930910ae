package classify

import (
	"math"
	"sort"
	"strings"

	"github.com/jackzampolin/lexsplit/internal/pdfsrc"
)

// WordLine is a line rebuilt from positioned words, carrying the font
// metadata the plain-text pass lacks.
type WordLine struct {
	Text string  `json:"text"`
	Top  float64 `json:"top"`
	Bold bool    `json:"bold"`
	Size float64 `json:"size"`
}

// GroupWords sorts words into reading order and groups those whose tops
// lie within yTol of the current line's first word.
func GroupWords(words []pdfsrc.Word, yTol float64) []WordLine {
	if len(words) == 0 {
		return nil
	}
	ws := make([]pdfsrc.Word, len(words))
	copy(ws, words)
	band := func(top float64) float64 { return math.RoundToEven(top/2) * 2 }
	sort.SliceStable(ws, func(i, j int) bool {
		bi, bj := band(ws[i].Top), band(ws[j].Top)
		if bi != bj {
			return bi < bj
		}
		return ws[i].X0 < ws[j].X0
	})

	var out []WordLine
	start := 0
	for i := 1; i <= len(ws); i++ {
		if i < len(ws) && math.Abs(ws[i].Top-ws[start].Top) <= yTol {
			continue
		}
		out = append(out, buildLine(ws[start:i]))
		start = i
	}
	return out
}

func buildLine(ws []pdfsrc.Word) WordLine {
	parts := make([]string, 0, len(ws))
	bold := false
	var sum float64
	var sized int
	for _, w := range ws {
		parts = append(parts, w.Text)
		if isBoldFont(w.FontName) {
			bold = true
		}
		if w.Size > 0 {
			sum += w.Size
			sized++
		}
	}
	size := DefaultFont.Size
	if sized > 0 {
		size = math.Round(sum/float64(sized)*10) / 10
	}
	return WordLine{
		Text: strings.Join(parts, " "),
		Top:  ws[0].Top,
		Bold: bold,
		Size: size,
	}
}

// isBoldFont treats bold-italic faces as not bold; in the reference
// material they mark inline emphasis rather than headings.
func isBoldFont(name string) bool {
	return strings.Contains(name, "Bold") && !strings.Contains(name, "Italic")
}

// FontMatcher attaches word-line metadata to a plain-text line.
type FontMatcher interface {
	Match(line string, lines []WordLine) (WordLine, bool)
}

// PrefixMatcher compares case-folded leading characters in either
// direction of containment. The first word line that matches wins.
type PrefixMatcher struct {
	PrefixLen int
}

// Match implements FontMatcher.
func (m PrefixMatcher) Match(line string, lines []WordLine) (WordLine, bool) {
	key := m.prefix(line)
	if key == "" {
		return WordLine{}, false
	}
	for _, wl := range lines {
		cand := m.prefix(wl.Text)
		if cand == "" {
			continue
		}
		if strings.Contains(cand, key) || strings.Contains(key, cand) {
			return wl, true
		}
	}
	return WordLine{}, false
}

func (m PrefixMatcher) prefix(s string) string {
	s = strings.ToLower(Normalize(s))
	n := m.PrefixLen
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
