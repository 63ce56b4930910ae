package segment

import (
	"github.com/jackzampolin/lexsplit/internal/classify"
	"github.com/jackzampolin/lexsplit/internal/stream"
	"github.com/jackzampolin/lexsplit/internal/types"
)

// lineKind is what the backward scan sees for one line.
type lineKind int

const (
	kindContent lineKind = iota
	kindEmpty
	kindTitle        // classified title-block type
	kindStructural   // classified, but not a title-block type
	kindContinuation // wrapped second line of an article title
	kindCandidate    // precedes an article header closely enough to be its title
	kindFootnote
)

// scanState is the backward scan state machine.
type scanState int

const (
	stateTitleBlock scanState = iota
	stateFootnoteSkip
	stateStop
)

// view is the per-line classification the resolver works from. It is
// computed once per stream.
type view struct {
	s     *stream.Stream
	kinds []lineKind
}

func newView(s *stream.Stream, lookahead int) *view {
	n := s.Len()
	v := &view{s: s, kinds: make([]lineKind, n)}

	footnote := make([]bool, n)
	for i := 0; i < n; i++ {
		footnote[i] = classify.IsFootnote(s.Line(i).Text)
	}

	candidate := make([]bool, n)
	for i := 0; i < n; i++ {
		l := s.Line(i)
		if l.Classified() || !classify.IsLikelyTitle(l.Text) {
			continue
		}
		for k := i + 1; k <= i+lookahead && k < n; k++ {
			if s.Line(k).Type != types.TypeArticulo {
				continue
			}
			for j := i; j < k; j++ {
				if s.Line(j).Text != "" && !footnote[j] {
					candidate[j] = true
				}
			}
			break
		}
	}

	for i := 0; i < n; i++ {
		l := s.Line(i)
		switch {
		case l.Type.IsTitleBlock():
			v.kinds[i] = kindTitle
		case l.Classified():
			v.kinds[i] = kindStructural
		case l.Text == "":
			v.kinds[i] = kindEmpty
		case footnote[i]:
			v.kinds[i] = kindFootnote
		case i > 0 && s.Line(i-1).Type == types.TypeArtTitle && !classify.IsArticleHeader(l.Text):
			v.kinds[i] = kindContinuation
		case candidate[i]:
			v.kinds[i] = kindCandidate
		default:
			v.kinds[i] = kindContent
		}
	}
	return v
}

// titleBlockStart scans backward from the line above header, never below
// floor, and returns the first line of header's title block. When nothing
// extends the block the header itself is the start.
func (v *view) titleBlockStart(header, floor int) int {
	start := header
	state := stateTitleBlock
	for j := header - 1; j >= floor && state != stateStop; j-- {
		kind := v.kinds[j]
		switch state {
		case stateTitleBlock:
			switch kind {
			case kindTitle, kindCandidate:
				start = j
			case kindContinuation:
				start = max(j-1, floor)
			case kindEmpty:
			case kindFootnote:
				state = stateFootnoteSkip
			default:
				state = stateStop
			}
		case stateFootnoteSkip:
			// A footnote run belongs to the article above; it never
			// becomes part of the next title block.
			if kind != kindFootnote && kind != kindEmpty {
				state = stateStop
			}
		}
	}
	return start
}

// annotate returns each line's effective type, adding the footnote and
// continuation roles the resolver infers.
func (v *view) annotate() []types.LineType {
	out := make([]types.LineType, len(v.kinds))
	for i, k := range v.kinds {
		switch k {
		case kindFootnote:
			out[i] = types.TypeFootnote
		case kindContinuation:
			out[i] = types.TypeContinuation
		default:
			out[i] = v.s.Line(i).Type
		}
	}
	return out
}
