package segment

import (
	"github.com/jackzampolin/lexsplit/internal/stream"
	"github.com/jackzampolin/lexsplit/internal/types"
)

// Book is a coarse range delimited by LIBRO headings. Books are derived
// from classification alone, independently of the article resolver, so
// they can serve as a cross-check reference.
type Book struct {
	// Ordinal is 0 for the preliminary matter before the first LIBRO
	// heading, otherwise the 1-based book position.
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
	Title   string `json:"title" yaml:"title"`
	Start   int    `json:"start" yaml:"start"`
	End     int    `json:"end" yaml:"end"`
}

// Books splits the stream at LIBRO headings. Lines before the first
// classified line are front matter and belong to no book. Classified lines
// before the first LIBRO heading form book 0.
func Books(s *stream.Stream) []Book {
	first := -1
	var heads []int
	for _, l := range s.Lines() {
		if !l.Classified() {
			continue
		}
		if first < 0 {
			first = l.Index
		}
		if l.Type == types.TypeLibro {
			heads = append(heads, l.Index)
		}
	}
	if first < 0 {
		return nil
	}

	var out []Book
	if len(heads) == 0 || first < heads[0] {
		end := s.Len()
		if len(heads) > 0 {
			end = heads[0]
		}
		out = append(out, Book{Ordinal: 0, Title: s.Line(first).Text, Start: first, End: end})
	}
	for i, h := range heads {
		end := s.Len()
		if i+1 < len(heads) {
			end = heads[i+1]
		}
		out = append(out, Book{Ordinal: i + 1, Title: s.Line(h).Text, Start: h, End: end})
	}
	return out
}
