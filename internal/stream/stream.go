// Package stream holds the structural line stream: every extracted line of
// the document in global reading order, with its page and classified type.
package stream

import (
	"strings"

	"github.com/jackzampolin/lexsplit/internal/types"
)

// Line is one record of the stream. Index is its zero-based global position.
type Line struct {
	Index int
	Page  int
	Text  string
	Type  types.LineType
}

// Classified reports whether the line carries a structural type.
func (l Line) Classified() bool { return l.Type != types.TypeUnclassified }

// Header is the persisted metadata entry for one classified line.
type Header struct {
	Line int    `json:"line"`
	Type string `json:"type"`
	Text string `json:"text"`
	Page int    `json:"page"`
}

// Summary counts the classified lines of a stream.
type Summary struct {
	TotalLines int            `json:"total_lines" yaml:"total_lines"`
	Headers    int            `json:"headers" yaml:"headers"`
	ByType     map[string]int `json:"by_type" yaml:"by_type"`
}

// Metadata is the persisted structural metadata document.
type Metadata struct {
	Headers []Header `json:"headers"`
	Summary Summary  `json:"summary"`
}

// Stream is an immutable, indexed sequence of lines. Nothing outside this
// package can change a line once the stream is built.
type Stream struct {
	lines []Line
}

// New builds a stream from line texts, pages and types. Indexes are
// reassigned so they always equal the slice position.
func New(lines []Line) *Stream {
	out := make([]Line, len(lines))
	for i, l := range lines {
		l.Index = i
		l.Text = strings.TrimSpace(l.Text)
		out[i] = l
	}
	return &Stream{lines: out}
}

// FromArtifacts rebuilds a stream from the persisted text lines and
// metadata entries. Entries pointing outside the text are ignored. Lines
// with no entry inherit the page of the nearest preceding entry.
func FromArtifacts(texts []string, headers []Header) *Stream {
	byLine := make(map[int]Header, len(headers))
	for _, h := range headers {
		if h.Line < 0 || h.Line >= len(texts) {
			continue
		}
		byLine[h.Line] = h
	}
	lines := make([]Line, len(texts))
	page := 0
	for i, t := range texts {
		l := Line{Index: i, Text: strings.TrimSpace(t)}
		if h, ok := byLine[i]; ok {
			l.Type = types.ParseLineType(h.Type)
			if h.Page > 0 {
				page = h.Page
			}
		}
		l.Page = page
		lines[i] = l
	}
	return &Stream{lines: lines}
}

// Len returns the number of lines.
func (s *Stream) Len() int { return len(s.lines) }

// Line returns the line at index i.
func (s *Stream) Line(i int) Line { return s.lines[i] }

// Lines returns a copy of all lines.
func (s *Stream) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Texts returns the text of every line in order.
func (s *Stream) Texts() []string {
	out := make([]string, len(s.lines))
	for i, l := range s.lines {
		out[i] = l.Text
	}
	return out
}

// Join returns lines [start, end) joined by newlines and trimmed.
func (s *Stream) Join(start, end int) string {
	start = max(start, 0)
	end = min(end, len(s.lines))
	if start >= end {
		return ""
	}
	parts := make([]string, 0, end-start)
	for _, l := range s.lines[start:end] {
		parts = append(parts, l.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// OfType returns the lines classified as t, in order.
func (s *Stream) OfType(t types.LineType) []Line {
	var out []Line
	for _, l := range s.lines {
		if l.Type == t {
			out = append(out, l)
		}
	}
	return out
}

// Metadata returns the header entries and summary for the stream.
func (s *Stream) Metadata() Metadata {
	md := Metadata{
		Headers: []Header{},
		Summary: Summary{TotalLines: len(s.lines), ByType: map[string]int{}},
	}
	for _, l := range s.lines {
		if !l.Classified() {
			continue
		}
		md.Headers = append(md.Headers, Header{Line: l.Index, Type: string(l.Type), Text: l.Text, Page: l.Page})
		md.Summary.ByType[string(l.Type)]++
	}
	md.Summary.Headers = len(md.Headers)
	return md
}
