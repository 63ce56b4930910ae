package pdfsrc

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/ledongthuc/pdf"
)

// ledongthucDocument reads pages with github.com/ledongthuc/pdf. The library
// reports one text item per glyph and only rectangles among drawing
// operations, so glyphs are merged into runs and hairline rectangles stand
// in for rule lines.
type ledongthucDocument struct {
	f      *os.File
	r      *pdf.Reader
	opts   Options
	logger *slog.Logger
}

func openLedongthuc(path string, opts Options) (*ledongthucDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &ledongthucDocument{f: f, r: r, opts: opts, logger: opts.Logger}, nil
}

func (d *ledongthucDocument) PageCount() (int, error) {
	return d.r.NumPage(), nil
}

func (d *ledongthucDocument) Close() error {
	return d.f.Close()
}

func (d *ledongthucDocument) Page(num int) (page *Page, err error) {
	if num < 1 || num > d.r.NumPage() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, num, d.r.NumPage())
	}
	p := d.r.Page(num)
	if p.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d not found", ErrPageOutOfRange, num)
	}

	// The content interpreter panics on malformed streams.
	defer func() {
		if rec := recover(); rec != nil {
			page = nil
			err = fmt.Errorf("failed to interpret page %d: %v", num, rec)
		}
	}()

	mb := mediaBox(p)
	if mb.Len() < 4 {
		return nil, fmt.Errorf("failed to read media box of page %d", num)
	}
	originX, originY := mb.Index(0).Float64(), mb.Index(1).Float64()
	width := mb.Index(2).Float64() - originX
	height := mb.Index(3).Float64() - originY

	page = &Page{Number: num, Width: width, Height: height}
	content := p.Content()

	for _, run := range mergeGlyphs(content.Text) {
		baseline := height - (run.Y - originY)
		page.Fragments = append(page.Fragments, Fragment{
			Text:     run.S,
			X0:       run.X - originX,
			Top:      baseline - run.FontSize,
			Width:    run.W,
			Height:   run.FontSize,
			FontName: run.Font,
			Size:     run.FontSize,
		})
	}

	if d.opts.RulesFromRects {
		for _, rect := range content.Rect {
			left := rect.Min.X - originX
			right := rect.Max.X - originX
			top := height - (rect.Max.Y - originY)
			bottom := height - (rect.Min.Y - originY)
			if seg, ok := hairline(left, top, right, bottom, d.opts.HairlineWidth); ok {
				page.Segments = append(page.Segments, seg)
			}
		}
	}
	return page, nil
}

// mediaBox returns the page's MediaBox, inherited from the nearest
// ancestor in the page tree when the page does not set one. The result is
// a null value when no node defines it.
func mediaBox(p pdf.Page) pdf.Value {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		if mb := v.Key("MediaBox"); !mb.IsNull() {
			return mb
		}
	}
	return pdf.Value{}
}

// mergeGlyphs joins consecutive glyphs drawn on the same baseline with the
// same font into runs.
func mergeGlyphs(glyphs []pdf.Text) []pdf.Text {
	var runs []pdf.Text
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			gap := g.X - (last.X + last.W)
			sameLine := math.Abs(g.Y-last.Y) < 0.5
			if sameLine && last.Font == g.Font && last.FontSize == g.FontSize &&
				gap >= -0.5 && gap <= g.FontSize*0.1 {
				last.S += g.S
				last.W = g.X + g.W - last.X
				continue
			}
		}
		runs = append(runs, g)
	}
	return runs
}
