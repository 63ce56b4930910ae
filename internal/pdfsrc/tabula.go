package pdfsrc

import (
	"fmt"
	"log/slog"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
)

// tabulaDocument reads pages with tabula's content-stream interpreter.
type tabulaDocument struct {
	r      *reader.Reader
	opts   Options
	logger *slog.Logger
}

func openTabula(path string, opts Options) (*tabulaDocument, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &tabulaDocument{r: r, opts: opts, logger: opts.Logger}, nil
}

func (d *tabulaDocument) PageCount() (int, error) {
	return d.r.PageCount()
}

func (d *tabulaDocument) Close() error {
	return d.r.Close()
}

func (d *tabulaDocument) Page(num int) (*Page, error) {
	count, err := d.r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	if num < 1 || num > count {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, num, count)
	}

	pg, err := d.r.GetPage(num - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", num, err)
	}

	box, err := pg.MediaBox()
	if err != nil || len(box) < 4 {
		return nil, fmt.Errorf("failed to read media box of page %d: %v", num, err)
	}
	originX, originY := box[0], box[1]
	width, height := box[2]-box[0], box[3]-box[1]

	page := &Page{Number: num, Width: width, Height: height}

	frags, err := d.r.ExtractTextFragments(pg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text of page %d: %w", num, err)
	}
	for _, f := range frags {
		if f.Text == "" {
			continue
		}
		x := f.X - originX
		baseline := height - (f.Y - originY)
		page.Fragments = append(page.Fragments, Fragment{
			Text:     f.Text,
			X0:       x,
			Top:      baseline - f.Height,
			Width:    f.Width,
			Height:   f.Height,
			FontName: f.FontName,
			Size:     f.FontSize,
		})
	}

	data, err := contentBytes(pg)
	if err != nil {
		// Rules only steer the layout; fallbacks cover their absence.
		d.logger.Debug("no drawing operations", "page", num, "error", err)
		return page, nil
	}
	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(data); err != nil {
		d.logger.Debug("failed to interpret drawing operations", "page", num, "error", err)
		return page, nil
	}

	flip := func(x, y float64) (float64, float64) {
		return x - originX, height - (y - originY)
	}
	for _, l := range ge.GetLines() {
		x0, y0 := flip(l.Start.X, l.Start.Y)
		x1, y1 := flip(l.End.X, l.End.Y)
		page.Segments = append(page.Segments, Segment{X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	if d.opts.RulesFromRects {
		for _, rect := range ge.GetRectangles() {
			b := rect.BBox
			x0, top := flip(b.X, b.Y+b.Height)
			x1, bottom := flip(b.X+b.Width, b.Y)
			if seg, ok := hairline(x0, top, x1, bottom, d.opts.HairlineWidth); ok {
				page.Segments = append(page.Segments, seg)
			}
		}
	}

	return page, nil
}

// contentBytes decodes and concatenates a page's content streams.
func contentBytes(pg *pages.Page) ([]byte, error) {
	contents, err := pg.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}
	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("page has no content")
	}
	return data, nil
}

// hairline turns a thin rectangle into the segment running along its long axis.
func hairline(left, top, right, bottom, maxThickness float64) (Segment, bool) {
	w, h := right-left, bottom-top
	switch {
	case h < maxThickness && w >= maxThickness:
		y := top + h/2
		return Segment{X0: left, Y0: y, X1: right, Y1: y}, true
	case w < maxThickness && h >= maxThickness:
		x := left + w/2
		return Segment{X0: x, Y0: top, X1: x, Y1: bottom}, true
	}
	return Segment{}, false
}
