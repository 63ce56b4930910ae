package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/lexsplit/internal/classify"
	"github.com/jackzampolin/lexsplit/internal/layout"
	"github.com/jackzampolin/lexsplit/internal/pdfsrc"
	"github.com/jackzampolin/lexsplit/internal/types"
)

var (
	// ErrNoPages is returned when the document has no pages.
	ErrNoPages = errors.New("document has no pages")

	// ErrStartPageOutOfRange is returned when the start page is past the last page.
	ErrStartPageOutOfRange = errors.New("start page out of range")
)

// DefaultStartPage skips the front matter of the reference code.
const DefaultStartPage = 8

// BuildOptions controls stream construction.
type BuildOptions struct {
	// StartPage is the first page to read, 1-based. Zero means DefaultStartPage.
	StartPage int
	// EndPage is the last page to read, inclusive. Zero means the last page.
	EndPage int

	Layout   layout.Config
	Classify classify.Config

	Logger *slog.Logger
}

// PageWarning records a page that could not be read.
type PageWarning struct {
	Page  int    `json:"page" yaml:"page"`
	Error string `json:"error" yaml:"error"`
}

// BuildResult is the outcome of Build.
type BuildResult struct {
	Stream    *Stream
	FirstPage int
	LastPage  int
	Warnings  []PageWarning
}

// Build reads pages in order and produces the global line stream. Within a
// page the left column is read before the right one. A page that fails to
// load is recorded as a warning and skipped.
func Build(ctx context.Context, doc pdfsrc.Document, opts BuildOptions) (*BuildResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	yTol := opts.Classify.WordYTolerance
	if yTol <= 0 {
		yTol = classify.DefaultConfig().WordYTolerance
	}

	count, err := doc.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	if count == 0 {
		return nil, ErrNoPages
	}

	first := opts.StartPage
	if first <= 0 {
		first = DefaultStartPage
	}
	if first > count {
		return nil, fmt.Errorf("%w: start page %d, document has %d pages", ErrStartPageOutOfRange, first, count)
	}
	last := opts.EndPage
	if last <= 0 || last > count {
		last = count
	}

	seg := layout.NewSegmenter(opts.Layout)
	cls := classify.New(opts.Classify)

	res := &BuildResult{FirstPage: first, LastPage: last}
	var lines []Line
	for num := first; num <= last; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := doc.Page(num)
		if err != nil {
			logger.Warn("skipping page", "page", num, "error", err)
			res.Warnings = append(res.Warnings, PageWarning{Page: num, Error: err.Error()})
			continue
		}

		bounds := seg.Detect(page.Segments, page.Width, page.Height)
		if bounds.SeparatorFallback || bounds.TopFallback || bounds.BottomFallback {
			logger.Debug("layout fallback",
				"page", num,
				"separator", bounds.SeparatorFallback,
				"top", bounds.TopFallback,
				"bottom", bounds.BottomFallback)
		}

		left, right := seg.Columns(bounds, page.Width)
		before := len(lines)
		for _, box := range []types.Box{left, right} {
			lines = appendRegion(lines, page.Crop(box), num, cls, yTol)
		}
		logger.Info("processed page", "page", num, "lines", len(lines)-before)
	}

	res.Stream = New(lines)
	return res, nil
}

// appendRegion extracts a column. The clean text pass supplies the line
// content; the word pass only informs classification.
func appendRegion(lines []Line, region *pdfsrc.Region, page int, cls *classify.Classifier, yTol float64) []Line {
	text := region.Text()
	if text == "" {
		return lines
	}
	wordLines := classify.GroupWords(region.Words(), yTol)
	for _, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		typ, _ := cls.ClassifyLine(s, wordLines)
		lines = append(lines, Line{Index: len(lines), Page: page, Text: s, Type: typ})
	}
	return lines
}
