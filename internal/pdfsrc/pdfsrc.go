// Package pdfsrc adapts PDF parsing libraries to the page primitives the
// extraction pipeline consumes: page size, drawn line segments, and text
// fragments with position and font attributes.
//
// All coordinates exposed by this package use a top-left origin with y
// growing downward, regardless of the engine that produced them.
package pdfsrc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jackzampolin/lexsplit/internal/types"
)

// Sentinel errors for the pdfsrc package.
var (
	// ErrUnknownEngine is returned when an engine name is not recognized.
	ErrUnknownEngine = errors.New("unknown pdf engine")

	// ErrPageOutOfRange is returned when a page number is outside the document.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Engine names a PDF parsing backend.
type Engine string

const (
	// EngineTabula parses pages with github.com/tsawler/tabula.
	EngineTabula Engine = "tabula"
	// EngineLedongthuc parses pages with github.com/ledongthuc/pdf.
	EngineLedongthuc Engine = "ledongthuc"
)

// Document is an open PDF whose pages can be loaded one at a time.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() (int, error)
	// Page loads a page by its 1-based number.
	Page(num int) (*Page, error)
	// Close releases the underlying file.
	Close() error
}

// Options configures how an engine turns drawing operations into segments.
type Options struct {
	// RulesFromRects treats hairline rectangles as rule segments.
	RulesFromRects bool
	// HairlineWidth is the maximum thickness of a rectangle treated as a rule.
	HairlineWidth float64
	Logger        *slog.Logger
}

// Open opens path with the named engine.
func Open(path string, engine Engine, opts Options) (Document, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HairlineWidth <= 0 {
		opts.HairlineWidth = 2
	}
	switch engine {
	case EngineTabula, "":
		return openTabula(path, opts)
	case EngineLedongthuc:
		return openLedongthuc(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engine)
	}
}

// Preflight validates the file with pdfcpu and returns its page count.
// It runs before extraction so a broken file fails fast with a clear error.
func Preflight(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return count, nil
}

// Segment is a straight line drawn on the page.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// IsVertical reports whether both endpoints share (nearly) the same x.
func (s Segment) IsVertical(tolerance float64) bool {
	return math.Abs(s.X0-s.X1) < tolerance
}

// IsHorizontal reports whether both endpoints share (nearly) the same y.
func (s Segment) IsHorizontal(tolerance float64) bool {
	return math.Abs(s.Y0-s.Y1) < tolerance
}

// Top returns the smaller y of the two endpoints.
func (s Segment) Top() float64 { return math.Min(s.Y0, s.Y1) }

// HorizontalExtent returns the segment's width.
func (s Segment) HorizontalExtent() float64 { return math.Abs(s.X1 - s.X0) }

// VerticalExtent returns the segment's height.
func (s Segment) VerticalExtent() float64 { return math.Abs(s.Y1 - s.Y0) }

// Fragment is a run of text drawn with a single font.
type Fragment struct {
	Text     string
	X0       float64
	Top      float64
	Width    float64
	Height   float64
	FontName string
	Size     float64
}

// X1 returns the right edge of the fragment.
func (f Fragment) X1() float64 { return f.X0 + f.Width }

// Bottom returns the lower edge (baseline) of the fragment.
func (f Fragment) Bottom() float64 { return f.Top + f.Height }

// Word is a whitespace-delimited token with the font it was drawn in.
type Word struct {
	Text     string
	X0       float64
	Top      float64
	FontName string
	Size     float64
}

// Page holds the primitives of one page.
type Page struct {
	Number    int
	Width     float64
	Height    float64
	Segments  []Segment
	Fragments []Fragment
}

// Crop returns the region of the page inside box. A fragment belongs to the
// region when its center point lies inside the box.
func (p *Page) Crop(box types.Box) *Region {
	region := &Region{Box: box, pageWidth: p.Width, pageHeight: p.Height}
	for _, f := range p.Fragments {
		cx := f.X0 + f.Width/2
		cy := f.Top + f.Height/2
		if box.Contains(cx, cy) {
			region.fragments = append(region.fragments, f)
		}
	}
	return region
}

// splitWords breaks a fragment into words, spreading the fragment width
// across its runes to estimate each word's x0.
func splitWords(f Fragment) []Word {
	runes := []rune(f.Text)
	if len(runes) == 0 {
		return nil
	}
	perRune := f.Width / float64(len(runes))

	var words []Word
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		words = append(words, Word{
			Text:     string(runes[start:end]),
			X0:       f.X0 + float64(start)*perRune,
			Top:      f.Top,
			FontName: f.FontName,
			Size:     f.Size,
		})
		start = -1
	}
	for i, r := range runes {
		if unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(runes))
	return words
}
