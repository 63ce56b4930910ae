package config

import (
	"errors"

	"github.com/jackzampolin/lexsplit/internal/classify"
	"github.com/jackzampolin/lexsplit/internal/emit"
	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/layout"
	"github.com/jackzampolin/lexsplit/internal/segment"
	"github.com/jackzampolin/lexsplit/internal/verify"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// Entry is one documented configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default value.
// Viper defaults are registered per key from this list so a config file
// may override a single key without resetting its section.
func DefaultEntries() []Entry {
	lay := layout.DefaultConfig()
	cls := classify.DefaultConfig()
	res := segment.DefaultConfig()
	files := home.DefaultLayout()
	naming := emit.DefaultOptions()

	return []Entry{
		// Input
		{Key: "input.pdf", Value: "", Description: "Path of the source PDF"},
		{Key: "input.start_page", Value: 8, Description: "First page of the legal text (1-based)"},
		{Key: "input.end_page", Value: 0, Description: "Last page to read, 0 for the last page"},
		{Key: "input.engine", Value: "tabula", Description: "PDF engine: tabula or ledongthuc"},
		{Key: "input.preflight", Value: true, Description: "Validate the PDF with pdfcpu before extraction"},

		// Layout
		{Key: "layout.tolerance", Value: lay.Tolerance, Description: "Max endpoint drift for vertical/horizontal segments"},
		{Key: "layout.full_width_ratio", Value: lay.FullWidthRatio, Description: "Fraction of page width a rule must span"},
		{Key: "layout.header_offset", Value: lay.HeaderOffset, Description: "Distance below the header rule where content starts"},
		{Key: "layout.footer_zone", Value: lay.FooterZone, Description: "Page-height fraction below which rules are footers"},
		{Key: "layout.footer_margin", Value: lay.FooterMargin, Description: "Margin kept above the footer rule"},
		{Key: "layout.fallback_top", Value: lay.FallbackTop, Description: "Content top when no header rule is found"},
		{Key: "layout.fallback_bottom", Value: lay.FallbackBottom, Description: "Content bottom when no footer rule is found"},
		{Key: "layout.gutter", Value: lay.Gutter, Description: "Space left free on each side of the column separator"},
		{Key: "layout.rules_from_rects", Value: lay.RulesFromRects, Description: "Treat hairline rectangles as rule lines"},

		// Classify
		{Key: "classify.art_title_min_size", Value: cls.ArtTitleMinSize, Description: "Smallest font size of an article title"},
		{Key: "classify.art_title_max_size", Value: cls.ArtTitleMaxSize, Description: "Font size an article title must stay below"},
		{Key: "classify.art_title_max_len", Value: cls.ArtTitleMaxLen, Description: "Article titles are shorter than this"},
		{Key: "classify.h2_min_len", Value: cls.H2MinLen, Description: "Bold headings are longer than this"},
		{Key: "classify.h2_max_len", Value: cls.H2MaxLen, Description: "Bold headings are shorter than this"},
		{Key: "classify.match_prefix", Value: cls.MatchPrefix, Description: "Characters compared when matching font metadata"},
		{Key: "classify.word_y_tolerance", Value: cls.WordYTolerance, Description: "Vertical tolerance when grouping words into lines"},

		// Resolve
		{Key: "resolve.title_window", Value: res.TitleWindow, Description: "Lines scanned above a header for its title block"},
		{Key: "resolve.candidate_lookahead", Value: res.CandidateLookahead, Description: "Lines a likely title may precede its header"},
		{Key: "resolve.max_article_lines", Value: res.MaxArticleLines, Description: "Warn about longer articles, 0 to disable"},

		// Output
		{Key: "output.dir", Value: ".", Description: "Workspace directory for all artifacts"},
		{Key: "output.files.text_file", Value: files.TextFile, Description: "Extracted line stream"},
		{Key: "output.files.metadata_file", Value: files.MetadataFile, Description: "Structural metadata JSON"},
		{Key: "output.files.articles_dir", Value: files.ArticlesDir, Description: "Directory of article files"},
		{Key: "output.files.books_dir", Value: files.BooksDir, Description: "Directory of book reference files"},
		{Key: "output.naming.ordinal_width", Value: naming.OrdinalWidth, Description: "Zero padding of the document ordinal"},
		{Key: "output.naming.number_width", Value: naming.NumberWidth, Description: "Zero padding of the declared article number"},

		// Verify
		{Key: "verify.reference_files", Value: []string{}, Description: "Reference files joined as expected text (default: book files)"},
		{Key: "verify.snippet_len", Value: verify.DefaultSnippetLen, Description: "Characters shown at the first difference"},
		{Key: "verify.show_limit", Value: 400, Description: "Characters printed per article by split --show"},
	}
}

// GetDefault returns the default entry for a key, or nil if none exists.
func GetDefault(key string) *Entry {
	for _, e := range DefaultEntries() {
		if e.Key == key {
			return &e
		}
	}
	return nil
}
