// Package classify assigns a structural type to each line of legal text.
//
// Classification is an ordered list of rules. The first rule whose
// predicate matches wins, so specific patterns (article headers, book
// headings) must appear before the looser typographic ones.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/lexsplit/internal/types"
)

// FontInfo is the typographic metadata attached to a line.
type FontInfo struct {
	Bold bool    `json:"bold" yaml:"bold"`
	Size float64 `json:"size" yaml:"size"`
}

// DefaultFont is used when no word-level metadata matches a line.
var DefaultFont = FontInfo{Bold: false, Size: 9}

// Input is what a rule sees: the normalized line and its font.
type Input struct {
	Text  string
	Runes int
	Font  FontInfo
}

// Rule pairs a predicate with the type it assigns.
type Rule struct {
	Name  string
	Type  types.LineType
	Match func(in Input) bool
}

// Config holds the thresholds used by the typographic rules.
type Config struct {
	// ArtTitleMinSize and ArtTitleMaxSize bound the font size of an
	// article title, half-open: [min, max).
	ArtTitleMinSize float64 `mapstructure:"art_title_min_size" yaml:"art_title_min_size"`
	ArtTitleMaxSize float64 `mapstructure:"art_title_max_size" yaml:"art_title_max_size"`
	ArtTitleMaxLen  int     `mapstructure:"art_title_max_len" yaml:"art_title_max_len"`

	// H2MinLen and H2MaxLen are exclusive bounds on heading length.
	H2MinLen int `mapstructure:"h2_min_len" yaml:"h2_min_len"`
	H2MaxLen int `mapstructure:"h2_max_len" yaml:"h2_max_len"`

	// MatchPrefix is how many leading characters are compared when
	// attaching word metadata to a line.
	MatchPrefix int `mapstructure:"match_prefix" yaml:"match_prefix"`

	// WordYTolerance groups words whose tops differ by at most this much.
	WordYTolerance float64 `mapstructure:"word_y_tolerance" yaml:"word_y_tolerance"`
}

// DefaultConfig returns the thresholds tuned for the reference code.
func DefaultConfig() Config {
	return Config{
		ArtTitleMinSize: 8.5,
		ArtTitleMaxSize: 10,
		ArtTitleMaxLen:  80,
		H2MinLen:        3,
		H2MaxLen:        60,
		MatchPrefix:     30,
		WordYTolerance:  3,
	}
}

// Classifier applies an ordered rule list.
type Classifier struct {
	rules   []Rule
	matcher FontMatcher
}

// New creates a classifier with the default rule list.
func New(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.ArtTitleMaxSize <= 0 {
		cfg.ArtTitleMinSize, cfg.ArtTitleMaxSize = def.ArtTitleMinSize, def.ArtTitleMaxSize
	}
	if cfg.ArtTitleMaxLen <= 0 {
		cfg.ArtTitleMaxLen = def.ArtTitleMaxLen
	}
	if cfg.H2MaxLen <= 0 {
		cfg.H2MinLen, cfg.H2MaxLen = def.H2MinLen, def.H2MaxLen
	}
	if cfg.MatchPrefix <= 0 {
		cfg.MatchPrefix = def.MatchPrefix
	}
	return &Classifier{
		rules:   DefaultRules(cfg),
		matcher: PrefixMatcher{PrefixLen: cfg.MatchPrefix},
	}
}

// NewWithRules creates a classifier from an explicit rule list.
func NewWithRules(rules []Rule, matcher FontMatcher) *Classifier {
	if matcher == nil {
		matcher = PrefixMatcher{PrefixLen: DefaultConfig().MatchPrefix}
	}
	return &Classifier{rules: rules, matcher: matcher}
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the type of the first matching rule, or
// types.TypeUnclassified.
func (c *Classifier) Classify(line string, font FontInfo) types.LineType {
	s := Normalize(line)
	if s == "" {
		return types.TypeUnclassified
	}
	in := Input{Text: s, Runes: utf8.RuneCountInString(s), Font: font}
	for _, r := range c.rules {
		if r.Match(in) {
			return r.Type
		}
	}
	return types.TypeUnclassified
}

// ClassifyLine looks up the font metadata for line among the grouped word
// lines of the same region and classifies it. Lines with no metadata match
// use DefaultFont.
func (c *Classifier) ClassifyLine(line string, lines []WordLine) (types.LineType, FontInfo) {
	font := DefaultFont
	if wl, ok := c.matcher.Match(line, lines); ok {
		font = FontInfo{Bold: wl.Bold, Size: wl.Size}
	}
	return c.Classify(line, font), font
}

// DefaultRules builds the standard rule order: article header, book,
// title, chapter, section, bold heading, article title.
func DefaultRules(cfg Config) []Rule {
	return []Rule{
		{
			Name:  "article-header",
			Type:  types.TypeArticulo,
			Match: func(in Input) bool { return articleHeaderRe.MatchString(in.Text) },
		},
		{
			Name: "book",
			Type: types.TypeLibro,
			Match: func(in Input) bool {
				return strings.Contains(in.Text, "LIBRO") && IsUpper(in.Text)
			},
		},
		keywordRule("title", types.TypeTitulo, "TÍTULO", "TITULO"),
		keywordRule("chapter", types.TypeCapitulo, "CAPÍTULO", "CAPITULO"),
		keywordRule("section", types.TypeSeccion, "SECCIÓN", "SECCION"),
		{
			Name: "bold-heading",
			Type: types.TypeH2,
			Match: func(in Input) bool {
				return in.Font.Bold && IsUpper(in.Text) &&
					in.Runes > cfg.H2MinLen && in.Runes < cfg.H2MaxLen
			},
		},
		{
			Name: "article-title",
			Type: types.TypeArtTitle,
			Match: func(in Input) bool {
				return in.Font.Bold &&
					in.Font.Size >= cfg.ArtTitleMinSize && in.Font.Size < cfg.ArtTitleMaxSize &&
					in.Runes < cfg.ArtTitleMaxLen &&
					!IsUpper(in.Text) &&
					!numberedItemRe.MatchString(in.Text) &&
					startsUpper(in.Text)
			},
		},
	}
}

func keywordRule(name string, t types.LineType, keywords ...string) Rule {
	return Rule{
		Name: name,
		Type: t,
		Match: func(in Input) bool {
			for _, k := range keywords {
				if strings.Contains(in.Text, k) {
					return true
				}
			}
			return false
		},
	}
}
