package segment

import (
	"log/slog"

	"github.com/jackzampolin/lexsplit/internal/stream"
	"github.com/jackzampolin/lexsplit/internal/types"
)

// Config tunes the boundary resolver.
type Config struct {
	// TitleWindow bounds how far above a header its title block may start.
	TitleWindow int `mapstructure:"title_window" yaml:"title_window"`
	// CandidateLookahead is how many lines after a likely title an article
	// header must appear for the title to count as that article's.
	CandidateLookahead int `mapstructure:"candidate_lookahead" yaml:"candidate_lookahead"`
	// MaxArticleLines flags articles longer than this. Zero disables it.
	MaxArticleLines int `mapstructure:"max_article_lines" yaml:"max_article_lines"`
}

// DefaultConfig returns the resolver defaults.
func DefaultConfig() Config {
	return Config{
		TitleWindow:        30,
		CandidateLookahead: 5,
	}
}

// Range is the half-open line interval [Start, End) owned by one article.
type Range struct {
	Article Article `json:"article" yaml:"article"`
	Start   int     `json:"start" yaml:"start"`
	End     int     `json:"end" yaml:"end"`
}

// Len returns the number of lines in the range.
func (r Range) Len() int { return r.End - r.Start }

// Warning flags a suspicious range. It never changes the output.
type Warning struct {
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
	Number  string `json:"number" yaml:"number"`
	Message string `json:"message" yaml:"message"`
}

// Result is the outcome of resolving a stream.
type Result struct {
	Ranges   []Range
	Dropped  int
	Warnings []Warning
	// Types holds each line's effective type, including the footnote and
	// continuation roles inferred during resolution.
	Types []types.LineType
}

// Resolver assigns each article its line range.
type Resolver struct {
	cfg    Config
	logger *slog.Logger
}

// NewResolver creates a resolver. Zero config values use the defaults.
func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	def := DefaultConfig()
	if cfg.TitleWindow <= 0 {
		cfg.TitleWindow = def.TitleWindow
	}
	if cfg.CandidateLookahead <= 0 {
		cfg.CandidateLookahead = def.CandidateLookahead
	}
	if cfg.MaxArticleLines < 0 {
		cfg.MaxArticleLines = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg, logger: logger}
}

// Resolve computes one range per parsed article. Ranges are ordered,
// never overlap, and the last one runs to the end of the stream.
func (r *Resolver) Resolve(s *stream.Stream) *Result {
	articles, dropped := ParseArticles(s, r.logger)
	v := newView(s, r.cfg.CandidateLookahead)

	res := &Result{
		Ranges:  make([]Range, 0, len(articles)),
		Dropped: dropped,
		Types:   v.annotate(),
	}

	prevEnd := 0
	for i, art := range articles {
		start := v.titleBlockStart(art.Line, max(0, art.Line-r.cfg.TitleWindow))
		start = max(start, prevEnd)

		end := s.Len()
		if i+1 < len(articles) {
			next := articles[i+1].Line
			end = v.titleBlockStart(next, max(art.Line+1, next-r.cfg.TitleWindow))
		}

		rng := Range{Article: art, Start: start, End: end}
		res.Ranges = append(res.Ranges, rng)
		prevEnd = end

		if r.cfg.MaxArticleLines > 0 && rng.Len() > r.cfg.MaxArticleLines {
			w := Warning{
				Ordinal: art.Ordinal,
				Number:  art.Number.String(),
				Message: "article exceeds max_article_lines",
			}
			r.logger.Warn("long article", "ordinal", art.Ordinal, "number", w.Number, "lines", rng.Len())
			res.Warnings = append(res.Warnings, w)
		}
	}

	r.logger.Debug("resolved articles", "articles", len(res.Ranges), "dropped", dropped)
	return res
}
