// Package segment turns the structural line stream into article and book
// ranges.
package segment

import (
	"log/slog"

	"github.com/jackzampolin/lexsplit/internal/classify"
	"github.com/jackzampolin/lexsplit/internal/stream"
	"github.com/jackzampolin/lexsplit/internal/types"
)

// Article describes one detected article header.
type Article struct {
	// Ordinal is the 1-based position among emitted articles. It stays
	// unique when declared numbers repeat or skip.
	Ordinal int                    `json:"ordinal" yaml:"ordinal"`
	Number  classify.ArticleNumber `json:"number" yaml:"number"`
	Line    int                    `json:"line" yaml:"line"`
	Page    int                    `json:"page" yaml:"page"`
}

// ParseArticles returns one descriptor per ARTICULO line in document order.
// Headers whose number cannot be read are dropped and counted.
func ParseArticles(s *stream.Stream, logger *slog.Logger) ([]Article, int) {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Article
	dropped := 0
	for _, l := range s.OfType(types.TypeArticulo) {
		num, ok := classify.ParseArticleNumber(l.Text)
		if !ok {
			logger.Debug("dropping article header without number", "line", l.Index, "text", l.Text)
			dropped++
			continue
		}
		out = append(out, Article{
			Ordinal: len(out) + 1,
			Number:  num,
			Line:    l.Index,
			Page:    l.Page,
		})
	}
	return out, dropped
}
