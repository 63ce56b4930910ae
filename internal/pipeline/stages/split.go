package stages

import (
	"context"
	"fmt"

	"github.com/jackzampolin/lexsplit/internal/emit"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/segment"
	"github.com/jackzampolin/lexsplit/internal/types"
)

// Split resolves article boundaries and writes one file per article.
type Split struct {
	// Show lists declared article numbers to excerpt after writing.
	Show []string
}

// NewSplit creates the split stage.
func NewSplit() *Split { return &Split{} }

func (s *Split) Name() string           { return "split" }
func (s *Split) Dependencies() []string { return []string{"extract"} }
func (s *Split) Icon() string           { return "✂️" }
func (s *Split) Description() string {
	return "Resolve article boundaries and write one file per article"
}

func (s *Split) Status(ctx context.Context, env *pipeline.Env) (pipeline.StageStatus, error) {
	files, err := emit.ListArticles(env.Home.ArticlesDir())
	if err != nil {
		files = nil
	}
	return &pipeline.ArtifactStatus{Complete: len(files) > 0, Artifacts: files}, nil
}

// SplitReport summarizes a split.
type SplitReport struct {
	Dir           string            `json:"dir" yaml:"dir"`
	Articles      int               `json:"articles" yaml:"articles"`
	Dropped       int               `json:"dropped_headers" yaml:"dropped_headers"`
	Written       int               `json:"written" yaml:"written"`
	Removed       int               `json:"removed_stale" yaml:"removed_stale"`
	Footnotes     int               `json:"footnotes" yaml:"footnotes"`
	Continuations int               `json:"title_continuations" yaml:"title_continuations"`
	Warnings      []segment.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Samples       []emit.Sample     `json:"samples,omitempty" yaml:"samples,omitempty"`
}

func (s *Split) Run(ctx context.Context, env *pipeline.Env) (any, error) {
	st, err := env.Stream()
	if err != nil {
		return nil, err
	}

	res := segment.NewResolver(env.Config.Resolve, env.Logger).Resolve(st)
	dir := env.Home.ArticlesDir()
	sum, err := emit.New(env.Config.Output.Naming, env.Logger).WriteArticles(dir, st, res.Ranges)
	if err != nil {
		return nil, fmt.Errorf("failed to write articles: %w", err)
	}

	rep := &SplitReport{
		Dir:      dir,
		Articles: len(res.Ranges),
		Dropped:  res.Dropped,
		Written:  sum.Written,
		Removed:  sum.Removed,
		Warnings: res.Warnings,
	}
	for _, t := range res.Types {
		switch t {
		case types.TypeFootnote:
			rep.Footnotes++
		case types.TypeContinuation:
			rep.Continuations++
		}
	}

	if len(s.Show) > 0 {
		samples, err := emit.Samples(dir, s.Show, env.Config.Verify.ShowLimit)
		if err != nil {
			return nil, err
		}
		rep.Samples = samples
	}
	env.Logger.Info("split complete", "articles", rep.Articles, "dropped", rep.Dropped)
	return rep, nil
}
