package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackzampolin/lexsplit/internal/emit"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/verify"
)

var (
	// ErrNoReference is returned when there is nothing to verify against.
	ErrNoReference = errors.New("no reference files: configure verify.reference_files or run books")

	// ErrMismatch is returned by a strict verify when the texts differ.
	ErrMismatch = errors.New("joined articles do not match the reference")
)

// Verify joins the article files and compares them with the reference.
type Verify struct {
	// Strict turns a mismatch into ErrMismatch.
	Strict bool
}

// NewVerify creates the verify stage.
func NewVerify() *Verify { return &Verify{} }

func (s *Verify) Name() string           { return "verify" }
func (s *Verify) Dependencies() []string { return []string{"split", "books"} }
func (s *Verify) Icon() string           { return "✅" }
func (s *Verify) Description() string {
	return "Check that the joined articles reproduce the reference text"
}

// Status is never complete: verification is cheap and always rerun.
func (s *Verify) Status(ctx context.Context, env *pipeline.Env) (pipeline.StageStatus, error) {
	return &pipeline.ArtifactStatus{Complete: false}, nil
}

func (s *Verify) Run(ctx context.Context, env *pipeline.Env) (any, error) {
	refs := env.Config.Verify.ReferenceFiles
	if len(refs) == 0 {
		books, err := emit.ListBooks(env.Home.BooksDir())
		if err != nil {
			return nil, ErrNoReference
		}
		refs = books
	}
	if len(refs) == 0 {
		return nil, ErrNoReference
	}

	rep, err := verify.Run(env.Home.ArticlesDir(), refs, env.Config.Verify.SnippetLen)
	if err != nil {
		return nil, fmt.Errorf("failed to verify: %w", err)
	}

	if rep.Match {
		env.Logger.Info("verification passed", "chars", rep.ArticleChars)
	} else {
		env.Logger.Warn("verification mismatch",
			"article_chars", rep.ArticleChars,
			"reference_chars", rep.ReferenceChars,
			"diff_at", rep.DiffAt)
		if s.Strict {
			return &rep, ErrMismatch
		}
	}
	return &rep, nil
}
