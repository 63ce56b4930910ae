package stages

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackzampolin/lexsplit/internal/emit"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/segment"
)

// Books writes the coarse book-level reference files.
type Books struct{}

// NewBooks creates the books stage.
func NewBooks() *Books { return &Books{} }

func (s *Books) Name() string           { return "books" }
func (s *Books) Dependencies() []string { return []string{"extract"} }
func (s *Books) Icon() string           { return "📚" }
func (s *Books) Description() string {
	return "Split the stream at LIBRO headings into reference files"
}

func (s *Books) Status(ctx context.Context, env *pipeline.Env) (pipeline.StageStatus, error) {
	files, err := emit.ListBooks(env.Home.BooksDir())
	if err != nil {
		files = nil
	}
	return &pipeline.ArtifactStatus{Complete: len(files) > 0, Artifacts: files}, nil
}

// BookInfo describes one written book file.
type BookInfo struct {
	File  string `json:"file" yaml:"file"`
	Title string `json:"title" yaml:"title"`
	Lines int    `json:"lines" yaml:"lines"`
}

// BooksReport summarizes the books stage.
type BooksReport struct {
	Dir     string     `json:"dir" yaml:"dir"`
	Books   []BookInfo `json:"books" yaml:"books"`
	Removed int        `json:"removed_stale" yaml:"removed_stale"`
}

func (s *Books) Run(ctx context.Context, env *pipeline.Env) (any, error) {
	st, err := env.Stream()
	if err != nil {
		return nil, err
	}

	books := segment.Books(st)
	dir := env.Home.BooksDir()
	sum, err := emit.New(env.Config.Output.Naming, env.Logger).WriteBooks(dir, st, books)
	if err != nil {
		return nil, fmt.Errorf("failed to write books: %w", err)
	}

	rep := &BooksReport{Dir: dir, Removed: sum.Removed, Books: make([]BookInfo, 0, len(books))}
	for i, b := range books {
		rep.Books = append(rep.Books, BookInfo{
			File:  filepath.Base(sum.Files[i]),
			Title: b.Title,
			Lines: b.End - b.Start,
		})
	}
	return rep, nil
}
