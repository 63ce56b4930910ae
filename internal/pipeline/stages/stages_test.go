package stages

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/lexsplit/internal/config"
	"github.com/jackzampolin/lexsplit/internal/emit"
	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/stream"
	"github.com/jackzampolin/lexsplit/internal/types"
	"github.com/jackzampolin/lexsplit/internal/verify"
)

func testStream() *stream.Stream {
	return stream.New([]stream.Line{
		{Page: 8, Text: "LIBRO PRIMERO", Type: types.TypeLibro},
		{Page: 8, Text: "TÍTULO I", Type: types.TypeTitulo},
		{Page: 8, Text: "Artículo 1.- Toda persona tiene derecho", Type: types.TypeArticulo},
		{Page: 8, Text: "a la vida y a su identidad."},
		{Page: 9, Text: "LIBRO SEGUNDO", Type: types.TypeLibro},
		{Page: 9, Text: "Artículo 2.- La ley determina", Type: types.TypeArticulo},
		{Page: 9, Text: "los requisitos."},
		{Page: 9, Text: "(*) Modificado por el Artículo 1 de la Ley N° 27291"},
	})
}

// newTestEnv returns an env whose workspace already holds the extracted
// stream artifacts.
func newTestEnv(t *testing.T) *pipeline.Env {
	t.Helper()
	dir, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	if err := stream.Save(testStream(), dir.TextPath(), dir.MetadataPath()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pipeline.NewEnv(config.DefaultConfig(), dir, logger)
}

func TestNewRegistry(t *testing.T) {
	r, set, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if set.Split == nil || set.Verify == nil {
		t.Fatal("stage set incomplete")
	}

	ordered, err := r.GetOrdered()
	if err != nil {
		t.Fatalf("GetOrdered() error = %v", err)
	}
	pos := make(map[string]int)
	for i, s := range ordered {
		pos[s.Name()] = i
	}
	if len(pos) != 4 {
		t.Fatalf("got %d stages, want 4", len(pos))
	}
	if pos["extract"] > pos["split"] || pos["extract"] > pos["books"] {
		t.Error("extract must run before split and books")
	}
	if pos["verify"] < pos["split"] || pos["verify"] < pos["books"] {
		t.Error("verify must run after split and books")
	}
}

func TestExtract_NoInput(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewExtract().Run(context.Background(), env)
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("Run() error = %v, want ErrNoInput", err)
	}
}

func TestExtract_Status(t *testing.T) {
	env := newTestEnv(t)
	st, err := NewExtract().Status(context.Background(), env)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !st.IsComplete() {
		t.Error("extract should be complete when the stream artifacts exist")
	}
}

func TestSplit(t *testing.T) {
	env := newTestEnv(t)
	s := NewSplit()
	s.Show = []string{"2", "99"}

	out, err := s.Run(context.Background(), env)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	rep := out.(*SplitReport)
	if rep.Articles != 2 || rep.Written != 2 {
		t.Errorf("articles = %d written = %d, want 2 and 2", rep.Articles, rep.Written)
	}
	if rep.Footnotes != 1 {
		t.Errorf("footnotes = %d, want 1", rep.Footnotes)
	}
	if len(rep.Samples) != 2 || !rep.Samples[0].Found || rep.Samples[1].Found {
		t.Errorf("samples = %+v", rep.Samples)
	}

	files, err := emit.ListArticles(env.Home.ArticlesDir())
	if err != nil {
		t.Fatalf("ListArticles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d article files, want 2", len(files))
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	want := "LIBRO PRIMERO\nTÍTULO I\nArtículo 1.- Toda persona tiene derecho\na la vida y a su identidad."
	if string(data) != want {
		t.Errorf("first article = %q, want %q", data, want)
	}

	st, err := s.Status(context.Background(), env)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !st.IsComplete() {
		t.Error("split should be complete after a run")
	}
}

func TestSplit_NoStream(t *testing.T) {
	dir, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	env := pipeline.NewEnv(config.DefaultConfig(), dir, nil)
	_, err = NewSplit().Run(context.Background(), env)
	if !errors.Is(err, pipeline.ErrNoStream) {
		t.Errorf("Run() error = %v, want ErrNoStream", err)
	}
}

func TestBooks(t *testing.T) {
	env := newTestEnv(t)
	out, err := NewBooks().Run(context.Background(), env)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	rep := out.(*BooksReport)
	if len(rep.Books) != 2 {
		t.Fatalf("got %d books, want 2", len(rep.Books))
	}
	if rep.Books[0].Title != "LIBRO PRIMERO" || rep.Books[0].Lines != 4 {
		t.Errorf("book 0 = %+v", rep.Books[0])
	}
	if filepath.Ext(rep.Books[1].File) != ".txt" {
		t.Errorf("book file = %q", rep.Books[1].File)
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("no reference", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := NewVerify().Run(ctx, env)
		if !errors.Is(err, ErrNoReference) {
			t.Errorf("Run() error = %v, want ErrNoReference", err)
		}
	})

	t.Run("articles match books", func(t *testing.T) {
		env := newTestEnv(t)
		stages := []pipeline.Stage{NewSplit(), NewBooks(), NewVerify()}
		reports, err := pipeline.Run(ctx, env, stages)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(reports) != 3 {
			t.Fatalf("got %d reports, want 3", len(reports))
		}
		rep := reports[2].Report.(*verify.Report)
		if !rep.Match {
			t.Errorf("expected match, diff at %d: %q vs %q", rep.DiffAt, rep.ArticleSnippet, rep.RefSnippet)
		}
	})

	t.Run("strict mismatch", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := NewSplit().Run(ctx, env); err != nil {
			t.Fatal(err)
		}
		ref := filepath.Join(t.TempDir(), "ref.txt")
		if err := os.WriteFile(ref, []byte("otro texto"), 0o644); err != nil {
			t.Fatal(err)
		}
		env.Config.Verify.ReferenceFiles = []string{ref}

		v := NewVerify()
		out, err := v.Run(ctx, env)
		if err != nil {
			t.Fatalf("non-strict error = %v", err)
		}
		if out.(*verify.Report).Match {
			t.Error("expected mismatch")
		}

		v.Strict = true
		if _, err := v.Run(ctx, env); !errors.Is(err, ErrMismatch) {
			t.Errorf("strict error = %v, want ErrMismatch", err)
		}
	})
}
