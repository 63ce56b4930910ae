package verify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		match   bool
		diffAt  int
		aSnip   string
		refSnip string
	}{
		{"identical", "Artículo 1.- uno", "Artículo 1.- uno", true, -1, "", ""},
		{"differ in middle", "abcXef", "abcYef", false, 3, "Xef", "Yef"},
		{"reference longer", "abc", "abcdef", false, 3, "", "def"},
		{"counts characters", "ñandú x", "ñandú y", false, 6, "x", "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Compare(tt.a, tt.b, 0)
			if rep.Match != tt.match || rep.DiffAt != tt.diffAt {
				t.Errorf("Match=%v DiffAt=%d, want %v %d", rep.Match, rep.DiffAt, tt.match, tt.diffAt)
			}
			if rep.ArticleSnippet != tt.aSnip || rep.RefSnippet != tt.refSnip {
				t.Errorf("snippets = %q / %q, want %q / %q", rep.ArticleSnippet, rep.RefSnippet, tt.aSnip, tt.refSnip)
			}
		})
	}
}

func TestCompare_SnippetLength(t *testing.T) {
	a := "x" + strings.Repeat("a", 500)
	b := "y" + strings.Repeat("a", 500)
	rep := Compare(a, b, 0)
	if len([]rune(rep.ArticleSnippet)) != DefaultSnippetLen {
		t.Errorf("snippet length = %d, want %d", len([]rune(rep.ArticleSnippet)), DefaultSnippetLen)
	}
	if rep.ArticleChars != 501 || rep.ReferenceChars != 501 {
		t.Errorf("char counts = %d/%d", rep.ArticleChars, rep.ReferenceChars)
	}
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestJoinFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		write(t, dir, "a.txt", "  uno\n"),
		write(t, dir, "b.txt", "\n\n"),
		write(t, dir, "c.txt", "dos"),
	}
	got, err := JoinFiles(paths)
	if err != nil {
		t.Fatalf("JoinFiles failed: %v", err)
	}
	if got != "uno\ndos" {
		t.Errorf("got %q", got)
	}

	if _, err := JoinFiles([]string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	arts := filepath.Join(dir, "articulos")
	if err := os.MkdirAll(arts, 0o755); err != nil {
		t.Fatal(err)
	}
	// written out of order; document order comes from the ordinal prefix
	write(t, arts, "0002_articulo_002.txt", "Artículo 2.- dos")
	write(t, arts, "0001_articulo_001.txt", "TÍTULO I\nArtículo 1.- uno")
	write(t, arts, "README.md", "ignored")

	ref := write(t, dir, "01_libro_1.txt", "TÍTULO I\nArtículo 1.- uno\nArtículo 2.- dos\n")

	rep, err := Run(arts, []string{ref}, 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !rep.Match {
		t.Errorf("expected match, got %+v", rep)
	}
	if rep.ArticleFiles != 2 || rep.ReferenceFiles != 1 {
		t.Errorf("file counts = %d/%d", rep.ArticleFiles, rep.ReferenceFiles)
	}

	write(t, arts, "0003_articulo_003.txt", "Artículo 3.- extra")
	rep, err = Run(arts, []string{ref}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Match || rep.DiffAt != len([]rune("TÍTULO I\nArtículo 1.- uno\nArtículo 2.- dos")) {
		t.Errorf("expected mismatch at end of reference, got %+v", rep)
	}
}
