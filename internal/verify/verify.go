// Package verify checks that the emitted articles, joined back together,
// reproduce an independent reference segmentation character for character.
package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/lexsplit/internal/emit"
)

// DefaultSnippetLen is how many characters of each side are shown at the
// first difference.
const DefaultSnippetLen = 200

// Report is the outcome of a comparison. A mismatch is a finding, not an
// error.
type Report struct {
	ArticleFiles   int    `json:"article_files" yaml:"article_files"`
	ReferenceFiles int    `json:"reference_files" yaml:"reference_files"`
	ArticleChars   int    `json:"article_chars" yaml:"article_chars"`
	ReferenceChars int    `json:"reference_chars" yaml:"reference_chars"`
	Match          bool   `json:"match" yaml:"match"`
	DiffAt         int    `json:"diff_at" yaml:"diff_at"`
	ArticleSnippet string `json:"article_snippet,omitempty" yaml:"article_snippet,omitempty"`
	RefSnippet     string `json:"reference_snippet,omitempty" yaml:"reference_snippet,omitempty"`
}

// JoinFiles reads each file, trims it, and joins the non-empty contents
// with newlines.
func JoinFiles(paths []string) (string, error) {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", filepath.Base(p), err)
		}
		if s := strings.TrimSpace(string(data)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// Compare reports whether a and b are identical. Lengths and the first
// differing position are counted in characters, not bytes. DiffAt is -1
// when the texts match.
func Compare(a, b string, snippetLen int) Report {
	if snippetLen <= 0 {
		snippetLen = DefaultSnippetLen
	}
	ra, rb := []rune(a), []rune(b)
	rep := Report{
		ArticleChars:   len(ra),
		ReferenceChars: len(rb),
		Match:          a == b,
		DiffAt:         -1,
	}
	if rep.Match {
		return rep
	}

	n := min(len(ra), len(rb))
	diff := n
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			diff = i
			break
		}
	}
	rep.DiffAt = diff
	rep.ArticleSnippet = snippet(ra, diff, snippetLen)
	rep.RefSnippet = snippet(rb, diff, snippetLen)
	return rep
}

func snippet(r []rune, at, n int) string {
	if at >= len(r) {
		return ""
	}
	return string(r[at:min(at+n, len(r))])
}

// Run joins the article files of articlesDir in document order and
// compares them with the joined reference files.
func Run(articlesDir string, referenceFiles []string, snippetLen int) (Report, error) {
	articles, err := emit.ListArticles(articlesDir)
	if err != nil {
		return Report{}, err
	}
	joined, err := JoinFiles(articles)
	if err != nil {
		return Report{}, err
	}
	ref, err := JoinFiles(referenceFiles)
	if err != nil {
		return Report{}, err
	}
	rep := Compare(joined, ref, snippetLen)
	rep.ArticleFiles = len(articles)
	rep.ReferenceFiles = len(referenceFiles)
	return rep, nil
}
