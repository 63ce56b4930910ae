// Package emit writes resolved ranges to disk, one text file per article
// and per book.
package emit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/segment"
	"github.com/jackzampolin/lexsplit/internal/stream"
)

var (
	articleFileRe = regexp.MustCompile(`^\d+_articulo_\d+(?:_[A-Z])?\.txt$`)
	bookFileRe    = regexp.MustCompile(`^\d+_libro_\d+\.txt$`)
)

// Options controls file naming.
type Options struct {
	OrdinalWidth int `mapstructure:"ordinal_width" yaml:"ordinal_width"`
	NumberWidth  int `mapstructure:"number_width" yaml:"number_width"`
}

// DefaultOptions returns the standard zero-padding widths.
func DefaultOptions() Options {
	return Options{OrdinalWidth: 4, NumberWidth: 3}
}

// ArticleFilename names an article file: document ordinal first so that
// lexical order is document order, then the declared number and suffix.
func (o Options) ArticleFilename(a segment.Article) string {
	name := fmt.Sprintf("%0*d_articulo_%0*d", o.OrdinalWidth, a.Ordinal, o.NumberWidth, a.Number.Number)
	if a.Number.Suffix != "" {
		name += "_" + a.Number.Suffix
	}
	return name + ".txt"
}

// BookFilename names a book reference file.
func BookFilename(b segment.Book) string {
	return fmt.Sprintf("%02d_libro_%d.txt", b.Ordinal, b.Ordinal)
}

// Summary reports what an emission wrote.
type Summary struct {
	Dir     string   `json:"dir" yaml:"dir"`
	Written int      `json:"written" yaml:"written"`
	Removed int      `json:"removed" yaml:"removed"`
	Files   []string `json:"-" yaml:"-"`
}

// Emitter writes range contents under a directory.
type Emitter struct {
	opts   Options
	logger *slog.Logger
}

// New creates an emitter. Zero widths use the defaults.
func New(opts Options, logger *slog.Logger) *Emitter {
	def := DefaultOptions()
	if opts.OrdinalWidth <= 0 {
		opts.OrdinalWidth = def.OrdinalWidth
	}
	if opts.NumberWidth <= 0 {
		opts.NumberWidth = def.NumberWidth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{opts: opts, logger: logger}
}

// Options returns the effective naming options.
func (e *Emitter) Options() Options { return e.opts }

// WriteArticles writes one file per range. Article files from an earlier
// run that are not rewritten are removed. The ordinal is padded to at least
// the width of the largest ordinal.
func (e *Emitter) WriteArticles(dir string, s *stream.Stream, ranges []segment.Range) (*Summary, error) {
	opts := e.opts
	for _, r := range ranges {
		opts.OrdinalWidth = max(opts.OrdinalWidth, len(strconv.Itoa(r.Article.Ordinal)))
	}

	files := make(map[string]string, len(ranges))
	order := make([]string, 0, len(ranges))
	for _, r := range ranges {
		name := opts.ArticleFilename(r.Article)
		files[name] = s.Join(r.Start, r.End)
		order = append(order, name)
	}
	return e.write(dir, files, order, articleFileRe)
}

// WriteBooks writes one file per book range.
func (e *Emitter) WriteBooks(dir string, s *stream.Stream, books []segment.Book) (*Summary, error) {
	files := make(map[string]string, len(books))
	order := make([]string, 0, len(books))
	for _, b := range books {
		name := BookFilename(b)
		files[name] = s.Join(b.Start, b.End)
		order = append(order, name)
	}
	return e.write(dir, files, order, bookFileRe)
}

func (e *Emitter) write(dir string, files map[string]string, order []string, owned *regexp.Regexp) (*Summary, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	removed, err := removeStale(dir, files, owned)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		e.logger.Info("removed stale files", "dir", dir, "count", removed)
	}

	sum := &Summary{Dir: dir, Removed: removed}
	for _, name := range order {
		path := filepath.Join(dir, name)
		if err := home.WriteFileAtomic(path, []byte(files[name]), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		sum.Written++
		sum.Files = append(sum.Files, path)
	}
	e.logger.Debug("wrote files", "dir", dir, "count", sum.Written)
	return sum, nil
}

// removeStale deletes files this package owns that are not in keep.
// Unrelated files in the directory are left alone.
func removeStale(dir string, keep map[string]string, owned *regexp.Regexp) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !owned.MatchString(name) {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove stale file %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// ListArticles returns the article files in dir in document order.
func ListArticles(dir string) ([]string, error) {
	return list(dir, articleFileRe)
}

// ListBooks returns the book files in dir in order.
func ListBooks(dir string) ([]string, error) {
	return list(dir, bookFileRe)
}

func list(dir string, owned *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if !entry.IsDir() && owned.MatchString(entry.Name()) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := leadingOrdinal(out[i]), leadingOrdinal(out[j])
		if oi != oj {
			return oi < oj
		}
		return out[i] < out[j]
	})
	return out, nil
}

// leadingOrdinal parses the ordinal prefix of an owned file name.
func leadingOrdinal(path string) int {
	prefix, _, _ := strings.Cut(filepath.Base(path), "_")
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return -1
	}
	return n
}

// Sample is an excerpt of one emitted article.
type Sample struct {
	Number  string `json:"number" yaml:"number"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Found   bool   `json:"found" yaml:"found"`
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
}

// Samples returns the first limit characters of the articles with the
// given declared numbers ("60", "15-A"). A number that was emitted more
// than once yields its first occurrence.
func Samples(dir string, numbers []string, limit int) ([]Sample, error) {
	files, err := ListArticles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Sample, 0, len(numbers))
	for _, n := range numbers {
		n = strings.TrimSpace(n)
		sample := Sample{Number: n}
		if path, ok := findArticle(files, n); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
			}
			sample.File = filepath.Base(path)
			sample.Found = true
			sample.Excerpt = truncate(string(data), limit)
		}
		out = append(out, sample)
	}
	return out, nil
}

func findArticle(files []string, number string) (string, bool) {
	num, suffix, _ := strings.Cut(number, "-")
	n, err := strconv.Atoi(num)
	if err != nil {
		return "", false
	}
	for _, f := range files {
		base := strings.TrimSuffix(filepath.Base(f), ".txt")
		_, rest, ok := strings.Cut(base, "_articulo_")
		if !ok {
			continue
		}
		fnum, fsuffix, _ := strings.Cut(rest, "_")
		got, err := strconv.Atoi(fnum)
		if err != nil {
			continue
		}
		if got == n && fsuffix == suffix {
			return f, true
		}
	}
	return "", false
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
