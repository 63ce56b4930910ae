package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the lexsplit home directory.
	DefaultDirName = ".lexsplit"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Layout names the artifacts inside a workspace.
type Layout struct {
	TextFile     string `mapstructure:"text_file" yaml:"text_file"`
	MetadataFile string `mapstructure:"metadata_file" yaml:"metadata_file"`
	ArticlesDir  string `mapstructure:"articles_dir" yaml:"articles_dir"`
	BooksDir     string `mapstructure:"books_dir" yaml:"books_dir"`
}

// DefaultLayout returns the artifact names used by the reference scripts.
func DefaultLayout() Layout {
	return Layout{
		TextFile:     "extracted_text.txt",
		MetadataFile: "extracted_metadata.json",
		ArticlesDir:  "articulos",
		BooksDir:     "libros",
	}
}

// Dir represents a lexsplit workspace: the extracted stream, its metadata,
// and the split output directories.
type Dir struct {
	path   string
	layout Layout
}

// New creates a new Dir with the given path and the default layout.
// If path is empty, uses the default (~/.lexsplit).
func New(path string) (*Dir, error) {
	return NewWithLayout(path, DefaultLayout())
}

// NewWithLayout creates a Dir with custom artifact names. Empty names fall
// back to the defaults.
func NewWithLayout(path string, layout Layout) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	def := DefaultLayout()
	if layout.TextFile == "" {
		layout.TextFile = def.TextFile
	}
	if layout.MetadataFile == "" {
		layout.MetadataFile = def.MetadataFile
	}
	if layout.ArticlesDir == "" {
		layout.ArticlesDir = def.ArticlesDir
	}
	if layout.BooksDir == "" {
		layout.BooksDir = def.BooksDir
	}

	return &Dir{path: path, layout: layout}, nil
}

// Path returns the root path of the workspace.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// TextPath returns the path of the extracted line stream.
func (d *Dir) TextPath() string {
	return d.resolve(d.layout.TextFile)
}

// MetadataPath returns the path of the structural metadata JSON.
func (d *Dir) MetadataPath() string {
	return d.resolve(d.layout.MetadataFile)
}

// ArticlesDir returns the directory holding one file per article.
func (d *Dir) ArticlesDir() string {
	return d.resolve(d.layout.ArticlesDir)
}

// BooksDir returns the directory holding the book-level reference files.
func (d *Dir) BooksDir() string {
	return d.resolve(d.layout.BooksDir)
}

// resolve keeps absolute artifact paths as they are.
func (d *Dir) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.path, name)
}

// EnsureExists creates the workspace and its output directories.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.path, d.ArticlesDir(), d.BooksDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the workspace directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the workspace.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// StreamExists returns true if both extraction artifacts are present.
func (d *Dir) StreamExists() bool {
	for _, p := range []string{d.TextPath(), d.MetadataPath()} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
