package config

import (
	"github.com/jackzampolin/lexsplit/internal/classify"
	"github.com/jackzampolin/lexsplit/internal/emit"
	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/layout"
	"github.com/jackzampolin/lexsplit/internal/segment"
	"github.com/jackzampolin/lexsplit/internal/verify"
)

// Config holds lexsplit configuration.
// Stored at: {workspace}/config.yaml or ~/.lexsplit/config.yaml
type Config struct {
	Input    InputCfg        `mapstructure:"input" yaml:"input"`
	Layout   layout.Config   `mapstructure:"layout" yaml:"layout"`
	Classify classify.Config `mapstructure:"classify" yaml:"classify"`
	Resolve  segment.Config  `mapstructure:"resolve" yaml:"resolve"`
	Output   OutputCfg       `mapstructure:"output" yaml:"output"`
	Verify   VerifyCfg       `mapstructure:"verify" yaml:"verify"`
}

// InputCfg selects the source document and the pages to read.
type InputCfg struct {
	PDF       string `mapstructure:"pdf" yaml:"pdf"`
	StartPage int    `mapstructure:"start_page" yaml:"start_page"` // 1-based, first page of the legal text
	EndPage   int    `mapstructure:"end_page" yaml:"end_page"`     // 0 = last page
	Engine    string `mapstructure:"engine" yaml:"engine"`         // "tabula", "ledongthuc"
	Preflight bool   `mapstructure:"preflight" yaml:"preflight"`   // validate with pdfcpu before extraction
}

// OutputCfg places the artifacts.
type OutputCfg struct {
	Dir    string       `mapstructure:"dir" yaml:"dir"`
	Files  home.Layout  `mapstructure:"files" yaml:"files"`
	Naming emit.Options `mapstructure:"naming" yaml:"naming"`
}

// VerifyCfg configures the round-trip check.
type VerifyCfg struct {
	// ReferenceFiles are joined in order as the expected text. When empty,
	// the book files written by the books stage are used.
	ReferenceFiles []string `mapstructure:"reference_files" yaml:"reference_files"`
	SnippetLen     int      `mapstructure:"snippet_len" yaml:"snippet_len"`
	// ShowLimit is how many characters `split --show` prints per article.
	ShowLimit int `mapstructure:"show_limit" yaml:"show_limit"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputCfg{
			StartPage: 8,
			Engine:    "tabula",
			Preflight: true,
		},
		Layout:   layout.DefaultConfig(),
		Classify: classify.DefaultConfig(),
		Resolve:  segment.DefaultConfig(),
		Output: OutputCfg{
			Dir:    ".",
			Files:  home.DefaultLayout(),
			Naming: emit.DefaultOptions(),
		},
		Verify: VerifyCfg{
			ReferenceFiles: []string{},
			SnippetLen:     verify.DefaultSnippetLen,
			ShowLimit:      400,
		},
	}
}
