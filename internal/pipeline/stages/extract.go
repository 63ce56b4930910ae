// Package stages holds the lexsplit pipeline stages:
// extract -> split, books -> verify.
package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackzampolin/lexsplit/internal/pdfsrc"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/stream"
)

// ErrNoInput is returned when extract runs without a PDF path.
var ErrNoInput = errors.New("no input PDF configured (set input.pdf or pass --pdf)")

// Extract reads the PDF and writes the line stream and its metadata.
type Extract struct{}

// NewExtract creates the extract stage.
func NewExtract() *Extract { return &Extract{} }

func (s *Extract) Name() string           { return "extract" }
func (s *Extract) Dependencies() []string { return nil }
func (s *Extract) Icon() string           { return "📄" }
func (s *Extract) Description() string {
	return "Segment each page into columns and extract the classified line stream"
}

func (s *Extract) Status(ctx context.Context, env *pipeline.Env) (pipeline.StageStatus, error) {
	return &pipeline.ArtifactStatus{
		Complete:  env.Home.StreamExists(),
		Artifacts: []string{env.Home.TextPath(), env.Home.MetadataPath()},
	}, nil
}

// ExtractReport summarizes an extraction.
type ExtractReport struct {
	PDF       string               `json:"pdf" yaml:"pdf"`
	Engine    string               `json:"engine" yaml:"engine"`
	PDFPages  int                  `json:"pdf_pages,omitempty" yaml:"pdf_pages,omitempty"`
	FirstPage int                  `json:"first_page" yaml:"first_page"`
	LastPage  int                  `json:"last_page" yaml:"last_page"`
	Summary   stream.Summary       `json:"summary" yaml:"summary"`
	Warnings  []stream.PageWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	TextFile  string               `json:"text_file" yaml:"text_file"`
	MetaFile  string               `json:"metadata_file" yaml:"metadata_file"`
}

func (s *Extract) Run(ctx context.Context, env *pipeline.Env) (any, error) {
	cfg := env.Config
	path := cfg.Input.PDF
	if path == "" {
		return nil, ErrNoInput
	}

	rep := &ExtractReport{PDF: path, Engine: cfg.Input.Engine}
	if cfg.Input.Preflight {
		n, err := pdfsrc.Preflight(path)
		if err != nil {
			return nil, err
		}
		rep.PDFPages = n
		env.Logger.Debug("preflight ok", "pdf", path, "pages", n)
	}

	doc, err := pdfsrc.Open(path, pdfsrc.Engine(cfg.Input.Engine), pdfsrc.Options{
		RulesFromRects: cfg.Layout.RulesFromRects,
		HairlineWidth:  cfg.Layout.Tolerance,
		Logger:         env.Logger,
	})
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	res, err := stream.Build(ctx, doc, stream.BuildOptions{
		StartPage: cfg.Input.StartPage,
		EndPage:   cfg.Input.EndPage,
		Layout:    cfg.Layout,
		Classify:  cfg.Classify,
		Logger:    env.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build stream: %w", err)
	}

	if err := env.Home.EnsureExists(); err != nil {
		return nil, err
	}
	if err := stream.Save(res.Stream, env.Home.TextPath(), env.Home.MetadataPath()); err != nil {
		return nil, err
	}
	env.SetStream(res.Stream)

	rep.FirstPage = res.FirstPage
	rep.LastPage = res.LastPage
	rep.Summary = res.Stream.Metadata().Summary
	rep.Warnings = res.Warnings
	rep.TextFile = env.Home.TextPath()
	rep.MetaFile = env.Home.MetadataPath()
	return rep, nil
}
