package pipeline

import (
	"context"
)

// Stage is the interface that all pipeline stages must implement.
// Each stage reads its inputs from the workspace (or the Env cache) and
// writes its artifacts back to it.
type Stage interface {
	// Identity
	Name() string           // e.g., "extract", "split"
	Dependencies() []string // Stages that must complete first

	// Metadata
	Icon() string
	Description() string

	// Status inspects the workspace for this stage's artifacts.
	Status(ctx context.Context, env *Env) (StageStatus, error)

	// Run executes the stage and returns a report for display.
	Run(ctx context.Context, env *Env) (any, error)
}

// StageStatus is implemented by each stage's status type.
type StageStatus interface {
	// IsComplete returns whether the stage's artifacts are present.
	IsComplete() bool

	// Data returns stage-specific structured data.
	Data() any
}

// ArtifactStatus is a StageStatus backed by a list of artifact paths.
type ArtifactStatus struct {
	Complete  bool     `json:"complete" yaml:"complete"`
	Artifacts []string `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// IsComplete implements StageStatus.
func (s *ArtifactStatus) IsComplete() bool { return s.Complete }

// Data implements StageStatus.
func (s *ArtifactStatus) Data() any { return s }
