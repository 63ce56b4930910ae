package stages

import (
	"github.com/jackzampolin/lexsplit/internal/pipeline"
)

// Set holds the stage instances so commands can tune them before running.
type Set struct {
	Extract *Extract
	Split   *Split
	Books   *Books
	Verify  *Verify
}

// NewRegistry registers every stage and validates the dependency graph.
func NewRegistry() (*pipeline.Registry, *Set, error) {
	set := &Set{
		Extract: NewExtract(),
		Split:   NewSplit(),
		Books:   NewBooks(),
		Verify:  NewVerify(),
	}
	r := pipeline.NewRegistry()
	for _, s := range []pipeline.Stage{set.Extract, set.Split, set.Books, set.Verify} {
		if err := r.Register(s); err != nil {
			return nil, nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	return r, set, nil
}
