package pipeline

import (
	"context"
	"fmt"
	"time"
)

// StageReport is the outcome of running one stage.
type StageReport struct {
	Stage    string        `json:"stage" yaml:"stage"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Report   any           `json:"report,omitempty" yaml:"report,omitempty"`
}

// Run executes stages in the given order, stopping at the first error.
// Reports of the stages that completed are returned alongside the error,
// plus the failing stage's report when it produced one.
func Run(ctx context.Context, env *Env, stages []Stage) ([]StageReport, error) {
	reports := make([]StageReport, 0, len(stages))
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		env.Logger.Info("running stage", "stage", s.Name())
		start := time.Now()
		rep, err := s.Run(ctx, env)
		elapsed := time.Since(start)
		if err != nil {
			env.Logger.Error("stage failed", "stage", s.Name(), "error", err)
			if rep != nil {
				reports = append(reports, StageReport{Stage: s.Name(), Duration: elapsed, Report: rep})
			}
			return reports, fmt.Errorf("stage %s failed: %w", s.Name(), err)
		}
		env.Logger.Info("stage complete", "stage", s.Name(), "duration", elapsed)
		reports = append(reports, StageReport{Stage: s.Name(), Duration: elapsed, Report: rep})
	}
	return reports, nil
}
