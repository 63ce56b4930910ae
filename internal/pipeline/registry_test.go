package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// mockStage implements Stage for testing. Run appends its name to log.
type mockStage struct {
	name         string
	dependencies []string
	fail         bool
	log          *[]string
}

func newMockStage(name string, deps ...string) *mockStage {
	return &mockStage{name: name, dependencies: deps}
}

func (m *mockStage) Name() string           { return m.name }
func (m *mockStage) Dependencies() []string { return m.dependencies }
func (m *mockStage) Icon() string           { return "test-icon" }
func (m *mockStage) Description() string    { return "test stage" }

func (m *mockStage) Status(ctx context.Context, env *Env) (StageStatus, error) {
	return &ArtifactStatus{Complete: false}, nil
}

func (m *mockStage) Run(ctx context.Context, env *Env) (any, error) {
	if m.log != nil {
		*m.log = append(*m.log, m.name)
	}
	if m.fail {
		return nil, errors.New("boom")
	}
	return map[string]string{"stage": m.name}, nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	stage := newMockStage("test-stage")
	if err := r.Register(stage); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Duplicate registration should fail
	if err := r.Register(stage); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	stage := newMockStage("test-stage")
	r.Register(stage)

	got, ok := r.Get("test-stage")
	if !ok {
		t.Fatal("Get returned false for registered stage")
	}
	if got.Name() != "test-stage" {
		t.Errorf("got name %q, want %q", got.Name(), "test-stage")
	}

	_, ok = r.Get("nonexistent")
	if ok {
		t.Fatal("Get returned true for nonexistent stage")
	}
}

func TestRegistry_GetOrdered(t *testing.T) {
	tests := []struct {
		name      string
		stages    []struct{ name string; deps []string }
		wantOrder []string
		wantErr   bool
	}{
		{
			name: "no dependencies",
			stages: []struct{ name string; deps []string }{
				{"a", nil},
				{"b", nil},
				{"c", nil},
			},
			wantOrder: []string{"a", "b", "c"}, // Original order preserved
			wantErr:   false,
		},
		{
			name: "linear dependencies",
			stages: []struct{ name string; deps []string }{
				{"c", []string{"b"}},
				{"b", []string{"a"}},
				{"a", nil},
			},
			wantOrder: []string{"a", "b", "c"},
			wantErr:   false,
		},
		{
			name: "diamond dependencies",
			stages: []struct{ name string; deps []string }{
				{"d", []string{"b", "c"}},
				{"b", []string{"a"}},
				{"c", []string{"a"}},
				{"a", nil},
			},
			// a must come first, then b and c (either order), then d
			wantOrder: nil, // Just check length since b/c order is undefined
			wantErr:   false,
		},
		{
			name: "cycle detection",
			stages: []struct{ name string; deps []string }{
				{"a", []string{"b"}},
				{"b", []string{"a"}},
			},
			wantErr: true,
		},
		{
			name: "unknown dependency",
			stages: []struct{ name string; deps []string }{
				{"a", []string{"nonexistent"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for _, s := range tt.stages {
				r.Register(newMockStage(s.name, s.deps...))
			}

			ordered, err := r.GetOrdered()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantOrder != nil {
				if len(ordered) != len(tt.wantOrder) {
					t.Fatalf("got %d stages, want %d", len(ordered), len(tt.wantOrder))
				}
				for i, want := range tt.wantOrder {
					if ordered[i].Name() != want {
						t.Errorf("position %d: got %q, want %q", i, ordered[i].Name(), want)
					}
				}
			} else {
				// Just verify count for non-deterministic cases
				if len(ordered) != len(tt.stages) {
					t.Fatalf("got %d stages, want %d", len(ordered), len(tt.stages))
				}
			}
		})
	}
}

func TestRegistry_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := NewRegistry()
		r.Register(newMockStage("a"))
		r.Register(newMockStage("b", "a"))

		if err := r.Validate(); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})

	t.Run("unknown dependency", func(t *testing.T) {
		r := NewRegistry()
		r.Register(newMockStage("a", "missing"))

		if err := r.Validate(); err == nil {
			t.Fatal("expected error for unknown dependency")
		}
	})
}

func TestRegistry_DependentsOf(t *testing.T) {
	r := NewRegistry()
	r.Register(newMockStage("a"))
	r.Register(newMockStage("b", "a"))
	r.Register(newMockStage("c", "a"))
	r.Register(newMockStage("d", "b"))

	dependents := r.DependentsOf("a")
	if len(dependents) != 2 {
		t.Fatalf("got %d dependents, want 2", len(dependents))
	}

	names := make(map[string]bool)
	for _, s := range dependents {
		names[s.Name()] = true
	}
	if !names["b"] || !names["c"] {
		t.Errorf("expected b and c as dependents, got: %v", names)
	}
}

func TestRegistry_DependenciesOf(t *testing.T) {
	r := NewRegistry()
	r.Register(newMockStage("a"))
	r.Register(newMockStage("b"))
	r.Register(newMockStage("c", "a", "b"))

	deps := r.DependenciesOf("c")
	if len(deps) != 2 {
		t.Fatalf("got %d dependencies, want 2", len(deps))
	}

	names := make(map[string]bool)
	for _, s := range deps {
		names[s.Name()] = true
	}
	if !names["a"] || !names["b"] {
		t.Errorf("expected a and b as dependencies, got: %v", names)
	}

	// Non-existent stage
	deps = r.DependenciesOf("nonexistent")
	if deps != nil {
		t.Errorf("expected nil for nonexistent stage, got: %v", deps)
	}
}

func TestArtifactStatus(t *testing.T) {
	var status StageStatus = &ArtifactStatus{Complete: true, Artifacts: []string{"a.txt"}}
	if !status.IsComplete() {
		t.Error("expected IsComplete() to return true")
	}
	data, ok := status.Data().(*ArtifactStatus)
	if !ok || len(data.Artifacts) != 1 {
		t.Errorf("unexpected data: %v", status.Data())
	}
}

// lexsplitRegistry mirrors the real stage graph.
func lexsplitRegistry(log *[]string) *Registry {
	r := NewRegistry()
	for _, s := range []*mockStage{
		{name: "extract"},
		{name: "split", dependencies: []string{"extract"}},
		{name: "books", dependencies: []string{"extract"}},
		{name: "verify", dependencies: []string{"split", "books"}},
	} {
		s.log = log
		r.Register(s)
	}
	return r
}

func stageNames(stages []Stage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name()
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRegistry_Plan(t *testing.T) {
	r := lexsplitRegistry(nil)

	tests := []struct {
		targets []string
		want    []string
	}{
		{[]string{"extract"}, []string{"extract"}},
		{[]string{"split"}, []string{"extract", "split"}},
		{[]string{"verify"}, []string{"extract", "split", "books", "verify"}},
		{[]string{"books", "split"}, []string{"extract", "split", "books"}},
	}
	for _, tt := range tests {
		plan, err := r.Plan(tt.targets...)
		if err != nil {
			t.Fatalf("Plan(%v) failed: %v", tt.targets, err)
		}
		if got := stageNames(plan); !equalNames(got, tt.want) {
			t.Errorf("Plan(%v) = %v, want %v", tt.targets, got, tt.want)
		}
	}

	if _, err := r.Plan("nope"); !errors.Is(err, ErrStageNotFound) {
		t.Errorf("expected ErrStageNotFound, got %v", err)
	}
}

func TestRegistry_Downstream(t *testing.T) {
	r := lexsplitRegistry(nil)

	got, err := r.Downstream("split")
	if err != nil {
		t.Fatalf("Downstream failed: %v", err)
	}
	if names := stageNames(got); !equalNames(names, []string{"split", "verify"}) {
		t.Errorf("Downstream(split) = %v", names)
	}

	got, _ = r.Downstream("extract")
	if len(got) != 4 {
		t.Errorf("Downstream(extract) = %v", stageNames(got))
	}
}

func TestRun(t *testing.T) {
	var log []string
	r := lexsplitRegistry(&log)
	env := NewEnv(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ordered, err := r.GetOrdered()
	if err != nil {
		t.Fatal(err)
	}
	reports, err := Run(context.Background(), env, ordered)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(reports) != 4 || !equalNames(log, []string{"extract", "split", "books", "verify"}) {
		t.Errorf("reports=%d log=%v", len(reports), log)
	}

	t.Run("stops at first failure", func(t *testing.T) {
		var log []string
		stages := []Stage{
			&mockStage{name: "a", log: &log},
			&mockStage{name: "b", fail: true, log: &log},
			&mockStage{name: "c", log: &log},
		}
		reports, err := Run(context.Background(), env, stages)
		if err == nil {
			t.Fatal("expected error")
		}
		if len(reports) != 1 || !equalNames(log, []string{"a", "b"}) {
			t.Errorf("reports=%d log=%v", len(reports), log)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := Run(ctx, env, ordered); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
