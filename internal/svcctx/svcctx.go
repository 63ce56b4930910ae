// Package svcctx provides service context for dependency injection via context.
// Commands receive the services set up by the root command through it.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/lexsplit/internal/config"
	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/pipeline/stages"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Config   *config.Manager
	Logger   *slog.Logger
	Home     *home.Dir
	Registry *pipeline.Registry
	Stages   *stages.Set
	RunID    string
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the workspace directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// RegistryFrom extracts the stage registry from context.
func RegistryFrom(ctx context.Context) *pipeline.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// StagesFrom extracts the stage instances from context.
func StagesFrom(ctx context.Context) *stages.Set {
	if s := ServicesFrom(ctx); s != nil {
		return s.Stages
	}
	return nil
}

// Env builds a stage environment from the services in ctx.
func Env(ctx context.Context) *pipeline.Env {
	s := ServicesFrom(ctx)
	if s == nil {
		return nil
	}
	return pipeline.NewEnv(s.Config.Get(), s.Home, s.Logger)
}
