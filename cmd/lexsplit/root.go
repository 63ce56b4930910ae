package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/lexsplit/internal/config"
	"github.com/jackzampolin/lexsplit/internal/home"
	"github.com/jackzampolin/lexsplit/internal/output"
	"github.com/jackzampolin/lexsplit/internal/pipeline/stages"
	"github.com/jackzampolin/lexsplit/internal/svcctx"
	"github.com/jackzampolin/lexsplit/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "lexsplit",
	Short: "Split two-column legal code PDFs into one file per article",
	Long: `Lexsplit turns a two-column legal code PDF into one text file per article.

The pipeline:
  - extract: detect the column layout of each page and extract a classified line stream
  - split:   resolve article boundaries and write one file per article
  - books:   split the stream at LIBRO headings into reference files
  - verify:  check that the joined articles reproduce the reference text`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		output.SetFormat(outputFormat)
		if cmd.Annotations["services"] == "none" {
			return nil
		}
		return setupServices(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.lexsplit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "workspace directory for artifacts (default: output.dir from config)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// setupServices loads config, creates the logger and workspace, and
// attaches them to the command context.
func setupServices(cmd *cobra.Command) error {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})).With("run_id", runID)

	cfg := mgr.Get()
	dir := homeDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	h, err := home.NewWithLayout(dir, cfg.Output.Files)
	if err != nil {
		return err
	}

	reg, set, err := stages.NewRegistry()
	if err != nil {
		return err
	}

	if used := mgr.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", "file", used)
	}

	cmd.SetContext(svcctx.WithServices(cmd.Context(), &svcctx.Services{
		Config:   mgr,
		Logger:   logger,
		Home:     h,
		Registry: reg,
		Stages:   set,
		RunID:    runID,
	}))
	return nil
}
