package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lexsplit/internal/output"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/svcctx"
)

var (
	extractPDF       string
	extractStartPage int
	extractEndPage   int
	extractEngine    string
	splitShow        []string
	verifyStrict     bool
	verifyRefs       []string
	runFrom          string
	runUntil         string
	runForce         bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the classified line stream from the PDF",
	Long: `Extract detects the column layout of each page, reads the left column
then the right, classifies every line, and writes the line stream and its
header metadata to the workspace.

Examples:
  lexsplit extract --pdf codigo_penal.pdf
  lexsplit extract --pdf codigo_civil.pdf --start-page 12 --end-page 40`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, map[string]string{
			"pdf":        "input.pdf",
			"start-page": "input.start_page",
			"end-page":   "input.end_page",
			"engine":     "input.engine",
		}); err != nil {
			return err
		}
		return runStage(cmd, svcctx.StagesFrom(cmd.Context()).Extract)
	},
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Write one file per article from the extracted stream",
	Long: `Split resolves article boundaries in the extracted stream and writes one
file per article. Headings above an article header travel with it; amendment
footnotes stay with the article they follow.

Examples:
  lexsplit split
  lexsplit split --show 1,60,15-A`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := svcctx.StagesFrom(cmd.Context()).Split
		s.Show = splitShow
		return runStage(cmd, s)
	},
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Write one reference file per LIBRO",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, svcctx.StagesFrom(cmd.Context()).Books)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the joined articles reproduce the reference text",
	Long: `Verify joins the article files in order and compares them with the
reference files, reporting character counts and the first difference.

Examples:
  lexsplit verify
  lexsplit verify --ref libro1.txt,libro2.txt --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("ref") {
			if err := svcctx.ConfigFrom(cmd.Context()).Set("verify.reference_files", verifyRefs); err != nil {
				return err
			}
		}
		v := svcctx.StagesFrom(cmd.Context()).Verify
		v.Strict = verifyStrict
		return runStage(cmd, v)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline in dependency order",
	Long: `Run executes every stage up to --until in dependency order. Stages whose
artifacts already exist are skipped unless --force is set or they are
downstream of --from.

Examples:
  lexsplit run --pdf codigo_penal.pdf
  lexsplit run --from split
  lexsplit run --until split --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, map[string]string{"pdf": "input.pdf"}); err != nil {
			return err
		}
		ctx := cmd.Context()
		reg := svcctx.RegistryFrom(ctx)
		env := svcctx.Env(ctx)

		plan, err := reg.Plan(runUntil)
		if err != nil {
			return err
		}
		rerun := make(map[string]bool)
		if runFrom != "" {
			down, err := reg.Downstream(runFrom)
			if err != nil {
				return err
			}
			for _, s := range down {
				rerun[s.Name()] = true
			}
		}

		todo := make([]pipeline.Stage, 0, len(plan))
		for _, s := range plan {
			if runForce || rerun[s.Name()] {
				todo = append(todo, s)
				continue
			}
			st, err := s.Status(ctx, env)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", s.Name(), err)
			}
			if st.IsComplete() {
				env.Logger.Info("skipping complete stage", "stage", s.Name())
				continue
			}
			todo = append(todo, s)
		}

		reports, err := pipeline.Run(ctx, env, todo)
		if perr := output.Print(reports); perr != nil {
			return perr
		}
		return err
	},
}

// StageInfo describes a registered stage for `lexsplit stages`.
type StageInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Icon         string   `json:"icon" yaml:"icon"`
	Description  string   `json:"description" yaml:"description"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Complete     bool     `json:"complete" yaml:"complete"`
	Artifacts    []string `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List pipeline stages and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env := svcctx.Env(ctx)
		ordered, err := svcctx.RegistryFrom(ctx).GetOrdered()
		if err != nil {
			return err
		}

		infos := make([]StageInfo, 0, len(ordered))
		for _, s := range ordered {
			info := StageInfo{
				Name:         s.Name(),
				Icon:         s.Icon(),
				Description:  s.Description(),
				Dependencies: s.Dependencies(),
			}
			st, err := s.Status(ctx, env)
			if err != nil {
				return err
			}
			info.Complete = st.IsComplete()
			if as, ok := st.Data().(*pipeline.ArtifactStatus); ok {
				info.Artifacts = as.Artifacts
			}
			infos = append(infos, info)
		}
		return output.Print(infos)
	},
}

// runStage runs one stage and prints its report.
func runStage(cmd *cobra.Command, s pipeline.Stage) error {
	ctx := cmd.Context()
	reports, err := pipeline.Run(ctx, svcctx.Env(ctx), []pipeline.Stage{s})
	if len(reports) > 0 {
		if perr := output.Print(reports[0].Report); perr != nil {
			return perr
		}
	}
	return err
}

// applyFlags copies changed flags onto their config keys.
func applyFlags(cmd *cobra.Command, keys map[string]string) error {
	mgr := svcctx.ConfigFrom(cmd.Context())
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := mgr.Set(key, f.Value.String()); err != nil {
			return fmt.Errorf("failed to apply --%s: %w", flag, err)
		}
	}
	return nil
}

func init() {
	extractCmd.Flags().StringVar(&extractPDF, "pdf", "", "input PDF (overrides input.pdf)")
	extractCmd.Flags().IntVar(&extractStartPage, "start-page", 8, "first page of the legal text, 1-based")
	extractCmd.Flags().IntVar(&extractEndPage, "end-page", 0, "last page to read, 0 for the end of the document")
	extractCmd.Flags().StringVar(&extractEngine, "engine", "tabula", "PDF engine: tabula or ledongthuc")

	splitCmd.Flags().StringSliceVar(&splitShow, "show", nil, "article numbers to excerpt after splitting")

	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "exit non-zero on mismatch")
	verifyCmd.Flags().StringSliceVar(&verifyRefs, "ref", nil, "reference files, joined in order (default: book files)")

	runCmd.Flags().StringVar(&extractPDF, "pdf", "", "input PDF (overrides input.pdf)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "rerun this stage and everything downstream of it")
	runCmd.Flags().StringVar(&runUntil, "until", "verify", "last stage to run")
	runCmd.Flags().BoolVar(&runForce, "force", false, "rerun complete stages")

	rootCmd.AddCommand(extractCmd, splitCmd, booksCmd, verifyCmd, runCmd, stagesCmd)
}
