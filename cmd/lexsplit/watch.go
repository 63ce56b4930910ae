package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/lexsplit/internal/config"
	"github.com/jackzampolin/lexsplit/internal/output"
	"github.com/jackzampolin/lexsplit/internal/pipeline"
	"github.com/jackzampolin/lexsplit/internal/svcctx"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-split whenever the extracted stream or the config changes",
	Long: `Watch reruns every stage downstream of extract when the extracted text or
metadata file is edited, or when the config file changes. Hand corrections to
extracted_text.txt are picked up without re-reading the PDF.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := svcctx.ServicesFrom(ctx)
		logger := svc.Logger

		down, err := svc.Registry.Downstream("extract")
		if err != nil {
			return err
		}
		plan := make([]pipeline.Stage, 0, len(down))
		for _, s := range down {
			if s.Name() != "extract" {
				plan = append(plan, s)
			}
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		// Editors replace files on save, so watch the directory.
		if err := svc.Home.EnsureExists(); err != nil {
			return err
		}
		dirs := map[string]bool{
			filepath.Dir(svc.Home.TextPath()):     true,
			filepath.Dir(svc.Home.MetadataPath()): true,
		}
		for d := range dirs {
			if err := watcher.Add(d); err != nil {
				return fmt.Errorf("failed to watch %s: %w", d, err)
			}
		}
		watched := map[string]bool{
			filepath.Clean(svc.Home.TextPath()):     true,
			filepath.Clean(svc.Home.MetadataPath()): true,
		}

		trigger := make(chan string, 1)
		notify := func(reason string) {
			select {
			case trigger <- reason:
			default:
			}
		}
		svc.Config.OnChange(func(*config.Config) { notify("config") })
		svc.Config.WatchConfig()

		rerun := func(reason string) {
			env := svcctx.Env(ctx)
			logger.Info("change detected, re-running", "reason", reason)
			reports, err := pipeline.Run(ctx, env, plan)
			if err != nil {
				logger.Error("re-run failed", "error", err)
			}
			if perr := output.Print(reports); perr != nil {
				logger.Error("failed to print report", "error", perr)
			}
		}

		logger.Info("watching for changes", "text", svc.Home.TextPath(), "metadata", svc.Home.MetadataPath())
		var timer *time.Timer
		var timerC <-chan time.Time
		pending := ""
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !watched[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				notify(filepath.Base(ev.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watch error", "error", err)
			case reason := <-trigger:
				pending = reason
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
				} else {
					timer.Reset(watchDebounce)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				rerun(pending)
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before re-running")
	rootCmd.AddCommand(watchCmd)
}
