package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lexsplit/internal/config"
	"github.com/jackzampolin/lexsplit/internal/output"
	"github.com/jackzampolin/lexsplit/internal/svcctx"
)

var (
	configInitPath  string
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h := svcctx.HomeFrom(cmd.Context())
		path := configInitPath
		if path == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}
		if h.ConfigExists() && path == h.ConfigPath() && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		return output.Print(map[string]string{"written": path})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(svcctx.ConfigFrom(cmd.Context()).Get())
	},
}

// KeyValue is one config key and its effective value.
type KeyValue struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Default     any    `json:"default" yaml:"default"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one key, or every key with its default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := svcctx.ConfigFrom(cmd.Context())
		entries := config.DefaultEntries()
		if len(args) == 1 {
			e := config.GetDefault(args[0])
			if e == nil {
				return fmt.Errorf("%w: %s", config.ErrUnknownKey, args[0])
			}
			entries = []config.Entry{*e}
		}

		out := make([]KeyValue, 0, len(entries))
		for _, e := range entries {
			v, err := mgr.Value(e.Key)
			if err != nil {
				return err
			}
			out = append(out, KeyValue{Key: e.Key, Value: v, Default: e.Value, Description: e.Description})
		}
		return output.Print(out)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]
		var value any = raw
		if e := config.GetDefault(key); e != nil {
			if _, ok := e.Value.([]string); ok {
				value = splitList(raw)
			}
		}
		mgr := svcctx.ConfigFrom(cmd.Context())
		if err := mgr.Set(key, value); err != nil {
			return err
		}
		return saveConfig(cmd)
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore a key to its default and save the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svcctx.ConfigFrom(cmd.Context()).Reset(args[0]); err != nil {
			return err
		}
		return saveConfig(cmd)
	},
}

// saveConfig writes to the loaded config file, or the workspace config
// when none was loaded.
func saveConfig(cmd *cobra.Command) error {
	mgr := svcctx.ConfigFrom(cmd.Context())
	path := mgr.ConfigFileUsed()
	if path == "" {
		h := svcctx.HomeFrom(cmd.Context())
		if err := h.EnsureExists(); err != nil {
			return err
		}
		path = h.ConfigPath()
	}
	if err := mgr.Save(path); err != nil {
		return err
	}
	return output.Print(map[string]string{"saved": path})
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "where to write (default: workspace config.yaml)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config")

	configCmd.AddCommand(configInitCmd, configShowCmd, configGetCmd, configSetCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}
