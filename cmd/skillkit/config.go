package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kimseungbin/skillkit/pkg/dispatch"
)

var configCmd = &cobra.Command{
	Use:   "config <skill>",
	Short: "Show a skill's effective configuration",
	Long:  `Show the effective configuration for a skill after merging the project overlay over the manifest defaults.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		config, err := getConfig()
		if err != nil {
			return err
		}

		result, err := buildRegistry(cmd.Context(), config)
		if err != nil {
			return err
		}

		dispatcher := buildDispatcher(result, config)
		h, err := dispatcher.Dispatch(cmd.Context(), name, dispatch.InvocationContext{})
		if err != nil {
			return err
		}
		defer h.Abort()

		cfg := h.Config()
		out.Section(fmt.Sprintf("Effective configuration: %s", name))
		if len(cfg.Values) == 0 {
			out.Info("(empty)")
		}

		keys := make([]string, 0, len(cfg.Values))
		for key := range cfg.Values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			out.Info(fmt.Sprintf("%s: %v", key, cfg.Values[key]))
		}

		if len(cfg.Unrecognized) > 0 {
			out.Warning(fmt.Sprintf("overlay keys not declared by the skill: %s",
				strings.Join(cfg.Unrecognized, ", ")))
		}
		return nil
	},
}
