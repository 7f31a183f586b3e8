package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show a skill's manifest",
	Long:  `Show a skill's metadata, allow-listed tools, declared options, and workflow steps.`,
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

		m, ok := result.Registry.Lookup(name)
		if !ok {
			return errors.Errorf("skill %q not found", name)
		}

		out.Section(m.Name)
		out.Info(m.Description)
		out.Info("")
		if m.Status != "" {
			out.Info(fmt.Sprintf("Status: %s", m.Status))
		}
		if m.Directory != "" {
			out.Info(fmt.Sprintf("Directory: %s", m.Directory))
		}
		if len(m.AllowedTools) > 0 {
			out.Info(fmt.Sprintf("Allowed tools: %s", strings.Join(m.AllowedTools, ", ")))
		} else {
			out.Info("Allowed tools: none (no side effects permitted)")
		}
		if len(m.Options) > 0 {
			out.Info("")
			out.Section("Options")
			for key, opt := range m.Options {
				line := fmt.Sprintf("%s (%s)", key, opt.Type)
				if opt.Default != nil {
					line += fmt.Sprintf(", default %v", opt.Default)
				}
				if len(opt.Enum) > 0 {
					line += fmt.Sprintf(", one of %v", opt.Enum)
				}
				out.Info(line)
			}
		}

		steps := m.Steps()
		if len(steps) > 0 {
			out.Info("")
			out.Section("Workflow")
			for i, step := range steps {
				out.Info(fmt.Sprintf("%d. %s", i+1, firstLine(step)))
			}
		}
		return nil
	},
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
