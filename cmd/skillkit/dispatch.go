package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kimseungbin/skillkit/pkg/dispatch"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <skill>",
	Short: "Dispatch a skill into an authorized workflow",
	Long: `Resolve a skill into a ready-to-run workflow: print its ordered steps,
allow-listed tools, and effective configuration. Each --op is checked
against the allow-list the way a consuming agent's operations would be.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		ops, _ := cmd.Flags().GetStringArray("op")

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

		out.Section(fmt.Sprintf("Workflow: %s (%s)", name, h.ID()))
		if allowed := h.AllowedTools(); len(allowed) > 0 {
			out.Info(fmt.Sprintf("Allowed tools: %s", strings.Join(allowed, ", ")))
		} else {
			out.Info("Allowed tools: none")
		}
		out.Info("")
		for i, step := range h.Steps() {
			out.Info(fmt.Sprintf("Step %d:", i+1))
			out.Info(step)
			out.Info("")
		}

		denied := 0
		for _, op := range ops {
			if err := h.Authorize(op); err != nil {
				out.Error(err, "operation rejected")
				denied++
				continue
			}
			out.Success(fmt.Sprintf("operation %q allowed", op))
		}

		if denied > 0 {
			h.Abort()
			return fmt.Errorf("%d of %d operations rejected", denied, len(ops))
		}
		return h.Complete()
	},
}

func init() {
	dispatchCmd.Flags().StringArray("op", nil, "operation to check against the allow-list (repeatable)")
}
