package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir...]",
	Short: "Validate skill manifests",
	Long: `Parse every skill manifest under the given directories (or the configured
skill directories) and report all failures. Exits nonzero when any manifest
is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := getConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			config.SkillDirs = args
			config.PluginDirs = nil
		}

		result, err := buildRegistry(cmd.Context(), config)
		if err != nil {
			return err
		}

		for _, loadErr := range result.Failed() {
			out.Error(loadErr, "invalid manifest")
		}

		count := result.Registry.Len()
		if failed := len(result.Failed()); failed > 0 {
			return errors.Errorf("%d of %d manifests failed validation", failed, count+failed)
		}

		out.Success(fmt.Sprintf("%d manifests valid", count))
		return nil
	},
}
