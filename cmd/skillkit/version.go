package main

import (
	"github.com/spf13/cobra"

	"github.com/kimseungbin/skillkit/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		info := version.Get()

		if jsonOutput {
			s, err := info.JSON()
			if err != nil {
				return err
			}
			out.Info(s)
			return nil
		}
		out.Info(info.String())
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "output version information as JSON")
}
