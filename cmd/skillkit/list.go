package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered skills",
	Long:  `List registered skills with their status and directory. Skeleton skills are hidden unless --all is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all, _ := cmd.Flags().GetBool("all")

		config, err := getConfig()
		if err != nil {
			return err
		}

		result, err := buildRegistry(cmd.Context(), config)
		if err != nil {
			return err
		}

		manifests := result.Registry.List()
		if all {
			manifests = result.Registry.ListAll()
		}

		if len(manifests) == 0 {
			out.Info("No skills registered.")
		} else {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATUS\tDESCRIPTION\tDIRECTORY")
			for _, m := range manifests {
				status := m.Status
				if status == "" {
					status = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, status, m.Description, m.Directory)
			}
			w.Flush()
		}

		for _, err := range result.Failed() {
			out.Warning(err.Error())
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("all", false, "include skeleton skills")
}
