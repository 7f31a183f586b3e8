// Command skillkit loads skill manifests, resolves project overlays, and
// dispatches skills for a consuming agent.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kimseungbin/skillkit/pkg/logger"
	"github.com/kimseungbin/skillkit/pkg/presenter"
)

var out = presenter.New()

func init() {
	viper.SetEnvPrefix("SKILLKIT")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillkit")
	viper.AddConfigPath("./.skillkit")

	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "fmt")
	viper.SetDefault("overlay_dir", "./.skillkit/config")

	// Config file is optional
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillkit",
	Short: "Skill manifest registry and dispatcher",
	Long: `skillkit scans directories of skill manifests (SKILL.md files with YAML
frontmatter), validates them, merges project-level configuration overlays,
and resolves skills into authorized workflows with enforced tool allow-lists.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	ctx := context.Background()

	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (fmt, json)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
