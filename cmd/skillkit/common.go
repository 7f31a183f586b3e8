package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/kimseungbin/skillkit/pkg/dispatch"
	"github.com/kimseungbin/skillkit/pkg/overlay"
	"github.com/kimseungbin/skillkit/pkg/registry"
)

// cliConfig is the skillkit configuration, loaded via viper from config
// file, environment, and flags.
type cliConfig struct {
	SkillDirs         []string `mapstructure:"skill_dirs"`
	PluginDirs        []string `mapstructure:"plugin_dirs"`
	OverlayDir        string   `mapstructure:"overlay_dir"`
	StrictOverlayKeys bool     `mapstructure:"strict_overlay_keys"`
	LogLevel          string   `mapstructure:"log_level"`
	LogFormat         string   `mapstructure:"log_format"`
}

func getConfig() (cliConfig, error) {
	var config cliConfig
	if err := viper.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}
	return config, nil
}

// buildRegistry scans the configured skill directories into a frozen
// registry. Per-manifest failures are carried in the result, not fatal.
func buildRegistry(ctx context.Context, config cliConfig) (*registry.LoadResult, error) {
	var opts []registry.LoaderOption
	if len(config.SkillDirs) > 0 {
		opts = append(opts, registry.WithSkillDirs(config.SkillDirs...))
	}
	for _, root := range config.PluginDirs {
		opts = append(opts, registry.WithPluginRoot(root))
	}

	loader, err := registry.NewLoader(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create skill loader")
	}
	return loader.Load(ctx), nil
}

// buildDispatcher wires a dispatcher with the project overlay store.
func buildDispatcher(result *registry.LoadResult, config cliConfig) *dispatch.Dispatcher {
	var resolverOpts []overlay.ResolverOption
	if config.StrictOverlayKeys {
		resolverOpts = append(resolverOpts, overlay.WithStrictKeys())
	}

	return dispatch.NewDispatcher(
		result.Registry,
		dispatch.WithOverlaySource(overlay.NewStore(config.OverlayDir)),
		dispatch.WithResolver(overlay.NewResolver(resolverOpts...)),
	)
}
