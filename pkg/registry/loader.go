package registry

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/kimseungbin/skillkit/pkg/logger"
	"github.com/kimseungbin/skillkit/pkg/manifest"
)

// ManifestFileName is the conventional manifest file inside each skill
// directory.
const ManifestFileName = "SKILL.md"

// Loader scans configured directories for skill manifests. Each immediate
// subdirectory holding a SKILL.md is one skill. Plugin roots contribute
// skills under an org/repo name prefix.
type Loader struct {
	skillDirs  []string
	pluginDirs []pluginDir
}

type pluginDir struct {
	dir    string
	prefix string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithSkillDirs sets the skill directories to scan.
func WithSkillDirs(dirs ...string) LoaderOption {
	return func(l *Loader) error {
		l.skillDirs = dirs
		return nil
	}
}

// WithPluginRoot adds a plugin root. Every nested directory under it that
// contains a skills/ directory contributes those skills, named with the
// plugin's relative path as prefix (e.g. "org/repo/fmt").
func WithPluginRoot(root string) LoaderOption {
	return func(l *Loader) error {
		l.addPluginDirs(root)
		return nil
	}
}

// WithDefaultDirs uses the conventional locations: repo-local
// .skillkit/skills and plugins, then the user-global equivalents.
func WithDefaultDirs() LoaderOption {
	return func(l *Loader) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		l.skillDirs = []string{
			"./.skillkit/skills", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillkit", "skills"),
		}
		l.addPluginDirs("./.skillkit/plugins")
		l.addPluginDirs(filepath.Join(homeDir, ".skillkit", "plugins"))
		return nil
	}
}

func (l *Loader) addPluginDirs(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}

		skillsDir := filepath.Join(path, "skills")
		if _, err := os.Stat(skillsDir); err != nil {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		l.pluginDirs = append(l.pluginDirs, pluginDir{
			dir:    skillsDir,
			prefix: filepath.ToSlash(relPath) + "/",
		})
		return filepath.SkipDir
	})
}

// NewLoader creates a loader. With no options the default directories are
// used.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	l := &Loader{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, err
		}
		return l, nil
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// LoadResult is the outcome of a scan: the (possibly partial) registry
// plus every per-manifest failure. One bad manifest never aborts the
// loading of the rest; the caller decides whether partial is acceptable.
type LoadResult struct {
	Registry *Registry
	Failures *multierror.Error
}

// Failed returns the individual load failures.
func (r *LoadResult) Failed() []error {
	if r.Failures == nil {
		return nil
	}
	return r.Failures.Errors
}

// Load scans the configured directories, registers every valid manifest,
// and freezes the registry. Loading is single-threaded by contract; the
// returned registry is safe for concurrent reads.
func (l *Loader) Load(ctx context.Context) *LoadResult {
	result := &LoadResult{Registry: New()}

	for _, dir := range l.skillDirs {
		l.loadDir(ctx, dir, "", result)
	}
	for _, plugin := range l.pluginDirs {
		l.loadDir(ctx, plugin.dir, plugin.prefix, result)
	}

	result.Registry.Freeze()
	return result
}

func (l *Loader) loadDir(ctx context.Context, dir, prefix string, result *LoadResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	log := logger.G(ctx)
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// Stat follows symlinked skill directories.
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		manifestPath := filepath.Join(entryPath, ManifestFileName)
		content, err := os.ReadFile(manifestPath)
		if err != nil {
			continue
		}

		m, err := manifest.Parse(content)
		if err != nil {
			result.Failures = multierror.Append(result.Failures, errors.Wrapf(err, "failed to load %s", manifestPath))
			continue
		}

		m.Name = prefix + m.Name
		m.Directory = entryPath

		if err := result.Registry.Register(m); err != nil {
			result.Failures = multierror.Append(result.Failures, errors.Wrapf(err, "failed to register %s", manifestPath))
			continue
		}
		log.WithField("skill", m.Name).Debug("registered skill")
	}
}
