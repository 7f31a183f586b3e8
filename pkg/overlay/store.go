package overlay

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/kimseungbin/skillkit/pkg/logger"
)

// Store serves overlays out of a project overlay directory, one
// `<skill>.yaml` file per skill. Overlays are loaded lazily on first use
// and cached; Watch hot-reloads them as the files change. Get hands out
// the cached overlay as-is: resolution copies values into an
// EffectiveConfig snapshot, so a reload never affects an in-flight
// dispatch.
type Store struct {
	dir string

	mu      sync.RWMutex
	cache   map[string]*Overlay
	watcher *fsnotify.Watcher
}

// NewStore creates an overlay store over dir. The directory does not need
// to exist; a missing directory simply yields no overlays.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]*Overlay),
	}
}

// Get returns the overlay for the named skill, or nil when the project
// defines none. Safe for concurrent use.
func (s *Store) Get(ctx context.Context, skillName string) (*Overlay, error) {
	s.mu.RLock()
	o, cached := s.cache[skillName]
	s.mu.RUnlock()
	if cached {
		return o, nil
	}

	path := filepath.Join(s.dir, skillName+".yaml")
	o, err := s.load(path, skillName)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.cache[skillName] = o
	s.mu.Unlock()

	logger.G(ctx).WithField("skill", skillName).Debug("loaded overlay")
	return o, nil
}

func (s *Store) load(path, skillName string) (*Overlay, error) {
	o, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	if o.SkillName != "" && o.SkillName != skillName {
		return nil, &ConfigError{
			Reason: InvalidDocument,
			Key:    "skill",
			Err:    errors.Errorf("overlay %s declares skill %q", path, o.SkillName),
		}
	}
	return o, nil
}

// Watch starts hot-reloading: overlay files changed on disk are evicted
// from the cache and picked up by the next Get. Watch returns once the
// watcher is installed; eviction runs until ctx is cancelled or Close is
// called.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create overlay watcher")
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "failed to watch overlay directory %s", s.dir)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go s.run(ctx, watcher)
	return nil
}

func (s *Store) run(ctx context.Context, watcher *fsnotify.Watcher) {
	log := logger.G(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			name := skillNameFromPath(event.Name)
			if name == "" {
				continue
			}
			s.mu.Lock()
			delete(s.cache, name)
			s.mu.Unlock()
			log.WithField("skill", name).Debug("overlay changed, cache evicted")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("overlay watcher error")
		}
	}
}

// Close stops the watcher, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher == nil {
		return nil
	}
	return watcher.Close()
}

func skillNameFromPath(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".yaml") {
		return ""
	}
	return strings.TrimSuffix(base, ".yaml")
}
