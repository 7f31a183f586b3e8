// Package overlay loads project-level configuration overlays and merges
// them over skill manifest defaults. Overlays customize a skill's behavior
// per project without touching the manifest itself.
package overlay

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Overlay is the project-level configuration for one skill.
type Overlay struct {
	SkillName string         `yaml:"skill,omitempty"`
	Options   map[string]any `yaml:"options,omitempty"`
	Extra     map[string]any `yaml:",inline"`
}

// Load reads and parses an overlay file.
func Load(path string) (*Overlay, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read overlay file")
	}
	return Parse(content)
}

// Parse parses an overlay document.
func Parse(content []byte) (*Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(content, &o); err != nil {
		return nil, &ConfigError{Reason: InvalidDocument, Err: err}
	}
	return &o, nil
}

// EffectiveConfig is the merged view of manifest defaults and overlay
// values for one skill. It is an immutable snapshot: a later overlay
// reload never changes an EffectiveConfig already handed out.
type EffectiveConfig struct {
	SkillName    string
	Values       map[string]any
	Unrecognized []string // overlay keys the manifest does not declare
}

// Get returns the effective value for key.
func (c *EffectiveConfig) Get(key string) (any, bool) {
	v, ok := c.Values[key]
	return v, ok
}

// GetString returns the effective string value for key, or empty when the
// key is absent or not a string.
func (c *EffectiveConfig) GetString(key string) string {
	if v, ok := c.Values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetBool returns the effective bool value for key.
func (c *EffectiveConfig) GetBool(key string) bool {
	if v, ok := c.Values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
