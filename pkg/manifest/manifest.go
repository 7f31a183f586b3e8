// Package manifest parses skill manifests: Markdown documents with a YAML
// frontmatter block declaring the skill's identity and constraints, followed
// by a free-text body of workflow instructions. The body is opaque to this
// package beyond being split into ordered steps; it is interpreted only by
// the consuming agent.
package manifest

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Skill lifecycle status values.
const (
	StatusSkeleton = "skeleton"
	StatusStable   = "stable"
)

// Manifest represents one parsed skill manifest.
type Manifest struct {
	Name           string            // Unique name from frontmatter
	Description    string            // Brief description for agent decision-making
	AllowedTools   []string          // Operation tokens the skill may invoke; empty means none
	Status         string            // Optional lifecycle tag ("skeleton", "stable")
	ProjectTypes   []string          // Optional project type hints
	Implementation string            // Optional implementation tag
	Options        map[string]Option // Declared option schema for overlay validation
	Extra          map[string]any    // Unknown frontmatter keys, preserved verbatim
	Body           string            // Document body, frontmatter stripped
	Directory      string            // Skill directory, set by the loader
}

// Option declares one configurable option of a skill: its expected type, its
// default value, and for enum options the permitted values.
type Option struct {
	Type    OptionType `yaml:"type" mapstructure:"type"`
	Default any        `yaml:"default,omitempty" mapstructure:"default"`
	Enum    []string   `yaml:"enum,omitempty" mapstructure:"enum"`
}

// OptionType is the declared type of a skill option.
type OptionType string

// Supported option types.
const (
	TypeString OptionType = "string"
	TypeBool   OptionType = "bool"
	TypeInt    OptionType = "int"
	TypeList   OptionType = "list"
	TypeEnum   OptionType = "enum"
)

func validOptionType(t OptionType) bool {
	switch t {
	case TypeString, TypeBool, TypeInt, TypeList, TypeEnum:
		return true
	}
	return false
}

// Ready reports whether the skill should be surfaced as ready for use.
// Skeleton skills register and resolve normally but are hidden from default
// listings.
func (m *Manifest) Ready() bool {
	return m.Status != StatusSkeleton
}

// Defaults returns the default option values declared by the manifest.
// Options without a default are omitted.
func (m *Manifest) Defaults() map[string]any {
	defaults := make(map[string]any, len(m.Options))
	for key, opt := range m.Options {
		if opt.Default != nil {
			defaults[key] = opt.Default
		}
	}
	return defaults
}

// Steps returns the ordered workflow steps of the body: one step per
// level-2 heading section. A body without level-2 headings is a single step.
// Steps are opaque instructions; this package does not interpret them.
func (m *Manifest) Steps() []string {
	var steps []string
	var current []string
	inStep := false

	for _, line := range strings.Split(m.Body, "\n") {
		if strings.HasPrefix(line, "## ") {
			if inStep {
				steps = append(steps, strings.TrimSpace(strings.Join(current, "\n")))
			}
			inStep = true
			current = []string{line}
			continue
		}
		if inStep {
			current = append(current, line)
		}
	}
	if inStep {
		steps = append(steps, strings.TrimSpace(strings.Join(current, "\n")))
	}

	if len(steps) == 0 {
		if body := strings.TrimSpace(m.Body); body != "" {
			steps = []string{body}
		}
	}
	return steps
}

// frontmatter mirrors Manifest for YAML output. Unknown keys are carried
// back out via the inline map.
type frontmatter struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	AllowedTools   []string          `yaml:"allowed-tools,omitempty"`
	Status         string            `yaml:"status,omitempty"`
	ProjectTypes   []string          `yaml:"project_types,omitempty"`
	Implementation string            `yaml:"implementation,omitempty"`
	Options        map[string]Option `yaml:"options,omitempty"`
	Extra          map[string]any    `yaml:",inline"`
}

// Serialize renders the manifest back into frontmatter + body form such
// that Parse(m.Serialize()) reproduces m.
func (m *Manifest) Serialize() ([]byte, error) {
	front := frontmatter{
		Name:           m.Name,
		Description:    m.Description,
		AllowedTools:   m.AllowedTools,
		Status:         m.Status,
		ProjectTypes:   m.ProjectTypes,
		Implementation: m.Implementation,
		Options:        m.Options,
		Extra:          m.Extra,
	}

	frontYAML, err := yaml.Marshal(&front)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(frontYAML)
	buf.WriteString("---\n")
	if m.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(m.Body)
	}
	return buf.Bytes(), nil
}
