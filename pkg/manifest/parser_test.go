package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `---
name: translator
description: Translates documents between languages
allowed-tools:
  - Read
  - Glob
status: stable
project_types:
  - docs
implementation: prompt
options:
  style:
    type: enum
    default: formal
    enum:
      - formal
      - casual
  max_lines:
    type: int
    default: 200
---

# Translator

## Gather context

Read the source document.

## Translate

Produce the translation in the configured style.
`

	m, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "translator", m.Name)
	assert.Equal(t, "Translates documents between languages", m.Description)
	assert.Equal(t, []string{"Read", "Glob"}, m.AllowedTools)
	assert.Equal(t, StatusStable, m.Status)
	assert.Equal(t, []string{"docs"}, m.ProjectTypes)
	assert.Equal(t, "prompt", m.Implementation)
	assert.Contains(t, m.Body, "# Translator")
	assert.Empty(t, m.Extra)

	require.Contains(t, m.Options, "style")
	assert.Equal(t, TypeEnum, m.Options["style"].Type)
	assert.Equal(t, "formal", m.Options["style"].Default)
	assert.Equal(t, []string{"formal", "casual"}, m.Options["style"].Enum)
	require.Contains(t, m.Options, "max_lines")
	assert.Equal(t, TypeInt, m.Options["max_lines"].Type)
}

func TestParseMissingFrontmatter(t *testing.T) {
	_, err := Parse([]byte("# Just a document\n\nNo frontmatter here.\n"))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, MissingFrontmatter, parseErr.Reason)
}

func TestParseMissingRequiredFields(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		content := `---
description: A skill without a name
---

Body.
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, MissingRequiredField, parseErr.Reason)
		assert.Equal(t, "name", parseErr.Field)
	})

	t.Run("missing description", func(t *testing.T) {
		content := `---
name: nameless
---

Body.
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, MissingRequiredField, parseErr.Reason)
		assert.Equal(t, "description", parseErr.Field)
	})

	t.Run("empty name", func(t *testing.T) {
		content := `---
name: ""
description: Empty name counts as missing
---
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, MissingRequiredField, parseErr.Reason)
		assert.Equal(t, "name", parseErr.Field)
	})
}

func TestParseDefaults(t *testing.T) {
	content := `---
name: minimal
description: The smallest valid manifest
---

Do the thing.
`
	m, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.Empty(t, m.AllowedTools, "allowed-tools defaults to the empty set")
	assert.Empty(t, m.Status)
	assert.Empty(t, m.Options)
}

func TestParseBareListKeys(t *testing.T) {
	content := `---
name: bare
description: Bare list keys mean empty
allowed-tools:
options:
---
`
	m, err := Parse([]byte(content))
	require.NoError(t, err)
	assert.Empty(t, m.AllowedTools)
	assert.Empty(t, m.Options)
}

func TestParseUnknownKeysPreserved(t *testing.T) {
	content := `---
name: forward-compat
description: Carries keys this version does not understand
x-vendor: acme
priority: 3
labels:
  - docs
  - ci
---

Body.
`
	m, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "acme", m.Extra["x-vendor"])
	assert.Equal(t, 3, m.Extra["priority"])
	assert.Equal(t, []any{"docs", "ci"}, m.Extra["labels"])
	assert.NotContains(t, m.Extra, "name")
	assert.NotContains(t, m.Extra, "description")
}

func TestParseInvalidFields(t *testing.T) {
	t.Run("allowed-tools not a list", func(t *testing.T) {
		content := `---
name: broken
description: allowed-tools must be a list
allowed-tools: Read
---
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, InvalidField, parseErr.Reason)
		assert.Equal(t, "allowed-tools", parseErr.Field)
	})

	t.Run("bad glob pattern", func(t *testing.T) {
		content := `---
name: broken
description: unbalanced bracket in a tool pattern
allowed-tools:
  - "gh:["
---
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, InvalidField, parseErr.Reason)
		assert.Equal(t, "allowed-tools", parseErr.Field)
	})

	t.Run("unsupported option type", func(t *testing.T) {
		content := `---
name: broken
description: option declares a type we do not know
options:
  depth:
    type: float
---
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, InvalidField, parseErr.Reason)
		assert.Equal(t, "options", parseErr.Field)
	})

	t.Run("enum without values", func(t *testing.T) {
		content := `---
name: broken
description: enum option must list its values
options:
  style:
    type: enum
---
`
		_, err := Parse([]byte(content))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, InvalidField, parseErr.Reason)
	})
}

func TestParseIsPure(t *testing.T) {
	content := []byte(`---
name: pure
description: Parsing twice yields the same result
---

Body.
`)
	first, err := Parse(content)
	require.NoError(t, err)
	second, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
