package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimseungbin/skillkit/pkg/manifest"
)

func translatorManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Name:        "translator",
		Description: "Translates documents",
		Options: map[string]manifest.Option{
			"style":     {Type: manifest.TypeEnum, Default: "formal", Enum: []string{"formal", "casual"}},
			"max_lines": {Type: manifest.TypeInt, Default: 200},
			"dry_run":   {Type: manifest.TypeBool},
			"glossary":  {Type: manifest.TypeList},
			"target":    {Type: manifest.TypeString, Default: "en"},
		},
	}
}

func TestResolveIdentityMerge(t *testing.T) {
	m := translatorManifest()
	resolver := NewResolver()

	cfg, err := resolver.Resolve(m, nil)
	require.NoError(t, err)

	assert.Equal(t, "translator", cfg.SkillName)
	assert.Equal(t, m.Defaults(), cfg.Values, "absent overlay yields manifest defaults unchanged")
	assert.Empty(t, cfg.Unrecognized)
}

func TestResolveOverrides(t *testing.T) {
	m := translatorManifest()
	resolver := NewResolver()

	o := &Overlay{
		SkillName: "translator",
		Options: map[string]any{
			"style":   "casual",
			"dry_run": true,
		},
	}

	cfg, err := resolver.Resolve(m, o)
	require.NoError(t, err)

	assert.Equal(t, "casual", cfg.GetString("style"), "overlay value wins")
	assert.True(t, cfg.GetBool("dry_run"))
	v, ok := cfg.Get("max_lines")
	require.True(t, ok, "unmatched defaults pass through")
	assert.Equal(t, 200, v)
	assert.Equal(t, "en", cfg.GetString("target"))
}

func TestResolveTypeMismatch(t *testing.T) {
	m := translatorManifest()
	resolver := NewResolver()

	cases := []struct {
		name     string
		options  map[string]any
		key      string
		expected string
	}{
		{"string for int", map[string]any{"max_lines": "many"}, "max_lines", "int"},
		{"int for bool", map[string]any{"dry_run": 1}, "dry_run", "bool"},
		{"scalar for list", map[string]any{"glossary": "word"}, "glossary", "list"},
		{"bool for string", map[string]any{"target": true}, "target", "string"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(m, &Overlay{Options: tc.options})
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, TypeMismatch, cfgErr.Reason)
			assert.Equal(t, tc.key, cfgErr.Key)
			assert.Equal(t, tc.expected, cfgErr.Expected)
			assert.NotEmpty(t, cfgErr.Actual)
		})
	}
}

func TestResolveEnumValue(t *testing.T) {
	m := translatorManifest()
	resolver := NewResolver()

	_, err := resolver.Resolve(m, &Overlay{Options: map[string]any{"style": "shouty"}})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, InvalidValue, cfgErr.Reason)
	assert.Equal(t, "style", cfgErr.Key)
}

func TestResolveUnknownKeys(t *testing.T) {
	m := translatorManifest()

	o := &Overlay{Options: map[string]any{
		"style":       "casual",
		"banner":      "hello",
		"retry_count": 3,
	}}

	t.Run("reported by default", func(t *testing.T) {
		cfg, err := NewResolver().Resolve(m, o)
		require.NoError(t, err)
		assert.Equal(t, []string{"banner", "retry_count"}, cfg.Unrecognized,
			"undeclared keys are reported, not silently dropped")
		assert.NotContains(t, cfg.Values, "banner")
	})

	t.Run("rejected in strict mode", func(t *testing.T) {
		_, err := NewResolver(WithStrictKeys()).Resolve(m, o)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, UnknownKey, cfgErr.Reason)
	})
}

func TestResolveDeterministic(t *testing.T) {
	m := translatorManifest()
	resolver := NewResolver()
	o := &Overlay{Options: map[string]any{"style": "casual", "zz": 1, "aa": 2}}

	first, err := resolver.Resolve(m, o)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := resolver.Resolve(m, o)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParseOverlay(t *testing.T) {
	content := `skill: translator
options:
  style: casual
dictionary:
  hello: annyeong
labels:
  - docs
`
	o, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "translator", o.SkillName)
	assert.Equal(t, "casual", o.Options["style"])
	assert.Contains(t, o.Extra, "dictionary", "skill-defined nested structure is preserved")
	assert.Contains(t, o.Extra, "labels")
}

func TestParseOverlayMalformed(t *testing.T) {
	_, err := Parse([]byte("options: [unclosed"))
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, InvalidDocument, cfgErr.Reason)
}
