package overlay

import (
	"fmt"
	"sort"

	"github.com/kimseungbin/skillkit/pkg/manifest"
)

// Resolver merges overlays over manifest defaults.
type Resolver struct {
	strict bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithStrictKeys makes undeclared overlay keys a resolution failure
// instead of a reported leftover.
func WithStrictKeys() ResolverOption {
	return func(r *Resolver) {
		r.strict = true
	}
}

// NewResolver creates a resolver. By default undeclared overlay keys are
// collected in EffectiveConfig.Unrecognized rather than rejected.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces the effective configuration for a skill: overlay values
// override manifest defaults for matching keys, unmatched defaults pass
// through unchanged. A nil overlay is the identity merge. Resolution is
// deterministic over its two inputs; no environment is consulted.
func (r *Resolver) Resolve(m *manifest.Manifest, o *Overlay) (*EffectiveConfig, error) {
	cfg := &EffectiveConfig{
		SkillName: m.Name,
		Values:    m.Defaults(),
	}
	if o == nil {
		return cfg, nil
	}

	keys := make([]string, 0, len(o.Options))
	for key := range o.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := o.Options[key]

		spec, declared := m.Options[key]
		if !declared {
			if r.strict {
				return nil, &ConfigError{Reason: UnknownKey, Key: key}
			}
			cfg.Unrecognized = append(cfg.Unrecognized, key)
			continue
		}

		if err := checkValue(key, spec, value); err != nil {
			return nil, err
		}
		cfg.Values[key] = value
	}

	return cfg, nil
}

// checkValue validates an overlay value against the declared option type.
func checkValue(key string, spec manifest.Option, value any) error {
	mismatch := func(expected string) error {
		return &ConfigError{
			Reason:   TypeMismatch,
			Key:      key,
			Expected: expected,
			Actual:   fmt.Sprintf("%T", value),
		}
	}

	switch spec.Type {
	case manifest.TypeString:
		if _, ok := value.(string); !ok {
			return mismatch("string")
		}
	case manifest.TypeBool:
		if _, ok := value.(bool); !ok {
			return mismatch("bool")
		}
	case manifest.TypeInt:
		switch value.(type) {
		case int, int64:
		default:
			return mismatch("int")
		}
	case manifest.TypeList:
		switch value.(type) {
		case []any, []string:
		default:
			return mismatch("list")
		}
	case manifest.TypeEnum:
		s, ok := value.(string)
		if !ok {
			return mismatch("string")
		}
		for _, allowed := range spec.Enum {
			if s == allowed {
				return nil
			}
		}
		return &ConfigError{
			Reason:   InvalidValue,
			Key:      key,
			Expected: fmt.Sprintf("one of %v", spec.Enum),
			Actual:   fmt.Sprintf("%q", s),
		}
	}
	return nil
}
