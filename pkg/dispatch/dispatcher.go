// Package dispatch resolves a skill name plus invocation context into an
// authorized, ready-to-run workflow. The dispatcher is the policy
// enforcement point for skill allow-lists: it structures and authorizes
// operations but never performs I/O itself.
package dispatch

import (
	"context"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/kimseungbin/skillkit/pkg/logger"
	"github.com/kimseungbin/skillkit/pkg/manifest"
	"github.com/kimseungbin/skillkit/pkg/overlay"
	"github.com/kimseungbin/skillkit/pkg/registry"
)

// OverlaySource supplies the overlay for a skill, if the project defines
// one. overlay.Store implements it.
type OverlaySource interface {
	Get(ctx context.Context, skillName string) (*overlay.Overlay, error)
}

// InvocationContext carries per-invocation inputs. An explicit Overlay
// takes precedence over the dispatcher's overlay source.
type InvocationContext struct {
	Overlay *overlay.Overlay
	Session string
}

// Dispatcher turns skill names into workflow handles.
type Dispatcher struct {
	registry *registry.Registry
	resolver *overlay.Resolver
	overlays OverlaySource
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOverlaySource sets where project overlays come from.
func WithOverlaySource(source OverlaySource) Option {
	return func(d *Dispatcher) {
		d.overlays = source
	}
}

// WithResolver sets the overlay resolver, e.g. to enable strict key
// checking.
func WithResolver(resolver *overlay.Resolver) Option {
	return func(d *Dispatcher) {
		d.resolver = resolver
	}
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		resolver: overlay.NewResolver(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch resolves skillName into an Active workflow handle. A failure
// anywhere leaves the handle Aborted and affects only this invocation.
// Safe for concurrent use: dispatches share no mutable state beyond the
// read-only registry.
func (d *Dispatcher) Dispatch(ctx context.Context, skillName string, ic InvocationContext) (*WorkflowHandle, error) {
	m, ok := d.registry.Lookup(skillName)
	if !ok {
		return nil, &DispatchError{Reason: UnknownSkill, Skill: skillName}
	}

	h := newHandle(m)

	o, err := d.overlayFor(ctx, skillName, ic)
	if err != nil {
		h.Abort()
		return nil, &DispatchError{Reason: ConfigResolution, Skill: skillName, Err: err}
	}

	cfg, err := d.resolver.Resolve(m, o)
	if err != nil {
		h.Abort()
		return nil, &DispatchError{Reason: ConfigResolution, Skill: skillName, Err: err}
	}
	h.config = cfg
	if err := h.advance(StateConfigResolved); err != nil {
		h.Abort()
		return nil, errors.Wrap(err, "invocation state error")
	}

	if len(cfg.Unrecognized) > 0 {
		logger.G(ctx).WithField("skill", skillName).
			WithField("keys", cfg.Unrecognized).
			Warn("overlay contains keys the skill does not declare")
	}

	h.matchers = compileAllowlist(m)
	if err := h.advance(StateActive); err != nil {
		h.Abort()
		return nil, errors.Wrap(err, "invocation state error")
	}

	logger.G(ctx).WithField("skill", skillName).
		WithField("invocation", h.ID()).
		Debug("dispatched skill")
	return h, nil
}

func (d *Dispatcher) overlayFor(ctx context.Context, skillName string, ic InvocationContext) (*overlay.Overlay, error) {
	if ic.Overlay != nil {
		return ic.Overlay, nil
	}
	if d.overlays == nil {
		return nil, nil
	}
	return d.overlays.Get(ctx, skillName)
}

// compileAllowlist compiles the manifest's allow-list tokens. Tokens are
// glob patterns ("gh:*" style); the parser already rejected malformed
// ones, so compile failures here only drop the broken token.
func compileAllowlist(m *manifest.Manifest) []glob.Glob {
	matchers := make([]glob.Glob, 0, len(m.AllowedTools))
	for _, token := range m.AllowedTools {
		g, err := glob.Compile(token)
		if err != nil {
			continue
		}
		matchers = append(matchers, g)
	}
	return matchers
}
