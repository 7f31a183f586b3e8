package dispatch

import (
	"sync"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kimseungbin/skillkit/pkg/manifest"
	"github.com/kimseungbin/skillkit/pkg/overlay"
)

// State is the lifecycle state of one invocation.
type State string

// Invocation states. Every invocation moves Created -> ConfigResolved ->
// Active and ends in exactly one of Completed or Aborted; no transition
// may be skipped.
const (
	StateCreated        State = "created"
	StateConfigResolved State = "config_resolved"
	StateActive         State = "active"
	StateCompleted      State = "completed"
	StateAborted        State = "aborted"
)

var transitions = map[State][]State{
	StateCreated:        {StateConfigResolved, StateAborted},
	StateConfigResolved: {StateActive, StateAborted},
	StateActive:         {StateCompleted, StateAborted},
}

// WorkflowHandle is one authorized, ready-to-run invocation of a skill.
// It exposes the ordered workflow steps, the allow-listed operation set,
// and the effective configuration snapshot taken at ConfigResolved. A
// handle is exclusively owned by the invocation that created it; the
// internal lock only guards against misuse, not shared ownership.
type WorkflowHandle struct {
	id       string
	skill    *manifest.Manifest
	config   *overlay.EffectiveConfig
	steps    []string
	matchers []glob.Glob

	mu    sync.Mutex
	state State
}

func newHandle(m *manifest.Manifest) *WorkflowHandle {
	return &WorkflowHandle{
		id:    uuid.New().String(),
		skill: m,
		steps: m.Steps(),
		state: StateCreated,
	}
}

// ID returns the unique invocation identifier.
func (h *WorkflowHandle) ID() string {
	return h.id
}

// Skill returns the manifest this invocation runs.
func (h *WorkflowHandle) Skill() *manifest.Manifest {
	return h.skill
}

// Config returns the effective configuration snapshot. Overlay reloads
// after dispatch never change it.
func (h *WorkflowHandle) Config() *overlay.EffectiveConfig {
	return h.config
}

// Steps returns the ordered workflow steps. They are opaque instructions
// for the consuming agent; the dispatcher does not interpret them.
func (h *WorkflowHandle) Steps() []string {
	return h.steps
}

// AllowedTools returns the allow-listed operation tokens.
func (h *WorkflowHandle) AllowedTools() []string {
	return h.skill.AllowedTools
}

// State returns the current lifecycle state.
func (h *WorkflowHandle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *WorkflowHandle) advance(to State) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, legal := range transitions[h.state] {
		if legal == to {
			h.state = to
			return nil
		}
	}
	return errors.Errorf("illegal transition %s -> %s", h.state, to)
}

// Authorize checks one operation against the skill's allow-list. It is
// the policy enforcement point: an operation outside the allow-list is
// rejected and must not be performed by the caller. Only an Active
// invocation may attempt operations. Authorize never performs the
// operation itself; the core authorizes I/O, it does not do it.
func (h *WorkflowHandle) Authorize(op string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateActive {
		return &DispatchError{Reason: InvocationClosed, Skill: h.skill.Name, Operation: op}
	}

	for _, matcher := range h.matchers {
		if matcher.Match(op) {
			return nil
		}
	}
	return &DispatchError{Reason: OperationNotAllowed, Skill: h.skill.Name, Operation: op}
}

// Complete marks the invocation finished. Only the consuming agent knows
// when the workflow is done, so only it calls Complete.
func (h *WorkflowHandle) Complete() error {
	return h.advance(StateCompleted)
}

// Abort terminates the invocation. Aborting affects only this
// invocation; the registry and other in-flight invocations are
// untouched.
func (h *WorkflowHandle) Abort() error {
	return h.advance(StateAborted)
}
