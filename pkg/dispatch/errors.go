package dispatch

import "fmt"

// DispatchReason classifies dispatch failures.
type DispatchReason string

// Dispatch failure reasons.
const (
	UnknownSkill        DispatchReason = "unknown_skill"
	ConfigResolution    DispatchReason = "config_resolution"
	OperationNotAllowed DispatchReason = "operation_not_allowed"
	InvocationClosed    DispatchReason = "invocation_closed"
)

// DispatchError reports a failed dispatch or a rejected operation.
type DispatchError struct {
	Reason    DispatchReason
	Skill     string
	Operation string
	Err       error
}

func (e *DispatchError) Error() string {
	switch e.Reason {
	case UnknownSkill:
		return fmt.Sprintf("unknown skill %q", e.Skill)
	case ConfigResolution:
		return fmt.Sprintf("failed to resolve configuration for skill %q: %s", e.Skill, e.Err)
	case OperationNotAllowed:
		return fmt.Sprintf("operation %q is not allowed by skill %q", e.Operation, e.Skill)
	case InvocationClosed:
		return fmt.Sprintf("invocation of skill %q is no longer active", e.Skill)
	}
	return fmt.Sprintf("dispatch error: %s", e.Reason)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
