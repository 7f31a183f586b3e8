package overlay

import "fmt"

// ConfigReason classifies overlay resolution failures.
type ConfigReason string

// Overlay failure reasons.
const (
	InvalidDocument ConfigReason = "invalid_document"
	TypeMismatch    ConfigReason = "type_mismatch"
	UnknownKey      ConfigReason = "unknown_key"
	InvalidValue    ConfigReason = "invalid_value"
)

// ConfigError reports a malformed or mismatched overlay.
type ConfigError struct {
	Reason   ConfigReason
	Key      string
	Expected string
	Actual   string
	Err      error
}

func (e *ConfigError) Error() string {
	switch e.Reason {
	case InvalidDocument:
		if e.Err != nil {
			return fmt.Sprintf("malformed overlay document: %s", e.Err)
		}
		return "malformed overlay document"
	case TypeMismatch:
		return fmt.Sprintf("overlay key %q expects %s, got %s", e.Key, e.Expected, e.Actual)
	case UnknownKey:
		return fmt.Sprintf("overlay key %q is not declared by the skill", e.Key)
	case InvalidValue:
		return fmt.Sprintf("overlay key %q has invalid value: expected %s, got %s", e.Key, e.Expected, e.Actual)
	}
	return fmt.Sprintf("overlay config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
